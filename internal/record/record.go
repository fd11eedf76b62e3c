// Package record decodes the fixed binary layout the detector writes into
// shared memory.
//
// Layout (packed, host byte order, 244 bytes):
//
//	offset  size  field
//	0       4     count      int32
//	4       24    det[0]     {class_id int32, confidence float32, x, y, w, h int32}
//	...
//	220     24    det[9]
//
// The layout carries no version or checksum. A producer built with a
// different struct layout will silently corrupt every field.
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/pkg/types"
)

// ByteOrder is the byte order of the shared record. The producer writes
// native C ints and floats on the same host.
var ByteOrder binary.ByteOrder = binary.NativeEndian

var (
	// ErrShortBuffer is returned when fewer than types.RecordSize bytes are given.
	ErrShortBuffer = errors.New("record: buffer shorter than shared record")
	// ErrCountOutOfRange is returned when count is outside 0..MaxBoxes.
	ErrCountOutOfRange = errors.New("record: detection count out of range")
)

// Decode copies a SharedRecord out of b. Bytes past types.RecordSize are
// ignored. The returned record does not alias b.
func Decode(b []byte) (types.SharedRecord, error) {
	var rec types.SharedRecord
	if len(b) < types.RecordSize {
		return rec, fmt.Errorf("%w: got %d bytes, need %d", ErrShortBuffer, len(b), types.RecordSize)
	}

	if err := binary.Read(bytes.NewReader(b[:types.RecordSize]), ByteOrder, &rec); err != nil {
		return types.SharedRecord{}, fmt.Errorf("record: decode: %w", err)
	}

	if rec.Count < 0 || rec.Count > types.MaxBoxes {
		return types.SharedRecord{}, fmt.Errorf("%w: count=%d (max %d)", ErrCountOutOfRange, rec.Count, types.MaxBoxes)
	}

	return rec, nil
}

// Encode returns the producer-side byte image of rec.
func Encode(rec types.SharedRecord) ([]byte, error) {
	if rec.Count < 0 || rec.Count > types.MaxBoxes {
		return nil, fmt.Errorf("%w: count=%d (max %d)", ErrCountOutOfRange, rec.Count, types.MaxBoxes)
	}

	var buf bytes.Buffer
	buf.Grow(types.RecordSize)
	if err := binary.Write(&buf, ByteOrder, &rec); err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// FromDetections builds a record holding dets. Unused slots stay zeroed,
// matching the producer's memset before writing.
func FromDetections(dets []types.Detection) (types.SharedRecord, error) {
	var rec types.SharedRecord
	if len(dets) > types.MaxBoxes {
		return rec, fmt.Errorf("%w: %d detections (max %d)", ErrCountOutOfRange, len(dets), types.MaxBoxes)
	}
	rec.Count = int32(len(dets))
	copy(rec.Detections[:], dets)
	return rec, nil
}
