package record

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/pkg/types"
)

// rawRecord lays out a record by hand, independent of Encode.
func rawRecord(count int32, dets ...types.Detection) []byte {
	b := make([]byte, types.RecordSize)
	ByteOrder.PutUint32(b[0:], uint32(count))
	for i, d := range dets {
		off := 4 + i*types.DetectionSize
		ByteOrder.PutUint32(b[off:], uint32(d.ClassID))
		ByteOrder.PutUint32(b[off+4:], math.Float32bits(d.Confidence))
		ByteOrder.PutUint32(b[off+8:], uint32(d.X))
		ByteOrder.PutUint32(b[off+12:], uint32(d.Y))
		ByteOrder.PutUint32(b[off+16:], uint32(d.W))
		ByteOrder.PutUint32(b[off+20:], uint32(d.H))
	}
	return b
}

func TestLayoutSize(t *testing.T) {
	assert.Equal(t, 244, types.RecordSize)
	assert.Equal(t, types.RecordSize, binary.Size(types.SharedRecord{}))
	assert.Equal(t, types.DetectionSize, binary.Size(types.Detection{}))
}

func TestDecodeLiteralValues(t *testing.T) {
	want := types.Detection{ClassID: 0, Confidence: 0.87, X: 10, Y: 20, W: 30, H: 40}

	rec, err := Decode(rawRecord(1, want))
	require.NoError(t, err)

	assert.Equal(t, int32(1), rec.Count)
	require.Len(t, rec.Valid(), 1)
	got := rec.Valid()[0]
	assert.Equal(t, want.ClassID, got.ClassID)
	assert.Equal(t, float32(0.87), got.Confidence)
	assert.Equal(t, int32(10), got.X)
	assert.Equal(t, int32(20), got.Y)
	assert.Equal(t, int32(30), got.W)
	assert.Equal(t, int32(40), got.H)
}

func TestDecodeCountBounds(t *testing.T) {
	tests := []struct {
		name    string
		count   int32
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"full", types.MaxBoxes, false},
		{"one past capacity", types.MaxBoxes + 1, true},
		{"negative", -1, true},
		{"garbage", math.MaxInt32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(rawRecord(tt.count))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCountOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rec.Valid(), int(tt.count))
		})
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, types.RecordSize-1))
	require.ErrorIs(t, err, ErrShortBuffer)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	b := append(rawRecord(2, types.Detection{X: 1}, types.Detection{X: 2}), 0xff, 0xff, 0xff)
	rec, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, int32(2), rec.Count)
}

func TestDecodeDoesNotAlias(t *testing.T) {
	b := rawRecord(1, types.Detection{X: 7})
	rec, err := Decode(b)
	require.NoError(t, err)

	for i := range b {
		b[i] = 0
	}
	assert.Equal(t, int32(7), rec.Detections[0].X)
}

func TestStaleSlotsAreNotValid(t *testing.T) {
	dets := make([]types.Detection, types.MaxBoxes)
	for i := range dets {
		dets[i] = types.Detection{ClassID: types.ClassDog, X: int32(i)}
	}
	rec, err := Decode(rawRecord(3, dets...))
	require.NoError(t, err)

	valid := rec.Valid()
	require.Len(t, valid, 3)
	assert.Equal(t, int32(2), valid[2].X)
	// Slot 3 still holds data but is outside the valid window.
	assert.Equal(t, int32(3), rec.Detections[3].X)
}

func TestEncodeMatchesProducerLayout(t *testing.T) {
	d := types.Detection{ClassID: types.ClassDog, Confidence: 0.5, X: 5, Y: 5, W: 20, H: 20}
	rec, err := FromDetections([]types.Detection{d})
	require.NoError(t, err)

	b, err := Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, rawRecord(1, d), b)

	back, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestEncodeRejectsBadCount(t *testing.T) {
	_, err := Encode(types.SharedRecord{Count: types.MaxBoxes + 1})
	require.ErrorIs(t, err, ErrCountOutOfRange)

	_, err = FromDetections(make([]types.Detection, types.MaxBoxes+1))
	require.ErrorIs(t, err, ErrCountOutOfRange)
}
