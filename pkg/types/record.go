package types

// MaxBoxes is the fixed detection capacity of a SharedRecord.
const MaxBoxes = 10

// Byte sizes of the packed layout shared with the producer.
const (
	DetectionSize = 6 * 4
	RecordSize    = 4 + MaxBoxes*DetectionSize // 244
)

// ClassDog is the COCO class id the producer filters for.
const ClassDog int32 = 16

// Detection is a single bounding box result.
// Field order and widths match the producer's C struct exactly.
type Detection struct {
	ClassID    int32   // COCO class id
	Confidence float32 // 0.0 - 1.0
	X          int32   // Left edge in source image pixels
	Y          int32   // Top edge in source image pixels
	W          int32   // Box width
	H          int32   // Box height
}

// SharedRecord is the whole shared memory payload.
// Entries at index >= Count are stale and must not be used.
type SharedRecord struct {
	Count      int32
	Detections [MaxBoxes]Detection
}

// Valid returns the first Count detections. Count is clamped to the
// array capacity; the decoder rejects out-of-range values before this.
func (r *SharedRecord) Valid() []Detection {
	n := int(r.Count)
	if n < 0 {
		n = 0
	}
	if n > MaxBoxes {
		n = MaxBoxes
	}
	return r.Detections[:n]
}
