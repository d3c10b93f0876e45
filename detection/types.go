package detection

import "image"

// Detection is one recognized object instance. Box coordinates are always in
// model-input space; scaling them to the frame is the caller's concern.
type Detection struct {
	ClassID    int
	ClassName  string
	Confidence float64
	// Box is left/top/right/bottom in model-input pixels.
	Box image.Rectangle
}

// Batch is the ordered set of detections for a single frame. May be empty.
// Order carries no meaning beyond log reproducibility.
type Batch []Detection
