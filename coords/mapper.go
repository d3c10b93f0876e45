// Package coords converts detection geometry between the detector's fixed
// model-input coordinate space and the coordinate space of the captured frame.
package coords

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Mapper bridges the two coordinate spaces for one stream. Scaling is
// independent per axis: the frame is stretched to exactly
// ModelWidth x ModelHeight with no letterboxing, so box geometry matches the
// stretched image the detector actually saw.
type Mapper struct {
	ModelWidth  int
	ModelHeight int
}

// NewMapper validates the model input dimensions once, at detector setup,
// so the per-frame scale math can never divide by zero.
func NewMapper(modelWidth, modelHeight int) (Mapper, error) {
	if modelWidth <= 0 || modelHeight <= 0 {
		return Mapper{}, fmt.Errorf("invalid model input size %dx%d", modelWidth, modelHeight)
	}
	return Mapper{ModelWidth: modelWidth, ModelHeight: modelHeight}, nil
}

// ToModelView returns a resized, BGR-to-RGB converted copy of frame sized
// exactly to the model input. The source frame is never modified. The caller
// owns the returned Mat and must Close it before the next frame.
func (m Mapper) ToModelView(frame gocv.Mat) gocv.Mat {
	view := gocv.NewMat()
	gocv.Resize(frame, &view, image.Pt(m.ModelWidth, m.ModelHeight), 0, 0, gocv.InterpolationLinear)
	gocv.CvtColor(view, &view, gocv.ColorBGRToRGB)
	return view
}

// ToFrameRect scales a model-space box back into frame coordinates,
// truncating to integer pixels and clamping every corner to
// [0, frameWidth-1] x [0, frameHeight-1]. Detections at the exact model edge
// therefore land on the last frame pixel, never past it.
func (m Mapper) ToFrameRect(box image.Rectangle, frameWidth, frameHeight int) image.Rectangle {
	scaleX := float64(frameWidth) / float64(m.ModelWidth)
	scaleY := float64(frameHeight) / float64(m.ModelHeight)

	x1 := clamp(int(float64(box.Min.X)*scaleX), 0, frameWidth-1)
	y1 := clamp(int(float64(box.Min.Y)*scaleY), 0, frameHeight-1)
	x2 := clamp(int(float64(box.Max.X)*scaleX), 0, frameWidth-1)
	y2 := clamp(int(float64(box.Max.Y)*scaleY), 0, frameHeight-1)

	return image.Rect(x1, y1, x2, y2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
