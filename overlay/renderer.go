// Package overlay renders detection results and the performance readout
// onto output frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"rknncam/coords"
	"rknncam/detection"
)

const (
	boxThickness = 3
	labelScale   = 0.8
	hudScale     = 1.2
)

// Renderer draws boxes, class labels and the HUD line. It reads pipeline
// counters but never mutates them, and never touches the captured frame.
type Renderer struct {
	boxColor   color.RGBA
	labelColor color.RGBA
	hudColor   color.RGBA
}

// NewRenderer returns a renderer with the stock color scheme: blue boxes,
// green labels, red HUD.
func NewRenderer() *Renderer {
	return &Renderer{
		boxColor:   color.RGBA{B: 255},
		labelColor: color.RGBA{G: 255},
		hudColor:   color.RGBA{R: 255},
	}
}

// Annotate returns a new image with batch drawn over a copy of frame. Boxes
// are rescaled through mapper and clamped to the frame, so nothing draws out
// of bounds. The caller owns the returned Mat.
func (r *Renderer) Annotate(frame gocv.Mat, batch detection.Batch, mapper coords.Mapper, fps float64, frameNum int64) gocv.Mat {
	out := frame.Clone()
	width, height := frame.Cols(), frame.Rows()

	for _, det := range batch {
		rect := mapper.ToFrameRect(det.Box, width, height)
		gocv.Rectangle(&out, rect, r.boxColor, boxThickness)

		label := fmt.Sprintf("%s %.1f%%", det.ClassName, det.Confidence*100)
		at := image.Pt(rect.Min.X, rect.Min.Y-10)
		if at.Y < 10 {
			// box touches the top edge; drop the label inside it
			at.Y = rect.Min.Y + 20
		}
		gocv.PutText(&out, label, at, gocv.FontHersheySimplex, labelScale, r.labelColor, 2)
	}

	hud := fmt.Sprintf("FPS: %.1f  Frame: %d", fps, frameNum)
	gocv.PutText(&out, hud, image.Pt(10, 40), gocv.FontHersheySimplex, hudScale, r.hudColor, 3)

	return out
}
