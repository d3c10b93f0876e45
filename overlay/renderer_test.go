package overlay

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"rknncam/coords"
	"rknncam/detection"
)

func testMapper(t *testing.T) coords.Mapper {
	t.Helper()
	m, err := coords.NewMapper(640, 640)
	require.NoError(t, err)
	return m
}

func TestAnnotateLeavesSourceFrameUntouched(t *testing.T) {
	r := NewRenderer()
	m := testMapper(t)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	before := frame.Clone()
	defer before.Close()

	batch := detection.Batch{
		{ClassID: 0, ClassName: "person", Confidence: 0.91, Box: image.Rect(100, 100, 300, 400)},
	}

	out := r.Annotate(frame, batch, m, 24.5, 7)
	defer out.Close()

	require.Equal(t, frame.Cols(), out.Cols())
	require.Equal(t, frame.Rows(), out.Rows())

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(frame, before, &diff)
	sum := diff.Sum()
	require.Zero(t, sum.Val1+sum.Val2+sum.Val3)
}

func TestAnnotateTopEdgeBoxDoesNotPanic(t *testing.T) {
	r := NewRenderer()
	m := testMapper(t)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// Boxes at and beyond the model edges exercise the label clamp.
	batch := detection.Batch{
		{ClassName: "cat", Confidence: 0.5, Box: image.Rect(0, 0, 640, 640)},
		{ClassName: "dog", Confidence: 0.5, Box: image.Rect(-50, -50, 700, 10)},
	}

	out := r.Annotate(frame, batch, m, 0, 1)
	defer out.Close()

	require.False(t, out.Empty())
}

func TestAnnotateEmptyBatchStillDrawsHUD(t *testing.T) {
	r := NewRenderer()
	m := testMapper(t)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	out := r.Annotate(frame, nil, m, 30.0, 42)
	defer out.Close()

	// The HUD text is the only ink on a zeroed frame.
	sum := out.Sum()
	require.Positive(t, sum.Val1+sum.Val2+sum.Val3)
}
