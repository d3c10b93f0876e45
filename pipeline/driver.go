// Package pipeline drives the per-frame loop: capture, preprocess, detect,
// log, rescale, annotate, encode, strictly in capture order on a single
// goroutine.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"rknncam/coords"
	"rknncam/detection"
)

// ErrInference marks a fatal mid-stream detector failure. Detection faults
// are not retried; they usually mean the model or the NPU is gone, so the
// loop stops and drains.
var ErrInference = errors.New("inference failed")

// Source yields frames in capture order. Read returning false is end of
// stream, the normal termination signal.
type Source interface {
	Read(frame *gocv.Mat) bool
	Close() error
}

// Detector runs inference on a model-input-sized view.
type Detector interface {
	Detect(view gocv.Mat) (detection.Batch, error)
	Close() error
}

// Sink receives annotated frames. Implementations may be unavailable, in
// which case Write must be a safe no-op and Close idempotent.
type Sink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// Annotator draws a detection batch over a copy of frame. The returned Mat
// is owned by the caller.
type Annotator interface {
	Annotate(frame gocv.Mat, batch detection.Batch, mapper coords.Mapper, fps float64, frameNum int64) gocv.Mat
}

// Driver owns the frame loop and every handle passed to it: once Run is
// called the source, detector and sink are released by the driver's drain,
// on success and on failure alike.
type Driver struct {
	source   Source
	detector Detector
	sink     Sink
	annotate Annotator
	mapper   coords.Mapper
	log      *zap.SugaredLogger
	out      io.Writer

	stats Stats
	now   func() time.Time
}

// NewDriver wires the pipeline stages together. out receives the per-frame
// detection stream; diagnostics go to log.
func NewDriver(source Source, detector Detector, sink Sink, annotator Annotator, mapper coords.Mapper, log *zap.SugaredLogger, out io.Writer) *Driver {
	return &Driver{
		source:   source,
		detector: detector,
		sink:     sink,
		annotate: annotator,
		mapper:   mapper,
		log:      log,
		out:      out,
		now:      time.Now,
	}
}

// Run processes the stream until end of stream or a fatal detector error.
// Frames are processed and emitted in strict capture order; frame N is fully
// encoded before frame N+1 is captured.
func (d *Driver) Run() error {
	defer d.drain()

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		if ok := d.source.Read(&frame); !ok {
			fmt.Fprintf(d.out, "End of video. Total processed frames: %d\n", d.stats.Frames())
			return nil
		}
		if err := d.processFrame(frame); err != nil {
			return err
		}
	}
}

// Frames reports how many frames have been processed.
func (d *Driver) Frames() int64 { return d.stats.Frames() }

func (d *Driver) processFrame(frame gocv.Mat) error {
	n := d.stats.BeginFrame(d.now())

	view := d.mapper.ToModelView(frame)
	defer view.Close()

	batch, err := d.detector.Detect(view)
	if err != nil {
		fmt.Fprintf(d.out, "inference failed on frame %d: %v\n", n, err)
		return fmt.Errorf("%w on frame %d: %v", ErrInference, n, err)
	}

	d.logDetections(n, batch)

	annotated := d.annotate.Annotate(frame, batch, d.mapper, d.stats.FPS(), n)
	defer annotated.Close()

	if err := d.sink.Write(annotated); err != nil {
		d.log.Warnw("sink write failed", "frame", n, "error", err)
	}

	d.stats.EndFrame(d.now())
	return nil
}

// logDetections emits the per-frame block: one header, then one line per
// object or the explicit empty marker. A frame is never silently omitted.
func (d *Driver) logDetections(n int64, batch detection.Batch) {
	fmt.Fprintf(d.out, "Frame %d detections (%d objects):\n", n, len(batch))
	for _, det := range batch {
		fmt.Fprintf(d.out, "  %s @ (%d %d %d %d) %.3f\n",
			det.ClassName,
			det.Box.Min.X, det.Box.Min.Y, det.Box.Max.X, det.Box.Max.Y,
			det.Confidence)
	}
	if len(batch) == 0 {
		fmt.Fprintln(d.out, "  no objects detected")
	}
}

// drain flushes the sink and releases the detector and source, in that
// order. Runs exactly once, on every exit path out of Run.
func (d *Driver) drain() {
	if err := d.sink.Close(); err != nil {
		d.log.Warnw("closing sink", "error", err)
	}
	if err := d.detector.Close(); err != nil {
		d.log.Warnw("releasing detector", "error", err)
	}
	if err := d.source.Close(); err != nil {
		d.log.Warnw("closing source", "error", err)
	}
	d.log.Infow("pipeline drained", "frames", d.stats.Frames())
}
