package video

import (
	"image"

	"gocv.io/x/gocv"
)

// Sink appends annotated frames to an output video file. Opening is best
// effort: a sink that failed to open swallows writes so the pipeline can run
// detect-and-log-only without an output artifact. The zero value is an
// unavailable sink.
type Sink struct {
	writer *gocv.VideoWriter
	path   string
	open   bool
}

// OpenSink creates the output container at path. It never fails: when the
// encoder cannot be opened the returned sink reports IsOpen() == false and
// every Write is a no-op. The caller decides whether that is worth a warning.
func OpenSink(path, fourCC string, fps float64, size image.Point) *Sink {
	writer, err := gocv.VideoWriterFile(path, fourCC, fps, size.X, size.Y, true)
	if err != nil || !writer.IsOpened() {
		if writer != nil {
			writer.Close()
		}
		return &Sink{path: path}
	}
	return &Sink{writer: writer, path: path, open: true}
}

// IsOpen reports whether frames are actually being encoded.
func (s *Sink) IsOpen() bool { return s.open }

// Path returns the configured artifact path.
func (s *Sink) Path() string { return s.path }

// Write appends one frame. Writing to an unavailable or closed sink is a
// safe no-op.
func (s *Sink) Write(frame gocv.Mat) error {
	if !s.open {
		return nil
	}
	return s.writer.Write(frame)
}

// Close flushes and finalizes the container. Idempotent, and safe to call on
// a sink that never opened.
func (s *Sink) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	return s.writer.Close()
}
