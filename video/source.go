// Package video wraps gocv capture and encoding behind the pipeline's
// source and sink abstractions.
package video

import (
	"fmt"

	"github.com/spf13/cast"
	"gocv.io/x/gocv"
)

// DefaultFPS is the encoder rate substituted when a source reports an
// unknown or non-positive frame rate, as cameras commonly do.
const DefaultFPS = 30.0

// Source wraps a capture device or video file and exposes the stream
// geometry the encoder needs.
type Source struct {
	cap    *gocv.VideoCapture
	width  int
	height int
	fps    float64
	spec   string
}

// IsDeviceSpec reports whether spec selects a live capture device: a single
// digit is a device index, anything else is a file or stream path.
func IsDeviceSpec(spec string) bool {
	if len(spec) != 1 {
		return false
	}
	_, err := cast.ToIntE(spec)
	return err == nil
}

// EffectiveFPS normalizes a reported capture rate for encoder configuration.
func EffectiveFPS(reported float64) float64 {
	if reported <= 0 {
		return DefaultFPS
	}
	return reported
}

// OpenSource opens spec as a camera index or file/stream path and reads the
// stream geometry off the capture handle.
func OpenSource(spec string) (*Source, error) {
	var (
		cap *gocv.VideoCapture
		err error
	)
	if IsDeviceSpec(spec) {
		cap, err = gocv.VideoCaptureDevice(cast.ToInt(spec))
	} else {
		cap, err = gocv.VideoCaptureFile(spec)
	}
	if err != nil {
		return nil, fmt.Errorf("opening video source %s: %w", spec, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video source %s did not open", spec)
	}

	return &Source{
		cap:    cap,
		width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		fps:    EffectiveFPS(cap.Get(gocv.VideoCaptureFPS)),
		spec:   spec,
	}, nil
}

// Read fills frame with the next capture in stream order. A false return is
// end of stream, not an error: the file is exhausted or the device went away.
func (s *Source) Read(frame *gocv.Mat) bool {
	if ok := s.cap.Read(frame); !ok {
		return false
	}
	return !frame.Empty()
}

// Width is the native frame width in pixels.
func (s *Source) Width() int { return s.width }

// Height is the native frame height in pixels.
func (s *Source) Height() int { return s.height }

// FPS is the capture rate, already normalized through EffectiveFPS.
func (s *Source) FPS() float64 { return s.fps }

// Spec returns the specifier the source was opened with.
func (s *Source) Spec() string { return s.spec }

// Close releases the capture handle.
func (s *Source) Close() error { return s.cap.Close() }
