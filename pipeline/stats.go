package pipeline

import "time"

// Stats tracks the running frame counter and the instantaneous rate of the
// loop. One iteration's rate is shown on the next frame's overlay.
type Stats struct {
	frames    int64
	iterStart time.Time
	fps       float64
}

// BeginFrame marks the start of an iteration and returns the new frame
// number (1-based).
func (s *Stats) BeginFrame(now time.Time) int64 {
	s.iterStart = now
	s.frames++
	return s.frames
}

// EndFrame records the instantaneous rate of the iteration that just
// finished, computed as 1 / elapsed.
func (s *Stats) EndFrame(now time.Time) float64 {
	if elapsed := now.Sub(s.iterStart).Seconds(); elapsed > 0 {
		s.fps = 1 / elapsed
	}
	return s.fps
}

// Frames is the number of frames processed so far.
func (s *Stats) Frames() int64 { return s.frames }

// FPS is the most recently computed instantaneous rate; zero until a first
// iteration completes.
func (s *Stats) FPS() float64 { return s.fps }
