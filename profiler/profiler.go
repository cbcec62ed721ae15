// Package profiler - run statistics for intrusion detection sessions.
package profiler

import (
	"time"

	"github.com/nvr-ai/go-intrusion/images"
)

// RunStats accumulates per-frame pipeline results for end-of-run reporting.
// It is not safe for concurrent use; the frame loop that owns it is
// sequential by contract.
type RunStats struct {
	start        time.Time
	frames       int
	intrusions   int
	foregroundPx int64
	totalPx      int64
}

// NewRunStats starts a statistics window at the current time.
func NewRunStats() *RunStats {
	return &RunStats{start: time.Now()}
}

// Observe records the outcome of one Predict call.
//
// Arguments:
//   - verdict: The binary intrusion verdict for the frame.
//   - mask: The refined motion mask for the frame; may be nil.
func (s *RunStats) Observe(verdict int, mask *images.Mask) {
	s.frames++
	if verdict != 0 {
		s.intrusions++
	}
	if mask != nil {
		s.foregroundPx += int64(mask.NonzeroCount())
		s.totalPx += int64(mask.Width() * mask.Height())
	}
}

// Report summarizes a finished run.
type Report struct {
	// Frames is the number of frames processed.
	Frames int
	// Intrusions is the number of frames with a positive verdict.
	Intrusions int
	// Coverage is the mean fraction of mask pixels marked foreground.
	Coverage float64
	// FramesPerSecond is the processing throughput over the whole run.
	FramesPerSecond float64
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Report computes the summary for the frames observed so far.
func (s *RunStats) Report() Report {
	elapsed := time.Since(s.start)
	r := Report{
		Frames:     s.frames,
		Intrusions: s.intrusions,
		Elapsed:    elapsed,
	}
	if s.totalPx > 0 {
		r.Coverage = float64(s.foregroundPx) / float64(s.totalPx)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		r.FramesPerSecond = float64(s.frames) / secs
	}
	return r
}
