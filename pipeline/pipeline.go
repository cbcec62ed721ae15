// Package pipeline - the frame-processing core for motion-based intrusion
// detection.
//
// One pipeline runs four ordered stages over each frame of a video stream:
//
//  1. Spatial denoising (optional).
//  2. Background subtraction (mandatory, stateful).
//  3. Morphological mask refinement (optional).
//  4. A threshold decision reducing the mask to a binary verdict.
//
// Data flows strictly forward. The background model is the only state kept
// across frames; it is updated exactly once per Predict call, in arrival
// order, and is owned exclusively by its pipeline. The pipeline itself
// performs no locking: one call processes one frame to completion, and
// concurrent callers must serialize externally.
//
// Usage:
//
//	p := pipeline.New(pipeline.DefaultConfig())
//	if err := p.Fit(); err != nil {
//	    return err
//	}
//	for {
//	    frame := nextFrame()
//	    verdict, err := p.Predict(frame)
//	    ...
//	}
package pipeline

import (
	"github.com/nvr-ai/go-intrusion/bgsub"
	"github.com/nvr-ai/go-intrusion/denoise"
	"github.com/nvr-ai/go-intrusion/images"
	"github.com/nvr-ai/go-intrusion/morph"
)

// Pipeline detects motion-based intrusions frame by frame.
//
// A Pipeline starts unconfigured: New only records construction parameters.
// Fit validates and normalizes them, allocates the background model, and
// moves the pipeline to its ready state exactly once. There is no reset;
// reprocessing a stream means constructing a fresh pipeline.
type Pipeline struct {
	cfg    Config
	sub    bgsub.Subtractor
	ready  bool
	width  int
	height int
	mask   *images.Mask
}

// New returns an unconfigured pipeline holding cfg. No validation or
// allocation happens until Fit.
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Fit validates the stage configurations, applies defaults, and allocates
// the background model. No learning from data happens here.
//
// Returns:
//   - error: A ConfigError if any stage configuration is invalid, leaving
//     the pipeline unconfigured. nil on success, after which the pipeline
//     is ready and its configuration is frozen.
func (p *Pipeline) Fit() error {
	cfg, err := normalize(p.cfg)
	if err != nil {
		return err
	}
	sub, err := bgsub.New(cfg.Subtractor.Variant)
	if err != nil {
		return configErrorf("subtractor", "%v", err)
	}
	p.cfg = cfg
	p.sub = sub
	p.ready = true
	return nil
}

// Ready reports whether Fit has completed successfully.
func (p *Pipeline) Ready() bool { return p.ready }

// Predict runs the full pipeline over one frame and returns the intrusion
// verdict: 1 if any pixel of the refined mask is non-zero, else 0.
//
// The frame is read-only to the pipeline. As a side effect the background
// model is updated with this frame, so frames must be supplied strictly in
// arrival order. The first frame pins the session dimensions; any later
// mismatch is a UsageError and leaves no partial result.
//
// Arguments:
//   - frame: The next frame of the video sequence.
//
// Returns:
//   - int: 1 if an intrusion is detected in this frame, 0 otherwise.
//   - error: A UsageError if the pipeline is unconfigured or the frame
//     shape is incompatible with the session.
func (p *Pipeline) Predict(frame *images.Frame) (int, error) {
	if !p.ready {
		return 0, usageErrorf("Predict called before Fit")
	}
	if frame == nil {
		return 0, usageErrorf("nil frame")
	}
	if p.width == 0 {
		p.width = frame.Width()
		p.height = frame.Height()
	} else if frame.Width() != p.width || frame.Height() != p.height {
		return 0, usageErrorf("frame size %dx%d does not match session size %dx%d",
			frame.Width(), frame.Height(), p.width, p.height)
	}

	x := frame
	if p.cfg.Denoise != nil {
		d := p.cfg.Denoise
		blurred, err := denoise.Apply(d.Filter, x, d.KSize, d.Border)
		if err != nil {
			// Unreachable after Fit; surfaced for safety.
			return 0, usageErrorf("denoise: %v", err)
		}
		x = blurred
	}

	mask, err := p.sub.Apply(x)
	if err != nil {
		return 0, usageErrorf("background subtraction: %v", err)
	}

	for _, entry := range p.cfg.Refine {
		mask, err = morph.Apply(entry.Op, mask, *entry.Kernel)
		if err != nil {
			return 0, usageErrorf("mask refinement: %v", err)
		}
	}

	p.mask = mask
	if mask.NonzeroCount() > 0 {
		return 1, nil
	}
	return 0, nil
}

// LastMask returns the refined motion mask retained from the most recent
// successful Predict call, or nil if no frame has been processed. The mask
// is owned by the pipeline and must be treated as read-only.
func (p *Pipeline) LastMask() *images.Mask { return p.mask }
