// Package bgsub - adaptive background subtraction.
//
// A Subtractor maintains a continuously-updated statistical model of the
// static scene and classifies each pixel of each incoming frame as
// background, foreground, or shadow. The model learns online with
// exponential-style forgetting; there is no separate training phase.
//
// Frames must be supplied strictly in arrival order. The model is updated
// exactly once per Apply call and is never rolled back, so reordering or
// replaying frames corrupts it irreversibly. Callers needing concurrent use
// must serialize externally; no internal locking is performed.
package bgsub

import (
	"fmt"

	"github.com/nvr-ai/go-intrusion/images"
)

// Variant identifies a background subtraction method. The zero value is
// unset so a configuration that omits the variant can be rejected at
// validation time.
type Variant int

const (
	// MOG2 models each pixel as a mixture of Gaussians with shadow detection.
	MOG2 Variant = iota + 1
	// KNN models each pixel as a history of recent samples matched by
	// nearest-neighbour distance.
	KNN
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case MOG2:
		return "MOG2"
	case KNN:
		return "KNN"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Subtractor classifies frame pixels against a learned background model.
//
// Apply consumes one frame, updates the internal model as a side effect, and
// returns a fresh single-channel mask of the same width and height. Mask
// values are images.MaskBackground, images.MaskShadow (shadow-aware variants
// only) and images.MaskForeground.
type Subtractor interface {
	Apply(frame *images.Frame) (*images.Mask, error)
}

// New constructs a subtractor variant with its standard default thresholds.
// No further tuning parameters are exposed.
//
// Arguments:
//   - v: The subtraction method.
//
// Returns:
//   - Subtractor: A freshly initialized model.
//   - error: An error if the variant is not recognized.
func New(v Variant) (Subtractor, error) {
	switch v {
	case MOG2:
		return NewMOG2(), nil
	case KNN:
		return NewKNN(), nil
	default:
		return nil, fmt.Errorf("unknown background subtraction variant %v", v)
	}
}
