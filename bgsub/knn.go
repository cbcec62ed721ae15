package bgsub

import (
	"fmt"

	"github.com/nvr-ai/go-intrusion/images"
)

// Standard KNN construction parameters: a 500-frame effective history
// spread over seven stored samples per pixel, a squared color distance gate
// of 400, and at least two matching neighbours to call a pixel background.
const (
	knnHistory        = 500
	knnSamples        = 7
	knnDist2Threshold = 400
	knnMatches        = 2
)

// KNNSubtractor models each pixel as a short history of observed samples.
//
// A pixel is background when at least knnMatches stored samples lie within
// knnDist2Threshold squared distance of the current value. The history fills
// one sample per frame until full, then refreshes one slot every
// history/samples frames on a fixed cyclic schedule. The fixed schedule is a
// deliberate departure from randomized sample replacement: it keeps the
// model byte-for-byte reproducible for identical frame sequences.
//
// This variant does not detect shadows; masks contain only 0 and 255.
type KNNSubtractor struct {
	width    int
	height   int
	channels int
	frames   int

	nsamples []uint8
	next     []uint8
	samples  []uint8
}

// NewKNN returns a nearest-neighbour-history subtractor with default
// thresholds. Model storage is allocated lazily from the first frame's
// dimensions.
func NewKNN() *KNNSubtractor {
	return &KNNSubtractor{}
}

// Apply classifies one frame and updates the model.
//
// Arguments:
//   - frame: The next frame in arrival order.
//
// Returns:
//   - *images.Mask: Per-pixel classification (0 background, 255 foreground).
//   - error: An error if the frame shape differs from the first frame seen.
func (k *KNNSubtractor) Apply(frame *images.Frame) (*images.Mask, error) {
	if err := k.bind(frame); err != nil {
		return nil, err
	}
	refreshPeriod := knnHistory / knnSamples
	refresh := k.frames%refreshPeriod == 0
	k.frames++

	mask, _ := images.NewMask(k.width, k.height)
	x := make([]int, k.channels)
	for y := 0; y < k.height; y++ {
		for px := 0; px < k.width; px++ {
			p := y*k.width + px
			for c := 0; c < k.channels; c++ {
				x[c] = int(frame.At(px, y, c))
			}
			mask.Set(px, y, k.applyPixel(p, x, refresh))
		}
	}
	return mask, nil
}

func (k *KNNSubtractor) bind(frame *images.Frame) error {
	if k.nsamples == nil {
		k.width = frame.Width()
		k.height = frame.Height()
		k.channels = frame.Channels()
		npx := k.width * k.height
		k.nsamples = make([]uint8, npx)
		k.next = make([]uint8, npx)
		k.samples = make([]uint8, npx*knnSamples*k.channels)
		return nil
	}
	if frame.Width() != k.width || frame.Height() != k.height || frame.Channels() != k.channels {
		return fmt.Errorf("frame shape %dx%dx%d does not match model shape %dx%dx%d",
			frame.Width(), frame.Height(), frame.Channels(), k.width, k.height, k.channels)
	}
	return nil
}

func (k *KNNSubtractor) applyPixel(p int, x []int, refresh bool) uint8 {
	base := p * knnSamples * k.channels
	n := int(k.nsamples[p])

	matches := 0
	for s := 0; s < n && matches < knnMatches; s++ {
		dist2 := 0
		for c := 0; c < k.channels; c++ {
			d := x[c] - int(k.samples[base+s*k.channels+c])
			dist2 += d * d
		}
		if dist2 <= knnDist2Threshold {
			matches++
		}
	}

	// Fill the history quickly on a fresh pixel, then refresh slots on the
	// fixed cadence.
	switch {
	case n < knnSamples:
		k.store(p, n, x)
		k.nsamples[p] = uint8(n + 1)
		k.next[p] = uint8((n + 1) % knnSamples)
	case refresh:
		slot := int(k.next[p])
		k.store(p, slot, x)
		k.next[p] = uint8((slot + 1) % knnSamples)
	}

	if matches >= knnMatches {
		return images.MaskBackground
	}
	return images.MaskForeground
}

func (k *KNNSubtractor) store(p, slot int, x []int) {
	base := (p*knnSamples + slot) * k.channels
	for c := 0; c < k.channels; c++ {
		k.samples[base+c] = uint8(x[c])
	}
}
