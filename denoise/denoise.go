// Package denoise - spatial smoothing filters applied to raw frames before
// background subtraction, so sensor and compression noise does not leak into
// the background model.
//
// Both filters are separable: a horizontal pass followed by a vertical pass,
// each convolving a 1D kernel along one axis. Filters never mutate their
// input and are deterministic for identical input and configuration.
package denoise

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-intrusion/images"
)

// Filter identifies the smoothing operation. The zero value is unset so a
// configuration that omits the filter can be rejected at validation time.
type Filter int

const (
	// Gaussian smooths with a normalized Gaussian kernel.
	Gaussian Filter = iota + 1
	// Box smooths with a normalized uniform kernel.
	Box
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case Gaussian:
		return "gaussian"
	case Box:
		return "box"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// Border defines how sampling behaves outside the frame bounds.
// The zero value is Replicate, the default border-extension mode.
type Border int

const (
	// Replicate repeats edge pixels.
	Replicate Border = iota
	// Reflect mirrors coordinates around the edge.
	Reflect
	// Wrap tiles the frame.
	Wrap
)

// Apply runs the given smoothing filter over a frame.
//
// Arguments:
//   - f: The filter kind.
//   - src: The input frame, left unmodified.
//   - ksize: Kernel side length. Must be odd and positive.
//   - border: Border-extension mode for edge pixels.
//
// Returns:
//   - *images.Frame: A fresh frame of identical dimensions.
//   - error: An error for an unknown filter or invalid kernel size.
func Apply(f Filter, src *images.Frame, ksize int, border Border) (*images.Frame, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, fmt.Errorf("kernel size must be odd and positive, got %d", ksize)
	}
	var kernel []float32
	switch f {
	case Gaussian:
		kernel = gaussianKernel(ksize)
	case Box:
		kernel = boxKernel(ksize)
	default:
		return nil, fmt.Errorf("unknown filter %v", f)
	}
	tmp := convolveHorizontal(src, kernel, border)
	return convolveVertical(tmp, kernel, border), nil
}

// gaussianKernel builds a normalized 1D Gaussian kernel for the given side
// length, deriving sigma from ksize the way OpenCV's filters do.
func gaussianKernel(ksize int) []float32 {
	sigma := 0.3*(float32(ksize-1)*0.5-1) + 0.8
	radius := ksize / 2
	kernel := make([]float32, ksize)
	denom := 2 * sigma * sigma
	sum := float32(0)
	for i := range kernel {
		x := float32(i - radius)
		kernel[i] = math32.Exp(-(x * x) / denom)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func boxKernel(ksize int) []float32 {
	kernel := make([]float32, ksize)
	for i := range kernel {
		kernel[i] = 1.0 / float32(ksize)
	}
	return kernel
}

// mapCoord maps an index to [0, n) according to the border mode.
func mapCoord(i, n int, border Border) int {
	switch border {
	case Reflect:
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	case Wrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default: // Replicate
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}

func convolveHorizontal(src *images.Frame, kernel []float32, border Border) *images.Frame {
	width, height, channels := src.Width(), src.Height(), src.Channels()
	dst, _ := images.NewFrame(width, height, channels)
	radius := len(kernel) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < channels; c++ {
				acc := float32(0)
				for i, w := range kernel {
					sx := mapCoord(x+i-radius, width, border)
					acc += float32(src.At(sx, y, c)) * w
				}
				dst.Set(x, y, c, clamp(acc))
			}
		}
	}
	return dst
}

func convolveVertical(src *images.Frame, kernel []float32, border Border) *images.Frame {
	width, height, channels := src.Width(), src.Height(), src.Channels()
	dst, _ := images.NewFrame(width, height, channels)
	radius := len(kernel) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for c := 0; c < channels; c++ {
				acc := float32(0)
				for i, w := range kernel {
					sy := mapCoord(y+i-radius, height, border)
					acc += float32(src.At(x, sy, c)) * w
				}
				dst.Set(x, y, c, clamp(acc))
			}
		}
	}
	return dst
}

func clamp(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
