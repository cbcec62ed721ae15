// Package morph - mathematical morphology over foreground masks.
//
// Erosion shrinks foreground regions (suppressing speckle noise), dilation
// grows them (filling small gaps). Each operator is a pure, stateless
// transform of a Mask parameterized by a structuring element; callers chain
// them in whatever order the scene demands.
package morph

import (
	"fmt"

	"github.com/nvr-ai/go-intrusion/images"
)

// Op identifies a morphological operator. The zero value is unset so a
// refiner entry that omits the operator can be rejected at validation time.
type Op int

const (
	// Erode replaces each pixel with the minimum over the structuring element.
	Erode Op = iota + 1
	// Dilate replaces each pixel with the maximum over the structuring element.
	Dilate
	// Open erodes then dilates, removing small blobs while preserving shape.
	Open
	// Close dilates then erodes, filling small holes while preserving shape.
	Close
)

// String returns the operator name.
func (o Op) String() string {
	switch o {
	case Erode:
		return "erode"
	case Dilate:
		return "dilate"
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Kernel is a structuring element: a small binary shape defining an
// operator's neighborhood. The anchor is the center cell.
type Kernel struct {
	width  int
	height int
	bits   []bool
}

// Rect returns a solid rectangular structuring element.
func Rect(width, height int) Kernel {
	k := Kernel{width: width, height: height, bits: make([]bool, width*height)}
	for i := range k.bits {
		k.bits[i] = true
	}
	return k
}

// Ellipse returns an elliptical structuring element inscribed in the given
// rectangle. The anchor cell is always live, so even degenerate dimensions
// yield a usable element.
func Ellipse(width, height int) Kernel {
	k := Kernel{width: width, height: height, bits: make([]bool, width*height)}
	rx := float64(width-1) / 2
	ry := float64(height-1) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := (float64(x) - rx) / maxf(rx, 0.5)
			dy := (float64(y) - ry) / maxf(ry, 0.5)
			k.bits[y*width+x] = dx*dx+dy*dy <= 1.0
		}
	}
	k.bits[(height/2)*width+width/2] = true
	return k
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Width returns the kernel width.
func (k Kernel) Width() int { return k.width }

// Height returns the kernel height.
func (k Kernel) Height() int { return k.height }

// Empty reports whether the kernel has no live cells. An erosion under an
// element with no live cells would invert an empty mask, so Apply rejects
// such elements outright.
func (k Kernel) Empty() bool {
	if k.width <= 0 || k.height <= 0 {
		return true
	}
	for _, b := range k.bits {
		if b {
			return false
		}
	}
	return true
}

// Apply runs a single operator over a mask and returns the transformed mask.
//
// Arguments:
//   - op: The operator to apply.
//   - m: The input mask, left unmodified.
//   - k: The structuring element.
//
// Returns:
//   - *images.Mask: A fresh mask of identical dimensions.
//   - error: An error for an unknown operator or empty kernel.
func Apply(op Op, m *images.Mask, k Kernel) (*images.Mask, error) {
	if k.Empty() {
		return nil, fmt.Errorf("empty structuring element")
	}
	switch op {
	case Erode:
		return scan(m, k, true), nil
	case Dilate:
		return scan(m, k, false), nil
	case Open:
		return scan(scan(m, k, true), k, false), nil
	case Close:
		return scan(scan(m, k, false), k, true), nil
	default:
		return nil, fmt.Errorf("unknown operator %v", op)
	}
}

// scan computes a min (erode) or max (dilate) filter under the kernel.
// Neighborhood cells outside the mask are ignored, so a solid mask stays
// solid at its borders.
func scan(m *images.Mask, k Kernel, min bool) *images.Mask {
	width, height := m.Width(), m.Height()
	out, _ := images.NewMask(width, height)
	ax := k.width / 2
	ay := k.height / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var best uint8
			if min {
				best = 255
			}
			for ky := 0; ky < k.height; ky++ {
				sy := y + ky - ay
				if sy < 0 || sy >= height {
					continue
				}
				for kx := 0; kx < k.width; kx++ {
					if !k.bits[ky*k.width+kx] {
						continue
					}
					sx := x + kx - ax
					if sx < 0 || sx >= width {
						continue
					}
					v := m.At(sx, sy)
					if min {
						if v < best {
							best = v
						}
					} else if v > best {
						best = v
					}
				}
			}
			out.Set(x, y, best)
		}
	}
	return out
}
