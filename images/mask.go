package images

import "fmt"

// Conventional mask sample values. Background subtractors write these;
// everything downstream only distinguishes zero from non-zero.
const (
	// MaskBackground marks a pixel explained by the background model.
	MaskBackground uint8 = 0
	// MaskShadow marks a darker copy of the background (shadow-aware
	// subtractors only).
	MaskShadow uint8 = 127
	// MaskForeground marks a pixel the background model cannot explain.
	MaskForeground uint8 = 255
)

// Mask is a single-channel grid marking foreground activity per pixel.
//
// A Mask always matches the width and height of the Frame it was derived
// from. It is produced fresh by the background subtractor each step and
// rewritten by the morphological refiner.
type Mask struct {
	width  int
	height int
	pix    []uint8
}

// NewMask allocates a zeroed (all-background) Mask.
//
// Arguments:
//   - width: Mask width in pixels, must be positive.
//   - height: Mask height in pixels, must be positive.
//
// Returns:
//   - *Mask: The allocated mask.
//   - error: An error if a dimension is not positive.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask shape: %dx%d", width, height)
	}
	return &Mask{width: width, height: height, pix: make([]uint8, width*height)}, nil
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// At returns the sample at (x, y). Out-of-range coordinates panic.
func (m *Mask) At(x, y int) uint8 {
	m.check(x, y)
	return m.pix[y*m.width+x]
}

// Set stores a sample at (x, y).
func (m *Mask) Set(x, y int, v uint8) {
	m.check(x, y)
	m.pix[y*m.width+x] = v
}

func (m *Mask) check(x, y int) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic(fmt.Sprintf("images: sample (%d,%d) out of range for %dx%d mask",
			x, y, m.width, m.height))
	}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{width: m.width, height: m.height, pix: make([]uint8, len(m.pix))}
	copy(out.pix, m.pix)
	return out
}

// Equal reports whether two masks have the same shape and content.
func (m *Mask) Equal(o *Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// NonzeroCount returns the number of pixels with any foreground activity,
// shadows included.
func (m *Mask) NonzeroCount() int {
	n := 0
	for _, v := range m.pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Fill sets every pixel to v.
func (m *Mask) Fill(v uint8) {
	for i := range m.pix {
		m.pix[i] = v
	}
}
