// Package images - owned pixel buffer types shared by every pipeline stage.
//
// Frame and Mask replace ad-hoc numeric arrays with explicit, fixed-shape
// buffers: width, height, channel count, row-major uint8 storage, and
// bounds-checked accessors. Every stage of the intrusion pipeline reads and
// writes these types and nothing else.
package images

import "fmt"

// Frame is one image sample from a video sequence.
//
// Pixels are stored row-major with interleaved channels. A Frame is produced
// by a frame source and is read-only to the pipeline; stages that transform a
// Frame allocate a fresh one.
type Frame struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

// NewFrame allocates a zeroed Frame.
//
// Arguments:
//   - width: Frame width in pixels, must be positive.
//   - height: Frame height in pixels, must be positive.
//   - channels: Samples per pixel (1 for grayscale, 3 for color), must be positive.
//
// Returns:
//   - *Frame: The allocated frame.
//   - error: An error if any dimension is not positive.
func NewFrame(width, height, channels int) (*Frame, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid frame shape: %dx%dx%d", width, height, channels)
	}
	return &Frame{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]uint8, width*height*channels),
	}, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Channels returns the number of samples per pixel.
func (f *Frame) Channels() int { return f.channels }

// At returns the sample at (x, y) for channel c.
// Out-of-range coordinates panic; callers iterate within Width/Height bounds.
func (f *Frame) At(x, y, c int) uint8 {
	f.check(x, y, c)
	return f.pix[(y*f.width+x)*f.channels+c]
}

// Set stores a sample at (x, y) for channel c.
func (f *Frame) Set(x, y, c int, v uint8) {
	f.check(x, y, c)
	f.pix[(y*f.width+x)*f.channels+c] = v
}

func (f *Frame) check(x, y, c int) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height || c < 0 || c >= f.channels {
		panic(fmt.Sprintf("images: sample (%d,%d,%d) out of range for %dx%dx%d frame",
			x, y, c, f.width, f.height, f.channels))
	}
}

// SameShape reports whether two frames have identical dimensions.
func (f *Frame) SameShape(o *Frame) bool {
	return f.width == o.width && f.height == o.height && f.channels == o.channels
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		width:    f.width,
		height:   f.height,
		channels: f.channels,
		pix:      make([]uint8, len(f.pix)),
	}
	copy(out.pix, f.pix)
	return out
}

// Equal reports whether two frames have the same shape and pixel content.
func (f *Frame) Equal(o *Frame) bool {
	if !f.SameShape(o) {
		return false
	}
	for i := range f.pix {
		if f.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Fill sets every sample of every channel to v.
func (f *Frame) Fill(v uint8) {
	for i := range f.pix {
		f.pix[i] = v
	}
}
