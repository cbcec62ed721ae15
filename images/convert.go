package images

import (
	"fmt"
	"image"
	"image/color"
)

// ITU-R BT.709 luma coefficients. These weights reflect human eye
// sensitivity to different colors.
const (
	redWeight   = 0.2126
	greenWeight = 0.7152
	blueWeight  = 0.0722
)

// FrameFromImage converts a decoded image.Image into a 3-channel RGB Frame.
//
// Arguments:
//   - img: The source image. Non-zero bounds minimums are handled.
//
// Returns:
//   - *Frame: A fresh frame owning its pixel storage.
//   - error: An error if the image is nil or empty.
func FrameFromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	frame, err := NewFrame(bounds.Dx(), bounds.Dy(), 3)
	if err != nil {
		return nil, err
	}
	for y := 0; y < frame.height; y++ {
		for x := 0; x < frame.width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*frame.width + x) * 3
			frame.pix[i+0] = uint8(r >> 8)
			frame.pix[i+1] = uint8(g >> 8)
			frame.pix[i+2] = uint8(b >> 8)
		}
	}
	return frame, nil
}

// GrayFrameFromImage converts a decoded image.Image into a single-channel
// Frame using BT.709 luma.
func GrayFrameFromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	frame, err := NewFrame(bounds.Dx(), bounds.Dy(), 1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < frame.height; y++ {
		for x := 0; x < frame.width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma := float64(r)*redWeight + float64(g)*greenWeight + float64(b)*blueWeight
			frame.pix[y*frame.width+x] = uint8(uint32(luma) >> 8)
		}
	}
	return frame, nil
}

// Grayscale collapses a frame to a single channel using BT.709 luma.
// Single-channel frames are returned as a copy.
func Grayscale(f *Frame) *Frame {
	if f.channels == 1 {
		return f.Clone()
	}
	out, _ := NewFrame(f.width, f.height, 1)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			i := (y*f.width + x) * f.channels
			luma := float64(f.pix[i])*redWeight +
				float64(f.pix[i+1])*greenWeight +
				float64(f.pix[i+2])*blueWeight
			out.pix[y*f.width+x] = uint8(luma + 0.5)
		}
	}
	return out
}

// MaskImage renders a mask as a stdlib grayscale image, for saving debug
// output next to processed footage.
func MaskImage(m *Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetGray(x, y, color.Gray{Y: m.pix[y*m.width+x]})
		}
	}
	return img
}
