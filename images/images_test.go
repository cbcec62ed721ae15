package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFrameRejectsInvalidShapes(t *testing.T) {
	for _, shape := range [][3]int{{0, 4, 1}, {4, 0, 1}, {4, 4, 0}, {-1, 4, 1}} {
		_, err := NewFrame(shape[0], shape[1], shape[2])
		require.Error(t, err, "shape %v", shape)
	}
}

func TestFrameAccessors(t *testing.T) {
	f, err := NewFrame(4, 3, 2)
	require.NoError(t, err)
	require.Equal(t, 4, f.Width())
	require.Equal(t, 3, f.Height())
	require.Equal(t, 2, f.Channels())

	f.Set(3, 2, 1, 200)
	require.Equal(t, uint8(200), f.At(3, 2, 1))
	require.Equal(t, uint8(0), f.At(3, 2, 0))

	require.Panics(t, func() { f.At(4, 0, 0) })
	require.Panics(t, func() { f.At(0, 3, 0) })
	require.Panics(t, func() { f.Set(0, 0, 2, 1) })
	require.Panics(t, func() { f.At(-1, 0, 0) })
}

func TestFrameCloneIsIndependent(t *testing.T) {
	f, _ := NewFrame(2, 2, 1)
	f.Set(0, 0, 0, 9)
	clone := f.Clone()
	require.True(t, f.Equal(clone))

	clone.Set(0, 0, 0, 7)
	require.Equal(t, uint8(9), f.At(0, 0, 0))
	require.False(t, f.Equal(clone))
}

func TestFrameEqualShapeMismatch(t *testing.T) {
	a, _ := NewFrame(2, 2, 1)
	b, _ := NewFrame(2, 2, 3)
	require.False(t, a.Equal(b))
	require.False(t, a.SameShape(b))
}

func TestMaskAccessorsAndCounts(t *testing.T) {
	m, err := NewMask(5, 4)
	require.NoError(t, err)
	require.Equal(t, 0, m.NonzeroCount())

	m.Set(1, 1, MaskForeground)
	m.Set(2, 3, MaskShadow)
	require.Equal(t, 2, m.NonzeroCount())
	require.Equal(t, uint8(255), m.At(1, 1))

	require.Panics(t, func() { m.At(5, 0) })

	m.Fill(0)
	require.Equal(t, 0, m.NonzeroCount())

	_, err = NewMask(0, 3)
	require.Error(t, err)
}

func TestMaskCloneAndEqual(t *testing.T) {
	m, _ := NewMask(3, 3)
	m.Set(2, 2, 255)
	clone := m.Clone()
	require.True(t, m.Equal(clone))
	clone.Set(0, 0, 1)
	require.False(t, m.Equal(clone))
}

func TestFrameFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 2, 5, 4)) // non-zero Min
	img.SetRGBA(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(4, 3, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	f, err := FrameFromImage(img)
	require.NoError(t, err)
	require.Equal(t, 3, f.Width())
	require.Equal(t, 2, f.Height())
	require.Equal(t, 3, f.Channels())
	require.Equal(t, uint8(10), f.At(0, 0, 0))
	require.Equal(t, uint8(20), f.At(0, 0, 1))
	require.Equal(t, uint8(30), f.At(0, 0, 2))
	require.Equal(t, uint8(200), f.At(2, 1, 0))

	_, err = FrameFromImage(nil)
	require.Error(t, err)
}

func TestGrayscaleUsesLumaWeights(t *testing.T) {
	f, _ := NewFrame(1, 1, 3)
	f.Set(0, 0, 0, 255) // pure red
	gray := Grayscale(f)
	require.Equal(t, 1, gray.Channels())
	// BT.709: red contributes ~21% of luma.
	require.InDelta(t, 54, int(gray.At(0, 0, 0)), 1)
}

func TestGrayscaleOfGrayIsCopy(t *testing.T) {
	f, _ := NewFrame(2, 1, 1)
	f.Set(1, 0, 0, 77)
	gray := Grayscale(f)
	require.True(t, f.Equal(gray))
	gray.Set(0, 0, 0, 5)
	require.Equal(t, uint8(0), f.At(0, 0, 0))
}

func TestGrayFrameFromImageMatchesGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 128})
	f, err := GrayFrameFromImage(img)
	require.NoError(t, err)
	require.Equal(t, 1, f.Channels())
	require.Equal(t, uint8(128), f.At(1, 1, 0))
}

func TestMaskImageRoundTrip(t *testing.T) {
	m, _ := NewMask(3, 2)
	m.Set(2, 1, MaskForeground)
	img := MaskImage(m)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	require.Equal(t, uint8(255), img.GrayAt(2, 1).Y)
	require.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
}
