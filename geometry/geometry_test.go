package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-intrusion/images"
)

func maskWith(t *testing.T, w, h int, fg ...[2]int) *images.Mask {
	t.Helper()
	m, err := images.NewMask(w, h)
	require.NoError(t, err)
	for _, p := range fg {
		m.Set(p[0], p[1], images.MaskForeground)
	}
	return m
}

func TestBlobsEmptyMask(t *testing.T) {
	m := maskWith(t, 8, 8)
	require.Empty(t, Blobs(m))
}

func TestBlobsSingleRegion(t *testing.T) {
	m := maskWith(t, 10, 10)
	for y := 2; y <= 5; y++ {
		for x := 3; x <= 6; x++ {
			m.Set(x, y, images.MaskForeground)
		}
	}
	blobs := Blobs(m)
	require.Len(t, blobs, 1)

	b := blobs[0]
	require.Equal(t, 16, b.Area)
	require.Equal(t, image.Rect(3, 2, 7, 6), b.Rect)
	require.Equal(t, image.Pt(4, 3), b.Center())
	require.Equal(t, image.Pt(4, 5), b.Bottom())
}

func TestBlobsSeparatesDistantRegions(t *testing.T) {
	m := maskWith(t, 12, 12,
		[2]int{1, 1}, [2]int{2, 1},
		[2]int{8, 9}, [2]int{9, 9}, [2]int{8, 10})
	blobs := Blobs(m)
	require.Len(t, blobs, 2)
	// Scan order: first pixel of the first blob is (1,1).
	require.Equal(t, 2, blobs[0].Area)
	require.Equal(t, 3, blobs[1].Area)
}

func TestBlobsDiagonalPixelsConnect(t *testing.T) {
	m := maskWith(t, 6, 6, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3})
	blobs := Blobs(m)
	require.Len(t, blobs, 1)
	require.Equal(t, 3, blobs[0].Area)
}

func TestBlobsIncludeShadowPixels(t *testing.T) {
	m := maskWith(t, 6, 6, [2]int{2, 2})
	m.Set(3, 2, images.MaskShadow)
	blobs := Blobs(m)
	require.Len(t, blobs, 1)
	require.Equal(t, 2, blobs[0].Area)
}

func TestCentersAndBottoms(t *testing.T) {
	m := maskWith(t, 10, 10,
		[2]int{0, 0},
		[2]int{5, 5}, [2]int{5, 6}, [2]int{5, 7})
	blobs := Blobs(m)
	require.Len(t, blobs, 2)
	require.Equal(t, []image.Point{{0, 0}, {5, 6}}, Centers(blobs))
	require.Equal(t, []image.Point{{0, 0}, {5, 7}}, Bottoms(blobs))
}

func TestFindContaining(t *testing.T) {
	centers := []image.Point{{10, 10}, {30, 30}}
	half := image.Pt(5, 5)

	require.Equal(t, 0, FindContaining(image.Pt(12, 8), centers, half))
	require.Equal(t, 1, FindContaining(image.Pt(30, 30), centers, half))
	require.Equal(t, -1, FindContaining(image.Pt(20, 20), centers, half))
	// Borders are inclusive.
	require.Equal(t, 0, FindContaining(image.Pt(15, 15), centers, half))
	require.Equal(t, 0, FindContaining(image.Pt(5, 5), centers, half))
	require.Equal(t, -1, FindContaining(image.Pt(16, 10), centers, half))
	// First match wins on overlap.
	require.Equal(t, 0, FindContaining(image.Pt(10, 10), []image.Point{{10, 10}, {11, 11}}, half))
}

func TestNormalizeRoundTrip(t *testing.T) {
	pts := []image.Point{{0, 0}, {80, 60}, {159, 119}}
	coords := Normalize(pts, 160, 120)
	require.InDelta(t, 0.5, coords[1].X, 1e-9)
	require.InDelta(t, 0.5, coords[1].Y, 1e-9)

	back := Unnormalize(coords, 160, 120)
	require.Equal(t, pts, back)
}

func TestFitLine(t *testing.T) {
	l, err := FitLine([2]float64{0, 2}, [2]float64{1, 5})
	require.NoError(t, err)
	require.InDelta(t, 2.0, l.Slope, 1e-9)
	require.InDelta(t, 1.0, l.Intercept, 1e-9)
	require.InDelta(t, 7.0, l.At(3), 1e-9)

	_, err = FitLine([2]float64{1, 1}, [2]float64{0, 5})
	require.Error(t, err)
}
