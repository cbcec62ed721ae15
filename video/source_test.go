package video

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFramePNG writes a solid-color frame-<n>.png of the given size.
func writeFramePNG(t *testing.T, dir string, n, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, "frame-"+strconv.Itoa(n)+".png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestSequenceSourceOrdersNumerically(t *testing.T) {
	dir := t.TempDir()
	// Frame 10 sorts after frame 2 numerically, before it lexically.
	writeFramePNG(t, dir, 2, 4, 4, color.Gray{Y: 20})
	writeFramePNG(t, dir, 10, 4, 4, color.Gray{Y: 100})
	writeFramePNG(t, dir, 1, 4, 4, color.Gray{Y: 10})

	src, err := NewSequenceSource(dir, SequenceOptions{Gray: true})
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, 3, src.Len())

	for _, want := range []uint8{10, 20, 100} {
		f, err := src.Next()
		require.NoError(t, err)
		require.Equal(t, 1, f.Channels())
		require.Equal(t, want, f.At(0, 0, 0))
	}
	_, err = src.Next()
	require.Equal(t, io.EOF, err)
}

func TestSequenceSourceSkipsNonImageFiles(t *testing.T) {
	dir := t.TempDir()
	writeFramePNG(t, dir, 0, 4, 4, color.Gray{Y: 50})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	src, err := NewSequenceSource(dir, SequenceOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())
}

func TestSequenceSourceRejectsUnparseableNames(t *testing.T) {
	dir := t.TempDir()
	writeFramePNG(t, dir, 0, 4, 4, color.Gray{Y: 50})
	require.NoError(t, os.Rename(
		filepath.Join(dir, "frame-0.png"),
		filepath.Join(dir, "frame-abc.png")))

	_, err := NewSequenceSource(dir, SequenceOptions{})
	require.Error(t, err)
}

func TestSequenceSourceEmptyDirectory(t *testing.T) {
	_, err := NewSequenceSource(t.TempDir(), SequenceOptions{})
	require.Error(t, err)
}

func TestSequenceSourceMissingDirectory(t *testing.T) {
	_, err := NewSequenceSource(filepath.Join(t.TempDir(), "nope"), SequenceOptions{})
	require.Error(t, err)
}

func TestSequenceSourceColorFrames(t *testing.T) {
	dir := t.TempDir()
	writeFramePNG(t, dir, 0, 3, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	src, err := NewSequenceSource(dir, SequenceOptions{})
	require.NoError(t, err)
	f, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 3, f.Channels())
	require.Equal(t, uint8(200), f.At(0, 0, 0))
	require.Equal(t, uint8(100), f.At(0, 0, 1))
	require.Equal(t, uint8(50), f.At(0, 0, 2))
}

func TestSequenceSourceScalesDown(t *testing.T) {
	dir := t.TempDir()
	writeFramePNG(t, dir, 0, 8, 4, color.Gray{Y: 80})

	src, err := NewSequenceSource(dir, SequenceOptions{Gray: true, ScaleWidth: 4})
	require.NoError(t, err)
	f, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 4, f.Width())
	require.Equal(t, 2, f.Height())
	// Downscaling a solid frame keeps its value.
	require.Equal(t, uint8(80), f.At(1, 1, 0))
}

func TestSequenceSourceScaleWidthLeavesSmallFrames(t *testing.T) {
	dir := t.TempDir()
	writeFramePNG(t, dir, 0, 4, 4, color.Gray{Y: 80})

	src, err := NewSequenceSource(dir, SequenceOptions{ScaleWidth: 100})
	require.NoError(t, err)
	f, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 4, f.Width())
}
