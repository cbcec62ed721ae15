// Package geometry - helpers that consume pipeline masks for visualization
// and coordinate extraction. These are one-way consumers: nothing here feeds
// back into the pipeline.
package geometry

import (
	"fmt"
	"image"

	"github.com/nvr-ai/go-intrusion/images"
)

// Blob is one connected foreground region of a mask.
type Blob struct {
	// Rect is the bounding rectangle of the blob.
	Rect image.Rectangle
	// Area is the number of foreground pixels.
	Area int

	sumX int
	sumY int
	maxY int
}

// Center returns the blob centroid.
func (b Blob) Center() image.Point {
	return image.Pt(b.sumX/b.Area, b.sumY/b.Area)
}

// Bottom returns the middle-bottom point of the blob: centroid x paired
// with the lowest foreground row (image y grows downward).
func (b Blob) Bottom() image.Point {
	return image.Pt(b.sumX/b.Area, b.maxY)
}

// Blobs extracts the 8-connected foreground regions of a mask, shadows
// included. Regions are returned in scan order of their first pixel.
func Blobs(m *images.Mask) []Blob {
	width, height := m.Width(), m.Height()
	visited := make([]bool, width*height)
	var blobs []Blob
	var stack []image.Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || m.At(x, y) == 0 {
				continue
			}
			blob := Blob{Rect: image.Rect(x, y, x+1, y+1)}
			visited[y*width+x] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				pt := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				blob.Area++
				blob.sumX += pt.X
				blob.sumY += pt.Y
				if pt.Y > blob.maxY {
					blob.maxY = pt.Y
				}
				blob.Rect = blob.Rect.Union(image.Rect(pt.X, pt.Y, pt.X+1, pt.Y+1))
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := pt.X+dx, pt.Y+dy
						if nx < 0 || nx >= width || ny < 0 || ny >= height {
							continue
						}
						if visited[ny*width+nx] || m.At(nx, ny) == 0 {
							continue
						}
						visited[ny*width+nx] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}
			blobs = append(blobs, blob)
		}
	}
	return blobs
}

// Centers returns the centroid of every blob.
func Centers(blobs []Blob) []image.Point {
	centers := make([]image.Point, len(blobs))
	for i, b := range blobs {
		centers[i] = b.Center()
	}
	return centers
}

// Bottoms returns the middle-bottom point of every blob.
func Bottoms(blobs []Blob) []image.Point {
	bottoms := make([]image.Point, len(blobs))
	for i, b := range blobs {
		bottoms[i] = b.Bottom()
	}
	return bottoms
}

// FindContaining returns the index of the first center whose surrounding
// rectangle (center ± half, borders included) contains coord, or -1 if
// none does.
func FindContaining(coord image.Point, centers []image.Point, half image.Point) int {
	for i, c := range centers {
		if coord.X >= c.X-half.X && coord.X <= c.X+half.X &&
			coord.Y >= c.Y-half.Y && coord.Y <= c.Y+half.Y {
			return i
		}
	}
	return -1
}

// Coord is a normalized (x, y) coordinate in [0, 1].
type Coord struct {
	X float64
	Y float64
}

// Normalize maps pixel coordinates into [0, 1] relative to a width x height
// grid.
func Normalize(pts []image.Point, width, height int) []Coord {
	out := make([]Coord, len(pts))
	for i, p := range pts {
		out[i] = Coord{
			X: float64(p.X) / float64(width),
			Y: float64(p.Y) / float64(height),
		}
	}
	return out
}

// Unnormalize maps [0, 1] coordinates back onto a width x height pixel grid.
func Unnormalize(coords []Coord, width, height int) []image.Point {
	out := make([]image.Point, len(coords))
	for i, c := range coords {
		out[i] = image.Pt(int(c.X*float64(width)), int(c.Y*float64(height)))
	}
	return out
}

// Line is a fitted line y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// FitLine fits a line through two points.
//
// Arguments:
//   - x: The two x values.
//   - y: The two corresponding y values.
//
// Returns:
//   - Line: The fitted line.
//   - error: An error if the x values coincide (vertical line).
func FitLine(x, y [2]float64) (Line, error) {
	if x[0] == x[1] {
		return Line{}, fmt.Errorf("cannot fit a line through two points with equal x %v", x[0])
	}
	slope := (y[1] - y[0]) / (x[1] - x[0])
	return Line{Slope: slope, Intercept: y[0] - slope*x[0]}, nil
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}
