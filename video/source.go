// Package video - frame sources feeding the intrusion pipeline.
//
// A Source yields frames in strict temporal order and signals end-of-stream
// with io.EOF. Sources are collaborators of the pipeline, not part of it:
// the pipeline has no opinion on their lifecycle.
package video

import (
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-intrusion/images"
)

// Source yields frames in strict temporal order.
type Source interface {
	// Next returns the next frame, or io.EOF after the last one.
	Next() (*images.Frame, error)
	// Close releases any resources held by the source.
	Close() error
}

// SequenceOptions configures a SequenceSource.
type SequenceOptions struct {
	// Gray converts frames to a single luma channel.
	Gray bool
	// ScaleWidth downscales frames to this width before conversion,
	// preserving aspect ratio. Zero leaves frames at native size.
	ScaleWidth int
}

// SequenceSource reads an image sequence from a directory of
// frame-<N>.<ext> files, ordered by frame number.
type SequenceSource struct {
	paths []string
	idx   int
	opts  SequenceOptions
}

type sequenceEntry struct {
	path  string
	frame int
}

// NewSequenceSource scans dir for frame-numbered image files.
//
// Arguments:
//   - dir: Directory containing frame-<N>.jpg/.jpeg/.png files.
//   - opts: Conversion options applied to every frame.
//
// Returns:
//   - *SequenceSource: A source yielding the frames in numeric order.
//   - error: An error if the directory cannot be read, a file name cannot
//     be parsed, or no frames are found.
func NewSequenceSource(dir string, opts SequenceOptions) (*SequenceSource, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading frame directory")
	}

	var entries []sequenceEntry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := filepath.Ext(file.Name())
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg", ".png":
		default:
			continue
		}
		numeric := strings.TrimSuffix(strings.TrimPrefix(file.Name(), "frame-"), ext)
		frame, err := strconv.Atoi(numeric)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing frame number from %q", file.Name())
		}
		entries = append(entries, sequenceEntry{
			path:  filepath.Join(dir, file.Name()),
			frame: frame,
		})
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("no frame images found in %s", dir)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].frame < entries[j].frame })

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return &SequenceSource{paths: paths, opts: opts}, nil
}

// Len returns the number of frames in the sequence.
func (s *SequenceSource) Len() int { return len(s.paths) }

// Next decodes and returns the next frame in order, or io.EOF after the
// last one.
func (s *SequenceSource) Next() (*images.Frame, error) {
	if s.idx >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.idx]
	s.idx++

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return convert(img, s.opts)
}

// Close is a no-op; files are opened per frame.
func (s *SequenceSource) Close() error { return nil }

func convert(img image.Image, opts SequenceOptions) (*images.Frame, error) {
	if opts.ScaleWidth > 0 && img.Bounds().Dx() > opts.ScaleWidth {
		img = resize.Resize(uint(opts.ScaleWidth), 0, img, resize.Bilinear)
	}
	if opts.Gray {
		return images.GrayFrameFromImage(img)
	}
	return images.FrameFromImage(img)
}
