//go:build !withcv
// +build !withcv

package video

import "github.com/pkg/errors"

// NewCaptureSource reports that video capture support was not compiled in.
// Build with -tags withcv to read video files through OpenCV.
func NewCaptureSource(path string, opts SequenceOptions) (Source, error) {
	return nil, errors.New("video capture requires building with -tags withcv")
}
