//go:build withcv
// +build withcv

package video

import (
	"io"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-intrusion/images"
)

// CaptureSource reads frames from a video file or capture device through
// OpenCV. Only built with the withcv tag.
type CaptureSource struct {
	cap  *gocv.VideoCapture
	mat  gocv.Mat
	opts SequenceOptions
}

// NewCaptureSource opens a video file or device path for reading.
//
// Arguments:
//   - path: Video file path or capture device identifier.
//   - opts: Conversion options applied to every frame.
//
// Returns:
//   - Source: A source yielding decoded frames in stream order.
//   - error: An error if the path cannot be opened.
func NewCaptureSource(path string, opts SequenceOptions) (Source, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video %s", path)
	}
	return &CaptureSource{cap: cap, mat: gocv.NewMat(), opts: opts}, nil
}

// Next returns the next decoded frame, or io.EOF at end of stream.
func (c *CaptureSource) Next() (*images.Frame, error) {
	if ok := c.cap.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, io.EOF
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting captured frame")
	}
	return convert(img, c.opts)
}

// Close releases the capture device and its native buffers.
func (c *CaptureSource) Close() error {
	c.mat.Close()
	return c.cap.Close()
}
