package bgsub

import (
	"fmt"

	"github.com/nvr-ai/go-intrusion/images"
)

// Standard MOG2 construction parameters. These mirror the defaults of the
// classic Zivkovic mixture model: a 500-frame effective history, a squared
// distance gate of 16 for background matches and 9 for mode updates, and up
// to five Gaussian modes per pixel.
const (
	mog2History         = 500
	mog2MaxModes        = 5
	mog2VarThreshold    = 16.0
	mog2VarThresholdGen = 9.0
	mog2BackgroundRatio = 0.9
	mog2ComplexityPrior = 0.05
	mog2VarInit         = 15.0
	mog2VarMin          = 4.0
	mog2VarMax          = 5 * mog2VarInit
	mog2ShadowTau       = 0.5
)

// MOG2Subtractor models each pixel as a weighted mixture of Gaussians.
//
// Modes are kept sorted by weight. A pixel is background when it matches one
// of the heaviest modes whose cumulative weight stays below the background
// ratio; a foreground pixel that is a uniformly darker copy of the
// background is reported as shadow. The model shape is fixed by the first
// frame; later frames must match it.
type MOG2Subtractor struct {
	width    int
	height   int
	channels int
	frames   int

	nmodes   []uint8
	weight   []float32
	variance []float32
	mean     []float32
}

// NewMOG2 returns a mixture-of-Gaussians subtractor with default thresholds.
// Model storage is allocated lazily from the first frame's dimensions.
func NewMOG2() *MOG2Subtractor {
	return &MOG2Subtractor{}
}

// Apply classifies one frame and updates the model.
//
// Arguments:
//   - frame: The next frame in arrival order.
//
// Returns:
//   - *images.Mask: Per-pixel classification (0 background, 127 shadow, 255 foreground).
//   - error: An error if the frame shape differs from the first frame seen.
func (m *MOG2Subtractor) Apply(frame *images.Frame) (*images.Mask, error) {
	if err := m.bind(frame); err != nil {
		return nil, err
	}
	m.frames++
	alpha := float32(1.0) / float32(minInt(2*m.frames, mog2History))

	mask, _ := images.NewMask(m.width, m.height)
	x := make([]float32, m.channels)
	for y := 0; y < m.height; y++ {
		for px := 0; px < m.width; px++ {
			p := y*m.width + px
			for c := 0; c < m.channels; c++ {
				x[c] = float32(frame.At(px, y, c))
			}
			mask.Set(px, y, m.applyPixel(p, x, alpha))
		}
	}
	return mask, nil
}

func (m *MOG2Subtractor) bind(frame *images.Frame) error {
	if m.nmodes == nil {
		m.width = frame.Width()
		m.height = frame.Height()
		m.channels = frame.Channels()
		npx := m.width * m.height
		m.nmodes = make([]uint8, npx)
		m.weight = make([]float32, npx*mog2MaxModes)
		m.variance = make([]float32, npx*mog2MaxModes)
		m.mean = make([]float32, npx*mog2MaxModes*m.channels)
		return nil
	}
	if frame.Width() != m.width || frame.Height() != m.height || frame.Channels() != m.channels {
		return fmt.Errorf("frame shape %dx%dx%d does not match model shape %dx%dx%d",
			frame.Width(), frame.Height(), frame.Channels(), m.width, m.height, m.channels)
	}
	return nil
}

// applyPixel runs one model update for pixel p and returns its mask value.
func (m *MOG2Subtractor) applyPixel(p int, x []float32, alpha float32) uint8 {
	base := p * mog2MaxModes
	meanBase := base * m.channels
	nmodes := int(m.nmodes[p])
	prune := -alpha * mog2ComplexityPrior

	fits := false
	background := false
	totalWeight := float32(0)

	for mode := 0; mode < nmodes; mode++ {
		w := (1-alpha)*m.weight[base+mode] + prune

		if !fits {
			dist2 := float32(0)
			for c := 0; c < m.channels; c++ {
				d := x[c] - m.mean[meanBase+mode*m.channels+c]
				dist2 += d * d
			}
			v := m.variance[base+mode]

			if totalWeight < mog2BackgroundRatio && dist2 < mog2VarThreshold*v {
				background = true
			}

			if dist2 < mog2VarThresholdGen*v {
				fits = true
				w += alpha
				k := alpha / w
				for c := 0; c < m.channels; c++ {
					m.mean[meanBase+mode*m.channels+c] += k * (x[c] - m.mean[meanBase+mode*m.channels+c])
				}
				v += k * (dist2 - v)
				if v < mog2VarMin {
					v = mog2VarMin
				} else if v > mog2VarMax {
					v = mog2VarMax
				}
				m.variance[base+mode] = v

				// Restore the weight-descending invariant.
				m.weight[base+mode] = w
				for i := mode; i > 0 && m.weight[base+i] > m.weight[base+i-1]; i-- {
					m.swapModes(p, i, i-1)
				}
				totalWeight += w
				continue
			}
		}

		// Drop modes whose weight decayed below the complexity prior.
		if w < -prune {
			m.weight[base+mode] = 0
			nmodes = m.removeMode(p, mode, nmodes)
			mode--
			continue
		}
		m.weight[base+mode] = w
		totalWeight += w
	}

	newMode := -1
	if !fits {
		// No mode explains this sample: start a new one, replacing the
		// weakest when the mixture is full.
		if nmodes < mog2MaxModes {
			nmodes++
		}
		mode := nmodes - 1
		w := alpha
		if nmodes == 1 {
			w = 1
		}
		m.weight[base+mode] = w
		m.variance[base+mode] = mog2VarInit
		for c := 0; c < m.channels; c++ {
			m.mean[meanBase+mode*m.channels+c] = x[c]
		}
		i := mode
		for ; i > 0 && m.weight[base+i] > m.weight[base+i-1]; i-- {
			m.swapModes(p, i, i-1)
		}
		newMode = i
		totalWeight += w
	}
	m.nmodes[p] = uint8(nmodes)

	if totalWeight > 0 {
		inv := 1 / totalWeight
		for i := 0; i < nmodes; i++ {
			m.weight[base+i] *= inv
		}
	}

	if background {
		return images.MaskBackground
	}
	if m.isShadow(p, x, newMode) {
		return images.MaskShadow
	}
	return images.MaskForeground
}

// isShadow checks whether x is a uniformly darker copy of one of the
// background modes. The mode created from x itself this frame (skip, or -1)
// is excluded: it would trivially match and turn every fresh foreground
// pixel into shadow.
func (m *MOG2Subtractor) isShadow(p int, x []float32, skip int) bool {
	base := p * mog2MaxModes
	meanBase := base * m.channels
	nmodes := int(m.nmodes[p])

	totalWeight := float32(0)
	for mode := 0; mode < nmodes && totalWeight < mog2BackgroundRatio; mode++ {
		if mode == skip {
			continue
		}
		var num, den float32
		for c := 0; c < m.channels; c++ {
			mu := m.mean[meanBase+mode*m.channels+c]
			num += x[c] * mu
			den += mu * mu
		}
		if den == 0 {
			return false
		}
		a := num / den
		if a >= mog2ShadowTau && a <= 1 {
			dist2 := float32(0)
			for c := 0; c < m.channels; c++ {
				d := x[c] - a*m.mean[meanBase+mode*m.channels+c]
				dist2 += d * d
			}
			if dist2 < mog2VarThreshold*m.variance[base+mode]*a*a {
				return true
			}
		}
		totalWeight += m.weight[base+mode]
	}
	return false
}

func (m *MOG2Subtractor) swapModes(p, i, j int) {
	base := p * mog2MaxModes
	m.weight[base+i], m.weight[base+j] = m.weight[base+j], m.weight[base+i]
	m.variance[base+i], m.variance[base+j] = m.variance[base+j], m.variance[base+i]
	mi := (base + i) * m.channels
	mj := (base + j) * m.channels
	for c := 0; c < m.channels; c++ {
		m.mean[mi+c], m.mean[mj+c] = m.mean[mj+c], m.mean[mi+c]
	}
}

// removeMode deletes mode i by shifting the tail down, returning the new
// mode count.
func (m *MOG2Subtractor) removeMode(p, i, nmodes int) int {
	for j := i; j < nmodes-1; j++ {
		m.swapModes(p, j, j+1)
	}
	return nmodes - 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
