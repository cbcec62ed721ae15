package pipeline

import (
	"github.com/nvr-ai/go-intrusion/bgsub"
	"github.com/nvr-ai/go-intrusion/denoise"
	"github.com/nvr-ai/go-intrusion/morph"
)

// Defaults applied during Fit for fields left unset.
const (
	// DefaultDenoiseKSize is the kernel side length used when a denoise
	// configuration omits it.
	DefaultDenoiseKSize = 3
	// DefaultMorphKSize is the structuring element side length used when a
	// refiner entry omits its kernel.
	DefaultMorphKSize = 5
)

// DenoiseConfig configures the spatial smoothing stage.
//
// Filter is required; KSize defaults to 3 and Border to Replicate. A nil
// *DenoiseConfig on Config disables the stage entirely.
type DenoiseConfig struct {
	// Filter is the smoothing operation. Required.
	Filter denoise.Filter
	// KSize is the kernel side length, odd and positive. Defaults to 3.
	KSize int
	// Border is the border-extension mode. Defaults to Replicate.
	Border denoise.Border
}

// SubtractorConfig configures the mandatory background subtraction stage.
type SubtractorConfig struct {
	// Variant selects the background model. Required.
	Variant bgsub.Variant
}

// RefineConfig is one entry of the mask refiner's operator chain.
//
// Op is required; a nil Kernel defaults to a 5x5 rectangular structuring
// element.
type RefineConfig struct {
	// Op is the morphological operator. Required.
	Op morph.Op
	// Kernel is the structuring element. Defaults to a 5x5 rectangle.
	Kernel *morph.Kernel
}

// Config holds the stage configurations for one pipeline.
//
// The configuration is validated and normalized once by Fit and never
// mutated afterwards; stages cannot change their own parameters during
// Predict.
type Config struct {
	// Denoise configures spatial smoothing. nil disables the stage.
	Denoise *DenoiseConfig
	// Subtractor configures background subtraction. Always required.
	Subtractor SubtractorConfig
	// Refine is the ordered morphological operator chain. Empty disables
	// the stage. Entries are applied exactly in the given order.
	Refine []RefineConfig
}

// DefaultConfig returns the standard pipeline: 3x3 Gaussian smoothing, the
// MOG2 background model, and an erode-then-dilate cleanup with 5x5
// rectangular kernels.
func DefaultConfig() Config {
	return Config{
		Denoise: &DenoiseConfig{Filter: denoise.Gaussian},
		Subtractor: SubtractorConfig{Variant: bgsub.MOG2},
		Refine: []RefineConfig{
			{Op: morph.Erode},
			{Op: morph.Dilate},
		},
	}
}

// normalize validates cfg and returns a defaulted deep copy. It reports the
// first problem found as a ConfigError and touches no pipeline state.
func normalize(cfg Config) (Config, error) {
	out := Config{Subtractor: cfg.Subtractor}

	if cfg.Denoise != nil {
		d := *cfg.Denoise
		if d.Filter == 0 {
			return Config{}, configErrorf("denoise", "filter operation not set")
		}
		if d.Filter != denoise.Gaussian && d.Filter != denoise.Box {
			return Config{}, configErrorf("denoise", "unknown filter %v", d.Filter)
		}
		if d.KSize == 0 {
			d.KSize = DefaultDenoiseKSize
		}
		if d.KSize < 0 || d.KSize%2 == 0 {
			return Config{}, configErrorf("denoise", "kernel size must be odd and positive, got %d", d.KSize)
		}
		if d.Border != denoise.Replicate && d.Border != denoise.Reflect && d.Border != denoise.Wrap {
			return Config{}, configErrorf("denoise", "unknown border mode %v", d.Border)
		}
		out.Denoise = &d
	}

	if cfg.Subtractor.Variant == 0 {
		return Config{}, configErrorf("subtractor", "background subtraction variant not set")
	}
	if cfg.Subtractor.Variant != bgsub.MOG2 && cfg.Subtractor.Variant != bgsub.KNN {
		return Config{}, configErrorf("subtractor", "unknown variant %v", cfg.Subtractor.Variant)
	}

	if len(cfg.Refine) > 0 {
		out.Refine = make([]RefineConfig, len(cfg.Refine))
		for i, entry := range cfg.Refine {
			if entry.Op == 0 {
				return Config{}, configErrorf("refine", "entry %d has no operator", i)
			}
			switch entry.Op {
			case morph.Erode, morph.Dilate, morph.Open, morph.Close:
			default:
				return Config{}, configErrorf("refine", "entry %d has unknown operator %v", i, entry.Op)
			}
			kernel := entry.Kernel
			if kernel == nil {
				k := morph.Rect(DefaultMorphKSize, DefaultMorphKSize)
				kernel = &k
			} else if kernel.Empty() {
				return Config{}, configErrorf("refine", "entry %d has an empty structuring element", i)
			}
			out.Refine[i] = RefineConfig{Op: entry.Op, Kernel: kernel}
		}
	}

	return out, nil
}
