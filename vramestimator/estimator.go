package vramestimator

import (
	"math"

	"github.com/sammcj/hfscout/core"
)

// Defaults used when a config omits the corresponding field
const (
	DefaultHiddenSize = 4096
	DefaultNumLayers  = 32
	DefaultVocabSize  = 32000
)

// Estimator derives parameter counts and memory footprints from architecture configs.
// LayerMultiplier approximates parameters per transformer layer as a multiple of hidden_size²
// and Overhead reserves headroom for activations and the KV cache.
type Estimator struct {
	LayerMultiplier float64
	Overhead        float64
}

// DefaultEstimator carries the standard ×12 layer multiplier and 20% overhead
var DefaultEstimator = Estimator{LayerMultiplier: 12, Overhead: 1.2}

// EstimateVRAM estimates memory requirements using DefaultEstimator
func EstimateVRAM(cfg *core.ArchitectureConfig) core.VRAMEstimate {
	return DefaultEstimator.Estimate(cfg)
}

// Estimate returns FP32/FP16/INT8/INT4 requirements in GB, rounded to one decimal.
// INT4 is rounded first and the wider precisions are exact multiples of it.
func (e Estimator) Estimate(cfg *core.ArchitectureConfig) core.VRAMEstimate {
	params := e.ParamCount(cfg)
	int4 := roundTenth(params * 0.5 * e.overhead())

	return core.VRAMEstimate{
		FP32:        int4 * 8,
		FP16:        int4 * 4,
		INT8:        int4 * 2,
		INT4:        int4,
		TotalParams: roundTenth(params),
	}
}

// ParamCount approximates the total parameter count in billions
func (e Estimator) ParamCount(cfg *core.ArchitectureConfig) float64 {
	hidden, layers, vocab := float64(DefaultHiddenSize), float64(DefaultNumLayers), float64(DefaultVocabSize)
	if cfg != nil {
		if cfg.HiddenSize > 0 {
			hidden = float64(cfg.HiddenSize)
		}
		if cfg.NumHiddenLayers > 0 {
			layers = float64(cfg.NumHiddenLayers)
		}
		if cfg.VocabSize > 0 {
			vocab = float64(cfg.VocabSize)
		}
	}

	embedding := vocab * hidden / 1e9
	transformer := hidden * hidden * layers * e.multiplier() / 1e9
	return embedding + transformer
}

func (e Estimator) multiplier() float64 {
	if e.LayerMultiplier > 0 {
		return e.LayerMultiplier
	}
	return DefaultEstimator.LayerMultiplier
}

func (e Estimator) overhead() float64 {
	if e.Overhead > 0 {
		return e.Overhead
	}
	return DefaultEstimator.Overhead
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
