// File: vramestimator/calculator.go

package vramestimator

import (
	"fmt"
	"math"
	"sort"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/logging"
)

const (
	CUDASize   = 500 * 1024 * 1024 // 500 MB
	minContext = 512
)

// CalculateBPW returns the highest-precision GGUF quantisation that fits in memory at the given context
func CalculateBPW(cfg *core.ArchitectureConfig, memory float64, context int, kvCacheQuant KVCacheQuantisation) (string, error) {
	logging.DebugLogger.Println("Calculating BPW...")

	names := make([]string, 0, len(GGUFMapping))
	for name := range GGUFMapping {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if GGUFMapping[names[i]] == GGUFMapping[names[j]] {
			return names[i] < names[j]
		}
		return GGUFMapping[names[i]] > GGUFMapping[names[j]]
	})

	for _, name := range names {
		if CalculateVRAM(cfg, GGUFMapping[name], context, kvCacheQuant) < memory {
			return name, nil
		}
	}

	return "", fmt.Errorf("no suitable BPW found for the given memory constraint")
}

// CalculateVRAM calculates the VRAM usage in GB for a model at a given bits-per-weight and context
func CalculateVRAM(cfg *core.ArchitectureConfig, bpw float64, context int, kvCacheQuant KVCacheQuantisation) float64 {
	logging.DebugLogger.Println("Calculating VRAM usage...")

	bpwValues := GetBPWValues(bpw, kvCacheQuant)
	if context == 0 {
		context = cfg.ContextLength()
	}
	if context == 0 {
		context = minContext
	}

	vram := CalculateVRAMRaw(cfg, bpwValues, context, 1)
	return math.Round(vram*100) / 100
}

// CalculateContext finds the largest context that fits in memory, in steps of 100 tokens
func CalculateContext(cfg *core.ArchitectureConfig, memory, bpw float64, kvCacheQuant KVCacheQuantisation) int {
	logging.DebugLogger.Println("Calculating context...")

	maxContext := cfg.ContextLength()
	if maxContext < minContext {
		maxContext = minContext
	}

	low, high := minContext, maxContext
	for low < high {
		mid := (low + high + 1) / 2
		if CalculateVRAM(cfg, bpw, mid, kvCacheQuant) > memory {
			high = mid - 1
		} else {
			low = mid
		}
	}

	if CalculateVRAM(cfg, bpw, low, kvCacheQuant) > memory {
		return 0
	}
	return low - low%100
}

// CalculateVRAMRaw calculates the raw VRAM usage including weights, activations and the KV cache
func CalculateVRAMRaw(cfg *core.ArchitectureConfig, bpwValues BPWValues, context int, numGPUs int) float64 {
	shape := resolveShape(cfg)

	cudaSize := float64(CUDASize * numGPUs)
	paramsSize := shape.params * 1e9 * (bpwValues.BPW / 8)

	kvCacheSize := float64(context*2*shape.layers*shape.hidden) * (bpwValues.KVCacheBPW / 8)
	kvCacheSize *= float64(shape.kvHeads) / float64(shape.heads)

	bytesPerParam := bpwValues.BPW / 8
	lmHeadBytesPerParam := bpwValues.LMHeadBPW / 8

	headDim := float64(shape.hidden) / float64(shape.heads)
	attentionInput := bytesPerParam * float64(context*shape.hidden)

	q := bytesPerParam * float64(context) * headDim * float64(shape.heads)
	k := bytesPerParam * float64(context) * headDim * float64(shape.kvHeads)
	v := bytesPerParam * float64(context) * headDim * float64(shape.kvHeads)

	softmaxOutput := lmHeadBytesPerParam * float64(shape.heads*context)
	softmaxDropoutMask := float64(shape.heads * context)
	dropoutOutput := lmHeadBytesPerParam * float64(shape.heads*context)

	outProjInput := lmHeadBytesPerParam * float64(context*shape.heads) * headDim
	attentionDropout := float64(context * shape.hidden)

	attentionBlock := attentionInput + q + k + softmaxOutput + v + outProjInput + softmaxDropoutMask + dropoutOutput + attentionDropout

	mlpInput := bytesPerParam * float64(context*shape.hidden)
	activationInput := bytesPerParam * float64(context*shape.intermediate)
	downProjInput := bytesPerParam * float64(context*shape.intermediate)
	dropoutMask := float64(context * shape.hidden)
	mlpBlock := mlpInput + activationInput + downProjInput + dropoutMask

	layerNorms := bytesPerParam * float64(context*shape.hidden*2)
	activationsSize := attentionBlock + mlpBlock + layerNorms

	outputSize := lmHeadBytesPerParam * float64(context*shape.vocab)

	return (cudaSize + paramsSize + activationsSize + outputSize + kvCacheSize) / bytesPerGB
}

type modelShape struct {
	params       float64
	hidden       int
	layers       int
	heads        int
	kvHeads      int
	intermediate int
	vocab        int
}

// resolveShape fills the dimensions the detailed calculation needs, defaulting as EstimateVRAM does
func resolveShape(cfg *core.ArchitectureConfig) modelShape {
	s := modelShape{
		params:  DefaultEstimator.ParamCount(cfg),
		hidden:  DefaultHiddenSize,
		layers:  DefaultNumLayers,
		heads:   32,
		vocab:   DefaultVocabSize,
		kvHeads: 0,
	}
	if cfg != nil {
		if cfg.HiddenSize > 0 {
			s.hidden = cfg.HiddenSize
		}
		if cfg.NumHiddenLayers > 0 {
			s.layers = cfg.NumHiddenLayers
		}
		if cfg.NumAttentionHeads > 0 {
			s.heads = cfg.NumAttentionHeads
		}
		if cfg.VocabSize > 0 {
			s.vocab = cfg.VocabSize
		}
		s.kvHeads = cfg.NumKeyValueHeads
		s.intermediate = cfg.IntermediateSize
	}
	if s.kvHeads <= 0 || s.kvHeads > s.heads {
		s.kvHeads = s.heads
	}
	if s.intermediate <= 0 {
		s.intermediate = s.hidden * 4
	}
	return s
}
