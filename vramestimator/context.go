package vramestimator

import (
	"fmt"
	"math"
)

// kvCacheGBPerToken is the rough KV cache cost per token per sample at FP16
const kvCacheGBPerToken = 0.002

// EstimateContextVRAM adds a linear KV cache allowance for contextLength tokens to baseVRAM
func EstimateContextVRAM(baseVRAM float64, contextLength, batchSize int) ContextEstimate {
	if batchSize < 1 {
		batchSize = 1
	}
	kvCache := float64(contextLength*batchSize) * kvCacheGBPerToken

	est := ContextEstimate{
		BaseVRAM: baseVRAM,
		KVCache:  roundTenth(kvCache),
		Total:    roundTenth(baseVRAM + kvCache),
	}
	if contextLength > 8192 {
		est.Warning = "High context increases memory significantly"
	}
	return est
}

// CheckCompatibility compares a requirement against the available memory, both in GB
func CheckCompatibility(required, available float64) Compatibility {
	c := Compatibility{
		Fits:     required <= available,
		Headroom: roundTenth(available - required),
	}
	if available > 0 {
		c.UtilizationPercent = int(math.Round(required / available * 100))
	}
	if c.Fits {
		c.Recommendation = "Model will fit comfortably"
	} else {
		c.Recommendation = fmt.Sprintf("Need %.1fGB more VRAM", required-available)
	}
	return c
}

// RecommendGPUTier maps a memory requirement to a hardware class
func RecommendGPUTier(vram float64) GPUTier {
	switch {
	case vram <= 4:
		return GPUTier{Tier: "Consumer", GPUs: []string{"RTX 3060 (12GB)", "RTX 4060 Ti (16GB)"}, Cloud: "T4 (AWS, GCP)", Cost: "$0.50-1/hour"}
	case vram <= 8:
		return GPUTier{Tier: "Prosumer", GPUs: []string{"RTX 3090 (24GB)", "RTX 4090 (24GB)"}, Cloud: "L4 (GCP), g5.xlarge (AWS)", Cost: "$1-2/hour"}
	case vram <= 16:
		return GPUTier{Tier: "Professional", GPUs: []string{"A10 (24GB)", "RTX A6000 (48GB)"}, Cloud: "A10 (AWS, GCP)", Cost: "$2-4/hour"}
	case vram <= 24:
		return GPUTier{Tier: "Enterprise", GPUs: []string{"A100 (40GB)", "A100 (80GB)"}, Cloud: "A100 (all clouds)", Cost: "$4-8/hour"}
	case vram <= 40:
		return GPUTier{Tier: "High-End", GPUs: []string{"A100 (80GB)", "H100 (80GB)"}, Cloud: "A100 80GB, H100", Cost: "$8-15/hour"}
	default:
		return GPUTier{Tier: "Multi-GPU", GPUs: []string{"2x A100", "4x A100", "H100 cluster"}, Cloud: "Multi-GPU instances", Cost: "$15+/hour"}
	}
}
