package vramestimator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/styles"
)

const bytesPerGB = 1 << 30

// GetAvailableMemory returns total system RAM in GB, the budget used when none is configured
func GetAvailableMemory() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to get system memory info: %w", err)
	}
	ram := float64(vm.Total) / bytesPerGB
	logging.InfoLogger.Printf("Using system RAM: %.2f GB", ram)
	return ram, nil
}

// ParseBPWOrQuant accepts a number of bits per weight ("4.5", "4.5bpw") or a GGUF
// quantisation name in any case. Unknown names get the closest known name suggested.
func ParseBPWOrQuant(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	number := strings.TrimSuffix(strings.ToLower(trimmed), "bpw")
	if bpw, err := strconv.ParseFloat(number, 64); err == nil {
		if bpw <= 0 || bpw > 32 {
			return 0, fmt.Errorf("bits per weight must be between 0 and 32, got %v", bpw)
		}
		return bpw, nil
	}

	name := strings.ToUpper(trimmed)
	if bpw, ok := GGUFMapping[name]; ok {
		return bpw, nil
	}
	if closest := closestQuant(name); closest != "" {
		return 0, fmt.Errorf("invalid quantisation type: %s. Did you mean %s?", name, closest)
	}
	return 0, fmt.Errorf("invalid quantisation or BPW value: %s", input)
}

// closestQuant returns the known quantisation nearest to name by edit distance, breaking
// ties alphabetically. Nothing is suggested when every name is further away than name is long.
func closestQuant(name string) string {
	names := make([]string, 0, len(GGUFMapping))
	for k := range GGUFMapping {
		names = append(names, k)
	}
	sort.Strings(names)

	best, bestDist := "", len(name)
	for _, k := range names {
		if d := fuzzy.LevenshteinDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// colourVRAM renders text in the theme's colour for vram against budget. A budget of 0
// means unknown.
func colourVRAM(vram float64, text string, budget float64) string {
	return styles.VRAMStyle(vram, budget).Render(text)
}

// GetBPWValues derives the LM head and KV cache precision for a weight BPW
func GetBPWValues(bpw float64, kvCacheQuant KVCacheQuantisation) BPWValues {
	lmHead := 6.0
	if bpw > 6.0 {
		lmHead = 8.0
	}

	kv := 16.0
	switch kvCacheQuant {
	case KVCacheQ8_0:
		kv = 8
	case KVCacheQ4_0:
		kv = 4
	}

	return BPWValues{BPW: bpw, LMHeadBPW: lmHead, KVCacheBPW: kv}
}
