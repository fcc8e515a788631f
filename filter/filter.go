// Package filter narrows and orders a pool of model records.
package filter

import (
	"sort"
	"strings"

	"github.com/sammcj/hfscout/core"
)

type LicenseFilter string

const (
	LicenseAll           LicenseFilter = "all"
	LicenseCommercial    LicenseFilter = "commercial"
	LicenseNonCommercial LicenseFilter = "non-commercial"
)

type SortKey string

const (
	SortDownloads SortKey = "downloads"
	SortLikes     SortKey = "likes"
	SortName      SortKey = "name"
	SortVRAMLow   SortKey = "vram_low"
	SortVRAMHigh  SortKey = "vram_high"
	SortContext   SortKey = "context"
)

// SortKeys lists the accepted sort keys
var SortKeys = []SortKey{SortDownloads, SortLikes, SortName, SortVRAMLow, SortVRAMHigh, SortContext}

const (
	missingVRAM      = 999.0
	defaultMaxParams = 999.0
)

// Criteria holds the optional pool filters. Zero values disable a filter.
type Criteria struct {
	MaxVRAM    float64       `json:"maxVRAM,omitempty" yaml:"max_vram,omitempty"`
	License    LicenseFilter `json:"license,omitempty" yaml:"license,omitempty"`
	MinContext int           `json:"minContext,omitempty" yaml:"min_context,omitempty"`
	MinParams  float64       `json:"minParams,omitempty" yaml:"min_params,omitempty"`
	MaxParams  float64       `json:"maxParams,omitempty" yaml:"max_params,omitempty"`
	SortBy     SortKey       `json:"sortBy,omitempty" yaml:"sort_by,omitempty"`
}

// Apply returns the records matching c, ordered by c.SortBy. The input slice is left untouched.
func Apply(pool []core.ModelRecord, c Criteria) []core.ModelRecord {
	out := make([]core.ModelRecord, 0, len(pool))
	for _, m := range pool {
		if matches(m, c) {
			out = append(out, m)
		}
	}
	Sort(out, c.SortBy)
	return out
}

func matches(m core.ModelRecord, c Criteria) bool {
	if c.MaxVRAM > 0 && vram(m) > c.MaxVRAM {
		return false
	}

	switch c.License {
	case LicenseCommercial:
		if m.License.Commercial != core.CommercialAllowed {
			return false
		}
	case LicenseNonCommercial:
		if m.License.Commercial != core.CommercialDenied {
			return false
		}
	}

	if c.MinContext > 0 && m.ContextLength() < c.MinContext {
		return false
	}

	if c.MinParams > 0 || c.MaxParams > 0 {
		maxParams := c.MaxParams
		if maxParams <= 0 {
			maxParams = defaultMaxParams
		}
		params := m.VRAM.TotalParams
		if params < c.MinParams || params > maxParams {
			return false
		}
	}
	return true
}

// Sort orders records in place by key. Unknown keys leave the order unchanged.
func Sort(models []core.ModelRecord, key SortKey) {
	var less func(a, b core.ModelRecord) bool
	switch key {
	case SortDownloads:
		less = func(a, b core.ModelRecord) bool { return a.Downloads > b.Downloads }
	case SortLikes:
		less = func(a, b core.ModelRecord) bool { return a.Likes > b.Likes }
	case SortName:
		less = func(a, b core.ModelRecord) bool { return strings.ToLower(a.ModelID) < strings.ToLower(b.ModelID) }
	case SortVRAMLow:
		less = func(a, b core.ModelRecord) bool { return vram(a) < vram(b) }
	case SortVRAMHigh:
		less = func(a, b core.ModelRecord) bool { return vram(a) > vram(b) }
	case SortContext:
		less = func(a, b core.ModelRecord) bool { return a.ContextLength() > b.ContextLength() }
	default:
		return
	}
	sort.SliceStable(models, func(i, j int) bool { return less(models[i], models[j]) })
}

func vram(m core.ModelRecord) float64 {
	if m.VRAM.FP16 <= 0 {
		return missingVRAM
	}
	return m.VRAM.FP16
}
