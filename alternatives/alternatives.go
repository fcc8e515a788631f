// Package alternatives suggests cheaper, better, more permissively licensed or longer
// context models from a candidate pool.
package alternatives

import (
	"fmt"
	"math"
	"sort"

	"github.com/sammcj/hfscout/core"
)

const perCategory = 3

// Alternative is a scored candidate with the annotations relevant to its category
type Alternative struct {
	Model       core.ModelRecord `json:"model"`
	Score       float64          `json:"score"`
	Savings     *Savings         `json:"savings,omitempty"`
	Tradeoff    string           `json:"tradeoff,omitempty"`
	Improvement *Improvement     `json:"improvements,omitempty"`
	Cost        *Cost            `json:"cost,omitempty"`
	License     *LicenseChange   `json:"license,omitempty"`
	Context     *ContextChange   `json:"contextImprovement,omitempty"`
}

type Savings struct {
	VRAMPercent   int    `json:"vram"`
	ParamsPercent int    `json:"params"`
	Label         string `json:"cost"`
}

type Improvement struct {
	ParamsPercent int    `json:"params"`
	Quality       string `json:"quality"`
}

type Cost struct {
	VRAMIncreasePercent int     `json:"vramIncrease"`
	AdditionalVRAM      float64 `json:"additionalVRAM"`
}

type LicenseChange struct {
	Current           string `json:"current"`
	Alternative       string `json:"alternative"`
	Advantage         string `json:"advantage"`
	VRAMDiffPercent   int    `json:"vramDiff"`
	ParamsDiffPercent int    `json:"paramsDiff"`
}

type ContextChange struct {
	Current     string `json:"current"`
	Alternative string `json:"alternative"`
	Multiplier  string `json:"multiplier"`
	Advantage   string `json:"advantage"`
}

// Result groups alternatives by category. Every category is non-nil.
type Result struct {
	Cheaper []Alternative `json:"cheaper"`
	Better  []Alternative `json:"better"`
	License []Alternative `json:"license"`
	Context []Alternative `json:"context"`
}

// Summary reports how many alternatives were found in each category
type Summary struct {
	Total      int  `json:"total"`
	HasCheaper bool `json:"hasCheaper"`
	HasBetter  bool `json:"hasBetter"`
	HasLicense bool `json:"hasLicense"`
	HasContext bool `json:"hasContext"`
}

// Find ranks the pool against current. The current model and candidates without a VRAM
// estimate are never returned.
func Find(current core.ModelRecord, pool []core.ModelRecord) Result {
	res := Result{
		Cheaper: []Alternative{},
		Better:  []Alternative{},
		License: []Alternative{},
		Context: []Alternative{},
	}
	if !current.VRAM.Known() {
		return res
	}

	var candidates []core.ModelRecord
	for _, m := range pool {
		if m.ModelID == current.ModelID || !m.VRAM.Known() {
			continue
		}
		candidates = append(candidates, m)
	}

	res.Cheaper = cheaper(current, candidates)
	res.Better = better(current, candidates)
	res.License = betterLicense(current, candidates)
	res.Context = longerContext(current, candidates)
	return res
}

// Summarise counts a result
func Summarise(r Result) Summary {
	return Summary{
		Total:      len(r.Cheaper) + len(r.Better) + len(r.License) + len(r.Context),
		HasCheaper: len(r.Cheaper) > 0,
		HasBetter:  len(r.Better) > 0,
		HasLicense: len(r.License) > 0,
		HasContext: len(r.Context) > 0,
	}
}

func cheaper(current core.ModelRecord, candidates []core.ModelRecord) []Alternative {
	curVRAM, curParams := current.VRAM.FP16, current.VRAM.TotalParams

	var out []Alternative
	for _, m := range candidates {
		vram, params := m.VRAM.FP16, m.VRAM.TotalParams
		if vram >= curVRAM*0.8 {
			continue
		}
		vramSavings := pct(curVRAM-vram, curVRAM)
		qualityLoss := pct(curParams-params, curParams)

		score := vramSavings*2 - qualityLoss + popularity(m)
		if isCommercial(m) {
			score += 10
		}
		out = append(out, Alternative{
			Model: m,
			Score: score,
			Savings: &Savings{
				VRAMPercent:   round(vramSavings),
				ParamsPercent: round(qualityLoss),
				Label:         savingsLabel(round(vramSavings)),
			},
			Tradeoff: tradeoffLabel(round(qualityLoss)),
		})
	}
	return top(out)
}

func better(current core.ModelRecord, candidates []core.ModelRecord) []Alternative {
	curVRAM, curParams := current.VRAM.FP16, current.VRAM.TotalParams

	var out []Alternative
	for _, m := range candidates {
		vram, params := m.VRAM.FP16, m.VRAM.TotalParams
		if params <= curParams || vram >= curVRAM*2 {
			continue
		}
		gain := pct(params-curParams, curParams)
		vramIncrease := pct(vram-curVRAM, curVRAM)

		out = append(out, Alternative{
			Model: m,
			Score: gain*3 - vramIncrease/2 + popularity(m),
			Improvement: &Improvement{
				ParamsPercent: round(gain),
				Quality:       improvementLabel(round(gain)),
			},
			Cost: &Cost{
				VRAMIncreasePercent: round(vramIncrease),
				AdditionalVRAM:      roundTenth(vram - curVRAM),
			},
		})
	}
	return top(out)
}

func betterLicense(current core.ModelRecord, candidates []core.ModelRecord) []Alternative {
	if isCommercial(current) {
		return []Alternative{}
	}
	curVRAM, curParams := current.VRAM.FP16, current.VRAM.TotalParams

	currentName := current.License.Name
	if currentName == "" {
		currentName = "Unknown"
	}

	var out []Alternative
	for _, m := range candidates {
		vram, params := m.VRAM.FP16, m.VRAM.TotalParams
		if !isCommercial(m) || vram < curVRAM*0.5 || vram > curVRAM*1.5 {
			continue
		}
		vramDiff := pct(vram-curVRAM, curVRAM)
		paramsDiff := pct(params-curParams, curParams)

		out = append(out, Alternative{
			Model: m,
			Score: (100 - math.Abs(vramDiff)) + (100 - math.Abs(paramsDiff)) + popularity(m),
			License: &LicenseChange{
				Current:           currentName,
				Alternative:       m.License.Name,
				Advantage:         "Full commercial use without restrictions",
				VRAMDiffPercent:   round(vramDiff),
				ParamsDiffPercent: round(paramsDiff),
			},
		})
	}
	return top(out)
}

// longerContext needs a known current context, since a multiple of an unknown window is meaningless
func longerContext(current core.ModelRecord, candidates []core.ModelRecord) []Alternative {
	curContext, curVRAM := current.ContextLength(), current.VRAM.FP16
	if curContext <= 0 {
		return []Alternative{}
	}

	var out []Alternative
	for _, m := range candidates {
		ctx, vram := m.ContextLength(), m.VRAM.FP16
		if ctx < curContext*2 || vram > curVRAM*2 {
			continue
		}
		gain := pct(float64(ctx-curContext), float64(curContext))
		vramIncrease := pct(vram-curVRAM, curVRAM)

		out = append(out, Alternative{
			Model: m,
			Score: gain - vramIncrease/2 + popularity(m),
			Context: &ContextChange{
				Current:     kTokens(curContext),
				Alternative: kTokens(ctx),
				Multiplier:  fmt.Sprintf("%.1fx", float64(ctx)/float64(curContext)),
				Advantage:   contextAdvantage(ctx),
			},
			Cost: &Cost{
				VRAMIncreasePercent: round(vramIncrease),
				AdditionalVRAM:      roundTenth(vram - curVRAM),
			},
		})
	}
	return top(out)
}

// top sorts by score descending, keeping pool order for ties
func top(alts []Alternative) []Alternative {
	if len(alts) == 0 {
		return []Alternative{}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].Score > alts[j].Score
	})
	if len(alts) > perCategory {
		alts = alts[:perCategory]
	}
	return alts
}

func isCommercial(m core.ModelRecord) bool {
	return m.License.Commercial == core.CommercialAllowed
}

func popularity(m core.ModelRecord) float64 {
	return math.Min(float64(m.Downloads)/1_000_000, 10)
}

// pct returns delta as a percentage of base, or 0 when base is not positive
func pct(delta, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return delta / base * 100
}

func round(v float64) int {
	return int(math.Round(v))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func kTokens(n int) string {
	return fmt.Sprintf("%.0fk", float64(n)/1000)
}
