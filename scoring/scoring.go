// Package scoring rates how ready a model is for production deployment.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/sammcj/hfscout/core"
)

const categoryMax = 20

// missingVRAM is used in place of an unknown FP16 estimate so it lands in the largest tier
const missingVRAM = 999.0

var (
	clearLicenses       = []string{"apache-2.0", "mit", "bsd"}
	trustedAuthors      = []string{"meta", "mistral", "microsoft", "google", "huggingface"}
	commonArchitectures = []string{"llama", "mistral", "gpt", "phi", "gemma", "qwen"}
	vllmArchitectures   = []string{"llama", "mistral", "qwen", "phi", "gemma"}
)

// Score rates a model as of the current time
func Score(m core.ModelRecord) core.ScoreRecord {
	return ScoreAt(m, time.Now())
}

// ScoreAt rates a model, measuring update recency against now
func ScoreAt(m core.ModelRecord, now time.Time) core.ScoreRecord {
	scores := map[core.ScoreCategory]core.CategoryScore{
		core.CategoryLicense:       licenseScore(m),
		core.CategoryCommunity:     communityScore(m, now),
		core.CategoryDocumentation: documentationScore(m),
		core.CategoryCompatibility: compatibilityScore(m),
		core.CategoryEfficiency:    efficiencyScore(m),
	}

	total := 0
	for _, s := range scores {
		total += s.Score
	}
	total = clamp(total, 0, 100)

	return core.ScoreRecord{
		Total:              total,
		Scores:             scores,
		Rating:             RatingFor(total),
		Recommendations:    recommendations(scores, total),
		ReadyForProduction: total >= 70,
	}
}

type tally struct {
	score   int
	details []string
	issues  []string
}

func (t *tally) add(points int, detail string) {
	t.score += points
	if detail != "" {
		t.details = append(t.details, detail)
	}
}

func (t *tally) issue(msg string) {
	t.issues = append(t.issues, msg)
}

func (t *tally) result() core.CategoryScore {
	details, issues := t.details, t.issues
	if details == nil {
		details = []string{}
	}
	if issues == nil {
		issues = []string{}
	}
	return core.CategoryScore{
		Score:    clamp(t.score, 0, categoryMax),
		MaxScore: categoryMax,
		Details:  details,
		Issues:   issues,
	}
}

func licenseScore(m core.ModelRecord) core.CategoryScore {
	var t tally
	lic := m.License
	if lic.Name == "" {
		t.issue("License information missing")
		return t.result()
	}

	switch lic.Commercial {
	case core.CommercialAllowed:
		t.add(10, "Commercial use allowed")
	case core.CommercialConditional:
		t.add(5, "Conditional commercial license")
		t.issue("Review license restrictions carefully")
	case core.CommercialDenied:
		t.add(0, "Non-commercial only")
		t.issue("Cannot use in production without license change")
	default:
		t.add(3, "License unclear")
		t.issue("Verify commercial use permissions")
	}

	if matchesAny(strings.ToLower(lic.ID+" "+lic.Name), clearLicenses) {
		t.add(5, "Clear, permissive license")
	} else {
		t.add(2, "Custom license terms")
	}

	if lic.Modification != core.PermissionDenied {
		t.add(3, "Can modify and fine-tune")
	} else {
		t.issue("Modifications restricted")
	}

	if lic.Distribution != core.PermissionDenied {
		t.add(2, "Can distribute")
	} else {
		t.issue("Distribution restricted")
	}

	return t.result()
}

func communityScore(m core.ModelRecord, now time.Time) core.CategoryScore {
	var t tally
	downloads, likes := m.Downloads, m.Likes

	switch {
	case downloads >= 5_000_000:
		t.add(8, fmt.Sprintf("Very popular (%s downloads)", formatNumber(downloads)))
	case downloads >= 1_000_000:
		t.add(6, fmt.Sprintf("Popular (%s downloads)", formatNumber(downloads)))
	case downloads >= 100_000:
		t.add(4, fmt.Sprintf("Moderate adoption (%s downloads)", formatNumber(downloads)))
	case downloads >= 10_000:
		t.add(2, fmt.Sprintf("Limited adoption (%s downloads)", formatNumber(downloads)))
		t.issue("Lower community usage - less battle-tested")
	default:
		t.add(0, fmt.Sprintf("Very low adoption (%s downloads)", formatNumber(downloads)))
		t.issue("Minimal real-world usage")
	}

	switch {
	case likes >= 1000:
		t.add(5, fmt.Sprintf("Highly rated (%s likes)", formatNumber(likes)))
	case likes >= 500:
		t.add(4, fmt.Sprintf("Well-liked (%s likes)", formatNumber(likes)))
	case likes >= 100:
		t.add(2, fmt.Sprintf("Some community interest (%s likes)", formatNumber(likes)))
	default:
		t.issue("Low community engagement")
	}

	if m.LastModified != nil {
		days := int(now.Sub(*m.LastModified).Hours() / 24)
		switch {
		case days <= 90:
			t.add(5, "Recently updated (< 3 months)")
		case days <= 180:
			t.add(3, "Updated within 6 months")
		case days <= 365:
			t.add(1, "Updated within a year")
			t.issue("Consider checking for newer versions")
		default:
			t.add(0, "Not updated in over a year")
			t.issue("May be abandoned or deprecated")
		}
	} else {
		t.add(2, "Update date unknown")
	}

	if matchesAny(strings.ToLower(m.Author), trustedAuthors) {
		t.add(2, "Trusted organization")
	}

	return t.result()
}

func documentationScore(m core.ModelRecord) core.CategoryScore {
	var t tally
	card := m.Card
	if card == nil {
		card = &core.Card{}
	}

	switch n := len(card.Description); {
	case n >= 500:
		t.add(8, "Comprehensive model card")
	case n >= 200:
		t.add(5, "Basic model card present")
	case n > 0:
		t.add(2, "Minimal documentation")
		t.issue("Limited model description")
	default:
		t.add(0, "No model card")
		t.issue("Missing critical documentation")
	}

	if card.Usage != "" {
		t.add(5, "Usage examples provided")
	} else {
		t.issue("No usage examples found")
	}

	if n := len(card.Benchmarks); n > 0 {
		t.add(4, fmt.Sprintf("Benchmark results available (%d metrics)", n))
	} else {
		t.issue("No benchmark data")
	}

	if card.Limitations != "" {
		t.add(3, "Limitations documented")
	} else {
		t.issue("Known limitations not documented")
	}

	return t.result()
}

func compatibilityScore(m core.ModelRecord) core.CategoryScore {
	var t tally

	if m.Config != nil {
		t.add(5, "Configuration file available")
	} else {
		t.add(0, "Missing config.json")
		t.issue("May have loading issues")
	}

	modelType := ""
	if m.Config != nil {
		modelType = strings.ToLower(m.Config.ModelType)
	}

	if contains(commonArchitectures, modelType) {
		t.add(5, fmt.Sprintf("Standard architecture (%s)", modelType))
	} else {
		t.add(2, "Custom architecture")
		t.issue("May have limited framework support")
	}

	if contains(vllmArchitectures, modelType) {
		t.add(5, "vLLM compatible")
	} else {
		t.add(1, "")
		t.issue("Limited vLLM support")
	}

	// Transformers support is assumed for every registry model
	t.add(3, "Transformers compatible")

	if m.TokenizerConfig != nil {
		t.add(2, "Tokenizer configuration available")
	} else {
		t.add(1, "")
		t.issue("Tokenizer config may be missing")
	}

	return t.result()
}

func efficiencyScore(m core.ModelRecord) core.CategoryScore {
	var t tally

	heads := 0
	if m.Config != nil {
		heads = m.Config.NumAttentionHeads
	}
	kvHeads := m.Config.KVHeads()

	switch {
	case kvHeads > 0 && kvHeads < heads:
		ratio := float64(heads) / float64(kvHeads)
		switch {
		case ratio >= 4:
			t.add(8, fmt.Sprintf("Excellent GQA optimization (%gx)", ratio))
		case ratio >= 2:
			t.add(6, fmt.Sprintf("Good GQA optimization (%gx)", ratio))
		default:
			t.add(4, fmt.Sprintf("Moderate GQA (%gx)", ratio))
		}
	case kvHeads == 1:
		t.add(8, "MQA optimization (maximum efficiency)")
	default:
		t.add(0, "No GQA/MQA optimization")
		t.issue("Standard MHA - slower inference")
	}

	if m.Quantization.Quantized {
		t.add(5, fmt.Sprintf("Quantized version available (%s)", m.Quantization.Method))
	} else {
		t.add(2, "")
		t.issue("No pre-quantized versions")
	}

	if m.Config.CacheEnabled() {
		t.add(4, "Flash Attention compatible")
	} else {
		t.issue("May not support Flash Attention")
	}

	vram := m.VRAM.FP16
	if vram <= 0 {
		vram = missingVRAM
	}
	switch {
	case vram <= 24:
		t.add(3, "Fits on common GPUs")
	case vram <= 40:
		t.add(2, "Requires high-end GPU")
	default:
		t.add(0, "Requires multi-GPU setup")
		t.issue("Very high hardware requirements")
	}

	return t.result()
}

func matchesAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func formatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}
