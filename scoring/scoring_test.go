package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/license"
)

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func excellentModel() core.ModelRecord {
	updated := now.AddDate(0, 0, -10)
	return core.ModelRecord{
		ModelID:      "meta-llama/Llama-3-8B",
		Author:       "meta-llama",
		Downloads:    6_000_000,
		Likes:        2000,
		LastModified: &updated,
		License:      license.Classify("apache-2.0"),
		Config: &core.ArchitectureConfig{
			ModelType:         "llama",
			HiddenSize:        4096,
			NumHiddenLayers:   32,
			NumAttentionHeads: 32,
			NumKeyValueHeads:  8,
			VocabSize:         128256,
		},
		Card: &core.Card{
			Description: strings.Repeat("A capable general purpose model. ", 20),
			Usage:       "pip install transformers",
			Limitations: "May hallucinate.",
			Benchmarks:  map[string]float64{"mmlu": 66.6},
		},
		TokenizerConfig: map[string]any{"model_max_length": 8192},
		VRAM:            core.VRAMEstimate{FP16: 15.6, TotalParams: 6.6},
	}
}

func TestExcellentModelScoresAtLeastNinety(t *testing.T) {
	got := ScoreAt(excellentModel(), now)

	assert.GreaterOrEqual(t, got.Total, 90)
	assert.True(t, got.ReadyForProduction)
	assert.Equal(t, "excellent", got.Rating.Level)
	require.NotEmpty(t, got.Recommendations)
	assert.Equal(t, core.RecommendSuccess, got.Recommendations[0].Type)
	assert.Len(t, got.Recommendations, 1)
}

func TestEmptyModelScoresLow(t *testing.T) {
	got := ScoreAt(core.ModelRecord{}, now)

	assert.Less(t, got.Total, 40)
	assert.False(t, got.ReadyForProduction)
	assert.Equal(t, "poor", got.Rating.Level)
	assert.Equal(t, []string{"License information missing"}, got.Scores[core.CategoryLicense].Issues)
	assert.Equal(t, 0, got.Scores[core.CategoryLicense].Score)
}

func TestCategoryBreakdown(t *testing.T) {
	got := ScoreAt(excellentModel(), now)

	want := map[core.ScoreCategory]int{
		core.CategoryLicense:       20,
		core.CategoryCommunity:     20,
		core.CategoryDocumentation: 20,
		core.CategoryCompatibility: 20,
		core.CategoryEfficiency:    17,
	}
	for category, score := range want {
		assert.Equal(t, score, got.Scores[category].Score, category)
		assert.Equal(t, 20, got.Scores[category].MaxScore)
	}
	assert.Contains(t, got.Scores[core.CategoryEfficiency].Details, "Excellent GQA optimization (4x)")
	assert.Contains(t, got.Scores[core.CategoryCommunity].Details, "Very popular (6.0M downloads)")
}

func TestTotalIsAlwaysInRange(t *testing.T) {
	models := []core.ModelRecord{
		{},
		excellentModel(),
		{License: license.Classify("cc-by-nc-4.0"), Downloads: 50},
		{License: license.Classify("llama2"), Likes: 700, Config: &core.ArchitectureConfig{ModelType: "falcon"}},
	}
	for _, m := range models {
		got := ScoreAt(m, now)
		assert.GreaterOrEqual(t, got.Total, 0)
		assert.LessOrEqual(t, got.Total, 100)
		assert.Equal(t, got.Total >= 70, got.ReadyForProduction)
	}
}

func TestLicenseScore(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"apache-2.0", 20},
		{"mit", 20},
		{"llama2", 12},
		{"cc-by-nc-4.0", 7},
		{"openrail", 17},
		{"unknown-thing", 10},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := licenseScore(core.ModelRecord{License: license.Classify(tt.id)})
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestCommunityRecency(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{"recent", 30, 5},
		{"six months", 150, 3},
		{"a year", 300, 1},
		{"stale", 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := now.AddDate(0, 0, -tt.days)
			got := communityScore(core.ModelRecord{LastModified: &updated}, now)
			assert.Equal(t, tt.want, got.Score)
		})
	}

	assert.Equal(t, 2, communityScore(core.ModelRecord{}, now).Score)
}

func TestEfficiencyAttention(t *testing.T) {
	tests := []struct {
		name    string
		heads   int
		kvHeads int
		want    int
	}{
		{"excellent gqa", 32, 8, 8 + 2 + 4 + 3},
		{"good gqa", 32, 16, 6 + 2 + 4 + 3},
		{"moderate gqa", 12, 8, 4 + 2 + 4 + 3},
		{"mqa", 32, 1, 8 + 2 + 4 + 3},
		{"mha", 32, 32, 0 + 2 + 4 + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.ModelRecord{
				Config: &core.ArchitectureConfig{NumAttentionHeads: tt.heads, NumKeyValueHeads: tt.kvHeads},
				VRAM:   core.VRAMEstimate{FP16: 10},
			}
			assert.Equal(t, tt.want, efficiencyScore(m).Score)
		})
	}
}

func TestRatingFor(t *testing.T) {
	tests := map[int]string{
		95: "excellent",
		85: "great",
		72: "good",
		65: "fair",
		55: "caution",
		10: "poor",
	}
	for total, level := range tests {
		assert.Equal(t, level, RatingFor(total).Level, total)
	}
}

func TestLowCategoriesProduceRecommendations(t *testing.T) {
	got := ScoreAt(core.ModelRecord{}, now)

	var messages []string
	for _, r := range got.Recommendations {
		messages = append(messages, r.Message)
	}
	assert.Contains(t, messages, "This model may need additional evaluation before production use.")
	assert.Contains(t, messages, "License restrictions may limit production use. Review carefully.")
	assert.Contains(t, messages, "May have compatibility issues. Test thoroughly before deployment.")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2.5M", formatNumber(2_500_000))
	assert.Equal(t, "12.3K", formatNumber(12_300))
	assert.Equal(t, "999", formatNumber(999))
}
