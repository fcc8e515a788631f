package compatibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/license"
)

func llamaModel() core.ModelRecord {
	return core.ModelRecord{
		ModelID:   "meta-llama/Llama-3-8B",
		Downloads: 6_000_000,
		License:   license.Classify("apache-2.0"),
		Config: &core.ArchitectureConfig{
			ModelType:             "llama",
			NumAttentionHeads:     32,
			NumKeyValueHeads:      8,
			MaxPositionEmbeddings: 32768,
			RopeScaling:           map[string]any{"type": "linear", "factor": 2.0},
			SlidingWindow:         4096,
		},
		VRAM: core.VRAMEstimate{FP16: 15.6, INT8: 7.8, INT4: 3.9, TotalParams: 6.5},
	}
}

func byID[T any](t *testing.T, items []T, id func(T) string, want string) T {
	t.Helper()
	for _, it := range items {
		if id(it) == want {
			return it
		}
	}
	require.Failf(t, "missing entry", "no %s in result", want)
	var zero T
	return zero
}

func framework(t *testing.T, a Analysis, id string) Framework {
	return byID(t, a.Frameworks, func(f Framework) string { return f.ID }, id)
}

func feature(t *testing.T, a Analysis, id string) Feature {
	return byID(t, a.Features, func(f Feature) string { return f.ID }, id)
}

func TestAnalyzeWellSupportedModel(t *testing.T) {
	a := Analyze(llamaModel())

	assert.Equal(t, "meta-llama/Llama-3-8B", a.ModelID)
	require.Len(t, a.Frameworks, 5)
	for _, f := range a.Frameworks {
		assert.True(t, f.Compatible, f.ID)
		assert.NotEmpty(t, f.InstallCmd, f.ID)
	}
	assert.Equal(t, 95, framework(t, a, VLLM).Confidence)
	assert.Contains(t, framework(t, a, VLLM).Notes, "Excellent support")
	assert.Equal(t, 90, framework(t, a, Ollama).Confidence)
	assert.Contains(t, framework(t, a, Ollama).Notes, "Likely available in Ollama library")
	assert.Equal(t, 85, framework(t, a, TensorRT).Confidence)

	assert.Equal(t, "4x faster KV cache", feature(t, a, "gqa").Benefit)
	assert.Equal(t, "33k token window", feature(t, a, "longContext").Benefit)
	assert.Contains(t, feature(t, a, "ropeScaling").Notes, "Method: linear")
	assert.Contains(t, feature(t, a, "slidingWindow").Notes, "Window size: 4096")

	assert.Equal(t, Summary{FrameworkScore: 100, QuantizationScore: 67, FeatureScore: 100, Overall: "Excellent"}, a.Summary)
}

func TestAnalyzeEmptyRecord(t *testing.T) {
	a := Analyze(core.ModelRecord{})

	compatible := []string{}
	for _, f := range a.Frameworks {
		if f.Compatible {
			compatible = append(compatible, f.ID)
		}
	}
	assert.Equal(t, []string{Transformers, LlamaCpp}, compatible)
	assert.Contains(t, framework(t, a, VLLM).Notes, "Unknown architecture - may need testing")
	assert.Equal(t, 50, framework(t, a, Ollama).Confidence)

	consumer := byID(t, a.Hardware, func(h HardwareClass) string { return h.ID }, "consumer")
	assert.False(t, consumer.Compatible)
	require.Len(t, consumer.Options, 1)
	assert.False(t, consumer.Options[0].Feasible)

	cpu := byID(t, a.Hardware, func(h HardwareClass) string { return h.ID }, "cpu")
	assert.False(t, cpu.Compatible)
	assert.Equal(t, "Very Slow", cpu.Performance)

	fp16 := byID(t, a.Quantization, func(f Format) string { return f.ID }, "fp16")
	assert.Equal(t, "unknown", fp16.VRAM)

	// Flash attention is assumed when no config says otherwise
	assert.True(t, feature(t, a, "flashAttention").Supported)
	assert.Equal(t, "Unknown context window", feature(t, a, "longContext").Benefit)

	assert.Equal(t, Summary{FrameworkScore: 40, QuantizationScore: 50, FeatureScore: 20, Overall: "Good"}, a.Summary)
}

func TestHardwareClasses(t *testing.T) {
	tests := []struct {
		name        string
		fp16, int8  float64
		consumer    bool
		consumerOpt int
		proOpt      int
		cloudOpt    int
		cpuPerf     string
	}{
		{"small", 6, 3, true, 4, 5, 6, "Moderate"},
		{"seven billion", 15.6, 7.8, true, 4, 5, 6, "Moderate"},
		{"thirteen billion", 24, 13, true, 2, 5, 4, "Slow"},
		{"thirty billion", 36, 18, false, 1, 3, 2, "Very Slow"},
		{"seventy billion", 140, 70, false, 1, 1, 0, "Very Slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.ModelRecord{VRAM: core.VRAMEstimate{FP16: tt.fp16, INT8: tt.int8, TotalParams: 1}}
			classes := hardwareClasses(m)
			require.Len(t, classes, 4)
			assert.Equal(t, tt.consumer, classes[0].Compatible)
			assert.Len(t, classes[0].Options, tt.consumerOpt)
			assert.Len(t, classes[1].Options, tt.proOpt)
			assert.Len(t, classes[2].Options, tt.cloudOpt)
			assert.Equal(t, tt.cpuPerf, classes[3].Performance)
		})
	}
}

func TestFormatsDetectPrequantizedRepos(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		method    string
		downloads int64
		want      map[string]bool
	}{
		{"plain", "org/model", "", 10, map[string]bool{"gguf": false, "gptq": false, "awq": false}},
		{"gguf by name", "org/model-GGUF", "", 10, map[string]bool{"gguf": true, "gptq": false, "awq": false}},
		{"gguf by popularity", "org/model", "", 600_000, map[string]bool{"gguf": true}},
		{"gptq by name", "TheBloke/model-GPTQ", "", 10, map[string]bool{"gptq": true, "awq": false}},
		{"awq from quantization config", "org/model", "awq", 10, map[string]bool{"awq": true, "gptq": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.ModelRecord{ModelID: tt.id, Downloads: tt.downloads}
			m.Quantization.Method = tt.method
			got := map[string]bool{}
			for _, f := range formats(m) {
				got[f.ID] = f.Supported
			}
			for id, want := range tt.want {
				assert.Equal(t, want, got[id], id)
			}
		})
	}
}

func TestDeploymentFollowsLicenseAndSize(t *testing.T) {
	m := llamaModel()
	opts := deployment(m)
	require.Len(t, opts, 4)
	assert.True(t, opts[1].Suitable, "commercial license allows cloud GPU hosting")
	assert.Equal(t, "$1-2/hour", opts[1].CostEstimate)
	assert.Equal(t, "15.6GB VRAM GPU", opts[2].Targets[0])
	assert.False(t, opts[3].Suitable)

	m.License = license.Classify("cc-by-nc-4.0")
	m.VRAM = core.VRAMEstimate{FP16: 3, INT8: 1.5, TotalParams: 1.5}
	opts = deployment(m)
	assert.False(t, opts[1].Suitable)
	assert.False(t, opts[2].Suitable)
	assert.True(t, opts[3].Suitable)
	assert.Equal(t, "Feasible with INT4", opts[3].Recommendation)
}

func TestSummariseOverall(t *testing.T) {
	tests := []struct {
		compatible int
		want       string
	}{
		{0, "Limited"},
		{1, "Limited"},
		{2, "Good"},
		{3, "Excellent"},
	}
	for _, tt := range tests {
		a := Analysis{Frameworks: make([]Framework, 5)}
		for i := range tt.compatible {
			a.Frameworks[i].Compatible = true
		}
		assert.Equal(t, tt.want, Summarise(a).Overall, tt.compatible)
	}
	assert.Equal(t, 0, Summarise(Analysis{}).FrameworkScore)
}

func TestResolveAndSupports(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		known  bool
		llama  bool
		falcon bool
	}{
		{"vllm", VLLM, true, true, false},
		{"VLLM", VLLM, true, true, false},
		{"llama.cpp", LlamaCpp, true, true, true},
		{"TensorRT-LLM", TensorRT, true, true, false},
		{" transformers ", Transformers, true, true, true},
		{"ollama", Ollama, true, true, false},
		{"vibes", "vibes", false, false, false},
	}

	falcon := core.ModelRecord{ModelID: "tiiuae/falcon-7b", Config: &core.ArchitectureConfig{ModelType: "falcon"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Resolve(tt.name)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.llama, Supports(llamaModel(), tt.name))
			assert.Equal(t, tt.falcon, Supports(falcon, tt.name))
		})
	}
	assert.Equal(t, []string{Transformers, VLLM, Ollama, LlamaCpp, TensorRT}, FrameworkIDs())
}
