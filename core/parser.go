package core

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const unknownValue = "unknown"

var (
	frontmatterPattern = regexp.MustCompile(`^---[\s\S]*?---`)

	benchmarkPatterns = []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"mmlu", regexp.MustCompile(`(?i)MMLU[:\s]+(\d+\.?\d*)`)},
		{"gsm8k", regexp.MustCompile(`(?i)GSM8?K[:\s]+(\d+\.?\d*)`)},
		{"humaneval", regexp.MustCompile(`(?i)HumanEval[:\s]+(\d+\.?\d*)`)},
		{"hellaswag", regexp.MustCompile(`(?i)HellaSwag[:\s]+(\d+\.?\d*)`)},
		{"arc", regexp.MustCompile(`(?i)ARC[:\s]+(\d+\.?\d*)`)},
	}

	usageHeading       = regexp.MustCompile(`(?i)#+\s*Usage`)
	limitationsHeading = regexp.MustCompile(`(?i)#+\s*Limitations`)
	trainingHeading    = regexp.MustCompile(`(?i)#+\s*Training`)
)

// AuthorFromID returns the namespace part of an author/name model id
func AuthorFromID(modelID string) string {
	if modelID == "" {
		return unknownValue
	}
	parts := strings.Split(modelID, "/")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return unknownValue
}

// ParseConfig normalises a raw config.json document, resolving the field aliases used by
// non-Llama architectures. It returns nil when raw is nil.
func ParseConfig(raw map[string]any) *ArchitectureConfig {
	if raw == nil {
		return nil
	}

	architectures := stringSlice(raw["architectures"])
	modelType := stringField(raw, "model_type")
	if modelType == "" && len(architectures) > 0 {
		modelType = architectures[0]
	}
	if modelType == "" {
		modelType = unknownValue
	}

	cfg := &ArchitectureConfig{
		ModelType:             modelType,
		Architectures:         architectures,
		HiddenSize:            intField(raw, "hidden_size", "d_model"),
		NumHiddenLayers:       intField(raw, "num_hidden_layers", "n_layer", "num_layers"),
		NumAttentionHeads:     intField(raw, "num_attention_heads", "n_head"),
		IntermediateSize:      intField(raw, "intermediate_size", "n_inner", "ffn_dim"),
		VocabSize:             intField(raw, "vocab_size"),
		MaxPositionEmbeddings: intField(raw, "max_position_embeddings", "n_positions", "max_sequence_length"),
		RopeTheta:             floatField(raw, "rope_theta", "rotary_emb_base"),
		RopeScaling:           mapField(raw, "rope_scaling"),
		SlidingWindow:         intField(raw, "sliding_window"),
		NumExperts:            intField(raw, "num_local_experts", "num_experts"),
		NumExpertsPerTok:      intField(raw, "num_experts_per_tok"),
		TorchDtype:            stringField(raw, "torch_dtype"),
		QuantizationConfig:    mapField(raw, "quantization_config"),
	}

	cfg.NumKeyValueHeads = intField(raw, "num_key_value_heads")
	if cfg.NumKeyValueHeads == 0 {
		cfg.NumKeyValueHeads = cfg.NumAttentionHeads
	}
	if cfg.RopeTheta == 0 {
		cfg.RopeTheta = 10000
	}
	if cfg.TorchDtype == "" {
		cfg.TorchDtype = "float16"
	}

	useCache := true
	if v, ok := raw["use_cache"].(bool); ok && !v {
		useCache = false
	}
	cfg.UseCache = &useCache

	return cfg
}

// ParseCard extracts the description, benchmark figures and well-known sections from a README.
// It returns nil for an empty README.
func ParseCard(readme string) *Card {
	if strings.TrimSpace(readme) == "" {
		return nil
	}
	text := strings.ReplaceAll(readme, "\r\n", "\n")

	return &Card{
		Description: firstParagraph(text),
		Benchmarks:  extractBenchmarks(text),
		Usage:       extractSection(text, usageHeading),
		Limitations: extractSection(text, limitationsHeading),
		Training:    extractSection(text, trainingHeading),
	}
}

// DetectQuantization reports whether a model is published pre-quantised, using the
// quantization_config block when present and the model id otherwise.
func DetectQuantization(cfg *ArchitectureConfig, modelID string) Quantization {
	if cfg != nil && cfg.QuantizationConfig != nil {
		method := stringField(cfg.QuantizationConfig, "quant_method")
		if method == "" {
			method = unknownValue
		}
		return Quantization{
			Quantized: true,
			Method:    method,
			Bits:      intField(cfg.QuantizationConfig, "bits"),
		}
	}

	id := strings.ToLower(modelID)
	switch {
	case strings.Contains(id, "gptq"):
		return Quantization{Quantized: true, Method: "gptq", Bits: 4}
	case strings.Contains(id, "awq"):
		return Quantization{Quantized: true, Method: "awq", Bits: 4}
	case strings.Contains(id, "gguf"), strings.Contains(id, "ggml"):
		return Quantization{Quantized: true, Method: "gguf"}
	case strings.Contains(id, "int8"):
		return Quantization{Quantized: true, Method: "int8", Bits: 8}
	case strings.Contains(id, "int4"):
		return Quantization{Quantized: true, Method: "int4", Bits: 4}
	}
	return Quantization{}
}

func firstParagraph(text string) string {
	body := frontmatterPattern.ReplaceAllString(text, "")
	for _, p := range strings.Split(body, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" && !strings.HasPrefix(p, "#") {
			return p
		}
	}
	return ""
}

func extractBenchmarks(text string) map[string]float64 {
	benchmarks := make(map[string]float64)
	for _, bp := range benchmarkPatterns {
		match := bp.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if v, err := strconv.ParseFloat(match[1], 64); err == nil {
			benchmarks[bp.name] = v
		}
	}
	if len(benchmarks) == 0 {
		return nil
	}
	return benchmarks
}

// extractSection returns the text from a heading up to the next line starting with '#'
func extractSection(text string, heading *regexp.Regexp) string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	if end := strings.Index(rest, "\n#"); end >= 0 {
		return text[loc[0] : loc[1]+end]
	}
	return text[loc[0]:]
}

func intField(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		if v := toFloat(raw[key]); v > 0 {
			return int(v)
		}
	}
	return 0
}

func floatField(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v := toFloat(raw[key]); v > 0 {
			return v
		}
	}
	return 0
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func mapField(raw map[string]any, key string) map[string]any {
	m, _ := raw[key].(map[string]any)
	return m
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s, ok := v.([]string); ok {
			return s
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
