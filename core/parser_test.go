package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAuthorFromID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"namespaced id", "meta-llama/Llama-2-7b-hf", "meta-llama"},
		{"bare id", "gpt2", "unknown"},
		{"empty id", "", "unknown"},
		{"leading slash", "/model", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorFromID(tt.id); got != tt.want {
				t.Errorf("AuthorFromID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, cfg *ArchitectureConfig)
	}{
		{
			name: "llama style config",
			raw: `{"model_type":"llama","hidden_size":4096,"num_hidden_layers":32,"num_attention_heads":32,
				"num_key_value_heads":8,"vocab_size":128256,"max_position_embeddings":8192,"rope_theta":500000}`,
			check: func(t *testing.T, cfg *ArchitectureConfig) {
				if cfg.ModelType != "llama" || cfg.HiddenSize != 4096 || cfg.NumKeyValueHeads != 8 {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if cfg.RopeTheta != 500000 {
					t.Errorf("RopeTheta = %v, want 500000", cfg.RopeTheta)
				}
				if !cfg.CacheEnabled() {
					t.Error("expected use_cache to default to true")
				}
			},
		},
		{
			name: "gpt2 aliases",
			raw:  `{"architectures":["GPT2LMHeadModel"],"n_embd":768,"d_model":768,"n_layer":12,"n_head":12,"n_positions":1024,"use_cache":false}`,
			check: func(t *testing.T, cfg *ArchitectureConfig) {
				if cfg.ModelType != "GPT2LMHeadModel" {
					t.Errorf("ModelType = %q, want architecture fallback", cfg.ModelType)
				}
				if cfg.HiddenSize != 768 || cfg.NumHiddenLayers != 12 || cfg.NumAttentionHeads != 12 {
					t.Errorf("aliases not resolved: %+v", cfg)
				}
				if cfg.NumKeyValueHeads != 12 {
					t.Errorf("NumKeyValueHeads = %d, want default to attention heads", cfg.NumKeyValueHeads)
				}
				if cfg.MaxPositionEmbeddings != 1024 {
					t.Errorf("MaxPositionEmbeddings = %d, want 1024", cfg.MaxPositionEmbeddings)
				}
				if cfg.CacheEnabled() {
					t.Error("expected use_cache false to be kept")
				}
			},
		},
		{
			name: "empty config uses defaults",
			raw:  `{}`,
			check: func(t *testing.T, cfg *ArchitectureConfig) {
				if cfg.ModelType != "unknown" || cfg.TorchDtype != "float16" || cfg.RopeTheta != 10000 {
					t.Errorf("defaults not applied: %+v", cfg)
				}
			},
		},
		{
			name: "mixture of experts",
			raw:  `{"model_type":"mixtral","num_local_experts":8,"num_experts_per_tok":2}`,
			check: func(t *testing.T, cfg *ArchitectureConfig) {
				if cfg.NumExperts != 8 || cfg.NumExpertsPerTok != 2 {
					t.Errorf("expert counts = %d/%d, want 8/2", cfg.NumExperts, cfg.NumExpertsPerTok)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			if err := json.Unmarshal([]byte(tt.raw), &raw); err != nil {
				t.Fatalf("invalid test JSON: %v", err)
			}
			cfg := ParseConfig(raw)
			if cfg == nil {
				t.Fatal("ParseConfig returned nil")
			}
			tt.check(t, cfg)
		})
	}

	if ParseConfig(nil) != nil {
		t.Error("ParseConfig(nil) should return nil")
	}
}

const sampleReadme = `---
license: apache-2.0
tags:
- text-generation
---

# Example Model

This is an example model used for testing the card parser.

It has a second paragraph.

## Usage

` + "```python\nfrom transformers import pipeline\n```" + `

## Evaluation

MMLU: 63.4
HumanEval: 29.9

## Limitations

It may hallucinate.
`

func TestParseCard(t *testing.T) {
	card := ParseCard(sampleReadme)
	if card == nil {
		t.Fatal("ParseCard returned nil")
	}

	if card.Description != "This is an example model used for testing the card parser." {
		t.Errorf("Description = %q", card.Description)
	}
	if !strings.HasPrefix(card.Usage, "## Usage") || !strings.Contains(card.Usage, "pipeline") {
		t.Errorf("Usage = %q", card.Usage)
	}
	if strings.Contains(card.Usage, "Evaluation") {
		t.Errorf("Usage section ran into the next heading: %q", card.Usage)
	}
	if !strings.Contains(card.Limitations, "hallucinate") {
		t.Errorf("Limitations = %q", card.Limitations)
	}
	if card.Training != "" {
		t.Errorf("Training = %q, want empty", card.Training)
	}
	if card.Benchmarks["mmlu"] != 63.4 || card.Benchmarks["humaneval"] != 29.9 {
		t.Errorf("Benchmarks = %v", card.Benchmarks)
	}
	if _, ok := card.Benchmarks["arc"]; ok {
		t.Error("unexpected arc benchmark")
	}

	if ParseCard("") != nil {
		t.Error("ParseCard(\"\") should return nil")
	}
}

func TestParseCardWithoutBenchmarks(t *testing.T) {
	card := ParseCard("Just a short description.")
	if card == nil {
		t.Fatal("ParseCard returned nil")
	}
	if card.Benchmarks != nil {
		t.Errorf("Benchmarks = %v, want nil", card.Benchmarks)
	}
	if card.Description != "Just a short description." {
		t.Errorf("Description = %q", card.Description)
	}
}

func TestDetectQuantization(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ArchitectureConfig
		modelID string
		want    Quantization
	}{
		{
			name:    "quantization config wins",
			cfg:     &ArchitectureConfig{QuantizationConfig: map[string]any{"quant_method": "bitsandbytes", "bits": float64(8)}},
			modelID: "org/model-GPTQ",
			want:    Quantization{Quantized: true, Method: "bitsandbytes", Bits: 8},
		},
		{
			name: "quantization config without method",
			cfg:  &ArchitectureConfig{QuantizationConfig: map[string]any{}},
			want: Quantization{Quantized: true, Method: "unknown"},
		},
		{"gptq id", nil, "TheBloke/Llama-2-7B-GPTQ", Quantization{Quantized: true, Method: "gptq", Bits: 4}},
		{"awq id", nil, "TheBloke/Mistral-7B-AWQ", Quantization{Quantized: true, Method: "awq", Bits: 4}},
		{"gguf id", nil, "TheBloke/Llama-2-7B-GGUF", Quantization{Quantized: true, Method: "gguf"}},
		{"int8 id", nil, "org/model-int8", Quantization{Quantized: true, Method: "int8", Bits: 8}},
		{"int4 id", nil, "org/model-int4", Quantization{Quantized: true, Method: "int4", Bits: 4}},
		{"plain id", nil, "meta-llama/Llama-2-7b-hf", Quantization{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectQuantization(tt.cfg, tt.modelID); got != tt.want {
				t.Errorf("DetectQuantization() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestArchitectureConfigHelpers(t *testing.T) {
	var nilCfg *ArchitectureConfig
	if nilCfg.HasGQA() || nilCfg.KVHeads() != 0 || nilCfg.ContextLength() != 0 || !nilCfg.CacheEnabled() {
		t.Error("nil config helpers should return neutral defaults")
	}

	cfg := &ArchitectureConfig{NumAttentionHeads: 32, NumKeyValueHeads: 8}
	if !cfg.HasGQA() {
		t.Error("expected GQA for 32/8 heads")
	}
	cfg = &ArchitectureConfig{NumAttentionHeads: 32}
	if cfg.HasGQA() || cfg.KVHeads() != 32 {
		t.Error("missing kv heads should fall back to attention heads without GQA")
	}
}
