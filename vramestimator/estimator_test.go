package vramestimator

import (
	"math"
	"testing"

	"github.com/sammcj/hfscout/core"
)

func TestEstimateVRAM(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *core.ArchitectureConfig
		wantParams float64
		wantFP16   float64
	}{
		{
			name:       "nil config falls back to defaults",
			cfg:        nil,
			wantParams: 6.6,
			wantFP16:   15.6,
		},
		{
			name:       "explicit llama-7b shape",
			cfg:        &core.ArchitectureConfig{HiddenSize: 4096, NumHiddenLayers: 32, VocabSize: 32000},
			wantParams: 6.6,
			wantFP16:   15.6,
		},
		{
			name:       "small model",
			cfg:        &core.ArchitectureConfig{HiddenSize: 2048, NumHiddenLayers: 22, VocabSize: 32000},
			wantParams: 1.2,
			wantFP16:   2.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateVRAM(tt.cfg)
			if got.TotalParams != tt.wantParams {
				t.Errorf("TotalParams = %v, want %v", got.TotalParams, tt.wantParams)
			}
			if got.FP16 != tt.wantFP16 {
				t.Errorf("FP16 = %v, want %v", got.FP16, tt.wantFP16)
			}
		})
	}
}

func TestEstimateVRAMPrecisionRatios(t *testing.T) {
	for _, hidden := range []int{512, 1024, 2048, 3072, 4096, 5120, 8192} {
		for _, layers := range []int{1, 12, 24, 32, 40, 80} {
			est := EstimateVRAM(&core.ArchitectureConfig{HiddenSize: hidden, NumHiddenLayers: layers})
			if est.FP16 != 2*est.INT8 || est.INT8 != 2*est.INT4 || est.FP32 != 2*est.FP16 {
				t.Errorf("hidden=%d layers=%d: precisions not exact multiples: %+v", hidden, layers, est)
			}
		}
	}
}

func TestEstimateVRAMMonotonic(t *testing.T) {
	prev := 0.0
	for hidden := 256; hidden <= 16384; hidden += 256 {
		est := EstimateVRAM(&core.ArchitectureConfig{HiddenSize: hidden, NumHiddenLayers: 32})
		if est.FP16 < prev {
			t.Fatalf("FP16 decreased at hidden=%d: %v < %v", hidden, est.FP16, prev)
		}
		prev = est.FP16
	}

	prev = 0
	for layers := 1; layers <= 128; layers++ {
		est := EstimateVRAM(&core.ArchitectureConfig{HiddenSize: 4096, NumHiddenLayers: layers})
		if est.FP16 < prev {
			t.Fatalf("FP16 decreased at layers=%d: %v < %v", layers, est.FP16, prev)
		}
		prev = est.FP16
	}
}

func TestEstimateVRAMMatchesFormula(t *testing.T) {
	// embedding 0.131B + transformer 6.442B params at 2 bytes with 20% overhead
	unrounded := (32000.0*4096/1e9 + 4096.0*4096*32*12/1e9) * 2 * 1.2
	est := EstimateVRAM(&core.ArchitectureConfig{HiddenSize: 4096, NumHiddenLayers: 32, VocabSize: 32000})
	if math.Abs(est.FP16-unrounded)/unrounded > 0.05 {
		t.Errorf("FP16 = %v, want within 5%% of %v", est.FP16, unrounded)
	}
}

func TestEstimatorConstantsAreConfigurable(t *testing.T) {
	cfg := &core.ArchitectureConfig{HiddenSize: 4096, NumHiddenLayers: 32, VocabSize: 32000}
	lean := Estimator{LayerMultiplier: 8, Overhead: 1.0}.Estimate(cfg)
	standard := EstimateVRAM(cfg)
	if lean.FP16 >= standard.FP16 {
		t.Errorf("expected lower estimate with smaller constants: %v >= %v", lean.FP16, standard.FP16)
	}

	zero := Estimator{}.Estimate(cfg)
	if zero != standard {
		t.Errorf("zero Estimator should use defaults: %+v != %+v", zero, standard)
	}
}

func TestEstimateContextVRAM(t *testing.T) {
	tests := []struct {
		name        string
		base        float64
		ctx         int
		batch       int
		wantKV      float64
		wantTotal   float64
		wantWarning bool
	}{
		{"short context", 13.1, 4096, 1, 8.2, 21.3, false},
		{"long context warns", 13.1, 32768, 1, 65.5, 78.6, true},
		{"batch multiplies", 4, 2048, 2, 8.2, 12.2, false},
		{"batch below one is clamped", 4, 1000, 0, 2, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateContextVRAM(tt.base, tt.ctx, tt.batch)
			if got.KVCache != tt.wantKV || got.Total != tt.wantTotal {
				t.Errorf("EstimateContextVRAM() = %+v, want kv %v total %v", got, tt.wantKV, tt.wantTotal)
			}
			if (got.Warning != "") != tt.wantWarning {
				t.Errorf("Warning = %q, wantWarning %v", got.Warning, tt.wantWarning)
			}
		})
	}
}

func TestCheckCompatibility(t *testing.T) {
	fits := CheckCompatibility(12, 24)
	if !fits.Fits || fits.UtilizationPercent != 50 || fits.Headroom != 12 {
		t.Errorf("unexpected compatibility: %+v", fits)
	}
	if fits.Recommendation != "Model will fit comfortably" {
		t.Errorf("Recommendation = %q", fits.Recommendation)
	}

	short := CheckCompatibility(30, 24)
	if short.Fits || short.Recommendation != "Need 6.0GB more VRAM" {
		t.Errorf("unexpected compatibility: %+v", short)
	}

	none := CheckCompatibility(8, 0)
	if none.Fits || none.UtilizationPercent != 0 {
		t.Errorf("zero budget should not fit: %+v", none)
	}
}

func TestRecommendGPUTier(t *testing.T) {
	tests := []struct {
		vram float64
		want string
	}{
		{2, "Consumer"},
		{4, "Consumer"},
		{7.9, "Prosumer"},
		{13, "Professional"},
		{24, "Enterprise"},
		{40, "High-End"},
		{140, "Multi-GPU"},
	}

	for _, tt := range tests {
		if got := RecommendGPUTier(tt.vram); got.Tier != tt.want {
			t.Errorf("RecommendGPUTier(%v) = %s, want %s", tt.vram, got.Tier, tt.want)
		}
	}
}
