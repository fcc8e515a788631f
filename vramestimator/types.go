package vramestimator

type KVCacheQuantisation string

const (
	KVCacheFP16 KVCacheQuantisation = "fp16"
	KVCacheQ8_0 KVCacheQuantisation = "q8_0"
	KVCacheQ4_0 KVCacheQuantisation = "q4_0"
)

// BPWValues are the effective bits per weight for the body, the output head and the KV cache
type BPWValues struct {
	BPW        float64
	LMHeadBPW  float64
	KVCacheBPW float64
}

// ContextVRAM holds one context column at each KV cache quantisation
type ContextVRAM struct {
	VRAM     float64 `json:"fp16"`
	VRAMQ8_0 float64 `json:"q8_0"`
	VRAMQ4_0 float64 `json:"q4_0"`
}

type QuantResult struct {
	QuantType string              `json:"quant"`
	BPW       float64             `json:"bpw"`
	Contexts  map[int]ContextVRAM `json:"contexts"`
}

type QuantResultTable struct {
	ModelID  string        `json:"modelId"`
	Results  []QuantResult `json:"results"`
	FitsVRAM float64       `json:"fitsVRAM"`
}

// ContextEstimate is the memory needed once the KV cache for a context window is added
type ContextEstimate struct {
	BaseVRAM float64 `json:"baseVRAM"`
	KVCache  float64 `json:"kvCache"`
	Total    float64 `json:"total"`
	Warning  string  `json:"warning,omitempty"`
}

// Compatibility describes how a model's memory requirement sits against a budget
type Compatibility struct {
	Fits               bool    `json:"fits"`
	UtilizationPercent int     `json:"utilizationPercent"`
	Headroom           float64 `json:"headroom"`
	Recommendation     string  `json:"recommendation"`
}

// GPUTier is a coarse hardware class for a memory requirement
type GPUTier struct {
	Tier  string   `json:"tier"`
	GPUs  []string `json:"gpus"`
	Cloud string   `json:"cloud"`
	Cost  string   `json:"cost"`
}

// GGUFMapping maps GGUF quantisation types to their corresponding bits per weight
var GGUFMapping = map[string]float64{
	"Q8_0":    8.5,
	"Q6_K":    6.59,
	"Q5_K_L":  5.75,
	"Q5_K_M":  5.69,
	"Q5_K_S":  5.54,
	"Q5_0":    5.54,
	"Q4_K_L":  4.9,
	"Q4_K_M":  4.85,
	"Q4_K_S":  4.58,
	"Q4_0":    4.55,
	"IQ4_NL":  4.5,
	"Q3_K_L":  4.27,
	"IQ4_XS":  4.25,
	"Q3_K_M":  3.91,
	"IQ3_M":   3.7,
	"IQ3_S":   3.5,
	"Q3_K_S":  3.5,
	"Q2_K":    3.35,
	"IQ3_XS":  3.3,
	"IQ3_XXS": 3.06,
	"IQ2_M":   2.7,
	"IQ2_S":   2.5,
	"IQ2_XS":  2.31,
	"IQ2_XXS": 2.06,
	"IQ1_S":   1.56,
}

// contextSizes are the columns of the quantisation table
var contextSizes = []int{2048, 8192, 16384, 32768, 49152, 65536}
