// Package compatibility works out which inference frameworks, hardware classes, weight
// formats and deployment styles suit a model.
package compatibility

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/sammcj/hfscout/core"
)

// Framework IDs accepted by Resolve and Supports
const (
	Transformers = "transformers"
	VLLM         = "vllm"
	Ollama       = "ollama"
	LlamaCpp     = "llamacpp"
	TensorRT     = "tensorrt"
)

const (
	// missingVRAM stands in for an unknown estimate so nothing memory-bound matches
	missingVRAM = 999.0

	popularDownloads     = 1_000_000
	veryPopularDownloads = 5_000_000
	ggufDownloads        = 500_000

	longContext = 32768
)

var (
	vllmTypes         = []string{"llama", "mistral", "qwen", "phi", "gemma", "yi", "deepseek"}
	vllmHigh          = []string{"llama", "mistral"}
	vllmMedium        = []string{"qwen", "phi", "gemma"}
	ollamaTypes       = []string{"llama", "mistral", "phi", "gemma"}
	llamaCppHigh      = []string{"llama", "mistral", "phi"}
	tensorRTTypes     = []string{"llama", "gpt", "bloom", "chatglm"}
	tensorRTHigh      = []string{"llama", "gpt"}
	frameworkAliases  = map[string]string{"hf": Transformers, "llama.cpp": LlamaCpp, "llama-cpp": LlamaCpp, "tensorrt-llm": TensorRT, "trt-llm": TensorRT}
	frameworkOrdering = []string{Transformers, VLLM, Ollama, LlamaCpp, TensorRT}
)

type Framework struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Compatible bool     `json:"compatible"`
	Confidence int      `json:"confidence"`
	Notes      []string `json:"notes"`
	InstallCmd string   `json:"installCmd"`
	Docs       string   `json:"docs"`
}

// HardwareOption is one card or instance within a hardware class
type HardwareOption struct {
	Name     string `json:"name"`
	Format   string `json:"format,omitempty"`
	Provider string `json:"provider,omitempty"`
	Price    string `json:"price,omitempty"`
	Feasible bool   `json:"feasible"`
}

type HardwareClass struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Compatible     bool             `json:"compatible"`
	Options        []HardwareOption `json:"options"`
	Performance    string           `json:"performance,omitempty"`
	Recommendation string           `json:"recommendation"`
}

// Format is a weight precision or quantisation format
type Format struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Supported bool     `json:"supported"`
	VRAM      string   `json:"vram"`
	Quality   string   `json:"quality"`
	Notes     []string `json:"notes"`
}

type Feature struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Supported bool     `json:"supported"`
	Benefit   string   `json:"benefit"`
	Notes     []string `json:"notes"`
}

type DeploymentOption struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Suitable       bool     `json:"suitable"`
	Targets        []string `json:"targets"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	CostEstimate   string   `json:"costEstimate,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// Summary condenses an analysis into percentages and an overall verdict
type Summary struct {
	FrameworkScore    int    `json:"frameworkScore"`
	QuantizationScore int    `json:"quantizationScore"`
	FeatureScore      int    `json:"featureScore"`
	Overall           string `json:"overallCompatibility"`
}

type Analysis struct {
	ModelID      string             `json:"modelId"`
	Frameworks   []Framework        `json:"frameworks"`
	Hardware     []HardwareClass    `json:"hardware"`
	Quantization []Format           `json:"quantization"`
	Features     []Feature          `json:"features"`
	Deployment   []DeploymentOption `json:"deployment"`
	Summary      Summary            `json:"summary"`
}

// Analyze builds the full compatibility picture for m. Missing config or VRAM figures
// degrade to the most conservative answer rather than failing.
func Analyze(m core.ModelRecord) Analysis {
	a := Analysis{
		ModelID:      m.ModelID,
		Frameworks:   frameworks(m),
		Hardware:     hardwareClasses(m),
		Quantization: formats(m),
		Features:     features(m.Config),
		Deployment:   deployment(m),
	}
	a.Summary = Summarise(a)
	return a
}

// Summarise scores an analysis. Three or more compatible frameworks rate as excellent.
func Summarise(a Analysis) Summary {
	compatible := 0
	for _, f := range a.Frameworks {
		if f.Compatible {
			compatible++
		}
	}
	formats := 0
	for _, f := range a.Quantization {
		if f.Supported {
			formats++
		}
	}
	features := 0
	for _, f := range a.Features {
		if f.Supported {
			features++
		}
	}

	s := Summary{
		FrameworkScore:    percent(compatible, len(a.Frameworks)),
		QuantizationScore: percent(formats, len(a.Quantization)),
		FeatureScore:      percent(features, len(a.Features)),
		Overall:           "Limited",
	}
	switch {
	case compatible >= 3:
		s.Overall = "Excellent"
	case compatible >= 2:
		s.Overall = "Good"
	}
	return s
}

// Resolve maps a framework name or alias to its ID
func Resolve(name string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := frameworkAliases[id]; ok {
		id = alias
	}
	return id, slices.Contains(frameworkOrdering, id)
}

// FrameworkIDs lists the known framework IDs
func FrameworkIDs() []string {
	return slices.Clone(frameworkOrdering)
}

// Supports reports whether m is compatible with the named framework. Unknown names are
// never supported.
func Supports(m core.ModelRecord, framework string) bool {
	id, ok := Resolve(framework)
	if !ok {
		return false
	}
	for _, f := range frameworks(m) {
		if f.ID == id {
			return f.Compatible
		}
	}
	return false
}

// FrameworkName returns the display name for a framework ID, or the ID itself
func FrameworkName(id string) string {
	switch id {
	case Transformers:
		return "Transformers (HuggingFace)"
	case VLLM:
		return "vLLM"
	case Ollama:
		return "Ollama"
	case LlamaCpp:
		return "llama.cpp"
	case TensorRT:
		return "TensorRT-LLM"
	}
	return id
}

func modelType(cfg *core.ArchitectureConfig) string {
	if cfg == nil {
		return ""
	}
	return strings.ToLower(cfg.ModelType)
}

func frameworks(m core.ModelRecord) []Framework {
	mt := modelType(m.Config)
	id := strings.ToLower(m.ModelID)

	vllmConfidence := 50
	switch {
	case slices.Contains(vllmHigh, mt):
		vllmConfidence = 95
	case slices.Contains(vllmMedium, mt):
		vllmConfidence = 85
	}
	vllmNotes := []string{"High-performance inference", "Continuous batching"}
	switch {
	case slices.Contains(vllmHigh, mt):
		vllmNotes = append(vllmNotes, "Excellent support")
	case mt != "" && mt != "unknown":
		vllmNotes = append(vllmNotes, "Check vLLM docs for version compatibility")
	default:
		vllmNotes = append(vllmNotes, "Unknown architecture - may need testing")
	}

	ollamaConfidence := 50
	switch {
	case strings.Contains(id, "llama") || strings.Contains(id, "mistral"):
		ollamaConfidence = 90
	case m.Downloads > popularDownloads:
		ollamaConfidence = 75
	}
	ollamaNotes := []string{"Easy local deployment", "Built-in model management"}
	if m.Downloads > veryPopularDownloads {
		ollamaNotes = append(ollamaNotes, "Likely available in Ollama library")
	} else {
		ollamaNotes = append(ollamaNotes, "May need custom import")
	}

	llamaCppConfidence := 75
	if slices.Contains(llamaCppHigh, mt) {
		llamaCppConfidence = 95
	}

	tensorRTConfidence := 60
	if slices.Contains(tensorRTHigh, mt) {
		tensorRTConfidence = 85
	}

	return []Framework{
		{
			ID:         Transformers,
			Name:       FrameworkName(Transformers),
			Compatible: true,
			Confidence: 100,
			Notes:      []string{"Official HuggingFace library", "Best compatibility"},
			InstallCmd: "pip install transformers torch",
			Docs:       "https://huggingface.co/docs/transformers",
		},
		{
			ID:         VLLM,
			Name:       FrameworkName(VLLM),
			Compatible: slices.Contains(vllmTypes, mt),
			Confidence: vllmConfidence,
			Notes:      vllmNotes,
			InstallCmd: "pip install vllm",
			Docs:       "https://docs.vllm.ai",
		},
		{
			ID:         Ollama,
			Name:       FrameworkName(Ollama),
			Compatible: slices.Contains(ollamaTypes, mt) || m.Downloads > popularDownloads,
			Confidence: ollamaConfidence,
			Notes:      ollamaNotes,
			InstallCmd: "curl -fsSL https://ollama.ai/install.sh | sh",
			Docs:       "https://ollama.ai",
		},
		{
			// Nearly every decoder can be converted to GGUF
			ID:         LlamaCpp,
			Name:       FrameworkName(LlamaCpp),
			Compatible: true,
			Confidence: llamaCppConfidence,
			Notes:      []string{"CPU inference capable", "GGUF format conversion needed", "Excellent for local/edge deployment"},
			InstallCmd: "pip install llama-cpp-python",
			Docs:       "https://github.com/ggerganov/llama.cpp",
		},
		{
			ID:         TensorRT,
			Name:       FrameworkName(TensorRT),
			Compatible: slices.Contains(tensorRTTypes, mt),
			Confidence: tensorRTConfidence,
			Notes:      []string{"NVIDIA GPUs only", "Fastest inference performance", "Requires conversion process"},
			InstallCmd: "See NVIDIA TensorRT-LLM docs",
			Docs:       "https://github.com/NVIDIA/TensorRT-LLM",
		},
	}
}

func vramOrMissing(v float64) float64 {
	if v <= 0 {
		return missingVRAM
	}
	return v
}

func hardwareClasses(m core.ModelRecord) []HardwareClass {
	fp16 := vramOrMissing(m.VRAM.FP16)
	int8 := vramOrMissing(m.VRAM.INT8)

	consumer := HardwareClass{
		ID:             "consumer",
		Name:           "Consumer GPUs",
		Compatible:     fp16 <= 24,
		Recommendation: "Requires professional/server GPUs",
	}
	if consumer.Compatible {
		consumer.Recommendation = "Compatible with high-end consumer cards"
	}
	if int8 <= 12 {
		consumer.Options = append(consumer.Options,
			HardwareOption{Name: "RTX 3060 12GB", Format: "INT8", Feasible: true},
			HardwareOption{Name: "RTX 4060 Ti 16GB", Format: "INT8", Feasible: true})
	}
	if fp16 <= 24 {
		consumer.Options = append(consumer.Options,
			HardwareOption{Name: "RTX 3090 24GB", Format: "FP16", Feasible: true},
			HardwareOption{Name: "RTX 4090 24GB", Format: "FP16", Feasible: true})
	}
	if len(consumer.Options) == 0 {
		consumer.Options = []HardwareOption{{Name: "Multi-GPU setup required", Format: "N/A"}}
	}

	professional := HardwareClass{
		ID:             "professional",
		Name:           "Professional GPUs",
		Compatible:     true,
		Options:        []HardwareOption{},
		Recommendation: "All professional GPUs can run this model",
	}
	if fp16 <= 24 {
		professional.Options = append(professional.Options,
			HardwareOption{Name: "A10 24GB", Feasible: true},
			HardwareOption{Name: "L4 24GB", Feasible: true})
	}
	if fp16 <= 40 {
		professional.Options = append(professional.Options, HardwareOption{Name: "A100 40GB", Feasible: true})
	}
	if fp16 <= 80 {
		professional.Options = append(professional.Options,
			HardwareOption{Name: "A100 80GB", Feasible: true},
			HardwareOption{Name: "H100 80GB", Feasible: true})
	} else {
		professional.Options = append(professional.Options, HardwareOption{Name: "Multi-GPU A100/H100", Feasible: true})
	}

	cloud := HardwareClass{
		ID:             "cloud",
		Name:           "Cloud Providers",
		Compatible:     true,
		Options:        []HardwareOption{},
		Recommendation: "Available on all major cloud platforms",
	}
	if fp16 <= 16 {
		cloud.Options = append(cloud.Options,
			HardwareOption{Provider: "AWS", Name: "g5.xlarge (A10G)", Price: "~$1/hr", Feasible: true},
			HardwareOption{Provider: "GCP", Name: "g2-standard-4 (L4)", Price: "~$0.85/hr", Feasible: true})
	}
	if fp16 <= 24 {
		cloud.Options = append(cloud.Options,
			HardwareOption{Provider: "AWS", Name: "g5.2xlarge (A10G)", Price: "~$1.5/hr", Feasible: true},
			HardwareOption{Provider: "Azure", Name: "NC A10 v5", Price: "~$1.2/hr", Feasible: true})
	}
	if fp16 <= 40 {
		cloud.Options = append(cloud.Options,
			HardwareOption{Provider: "AWS", Name: "p4d.24xlarge (A100)", Price: "~$4/hr", Feasible: true},
			HardwareOption{Provider: "GCP", Name: "a2-highgpu-1g (A100)", Price: "~$3.7/hr", Feasible: true})
	}

	cpu := HardwareClass{
		ID:             "cpu",
		Name:           "CPU Inference",
		Compatible:     int8 <= 16,
		Options:        []HardwareOption{},
		Performance:    "Very Slow",
		Recommendation: "Not recommended for production",
	}
	switch {
	case int8 <= 8:
		cpu.Performance = "Moderate"
		cpu.Recommendation = "Feasible with quantization"
	case int8 <= 16:
		cpu.Performance = "Slow"
	}

	return []HardwareClass{consumer, professional, cloud, cpu}
}

func gbLabel(v float64) string {
	if v <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%gGB", v)
}

func formats(m core.ModelRecord) []Format {
	id := strings.ToLower(m.ModelID)
	method := strings.ToLower(m.Quantization.Method)
	int4 := gbLabel(m.VRAM.INT4)
	approxInt4 := int4
	if m.VRAM.INT4 > 0 {
		approxInt4 = "~" + int4
	}

	return []Format{
		{ID: "fp16", Name: "FP16 (Half Precision)", Supported: true, VRAM: gbLabel(m.VRAM.FP16),
			Quality: "100% (reference)", Notes: []string{"Full precision", "Best quality", "Standard deployment"}},
		{ID: "int8", Name: "INT8 (8-bit)", Supported: true, VRAM: gbLabel(m.VRAM.INT8),
			Quality: "~95-98%", Notes: []string{"2x smaller", "Minimal quality loss", "Production ready"}},
		{ID: "int4", Name: "INT4 (4-bit)", Supported: true, VRAM: int4,
			Quality: "~85-92%", Notes: []string{"4x smaller", "Noticeable quality loss", "Good for inference"}},
		{ID: "gguf", Name: "GGUF (llama.cpp)", Supported: strings.Contains(id, "gguf") || method == "gguf" || m.Downloads > ggufDownloads,
			VRAM: "Varies by quant", Quality: "Varies (Q2-Q8)", Notes: []string{"CPU compatible", "Flexible quantization", "Check HF for GGUF files"}},
		{ID: "gptq", Name: "GPTQ", Supported: strings.Contains(id, "gptq") || method == "gptq", VRAM: approxInt4,
			Quality: "~90%", Notes: []string{"GPU optimized", "Popular format", "AutoGPTQ support"}},
		{ID: "awq", Name: "AWQ", Supported: strings.Contains(id, "awq") || method == "awq", VRAM: approxInt4,
			Quality: "~92%", Notes: []string{"Better quality than GPTQ", "vLLM compatible", "Check HF for AWQ versions"}},
	}
}

func features(cfg *core.ArchitectureConfig) []Feature {
	flash := Feature{ID: "flashAttention", Name: "Flash Attention", Supported: cfg.CacheEnabled(), Benefit: "2-4x faster inference",
		Notes: []string{"Not supported by this architecture"}}
	if flash.Supported {
		flash.Notes = []string{"Reduces memory usage", "Faster training/inference"}
	}

	gqa := Feature{ID: "gqa", Name: "Grouped Query Attention (GQA)", Supported: cfg.HasGQA(), Benefit: "N/A",
		Notes: []string{"Standard MHA - no optimization"}}
	if gqa.Supported {
		ratio := int(math.Round(float64(cfg.NumAttentionHeads) / float64(cfg.NumKeyValueHeads)))
		gqa.Benefit = fmt.Sprintf("%dx faster KV cache", ratio)
		gqa.Notes = []string{"Faster inference", "Lower memory usage", "Minimal quality impact"}
	}

	ctx := cfg.ContextLength()
	long := Feature{ID: "longContext", Name: "Long Context Support", Supported: ctx >= longContext, Benefit: "Unknown context window",
		Notes: []string{"Standard context window"}}
	if ctx > 0 {
		long.Benefit = fmt.Sprintf("%.0fk token window", float64(ctx)/1000)
	}
	if long.Supported {
		long.Notes = []string{"Great for RAG", "Long documents", "Extended conversations"}
	}

	rope := Feature{ID: "ropeScaling", Name: "RoPE Scaling", Benefit: "N/A", Notes: []string{"Fixed context window"}}
	if cfg != nil && len(cfg.RopeScaling) > 0 {
		method := "unknown"
		for _, key := range []string{"type", "rope_type"} {
			if s, ok := cfg.RopeScaling[key].(string); ok && s != "" {
				method = s
				break
			}
		}
		rope.Supported = true
		rope.Benefit = "Extended context beyond training length"
		rope.Notes = []string{"Can handle longer sequences", "Method: " + method}
	}

	sliding := Feature{ID: "slidingWindow", Name: "Sliding Window Attention", Benefit: "N/A", Notes: []string{"Full attention"}}
	if cfg != nil && cfg.SlidingWindow > 0 {
		sliding.Supported = true
		sliding.Benefit = "Reduced memory for long sequences"
		sliding.Notes = []string{fmt.Sprintf("Window size: %d", cfg.SlidingWindow), "Memory efficient"}
	}

	return []Feature{flash, gqa, long, rope, sliding}
}

func deployment(m core.ModelRecord) []DeploymentOption {
	fp16 := vramOrMissing(m.VRAM.FP16)
	commercial := m.License.Commercial == core.CommercialAllowed

	cloudCost, hardwareCost := "$4-8/hour", "$10k-30k hardware"
	if fp16 <= 24 {
		cloudCost, hardwareCost = "$1-2/hour", "$2k-5k hardware"
	}
	requirement := "Unknown VRAM requirement"
	if m.VRAM.FP16 > 0 {
		requirement = fmt.Sprintf("%gGB VRAM GPU", m.VRAM.FP16)
	}
	edge := "Challenging"
	if fp16 <= 4 {
		edge = "Feasible with INT4"
	}

	return []DeploymentOption{
		{
			ID:           "cloudAPI",
			Name:         "Managed API Services",
			Suitable:     true,
			Targets:      []string{"Together AI", "Replicate", "HuggingFace Inference"},
			Pros:         []string{"No infrastructure", "Auto-scaling", "Pay per use"},
			Cons:         []string{"Recurring costs", "Data privacy concerns"},
			CostEstimate: "$0.0002-0.002 per 1k tokens",
		},
		{
			ID:           "cloudGPU",
			Name:         "Cloud GPU Instances",
			Suitable:     commercial,
			Targets:      []string{"AWS", "GCP", "Azure", "Lambda Labs"},
			Pros:         []string{"Full control", "Custom models", "Predictable costs"},
			Cons:         []string{"DevOps required", "Higher complexity"},
			CostEstimate: cloudCost,
		},
		{
			ID:           "selfHosted",
			Name:         "Self-Hosted",
			Suitable:     commercial,
			Targets:      []string{requirement, "Server infrastructure"},
			Pros:         []string{"One-time cost", "Full control", "Data privacy"},
			Cons:         []string{"High upfront", "Maintenance", "Power costs"},
			CostEstimate: hardwareCost,
		},
		{
			ID:             "edge",
			Name:           "Edge Deployment",
			Suitable:       fp16 <= 8,
			Targets:        []string{"Mobile", "IoT", "Browser (WASM)"},
			Pros:           []string{"Offline capable", "Low latency", "Privacy"},
			Cons:           []string{"Limited performance", "Quantization required"},
			Recommendation: edge,
		},
	}
}

func percent(n, of int) int {
	if of == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(of) * 100))
}
