package hardware

// Tier groups GPUs by market segment
type Tier string

const (
	TierConsumer     Tier = "consumer"
	TierProsumer     Tier = "prosumer"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// GPU describes a purchasable accelerator. Prices are rough USD street prices.
type GPU struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	VRAM         int    `json:"vram"`
	Tier         Tier   `json:"tier"`
	Performance  int    `json:"performance"`
	Price        int    `json:"price"`
	Availability string `json:"availability"`
	UseCase      string `json:"use_case"`
	FP16TFLOPS   int    `json:"fp16_tflops"`
}

var gpus = []GPU{
	{ID: "rtx-3060-12gb", Name: "RTX 3060 12GB", VRAM: 12, Tier: TierConsumer, Performance: 3, Price: 300, Availability: "high", UseCase: "Development & small models", FP16TFLOPS: 13},
	{ID: "rtx-4060-ti-16gb", Name: "RTX 4060 Ti 16GB", VRAM: 16, Tier: TierConsumer, Performance: 4, Price: 500, Availability: "high", UseCase: "Development & 7B models", FP16TFLOPS: 22},
	{ID: "rtx-3090", Name: "RTX 3090 24GB", VRAM: 24, Tier: TierProsumer, Performance: 6, Price: 1500, Availability: "medium", UseCase: "Development & 13B models", FP16TFLOPS: 35},
	{ID: "rtx-4090", Name: "RTX 4090 24GB", VRAM: 24, Tier: TierProsumer, Performance: 8, Price: 1600, Availability: "medium", UseCase: "Development & 13B models", FP16TFLOPS: 82},
	{ID: "a10", Name: "NVIDIA A10 24GB", VRAM: 24, Tier: TierProfessional, Performance: 7, Price: 4000, Availability: "high", UseCase: "Production inference", FP16TFLOPS: 31},
	{ID: "a10g", Name: "NVIDIA A10G 24GB", VRAM: 24, Tier: TierProfessional, Performance: 7, Price: 4500, Availability: "high", UseCase: "Cloud inference (AWS)", FP16TFLOPS: 35},
	{ID: "l4", Name: "NVIDIA L4 24GB", VRAM: 24, Tier: TierProfessional, Performance: 7, Price: 5000, Availability: "high", UseCase: "Cloud inference (GCP)", FP16TFLOPS: 30},
	{ID: "a100-40gb", Name: "NVIDIA A100 40GB", VRAM: 40, Tier: TierEnterprise, Performance: 10, Price: 10000, Availability: "medium", UseCase: "High-performance training/inference", FP16TFLOPS: 77},
	{ID: "a100-80gb", Name: "NVIDIA A100 80GB", VRAM: 80, Tier: TierEnterprise, Performance: 10, Price: 15000, Availability: "medium", UseCase: "Large models & batching", FP16TFLOPS: 77},
	{ID: "h100", Name: "NVIDIA H100 80GB", VRAM: 80, Tier: TierEnterprise, Performance: 12, Price: 30000, Availability: "low", UseCase: "Cutting-edge large models", FP16TFLOPS: 204},
}

// PriceUnit says what a cloud price is charged per
type PriceUnit string

const (
	PerHour      PriceUnit = "hour"
	PerKiloToken PriceUnit = "tokens"
)

type cloudOffer struct {
	key   string
	gpu   string
	price float64
	name  string
	unit  PriceUnit
}

type cloudProvider struct {
	name   string
	offers []cloudOffer
}

var cloudPricing = []cloudProvider{
	{"aws", []cloudOffer{
		{"t4", "T4 16GB", 0.526, "g4dn.xlarge", PerHour},
		{"a10g", "A10G 24GB", 1.006, "g5.xlarge", PerHour},
		{"a10g-4x", "4x A10G 24GB", 5.672, "g5.12xlarge", PerHour},
		{"a100", "A100 40GB", 4.098, "p4d.24xlarge (1/8)", PerHour},
	}},
	{"gcp", []cloudOffer{
		{"t4", "T4 16GB", 0.35, "n1-standard-4 + T4", PerHour},
		{"l4", "L4 24GB", 0.85, "g2-standard-4", PerHour},
		{"a100-40gb", "A100 40GB", 3.67, "a2-highgpu-1g", PerHour},
		{"a100-80gb", "A100 80GB", 4.89, "a2-ultragpu-1g", PerHour},
	}},
	{"azure", []cloudOffer{
		{"t4", "T4 16GB", 0.526, "NC4as T4 v3", PerHour},
		{"a10", "A10 24GB", 1.22, "NVadsA10 v5", PerHour},
		{"a100", "A100 80GB", 3.67, "NC24ads A100 v4", PerHour},
	}},
	{"together", []cloudOffer{{"inference", "Shared Infrastructure", 0.0002, "per 1K tokens", PerKiloToken}}},
	{"replicate", []cloudOffer{{"inference", "Various GPUs", 0.0002, "per 1K tokens", PerKiloToken}}},
	{"huggingface", []cloudOffer{{"inference", "Shared Infrastructure", 0.0006, "per 1K tokens", PerKiloToken}}},
}

// APIOption is a hosted inference API priced per thousand tokens
type APIOption struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	CostPer1K float64  `json:"costPer1K"`
	Monthly   float64  `json:"monthly"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
}

var apiProviders = []APIOption{
	{Key: "together", Name: "Together AI", CostPer1K: 0.0002, Pros: []string{"No setup", "Auto-scaling", "Pay per use"}, Cons: []string{"Data privacy", "Latency", "Vendor lock-in"}},
	{Key: "replicate", Name: "Replicate", CostPer1K: 0.0002, Pros: []string{"Easy deployment", "Flexible", "Good DX"}, Cons: []string{"Cold starts", "Cost at scale"}},
	{Key: "openai", Name: "OpenAI API", CostPer1K: 0.002, Pros: []string{"Best quality", "No infra", "Reliable"}, Cons: []string{"Expensive", "No customization", "Rate limits"}},
}

// GPUs returns the GPU catalogue
func GPUs() []GPU {
	return append([]GPU(nil), gpus...)
}

// LookupGPU finds a GPU by id
func LookupGPU(id string) (GPU, bool) {
	for _, g := range gpus {
		if g.ID == id {
			return g, true
		}
	}
	return GPU{}, false
}
