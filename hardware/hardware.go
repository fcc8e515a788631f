// Package hardware turns a VRAM requirement into GPU, cloud and deployment advice.
package hardware

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
)

const (
	// safetyMargin is the headroom a GPU needs over the model's requirement
	safetyMargin = 1.3

	DefaultHoursPerMonth = 730

	// unlimitedVRAM is assigned to offers whose label carries no memory size
	unlimitedVRAM = 999

	dedicatedUpfront = 5000.0

	// kvPerToken is the rough KV cache cost per token of context, in GB
	kvPerToken = 0.002

	tokensPerRequest = 512
)

var vramLabel = regexp.MustCompile(`(\d+)GB`)

// GPUOption is a catalogue GPU annotated against a requirement
type GPUOption struct {
	GPU
	Utilization      int `json:"utilization"`
	PricePerformance int `json:"pricePerformance"`
}

// GPURecommendation lists suitable GPUs cheapest first, with the best pick per segment
type GPURecommendation struct {
	Recommended  []GPUOption `json:"recommended"`
	Budget       *GPUOption  `json:"budget,omitempty"`
	Professional *GPUOption  `json:"professional,omitempty"`
	Enterprise   *GPUOption  `json:"enterprise,omitempty"`
	All          []GPUOption `json:"allOptions"`
}

// RecommendGPUs returns every GPU with at least 30% headroom over requiredVRAM
func RecommendGPUs(requiredVRAM float64) GPURecommendation {
	target := requiredVRAM * safetyMargin

	suitable := []GPUOption{}
	for _, g := range gpus {
		if float64(g.VRAM) < target {
			continue
		}
		suitable = append(suitable, GPUOption{
			GPU:              g,
			Utilization:      int(math.Round(requiredVRAM / float64(g.VRAM) * 100)),
			PricePerformance: int(math.Round(float64(g.Price) / float64(g.Performance))),
		})
	}
	sort.SliceStable(suitable, func(i, j int) bool {
		return suitable[i].Price < suitable[j].Price
	})

	rec := GPURecommendation{All: suitable}
	rec.Recommended = suitable[:min(3, len(suitable))]
	rec.Budget = firstInTier(suitable, TierConsumer, TierProsumer)
	rec.Professional = firstInTier(suitable, TierProfessional)
	rec.Enterprise = firstInTier(suitable, TierEnterprise)
	return rec
}

func firstInTier(options []GPUOption, tiers ...Tier) *GPUOption {
	for i := range options {
		for _, t := range tiers {
			if options[i].Tier == t {
				opt := options[i]
				return &opt
			}
		}
	}
	return nil
}

// CloudInstance is a provider offer sized for a workload
type CloudInstance struct {
	Provider    string    `json:"provider"`
	Key         string    `json:"key"`
	GPU         string    `json:"gpu"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Unit        PriceUnit `json:"unit"`
	VRAM        int       `json:"vram"`
	MonthlyCost float64   `json:"monthlyCost"`
}

// CloudCosts returns the cheapest offer from each provider that has at least vram GB. Hours
// below 1 mean a full month.
func CloudCosts(vram float64, hoursPerMonth float64) []CloudInstance {
	if hoursPerMonth <= 0 {
		hoursPerMonth = DefaultHoursPerMonth
	}

	out := []CloudInstance{}
	for _, p := range cloudPricing {
		var best *CloudInstance
		for _, o := range p.offers {
			inst := CloudInstance{
				Provider:    p.name,
				Key:         o.key,
				GPU:         o.gpu,
				Name:        o.name,
				Price:       o.price,
				Unit:        o.unit,
				VRAM:        labelVRAM(o.gpu),
				MonthlyCost: o.price * hoursPerMonth,
			}
			if float64(inst.VRAM) < vram {
				continue
			}
			if best == nil || inst.MonthlyCost < best.MonthlyCost {
				best = &inst
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	return out
}

func labelVRAM(label string) int {
	m := vramLabel.FindStringSubmatch(label)
	if m == nil {
		return unlimitedVRAM
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return unlimitedVRAM
	}
	return n
}

// SelfHosted is a self-managed deployment option
type SelfHosted struct {
	Name    string   `json:"name"`
	Setup   string   `json:"setup"`
	Monthly float64  `json:"monthly"`
	Upfront float64  `json:"upfront,omitempty"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

// BreakEven compares cloud self-hosting against the cheapest API. Available is false when
// no cloud instance can hold the model.
type BreakEven struct {
	Available bool    `json:"available"`
	VsAPI     float64 `json:"vsAPI"`
	Months    float64 `json:"months"`
}

type DeploymentType string

const (
	DeployAPI        DeploymentType = "api"
	DeployHybrid     DeploymentType = "hybrid"
	DeploySelfHosted DeploymentType = "self-hosted"
)

type DeploymentRecommendation struct {
	Type   DeploymentType `json:"type"`
	Reason string         `json:"reason"`
}

type DeploymentComparison struct {
	API            []APIOption              `json:"apiCosts"`
	Cloud          SelfHosted               `json:"cloud"`
	Dedicated      SelfHosted               `json:"dedicated"`
	BreakEven      BreakEven                `json:"breakEven"`
	Recommendation DeploymentRecommendation `json:"recommendation"`
}

// CompareDeployment prices a monthly token volume against APIs and GPU hosting. Only hourly
// GPU offers count as self-hosting.
func CompareDeployment(tokensPerMonth int64, vram float64) DeploymentComparison {
	kTokens := float64(tokensPerMonth) / 1000

	api := make([]APIOption, len(apiProviders))
	for i, p := range apiProviders {
		p.Monthly = kTokens * p.CostPer1K
		api[i] = p
	}

	var cheapest *CloudInstance
	for _, inst := range CloudCosts(vram, DefaultHoursPerMonth) {
		if inst.Unit != PerHour {
			continue
		}
		if cheapest == nil || inst.MonthlyCost < cheapest.MonthlyCost {
			c := inst
			cheapest = &c
		}
	}

	cmp := DeploymentComparison{
		API: api,
		Cloud: SelfHosted{
			Name:  "Cloud GPU (24/7)",
			Setup: "N/A",
			Pros:  []string{"Full control", "Custom models", "Predictable cost"},
			Cons:  []string{"Management overhead", "Fixed cost", "DevOps required"},
		},
		Dedicated: SelfHosted{
			Name:    "Dedicated Server",
			Setup:   "Own hardware",
			Upfront: dedicatedUpfront,
			Pros:    []string{"No ongoing cost", "Full control", "No vendor lock-in"},
			Cons:    []string{"High upfront", "Maintenance", "Power costs"},
		},
	}

	cloudMonthly := 0.0
	if cheapest != nil {
		cloudMonthly = cheapest.MonthlyCost
		cmp.Cloud.Setup = cheapest.Name
		cmp.Cloud.Monthly = cloudMonthly

		cmp.BreakEven.Available = true
		cmp.BreakEven.Months = roundTenth(dedicatedUpfront / cloudMonthly)
		if apiMonthly := api[0].Monthly; apiMonthly > 0 {
			cmp.BreakEven.VsAPI = roundTenth(cloudMonthly / apiMonthly)
		}
	}

	cmp.Recommendation = recommendDeployment(tokensPerMonth, api[0].Monthly, cloudMonthly)
	return cmp
}

func recommendDeployment(tokensPerMonth int64, apiMonthly, cloudMonthly float64) DeploymentRecommendation {
	switch {
	case cloudMonthly <= 0:
		return DeploymentRecommendation{DeployAPI, "Start with API - Low initial investment"}
	case tokensPerMonth < 1_000_000:
		return DeploymentRecommendation{DeployAPI, "Low volume - API is more cost-effective"}
	case apiMonthly < cloudMonthly*0.5:
		return DeploymentRecommendation{DeployAPI, "API still cheaper at this scale"}
	case apiMonthly < cloudMonthly*2:
		return DeploymentRecommendation{DeployHybrid, "Consider hybrid: API for spikes, self-hosted for base load"}
	}
	return DeploymentRecommendation{DeploySelfHosted, "High volume - Self-hosting is more economical"}
}

// BatchPlan suggests batch sizes for the VRAM left over after loading a model
type BatchPlan struct {
	Recommended  int    `json:"recommended"`
	Maximum      int    `json:"maximum"`
	Conservative int    `json:"conservative"`
	Aggressive   int    `json:"aggressive"`
	Note         string `json:"note,omitempty"`
}

// BatchSizes estimates how many sequences of contextLength fit beside the model
func BatchSizes(availableVRAM, modelVRAM float64, contextLength int) BatchPlan {
	maxBatch := 0
	if contextLength > 0 {
		maxBatch = int(math.Floor((availableVRAM - modelVRAM) / (float64(contextLength) * kvPerToken)))
	}

	scaled := func(f float64) int {
		return max(1, int(math.Floor(float64(maxBatch)*f)))
	}
	plan := BatchPlan{
		Recommended:  scaled(0.7),
		Maximum:      max(1, maxBatch),
		Conservative: scaled(0.5),
		Aggressive:   scaled(0.9),
	}
	if maxBatch < 4 {
		plan.Note = "Limited headroom - consider larger GPU for batching"
	}
	return plan
}

type ThroughputEstimate struct {
	TokensPerSecond   int     `json:"tokensPerSecond"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	DailyTokens       int64   `json:"dailyTokens"`
	Note              string  `json:"note"`
}

// Throughput gives a rough token rate for a GPU. Batching scales sublinearly.
func Throughput(gpu GPU, batchSize int) ThroughputEstimate {
	if batchSize < 1 {
		batchSize = 1
	}
	tps := float64(gpu.Performance) * 10 * math.Sqrt(float64(batchSize))

	return ThroughputEstimate{
		TokensPerSecond:   int(math.Round(tps)),
		RequestsPerSecond: math.Round(tps/tokensPerRequest*100) / 100,
		DailyTokens:       int64(math.Round(tps * 60 * 60 * 24)),
		Note:              "Estimates - actual performance varies by model and optimization",
	}
}

type GPUConfig struct {
	GPUs       int    `json:"gpus"`
	Model      string `json:"model"`
	TotalVRAM  int    `json:"totalVRAM"`
	Strategy   string `json:"strategy"`
	Cost       string `json:"cost"`
	Complexity string `json:"complexity"`
}

type MultiGPUPlan struct {
	Needed         bool        `json:"needed"`
	Message        string      `json:"message"`
	Configurations []GPUConfig `json:"configurations"`
}

// MultiGPU lists the multi-accelerator layouts that can hold a model
func MultiGPU(modelVRAM float64) MultiGPUPlan {
	if modelVRAM <= 24 {
		return MultiGPUPlan{Message: "Single GPU sufficient", Configurations: []GPUConfig{}}
	}

	var configs []GPUConfig
	if modelVRAM <= 48 {
		configs = append(configs, GPUConfig{GPUs: 2, Model: "A100 40GB", TotalVRAM: 80, Strategy: "Tensor Parallelism", Cost: "High", Complexity: "Medium"})
	}
	if modelVRAM <= 80 {
		configs = append(configs, GPUConfig{GPUs: 1, Model: "A100 80GB", TotalVRAM: 80, Strategy: "Single GPU", Cost: "High", Complexity: "Low"})
	} else {
		n := int(math.Ceil(modelVRAM / 80))
		configs = append(configs, GPUConfig{GPUs: n, Model: "A100 80GB", TotalVRAM: n * 80, Strategy: "Tensor Parallelism", Cost: "Very High", Complexity: "High"})
	}

	return MultiGPUPlan{
		Needed:         true,
		Message:        fmt.Sprintf("Model requires %vGB - multi-GPU setup needed", modelVRAM),
		Configurations: configs,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
