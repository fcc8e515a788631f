package core

import "time"

// Commercial describes whether a license permits commercial use
type Commercial string

const (
	CommercialAllowed     Commercial = "true"
	CommercialDenied      Commercial = "false"
	CommercialConditional Commercial = "conditional"
	CommercialUnknown     Commercial = "unknown"
)

// Permission is a tri-state grant for modification or distribution rights
type Permission string

const (
	PermissionAllowed Permission = "allowed"
	PermissionDenied  Permission = "denied"
	PermissionUnknown Permission = "unknown"
)

// LicenseStatus groups licenses by how freely they can be deployed
type LicenseStatus string

const (
	StatusPermissive    LicenseStatus = "permissive"
	StatusRestricted    LicenseStatus = "restricted"
	StatusNonCommercial LicenseStatus = "non-commercial"
	StatusResponsible   LicenseStatus = "responsible"
	StatusUnknown       LicenseStatus = "unknown"
)

// LicenseRecord is the structured permissiveness record for a license identifier.
// Records are shared between callers and must be treated as read-only.
type LicenseRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Commercial   Commercial    `json:"commercial"`
	Modification Permission    `json:"modification"`
	Distribution Permission    `json:"distribution"`
	Status       LicenseStatus `json:"status"`
	Summary      string        `json:"summary"`
	Details      string        `json:"details"`
	Warnings     []string      `json:"warnings"`
}

// ArchitectureConfig holds the subset of config.json fields used for estimation and scoring.
// Zero values mean the field was absent from the published config.
type ArchitectureConfig struct {
	ModelType             string         `json:"model_type"`
	Architectures         []string       `json:"architectures,omitempty"`
	HiddenSize            int            `json:"hidden_size,omitempty"`
	NumHiddenLayers       int            `json:"num_hidden_layers,omitempty"`
	NumAttentionHeads     int            `json:"num_attention_heads,omitempty"`
	NumKeyValueHeads      int            `json:"num_key_value_heads,omitempty"`
	IntermediateSize      int            `json:"intermediate_size,omitempty"`
	VocabSize             int            `json:"vocab_size,omitempty"`
	MaxPositionEmbeddings int            `json:"max_position_embeddings,omitempty"`
	RopeTheta             float64        `json:"rope_theta,omitempty"`
	RopeScaling           map[string]any `json:"rope_scaling,omitempty"`
	SlidingWindow         int            `json:"sliding_window,omitempty"`
	NumExperts            int            `json:"num_experts,omitempty"`
	NumExpertsPerTok      int            `json:"num_experts_per_tok,omitempty"`
	TorchDtype            string         `json:"torch_dtype,omitempty"`
	UseCache              *bool          `json:"use_cache,omitempty"`
	QuantizationConfig    map[string]any `json:"quantization_config,omitempty"`
}

// CacheEnabled reports whether the KV cache is enabled, defaulting to true
func (c *ArchitectureConfig) CacheEnabled() bool {
	if c == nil || c.UseCache == nil {
		return true
	}
	return *c.UseCache
}

// ContextLength returns the maximum position embeddings, or 0 when unknown
func (c *ArchitectureConfig) ContextLength() int {
	if c == nil {
		return 0
	}
	return c.MaxPositionEmbeddings
}

// KVHeads returns the key/value head count, falling back to the attention head count
func (c *ArchitectureConfig) KVHeads() int {
	if c == nil {
		return 0
	}
	if c.NumKeyValueHeads > 0 {
		return c.NumKeyValueHeads
	}
	return c.NumAttentionHeads
}

// HasGQA reports whether the model shares key/value heads across attention heads
func (c *ArchitectureConfig) HasGQA() bool {
	if c == nil || c.NumKeyValueHeads == 0 {
		return false
	}
	return c.NumKeyValueHeads < c.NumAttentionHeads
}

// Card is the information extracted from a model's README
type Card struct {
	Description string             `json:"description"`
	Benchmarks  map[string]float64 `json:"benchmarks,omitempty"`
	Usage       string             `json:"usage,omitempty"`
	Limitations string             `json:"limitations,omitempty"`
	Training    string             `json:"training,omitempty"`
}

// VRAMEstimate is memory in GB per precision, with TotalParams in billions
type VRAMEstimate struct {
	FP32        float64 `json:"fp32"`
	FP16        float64 `json:"fp16"`
	INT8        float64 `json:"int8"`
	INT4        float64 `json:"int4"`
	TotalParams float64 `json:"totalParams"`
}

// Known reports whether the estimate carries usable figures
func (v VRAMEstimate) Known() bool {
	return v.FP16 > 0 && v.TotalParams > 0
}

type Quantization struct {
	Quantized bool   `json:"quantized"`
	Method    string `json:"method,omitempty"`
	Bits      int    `json:"bits,omitempty"`
}

// ModelRecord is the enriched description of a single registry model.
// VRAM and License are derived values; build a new record rather than editing them.
type ModelRecord struct {
	ModelID         string              `json:"modelId"`
	Author          string              `json:"author"`
	Downloads       int64               `json:"downloads"`
	Likes           int64               `json:"likes"`
	LastModified    *time.Time          `json:"lastModified"`
	Tags            []string            `json:"tags,omitempty"`
	Library         string              `json:"library,omitempty"`
	PipelineTag     string              `json:"pipelineTag,omitempty"`
	Private         bool                `json:"private"`
	Gated           bool                `json:"gated"`
	RawLicense      string              `json:"rawLicense,omitempty"`
	Config          *ArchitectureConfig `json:"config"`
	Card            *Card               `json:"card"`
	TokenizerConfig map[string]any      `json:"tokenizerConfig,omitempty"`
	VRAM            VRAMEstimate        `json:"vramEstimates"`
	License         LicenseRecord       `json:"licenseInfo"`
	Quantization    Quantization        `json:"quantization"`
	FetchedAt       time.Time           `json:"fetchedAt"`
}

// ContextLength returns the model's context window, or 0 when unknown
func (m ModelRecord) ContextLength() int {
	return m.Config.ContextLength()
}

// ScoreCategory names one of the five deployment score categories
type ScoreCategory string

const (
	CategoryLicense       ScoreCategory = "license"
	CategoryCommunity     ScoreCategory = "community"
	CategoryDocumentation ScoreCategory = "documentation"
	CategoryCompatibility ScoreCategory = "compatibility"
	CategoryEfficiency    ScoreCategory = "efficiency"
)

// ScoreCategories lists the categories in presentation order
var ScoreCategories = []ScoreCategory{
	CategoryLicense,
	CategoryCommunity,
	CategoryDocumentation,
	CategoryCompatibility,
	CategoryEfficiency,
}

type CategoryScore struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"maxScore"`
	Details  []string `json:"details"`
	Issues   []string `json:"issues"`
}

type Rating struct {
	Level string `json:"level"`
	Label string `json:"label"`
}

// RecommendationType is the severity of a score recommendation
type RecommendationType string

const (
	RecommendSuccess RecommendationType = "success"
	RecommendInfo    RecommendationType = "info"
	RecommendWarning RecommendationType = "warning"
)

type ScoreRecommendation struct {
	Type    RecommendationType `json:"type"`
	Message string             `json:"message"`
}

// ScoreRecord is the production-readiness assessment of a model
type ScoreRecord struct {
	Total              int                             `json:"total"`
	Scores             map[ScoreCategory]CategoryScore `json:"scores"`
	Rating             Rating                          `json:"rating"`
	Recommendations    []ScoreRecommendation           `json:"recommendations"`
	ReadyForProduction bool                            `json:"readyForProduction"`
}

// LicenseNeed is the license requirement a user states when asking for recommendations
type LicenseNeed string

const (
	LicenseAny        LicenseNeed = "any"
	LicenseCommercial LicenseNeed = "commercial"
	LicenseResearch   LicenseNeed = "research"
)

// RequirementSpec captures what a user needs from a recommended model
type RequirementSpec struct {
	UseCase    string      `json:"useCase"`
	MaxVRAM    float64     `json:"maxVRAM,omitempty"`
	MinContext int         `json:"minContext,omitempty"`
	License    LicenseNeed `json:"license,omitempty"`
	Priority   string      `json:"priority"`
	Frameworks []string    `json:"frameworks,omitempty"`
}
