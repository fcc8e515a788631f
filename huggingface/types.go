package huggingface

import (
	"encoding/json"
	"time"
)

// Gated is the registry's access gate. The API reports either false or the gate mode
// ("auto", "manual") as a string.
type Gated string

const GatedNone Gated = ""

func (g *Gated) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*g = "true"
		} else {
			*g = GatedNone
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = Gated(s)
	return nil
}

func (g Gated) MarshalJSON() ([]byte, error) {
	if g == GatedNone {
		return []byte("false"), nil
	}
	return json.Marshal(string(g))
}

// IsGated reports whether any access gate applies
func (g Gated) IsGated() bool {
	return g != GatedNone && g != "false"
}

// ModelInfo is the metadata returned by /api/models/{id}
type ModelInfo struct {
	ID           string         `json:"id"`
	ModelID      string         `json:"modelId"`
	Author       string         `json:"author"`
	LastModified *time.Time     `json:"lastModified,omitempty"`
	Downloads    int64          `json:"downloads"`
	Likes        int64          `json:"likes"`
	Tags         []string       `json:"tags"`
	LibraryName  string         `json:"library_name"`
	PipelineTag  string         `json:"pipeline_tag"`
	Private      bool           `json:"private"`
	Gated        Gated          `json:"gated"`
	CardData     map[string]any `json:"cardData,omitempty"`
}

// Name returns the canonical id, preferring modelId
func (m ModelInfo) Name() string {
	if m.ModelID != "" {
		return m.ModelID
	}
	return m.ID
}

// ModelSummary is one entry of a search or listing response
type ModelSummary struct {
	ID          string   `json:"id"`
	ModelID     string   `json:"modelId"`
	Downloads   int64    `json:"downloads"`
	Likes       int64    `json:"likes"`
	Tags        []string `json:"tags"`
	PipelineTag string   `json:"pipeline_tag"`
	Private     bool     `json:"private"`
}

func (m ModelSummary) Name() string {
	if m.ModelID != "" {
		return m.ModelID
	}
	return m.ID
}

// Bundle holds everything fetched for one model. Only Metadata is guaranteed; the other
// parts are nil when they could not be fetched.
type Bundle struct {
	Metadata        ModelInfo      `json:"metadata"`
	Config          map[string]any `json:"config"`
	Readme          *string        `json:"readme"`
	TokenizerConfig map[string]any `json:"tokenizerConfig"`
	FetchedAt       time.Time      `json:"fetchedAt"`
}
