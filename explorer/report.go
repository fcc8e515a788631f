package explorer

import (
	"context"

	"github.com/sammcj/hfscout/alternatives"
	"github.com/sammcj/hfscout/compatibility"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/hardware"
	"github.com/sammcj/hfscout/license"
	"github.com/sammcj/hfscout/scoring"
)

// Report is everything known about one model
type Report struct {
	Model        core.ModelRecord           `json:"model"`
	Score        core.ScoreRecord           `json:"score"`
	Advice       license.Advice             `json:"licenseAdvice"`
	Alternatives alternatives.Result        `json:"alternatives"`
	Summary      alternatives.Summary       `json:"alternativesSummary"`
	Compatibility compatibility.Analysis    `json:"compatibility"`
	GPUs         hardware.GPURecommendation `json:"gpus"`
	MultiGPU     hardware.MultiGPUPlan      `json:"multiGpu"`
	TCO          *hardware.TCO              `json:"tco,omitempty"`
}

// Report inspects a model and ranks it against the curated pool. Pool members that fail
// to load are left out of the alternatives.
func (e *Explorer) Report(ctx context.Context, modelID string) (*Report, error) {
	rec, err := e.Inspect(ctx, modelID)
	if err != nil {
		return nil, err
	}

	pool, err := e.Pool(ctx)
	if err != nil {
		return nil, err
	}

	return BuildReport(rec, pool), nil
}

// BuildReport assembles a report for rec without touching the network
func BuildReport(rec core.ModelRecord, pool []core.ModelRecord) *Report {
	alts := alternatives.Find(rec, pool)
	r := &Report{
		Model:        rec,
		Score:        scoring.Score(rec),
		Advice:       license.DeploymentAdvice(rec.RawLicense),
		Alternatives: alts,
		Summary:      alternatives.Summarise(alts),
		Compatibility: compatibility.Analyze(rec),
	}
	if rec.VRAM.Known() {
		r.GPUs = hardware.RecommendGPUs(rec.VRAM.FP16)
		r.MultiGPU = hardware.MultiGPU(rec.VRAM.FP16)
		tco := hardware.CalculateTCO(rec.VRAM.FP16, hardware.Usage{})
		r.TCO = &tco
	}
	return r
}
