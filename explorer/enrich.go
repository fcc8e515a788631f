package explorer

import (
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/license"
	"github.com/sammcj/hfscout/vramestimator"
)

const (
	defaultLibrary     = "unknown"
	defaultPipelineTag = "text-generation"
)

// FallbackVRAM stands in for pool members whose config could not be fetched, so they can
// still be ranked as a typical 7B model.
var FallbackVRAM = core.VRAMEstimate{FP32: 28, FP16: 14, INT8: 7, INT4: 4, TotalParams: 7}

// Enrich builds a model record from a fetched bundle using the default estimator
func Enrich(b *huggingface.Bundle) core.ModelRecord {
	return enrichWith(vramestimator.DefaultEstimator, b)
}

func enrichWith(est vramestimator.Estimator, b *huggingface.Bundle) core.ModelRecord {
	rec := fromMetadata(b.Metadata)

	rec.Config = core.ParseConfig(b.Config)
	if b.Readme != nil {
		rec.Card = core.ParseCard(*b.Readme)
	}
	rec.TokenizerConfig = b.TokenizerConfig
	rec.FetchedAt = b.FetchedAt

	if rec.Config != nil {
		rec.VRAM = est.Estimate(rec.Config)
	}
	rec.Quantization = core.DetectQuantization(rec.Config, rec.ModelID)

	rec.RawLicense = license.ExtractLicense(b.Metadata.CardData, b.Metadata.Tags)
	rec.License = license.Classify(rec.RawLicense)
	return rec
}

// fromMetadata maps registry metadata onto a record, filling the documented defaults
func fromMetadata(meta huggingface.ModelInfo) core.ModelRecord {
	id := meta.Name()
	if id == "" {
		id = "unknown"
	}

	rec := core.ModelRecord{
		ModelID:      id,
		Author:       core.AuthorFromID(id),
		Downloads:    meta.Downloads,
		Likes:        meta.Likes,
		LastModified: meta.LastModified,
		Tags:         meta.Tags,
		Library:      meta.LibraryName,
		PipelineTag:  meta.PipelineTag,
		Private:      meta.Private,
		Gated:        meta.Gated.IsGated(),
	}
	if rec.Author == "unknown" && meta.Author != "" {
		rec.Author = meta.Author
	}
	if rec.Library == "" {
		rec.Library = defaultLibrary
	}
	if rec.PipelineTag == "" {
		rec.PipelineTag = defaultPipelineTag
	}
	return rec
}
