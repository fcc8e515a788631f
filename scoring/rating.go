package scoring

import "github.com/sammcj/hfscout/core"

// RatingFor maps a total score to its rating band
func RatingFor(total int) core.Rating {
	switch {
	case total >= 90:
		return core.Rating{Level: "excellent", Label: "Excellent"}
	case total >= 80:
		return core.Rating{Level: "great", Label: "Production Ready"}
	case total >= 70:
		return core.Rating{Level: "good", Label: "Good"}
	case total >= 60:
		return core.Rating{Level: "fair", Label: "Fair"}
	case total >= 50:
		return core.Rating{Level: "caution", Label: "Proceed with Caution"}
	}
	return core.Rating{Level: "poor", Label: "Not Recommended"}
}

func recommendations(scores map[core.ScoreCategory]core.CategoryScore, total int) []core.ScoreRecommendation {
	var recs []core.ScoreRecommendation

	switch {
	case total >= 80:
		recs = append(recs, core.ScoreRecommendation{Type: core.RecommendSuccess, Message: "This model is ready for production deployment."})
	case total >= 70:
		recs = append(recs, core.ScoreRecommendation{Type: core.RecommendInfo, Message: "This model is suitable for production with some considerations."})
	default:
		recs = append(recs, core.ScoreRecommendation{Type: core.RecommendWarning, Message: "This model may need additional evaluation before production use."})
	}

	thresholds := []struct {
		category core.ScoreCategory
		below    int
		kind     core.RecommendationType
		message  string
	}{
		{core.CategoryLicense, 10, core.RecommendWarning, "License restrictions may limit production use. Review carefully."},
		{core.CategoryCommunity, 10, core.RecommendWarning, "Low community adoption. Consider more battle-tested alternatives."},
		{core.CategoryDocumentation, 10, core.RecommendInfo, "Limited documentation. Budget extra time for integration."},
		{core.CategoryCompatibility, 15, core.RecommendWarning, "May have compatibility issues. Test thoroughly before deployment."},
		{core.CategoryEfficiency, 10, core.RecommendInfo, "Consider using quantized versions for better efficiency."},
	}
	for _, th := range thresholds {
		if scores[th.category].Score < th.below {
			recs = append(recs, core.ScoreRecommendation{Type: th.kind, Message: th.message})
		}
	}

	return recs
}
