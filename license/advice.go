package license

import (
	"strings"

	"github.com/sammcj/hfscout/core"
)

// CommercialUse summarises whether a license can back a commercial deployment
type CommercialUse struct {
	Allowed     bool     `json:"allowed"`
	Conditional bool     `json:"conditional"`
	Forbidden   bool     `json:"forbidden"`
	NeedsReview bool     `json:"needsReview"`
	Summary     string   `json:"summary"`
	Warnings    []string `json:"warnings"`
}

// Advice is the deployment guidance attached to a license status
type Advice struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Actions []string `json:"actions"`
	Risks   string   `json:"risks"`
}

var adviceByStatus = map[core.LicenseStatus]Advice{
	core.StatusPermissive: {
		Status:  "ready",
		Message: "Ready for production deployment",
		Actions: []string{"Deploy freely", "Include license notice in distribution"},
		Risks:   "Minimal legal risk",
	},
	core.StatusRestricted: {
		Status:  "review",
		Message: "Review license terms before deploying",
		Actions: []string{"Check user count limits", "Review use restrictions", "Document compliance"},
		Risks:   "Conditional approval required for large scale",
	},
	core.StatusNonCommercial: {
		Status:  "blocked",
		Message: "Cannot deploy commercially",
		Actions: []string{"Use for research/personal only", "Find alternative model", "Contact license holder"},
		Risks:   "Legal violation if used commercially",
	},
	core.StatusResponsible: {
		Status:  "caution",
		Message: "Can deploy with responsible AI compliance",
		Actions: []string{"Review use restrictions", "Implement content filtering", "Document compliance"},
		Risks:   "Liability if used for harmful purposes",
	},
	core.StatusUnknown: {
		Status:  "uncertain",
		Message: "Legal review required",
		Actions: []string{"Read full license", "Consult legal team", "Contact model author"},
		Risks:   "Unknown legal implications",
	},
}

func CanUseCommercially(identifier string) CommercialUse {
	rec := Classify(identifier)
	return CommercialUse{
		Allowed:     rec.Commercial == core.CommercialAllowed,
		Conditional: rec.Commercial == core.CommercialConditional,
		Forbidden:   rec.Commercial == core.CommercialDenied,
		NeedsReview: rec.Commercial == core.CommercialUnknown || rec.Commercial == core.CommercialConditional,
		Summary:     rec.Summary,
		Warnings:    rec.Warnings,
	}
}

// DeploymentAdvice returns guidance for deploying a model under the given license
func DeploymentAdvice(identifier string) Advice {
	if advice, ok := adviceByStatus[Classify(identifier).Status]; ok {
		return advice
	}
	return adviceByStatus[core.StatusUnknown]
}

// ExtractLicense finds the raw license identifier in registry metadata, preferring the
// model card's license field over "license:" tags.
func ExtractLicense(cardData map[string]any, tags []string) string {
	switch v := cardData["license"].(type) {
	case string:
		if v != "" {
			return v
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}

	for _, tag := range tags {
		if strings.Contains(tag, "license") {
			return strings.TrimPrefix(tag, "license:")
		}
	}
	return ""
}
