// Package license classifies registry license identifiers into permissiveness records.
package license

import (
	"strings"

	"github.com/sammcj/hfscout/core"
)

const fallbackID = "other"

var table = map[string]core.LicenseRecord{
	"apache-2.0": {
		ID:           "apache-2.0",
		Name:         "Apache 2.0",
		Commercial:   core.CommercialAllowed,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusPermissive,
		Summary:      "Full commercial use allowed",
		Details:      "Can use commercially, modify, distribute, and sublicense. Includes patent protection.",
		Warnings:     []string{},
	},
	"mit": {
		ID:           "mit",
		Name:         "MIT License",
		Commercial:   core.CommercialAllowed,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusPermissive,
		Summary:      "Full commercial use allowed",
		Details:      "Very permissive. Can use commercially and modify freely. Must include license notice.",
		Warnings:     []string{},
	},
	"llama2": {
		ID:           "llama2",
		Name:         "Llama 2 Community License",
		Commercial:   core.CommercialConditional,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusRestricted,
		Summary:      "Commercial use with conditions",
		Details:      "Free for commercial use if you have <700M monthly active users. Above that, need Meta approval.",
		Warnings: []string{
			"Must have <700M MAU for free commercial use",
			"Cannot use to improve other LLMs",
			"Must include license in distribution",
		},
	},
	"llama3": {
		ID:           "llama3",
		Name:         "Llama 3 Community License",
		Commercial:   core.CommercialConditional,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusRestricted,
		Summary:      "Commercial use with conditions",
		Details:      "Similar to Llama 2. Free commercial use under 700M MAU threshold.",
		Warnings: []string{
			"Must have <700M MAU for free commercial use",
			"Cannot use outputs to train other models",
			"Review acceptable use policy",
		},
	},
	"cc-by-nc-4.0": {
		ID:           "cc-by-nc-4.0",
		Name:         "Creative Commons Non-Commercial",
		Commercial:   core.CommercialDenied,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusNonCommercial,
		Summary:      "Non-commercial use only",
		Details:      "Cannot use for commercial purposes. Fine for research and personal projects.",
		Warnings: []string{
			"NO commercial use allowed",
			"No revenue generation permitted",
			"Research and education only",
		},
	},
	"openrail": {
		ID:           "openrail",
		Name:         "OpenRAIL License",
		Commercial:   core.CommercialAllowed,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusResponsible,
		Summary:      "Commercial use with responsible AI clauses",
		Details:      "Permissive but includes responsible AI requirements. Cannot use for harmful purposes.",
		Warnings: []string{
			"Must follow use restrictions (no harmful content)",
			"Downstream users inherit restrictions",
			"Review use-based restrictions",
		},
	},
	"bigscience-bloom-rail-1.0": {
		ID:           "bigscience-bloom-rail-1.0",
		Name:         "BigScience BLOOM RAIL",
		Commercial:   core.CommercialAllowed,
		Modification: core.PermissionAllowed,
		Distribution: core.PermissionAllowed,
		Status:       core.StatusResponsible,
		Summary:      "Commercial use with use-based restrictions",
		Details:      "Open license with responsible AI clauses. Prohibits harmful applications.",
		Warnings: []string{
			"Cannot use for discrimination or harm",
			"Must comply with use restrictions",
			"Liability provisions apply",
		},
	},
	fallbackID: {
		ID:           fallbackID,
		Name:         "Other/Custom License",
		Commercial:   core.CommercialUnknown,
		Modification: core.PermissionUnknown,
		Distribution: core.PermissionUnknown,
		Status:       core.StatusUnknown,
		Summary:      "Review license carefully",
		Details:      "Custom license detected. You must review the full license text before deployment.",
		Warnings: []string{
			"Unknown license terms",
			"Review full license before use",
			"Consult legal if deploying commercially",
		},
	},
}

// substringRules are checked in order when there is no exact match
var substringRules = []struct {
	keywords []string
	id       string
}{
	{[]string{"apache"}, "apache-2.0"},
	{[]string{"mit"}, "mit"},
	{[]string{"llama-2"}, "llama2"},
	{[]string{"llama-3", "llama3"}, "llama3"},
	{[]string{"cc-by-nc"}, "cc-by-nc-4.0"},
	{[]string{"openrail"}, "openrail"},
	{[]string{"bloom"}, "bigscience-bloom-rail-1.0"},
}

// Classify maps a license identifier to its record. Matching is case and whitespace
// insensitive; unrecognised or empty identifiers map to the "other" record.
func Classify(identifier string) core.LicenseRecord {
	return table[Resolve(identifier)]
}

// Resolve returns the table key an identifier classifies as
func Resolve(identifier string) string {
	normalized := strings.ToLower(strings.TrimSpace(identifier))
	if normalized == "" {
		return fallbackID
	}

	if _, ok := table[normalized]; ok {
		return normalized
	}

	for _, rule := range substringRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.id
			}
		}
	}

	return fallbackID
}

// Known returns the identifiers of every license in the table
func Known() []string {
	return []string{"apache-2.0", "mit", "llama2", "llama3", "cc-by-nc-4.0", "openrail", "bigscience-bloom-rail-1.0", fallbackID}
}
