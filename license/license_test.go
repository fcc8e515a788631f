package license

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sammcj/hfscout/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantID     string
		commercial core.Commercial
	}{
		{"exact apache", "apache-2.0", "apache-2.0", core.CommercialAllowed},
		{"exact mit", "mit", "mit", core.CommercialAllowed},
		{"exact llama2", "llama2", "llama2", core.CommercialConditional},
		{"exact llama3", "llama3", "llama3", core.CommercialConditional},
		{"exact cc-by-nc", "cc-by-nc-4.0", "cc-by-nc-4.0", core.CommercialDenied},
		{"exact openrail", "openrail", "openrail", core.CommercialAllowed},
		{"exact bloom", "bigscience-bloom-rail-1.0", "bigscience-bloom-rail-1.0", core.CommercialAllowed},
		{"substring apache", "apache-license-v2", "apache-2.0", core.CommercialAllowed},
		{"substring llama-2", "llama-2-community", "llama2", core.CommercialConditional},
		{"substring llama-3", "llama-3.1", "llama3", core.CommercialConditional},
		{"substring llama3 variant", "llama3.2", "llama3", core.CommercialConditional},
		{"substring cc-by-nc-sa", "cc-by-nc-sa-4.0", "cc-by-nc-4.0", core.CommercialDenied},
		{"substring openrail++", "openrail++", "openrail", core.CommercialAllowed},
		{"substring bloom", "bloom-rail", "bigscience-bloom-rail-1.0", core.CommercialAllowed},
		{"unknown identifier", "totally-unknown-xyz", "other", core.CommercialUnknown},
		{"empty identifier", "", "other", core.CommercialUnknown},
		{"whitespace identifier", "   ", "other", core.CommercialUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.identifier)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.commercial, got.Commercial)
		})
	}
}

func TestClassifyIsCaseAndWhitespaceInsensitive(t *testing.T) {
	want := Classify("apache-2.0")
	assert.Equal(t, want, Classify("Apache-2.0"))
	assert.Equal(t, want, Classify("  APACHE-2.0 "))
	assert.Equal(t, "Apache 2.0", want.Name)
	assert.Equal(t, core.StatusPermissive, want.Status)
}

func TestClassifyFallbackHasUnknownPermissions(t *testing.T) {
	got := Classify("some-custom-license")
	assert.Equal(t, core.PermissionUnknown, got.Modification)
	assert.Equal(t, core.PermissionUnknown, got.Distribution)
	assert.Equal(t, core.StatusUnknown, got.Status)
	assert.NotEmpty(t, got.Warnings)
}

func TestEveryKnownLicenseResolvesToItself(t *testing.T) {
	for _, id := range Known() {
		assert.Equal(t, id, Resolve(id))
		assert.Equal(t, id, Classify(id).ID)
	}
}

func TestCanUseCommercially(t *testing.T) {
	tests := []struct {
		identifier string
		want       CommercialUse
	}{
		{"mit", CommercialUse{Allowed: true}},
		{"llama2", CommercialUse{Conditional: true, NeedsReview: true}},
		{"cc-by-nc-4.0", CommercialUse{Forbidden: true}},
		{"", CommercialUse{NeedsReview: true}},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			got := CanUseCommercially(tt.identifier)
			assert.Equal(t, tt.want.Allowed, got.Allowed)
			assert.Equal(t, tt.want.Conditional, got.Conditional)
			assert.Equal(t, tt.want.Forbidden, got.Forbidden)
			assert.Equal(t, tt.want.NeedsReview, got.NeedsReview)
		})
	}
}

func TestDeploymentAdvice(t *testing.T) {
	tests := map[string]string{
		"apache-2.0":   "ready",
		"llama3":       "review",
		"cc-by-nc-4.0": "blocked",
		"openrail":     "caution",
		"custom":       "uncertain",
	}

	for identifier, status := range tests {
		assert.Equal(t, status, DeploymentAdvice(identifier).Status, identifier)
	}
}

func TestExtractLicense(t *testing.T) {
	tests := []struct {
		name     string
		cardData map[string]any
		tags     []string
		want     string
	}{
		{"card data string", map[string]any{"license": "mit"}, []string{"license:apache-2.0"}, "mit"},
		{"card data list", map[string]any{"license": []any{"llama2"}}, nil, "llama2"},
		{"license tag", nil, []string{"transformers", "license:apache-2.0"}, "apache-2.0"},
		{"nothing", map[string]any{}, []string{"pytorch"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLicense(tt.cardData, tt.tags))
		})
	}
}
