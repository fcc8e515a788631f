package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/core"
)

func TestCalculateTCOSevenBillion(t *testing.T) {
	tco := CalculateTCO(15.6, Usage{})

	assert.Equal(t, Usage{TokensPerMonth: 1_000_000, HoursPerDay: 24, DaysPerMonth: 30}, tco.Usage)
	assert.InDelta(t, 0.2, tco.CheapestAPI, 1e-9)
	require.Len(t, tco.API, len(apiProviders))

	// The cheapest 16GB hourly offer is the GCP T4
	require.True(t, tco.Cloud.Available)
	assert.Equal(t, "gcp n1-standard-4 + T4", tco.Cloud.Instance)
	assert.InDelta(t, 252, tco.Cloud.Monthly, 1e-6)
	assert.Equal(t, 200.0, tco.Cloud.Setup)
	assert.InDelta(t, 252*12+200+500*12, tco.Cloud.YearOne, 1e-6)
	assert.InDelta(t, (252+500)*12, tco.Cloud.YearAfter, 1e-6)

	s := tco.SelfHosted
	assert.Equal(t, "RTX 4060 Ti 16GB", s.GPU)
	assert.Equal(t, 500.0, s.Hardware)
	assert.Equal(t, 13.9, s.Depreciation)
	assert.Equal(t, 2800.0, s.Infrastructure)
	assert.Equal(t, 14.0, s.PowerMonthly)
	assert.Equal(t, 350.0, s.RecurringMonthly)
	assert.Equal(t, 3667.0, s.PersonnelMonthly)
	assert.Equal(t, 3300.0, s.Upfront())
	assert.Equal(t, 4031.0*12, s.YearAfter)
	assert.Equal(t, 3300+4031.0*12, s.YearOne)

	assert.InDelta(t, 2.4, tco.Years[0].API, 1e-9)
	assert.Equal(t, s.YearOne, tco.Years[0].SelfHosted)
	assert.Equal(t, s.YearAfter, tco.Years[2].SelfHosted)
	assert.InDelta(t, tco.Cloud.YearOne+2*tco.Cloud.YearAfter, tco.ThreeYear.CloudGPU, 1e-6)
	assert.InDelta(t, 7.2, tco.ThreeYear.API, 1e-9)

	// At a million tokens nothing beats the API
	assert.False(t, tco.BreakEven.CloudVsAPI.Reached)
	assert.False(t, tco.BreakEven.SelfHostedVsAPI.Reached)
	assert.False(t, tco.BreakEven.SelfHostedVsCloud.Reached)

	require.Len(t, tco.Recommendations, 1)
	assert.Equal(t, "Consider Cloud GPU", tco.Recommendations[0].Message)
}

func TestCalculateTCOHighVolume(t *testing.T) {
	tco := CalculateTCO(15.6, Usage{TokensPerMonth: 10_000_000_000})

	assert.InDelta(t, 2000, tco.CheapestAPI, 1e-6)
	assert.Equal(t, Payback{Reached: true, Months: 1, Note: "Pays back in 1 months"}, tco.BreakEven.CloudVsAPI)
	assert.False(t, tco.BreakEven.SelfHostedVsAPI.Reached, "staff costs outweigh the API bill")
	assert.Equal(t, core.RecommendSuccess, tco.Recommendations[0].Type)
	assert.Equal(t, "Self-hosted recommended", tco.Recommendations[0].Message)

	tco = CalculateTCO(15.6, Usage{TokensPerMonth: 100_000_000_000})
	assert.True(t, tco.BreakEven.SelfHostedVsAPI.Reached)
	assert.Equal(t, 1, tco.BreakEven.SelfHostedVsAPI.Months)
}

func TestCalculateTCOLargeModel(t *testing.T) {
	tco := CalculateTCO(140, Usage{MonthlyActiveUsers: 800_000_000})

	assert.False(t, tco.Cloud.Available)
	assert.Zero(t, tco.Years[0].CloudGPU)
	assert.Zero(t, tco.ThreeYear.CloudGPU)
	assert.Equal(t, "No cloud instance can hold this model", tco.BreakEven.CloudVsAPI.Note)

	assert.Equal(t, "2x NVIDIA A100 80GB", tco.SelfHosted.GPU)
	assert.Equal(t, 30000.0, tco.SelfHosted.Hardware)
	assert.Equal(t, 800, tco.SelfHosted.Watts)

	messages := []string{}
	for _, r := range tco.Recommendations {
		messages = append(messages, r.Message)
	}
	assert.Equal(t, []string{"Consider Cloud GPU", "High hardware requirements", "Check Llama license"}, messages)
}

func TestUsageDefaults(t *testing.T) {
	u := Usage{TokensPerMonth: 5, HoursPerDay: 30, DaysPerMonth: -1}.withDefaults()
	assert.Equal(t, int64(5), u.TokensPerMonth)
	assert.Equal(t, 24.0, u.HoursPerDay)
	assert.Equal(t, 30.0, u.DaysPerMonth)

	// Eight hours a day cuts the cloud bill to a third
	full := CalculateTCO(15.6, Usage{})
	part := CalculateTCO(15.6, Usage{HoursPerDay: 8})
	assert.InDelta(t, full.Cloud.Monthly/3, part.Cloud.Monthly, 1e-6)
}

func TestPowerCost(t *testing.T) {
	tests := []struct {
		watts int
		want  float64
	}{
		{0, 0},
		{160, 14},
		{450, 39},
		{800, 69},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PowerCost(tt.watts), tt.watts)
	}
}
