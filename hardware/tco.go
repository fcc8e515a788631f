package hardware

import (
	"math"
	"strconv"

	"github.com/sammcj/hfscout/core"
)

const (
	kwhPrice = 0.12

	// Fixed self-hosting costs in USD: chassis, networking, UPS and cooling
	serverCost     = 1500
	networkingCost = 500
	upsCost        = 500
	coolingCost    = 300

	// Monthly self-hosting overheads in USD
	internetMonthly    = 100
	maintenanceMonthly = 200
	backupMonthly      = 50

	depreciationMonths = 36

	devOpsSalary = 120_000
	devOpsFTE    = 0.25
	mlOpsSalary  = 140_000
	mlOpsFTE     = 0.1

	// llamaMAULimit is the monthly active user ceiling of the Llama community licenses
	llamaMAULimit = 700_000_000
)

// Usage describes the workload a TCO is computed for. Zero fields take the defaults
// of 1M tokens, 24 hours a day and 30 days a month.
type Usage struct {
	TokensPerMonth     int64   `json:"tokensPerMonth"`
	HoursPerDay        float64 `json:"hoursPerDay"`
	DaysPerMonth       float64 `json:"daysPerMonth"`
	MonthlyActiveUsers int64   `json:"monthlyActiveUsers"`
}

func (u Usage) withDefaults() Usage {
	if u.TokensPerMonth <= 0 {
		u.TokensPerMonth = 1_000_000
	}
	if u.HoursPerDay <= 0 || u.HoursPerDay > 24 {
		u.HoursPerDay = 24
	}
	if u.DaysPerMonth <= 0 || u.DaysPerMonth > 31 {
		u.DaysPerMonth = 30
	}
	return u
}

type selfHostTier struct {
	maxVRAM float64
	gpuID   string
	count   int
	watts   int
}

// selfHostTiers sizes a purchase by FP16 requirement. The last tier takes everything larger.
var selfHostTiers = []selfHostTier{
	{12, "rtx-3060-12gb", 1, 170},
	{16, "rtx-4060-ti-16gb", 1, 160},
	{24, "rtx-4090", 1, 450},
	{40, "a100-40gb", 1, 400},
	{80, "a100-80gb", 1, 400},
	{math.Inf(1), "a100-80gb", 2, 800},
}

// CloudTCO is the cheapest hourly cloud instance that holds the model, run for the usage hours
type CloudTCO struct {
	Available   bool    `json:"available"`
	Instance    string  `json:"instance,omitempty"`
	GPU         string  `json:"gpu,omitempty"`
	Hourly      float64 `json:"hourly"`
	Monthly     float64 `json:"monthly"`
	Setup       float64 `json:"setup"`
	Maintenance float64 `json:"maintenance"`
	YearOne     float64 `json:"yearOne"`
	YearAfter   float64 `json:"yearAfter"`
}

// SelfHostedTCO itemises buying and running the hardware
type SelfHostedTCO struct {
	GPU              string  `json:"gpu"`
	Hardware         float64 `json:"hardware"`
	Depreciation     float64 `json:"depreciation"`
	Infrastructure   float64 `json:"infrastructure"`
	Watts            int     `json:"watts"`
	PowerMonthly     float64 `json:"powerMonthly"`
	RecurringMonthly float64 `json:"recurringMonthly"`
	PersonnelMonthly float64 `json:"personnelMonthly"`
	YearOne          float64 `json:"yearOne"`
	YearAfter        float64 `json:"yearAfter"`
}

// Upfront is the capital spent before the first request is served
func (s SelfHostedTCO) Upfront() float64 {
	return s.Hardware + s.Infrastructure
}

// Running is the monthly operating cost
func (s SelfHostedTCO) Running() float64 {
	return s.PowerMonthly + s.RecurringMonthly + s.PersonnelMonthly
}

type YearCosts struct {
	API        float64 `json:"api"`
	CloudGPU   float64 `json:"cloudGPU"`
	SelfHosted float64 `json:"selfHosted"`
}

// Payback is when an option with a higher upfront cost catches up with a cheaper-to-start
// one. Reached is false when its running costs never fall below the other's.
type Payback struct {
	Reached bool   `json:"reached"`
	Months  int    `json:"months,omitempty"`
	Note    string `json:"note"`
}

type TCOBreakEven struct {
	CloudVsAPI        Payback `json:"cloudVsAPI"`
	SelfHostedVsAPI   Payback `json:"selfHostedVsAPI"`
	SelfHostedVsCloud Payback `json:"selfHostedVsCloud"`
}

type CostRecommendation struct {
	Type    core.RecommendationType `json:"type"`
	Message string                  `json:"message"`
	Reason  string                  `json:"reason"`
}

// TCO is a three year total cost of ownership comparison
type TCO struct {
	Usage           Usage                `json:"usage"`
	VRAM            float64              `json:"vram"`
	API             []APIOption          `json:"api"`
	CheapestAPI     float64              `json:"cheapestAPIMonthly"`
	Cloud           CloudTCO             `json:"cloudGPU"`
	SelfHosted      SelfHostedTCO        `json:"selfHosted"`
	Years           [3]YearCosts         `json:"years"`
	ThreeYear       YearCosts            `json:"threeYearTotal"`
	BreakEven       TCOBreakEven         `json:"breakEven"`
	Recommendations []CostRecommendation `json:"recommendations"`
}

// CalculateTCO prices three years of serving a model needing vram GB under the APIs, a
// cloud GPU and owned hardware including power, staff and capex.
func CalculateTCO(vram float64, usage Usage) TCO {
	usage = usage.withDefaults()
	kTokens := float64(usage.TokensPerMonth) / 1000

	api := make([]APIOption, len(apiProviders))
	cheapestAPI := math.Inf(1)
	for i, p := range apiProviders {
		p.Monthly = kTokens * p.CostPer1K
		api[i] = p
		cheapestAPI = min(cheapestAPI, p.Monthly)
	}

	t := TCO{
		Usage:       usage,
		VRAM:        vram,
		API:         api,
		CheapestAPI: cheapestAPI,
		Cloud:       cloudTCO(vram, usage.HoursPerDay*usage.DaysPerMonth),
		SelfHosted:  selfHostedTCO(vram),
	}

	for i := range t.Years {
		y := YearCosts{API: cheapestAPI * 12, SelfHosted: t.SelfHosted.YearAfter}
		if t.Cloud.Available {
			y.CloudGPU = t.Cloud.YearAfter
		}
		if i == 0 {
			y.CloudGPU = t.Cloud.YearOne
			y.SelfHosted = t.SelfHosted.YearOne
		}
		t.Years[i] = y
		t.ThreeYear.API += y.API
		t.ThreeYear.CloudGPU += y.CloudGPU
		t.ThreeYear.SelfHosted += y.SelfHosted
	}

	t.BreakEven = breakEven(cheapestAPI, t.Cloud, t.SelfHosted)
	t.Recommendations = costRecommendations(usage, vram)
	return t
}

func cloudTCO(vram, hoursPerMonth float64) CloudTCO {
	var best *CloudInstance
	for _, inst := range CloudCosts(vram, hoursPerMonth) {
		if inst.Unit != PerHour {
			continue
		}
		if best == nil || inst.MonthlyCost < best.MonthlyCost {
			b := inst
			best = &b
		}
	}
	if best == nil {
		return CloudTCO{}
	}

	setup, maintenance := 200.0, 500.0
	if best.VRAM > 24 {
		setup, maintenance = 500, 1000
	}
	return CloudTCO{
		Available:   true,
		Instance:    best.Provider + " " + best.Name,
		GPU:         best.GPU,
		Hourly:      best.Price,
		Monthly:     best.MonthlyCost,
		Setup:       setup,
		Maintenance: maintenance,
		YearOne:     best.MonthlyCost*12 + setup + maintenance*12,
		YearAfter:   (best.MonthlyCost + maintenance) * 12,
	}
}

func selfHostedTCO(vram float64) SelfHostedTCO {
	tier := selfHostTiers[len(selfHostTiers)-1]
	for _, st := range selfHostTiers {
		if vram <= st.maxVRAM {
			tier = st
			break
		}
	}
	gpu, _ := LookupGPU(tier.gpuID)
	name := gpu.Name
	if tier.count > 1 {
		name = strconv.Itoa(tier.count) + "x " + name
	}

	hardware := float64(gpu.Price * tier.count)
	s := SelfHostedTCO{
		GPU:              name,
		Hardware:         hardware,
		Depreciation:     roundTenth(hardware / depreciationMonths),
		Infrastructure:   serverCost + networkingCost + upsCost + coolingCost,
		Watts:            tier.watts,
		PowerMonthly:     PowerCost(tier.watts),
		RecurringMonthly: internetMonthly + maintenanceMonthly + backupMonthly,
		PersonnelMonthly: math.Round(devOpsSalary*devOpsFTE/12 + mlOpsSalary*mlOpsFTE/12),
	}
	s.YearAfter = s.Running() * 12
	s.YearOne = s.Upfront() + s.YearAfter
	return s
}

// PowerCost is the monthly electricity bill in USD for a load running around the clock
func PowerCost(watts int) float64 {
	kwhPerMonth := float64(watts) / 1000 * 24 * 30
	return math.Round(kwhPerMonth * kwhPrice)
}

func breakEven(apiMonthly float64, cloud CloudTCO, self SelfHostedTCO) TCOBreakEven {
	be := TCOBreakEven{
		CloudVsAPI:        payback(cloud.Setup, apiMonthly-(cloud.Monthly+cloud.Maintenance), "Cloud GPU never beats the API at this volume"),
		SelfHostedVsAPI:   payback(self.Upfront(), apiMonthly-self.Running(), "Self-hosting never beats the API at this volume"),
		SelfHostedVsCloud: payback(self.Upfront(), cloud.Monthly+cloud.Maintenance-self.Running(), "Self-hosting never beats cloud GPUs"),
	}
	if !cloud.Available {
		be.CloudVsAPI = Payback{Note: "No cloud instance can hold this model"}
		be.SelfHostedVsCloud = Payback{Note: "No cloud instance can hold this model"}
	}
	return be
}

func payback(upfront, monthlySaving float64, never string) Payback {
	if monthlySaving <= 0 {
		return Payback{Note: never}
	}
	months := int(math.Ceil(upfront / monthlySaving))
	return Payback{Reached: true, Months: months, Note: "Pays back in " + strconv.Itoa(months) + " months"}
}

func costRecommendations(usage Usage, vram float64) []CostRecommendation {
	var recs []CostRecommendation
	switch {
	case usage.TokensPerMonth < 1_000_000:
		recs = append(recs, CostRecommendation{core.RecommendSuccess, "Start with API services", "Low volume makes API most cost-effective"})
	case usage.TokensPerMonth < 10_000_000:
		recs = append(recs, CostRecommendation{core.RecommendInfo, "Consider Cloud GPU", "Volume justifies dedicated infrastructure"})
	default:
		recs = append(recs, CostRecommendation{core.RecommendSuccess, "Self-hosted recommended", "High volume makes self-hosting economical"})
	}
	if vram > 24 {
		recs = append(recs, CostRecommendation{core.RecommendWarning, "High hardware requirements", "Consider model quantization or smaller alternatives"})
	}
	if usage.MonthlyActiveUsers > llamaMAULimit {
		recs = append(recs, CostRecommendation{core.RecommendWarning, "Check Llama license", "Commercial use restrictions apply above 700M MAU"})
	}
	return recs
}
