// Package recommender ranks a candidate pool against a user's requirements.
package recommender

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sammcj/hfscout/compatibility"
	"github.com/sammcj/hfscout/core"
)

const (
	defaultTopN = 3
	maxReasons  = 5

	// missingVRAM stands in for an unknown FP16 estimate so it fails any VRAM budget
	missingVRAM = 999.0

	vramTolerance    = 1.1
	contextTolerance = 0.9
)

// Recommendation is a scored candidate
type Recommendation struct {
	Model              core.ModelRecord  `json:"model"`
	Score              int               `json:"score"`
	SubScores          map[Dimension]int `json:"scores"`
	Reasons            []string          `json:"reasons"`
	Weights            Weights           `json:"weights"`
	MeetsConstraints   bool              `json:"meetsConstraints"`
	ConstraintFailures []string          `json:"constraintFailures"`
}

// Recommend scores every candidate, drops those failing a hard constraint and returns the
// best topN. topN <= 0 means 3. The result is empty, never nil, when nothing qualifies.
func Recommend(pool []core.ModelRecord, req core.RequirementSpec, topN int) []Recommendation {
	if topN <= 0 {
		topN = defaultTopN
	}

	out := []Recommendation{}
	for _, m := range pool {
		rec := ScoreModel(m, req)
		if !rec.MeetsConstraints {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// ScoreModel scores a single candidate and evaluates its hard constraints
func ScoreModel(m core.ModelRecord, req core.RequirementSpec) Recommendation {
	scores := map[Dimension]int{}
	var reasons []string
	reason := func(r string) { reasons = append(reasons, r) }

	params := m.VRAM.TotalParams
	switch {
	case params >= 70:
		scores[Quality] = 95
		reason("Excellent quality (70B+)")
	case params >= 13:
		scores[Quality] = 85
		reason("High quality (13B+)")
	case params >= 7:
		scores[Quality] = 75
		reason("Good quality (7B+)")
	case params >= 3:
		scores[Quality] = 60
		reason("Decent quality (3B+)")
	default:
		scores[Quality] = 40
		reason("Compact model (<3B params)")
	}
	id := strings.ToLower(m.ModelID)
	if strings.Contains(id, "llama-3") || strings.Contains(id, "mixtral") {
		scores[Quality] += 5
	}

	vram := m.VRAM.FP16
	if vram <= 0 {
		vram = missingVRAM
	}
	switch {
	case vram <= 4:
		scores[Speed] = 95
		reason("Very fast (low VRAM)")
	case vram <= 8:
		scores[Speed] = 85
		reason("Fast inference")
	case vram <= 16:
		scores[Speed] = 70
		reason("Moderate speed")
	default:
		scores[Speed] = 40
		reason("Requires powerful GPU")
	}
	if m.Config.HasGQA() {
		scores[Speed] += 10
		reason("GQA optimization")
	}

	ctx := m.ContextLength()
	switch {
	case ctx >= 128000:
		scores[Context] = 100
		reason("Massive context (128k+)")
	case ctx >= 32768:
		scores[Context] = 90
		reason("Long context (32k+)")
	case ctx >= 8192:
		scores[Context] = 60
		reason("Standard context (8k)")
	default:
		scores[Context] = 30
		reason("Limited context")
	}

	switch {
	case vram <= 4:
		scores[Cost] = 100
		reason("Very affordable")
	case vram <= 8:
		scores[Cost] = 85
		reason("Budget friendly")
	default:
		scores[Cost] = 40
		reason("Higher hardware cost")
	}

	switch m.License.Commercial {
	case core.CommercialAllowed:
		scores[License] = 100
		reason("Commercial use allowed")
	case core.CommercialDenied:
		scores[License] = 60
		if req.License == core.LicenseCommercial {
			scores[License] = 0
		}
		reason("Non-commercial only")
	default:
		scores[License] = 50
		reason("License unclear")
	}

	for d, s := range scores {
		scores[d] = min(s, 100)
	}

	weights := blend(LookupUseCase(req.UseCase), LookupPriority(req.Priority))
	var weighted, total float64
	for _, d := range Dimensions {
		weighted += float64(scores[d]) * weights[d]
		total += weights[d]
	}

	failures := []string{}
	if req.MaxVRAM > 0 && vram > req.MaxVRAM*vramTolerance {
		failures = append(failures, fmt.Sprintf("Exceeds VRAM budget (%vGB > %vGB)", vram, req.MaxVRAM))
	}
	if req.MinContext > 0 && float64(ctx) < float64(req.MinContext)*contextTolerance {
		failures = append(failures, fmt.Sprintf("Context too short (%d < %d)", ctx, req.MinContext))
	}
	if req.License == core.LicenseCommercial && m.License.Commercial == core.CommercialDenied {
		failures = append(failures, "Not licensed for commercial use")
	}
	for _, fw := range req.Frameworks {
		if !compatibility.Supports(m, fw) {
			fwID, _ := compatibility.Resolve(fw)
			failures = append(failures, "Not supported by "+compatibility.FrameworkName(fwID))
		}
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return Recommendation{
		Model:              m,
		Score:              int(math.Round(weighted / total)),
		SubScores:          scores,
		Reasons:            reasons,
		Weights:            weights,
		MeetsConstraints:   len(failures) == 0,
		ConstraintFailures: failures,
	}
}

// Explanation renders a one-line summary of why a candidate was recommended
func Explanation(rec Recommendation) string {
	return fmt.Sprintf("Score: %d/100. %s. Matches your priorities and hardware.", rec.Score, strings.Join(rec.Reasons, ". "))
}

var (
	ErrNoUseCase  = errors.New("Please select a use case")
	ErrNoPriority = errors.New("Please select a priority")
	ErrLowVRAM    = errors.New("VRAM budget must be at least 1GB")
	ErrBadLicense = errors.New("License requirement must be any, commercial or research")

	ErrUnknownFramework = errors.New("unknown framework")
)

// Validate checks that a requirement spec is complete enough to rank against. All problems
// are reported together.
func Validate(req core.RequirementSpec) error {
	var errs []error
	if req.UseCase == "" {
		errs = append(errs, ErrNoUseCase)
	}
	if req.Priority == "" {
		errs = append(errs, ErrNoPriority)
	}
	if req.MaxVRAM != 0 && req.MaxVRAM < 1 {
		errs = append(errs, ErrLowVRAM)
	}
	switch req.License {
	case "", core.LicenseAny, core.LicenseCommercial, core.LicenseResearch:
	default:
		errs = append(errs, ErrBadLicense)
	}
	for _, fw := range req.Frameworks {
		if _, ok := compatibility.Resolve(fw); !ok {
			errs = append(errs, fmt.Errorf("%w %q, expected one of %s", ErrUnknownFramework, fw,
				strings.Join(compatibility.FrameworkIDs(), ", ")))
		}
	}
	return errors.Join(errs...)
}
