// Package scoring ranks investors for a hotel raise on a 0-100 composite
// score built from seven weighted dimensions.
package scoring

import (
	"github.com/hotelcapital/raise-engine/internal/models"
)

// Deal sizing used when an investor is scored without a deal in context
const (
	DefaultDealMinimum = 100000
	DefaultDealTarget  = 500000
)

// Tier buckets a total score
type Tier string

const (
	TierAPlus Tier = "A+"
	TierA     Tier = "A"
	TierB     Tier = "B"
	TierC     Tier = "C"
	TierD     Tier = "D"
)

// Dimension names a scored component
type Dimension string

const (
	DimensionAccreditation  Dimension = "accreditation"
	DimensionCheckSizeFit   Dimension = "check_size_fit"
	DimensionAssetAlignment Dimension = "asset_alignment"
	DimensionEngagement     Dimension = "engagement"
	DimensionBehavioral     Dimension = "behavioral"
	DimensionRelationship   Dimension = "relationship"
	DimensionUrgency        Dimension = "urgency"
)

// Weights in percent. They sum to 100.
var weights = []struct {
	Dimension Dimension
	Percent   int
}{
	{DimensionAccreditation, 20},
	{DimensionCheckSizeFit, 25},
	{DimensionAssetAlignment, 15},
	{DimensionEngagement, 15},
	{DimensionBehavioral, 10},
	{DimensionRelationship, 10},
	{DimensionUrgency, 5},
}

// InvestorScoreInput is everything the engine needs to score one investor
// against one deal. Engagement counters cover the trailing 30 days.
type InvestorScoreInput struct {
	AccreditedStatus       models.AccreditedStatus      `json:"accredited_status" validate:"required,oneof=THIRD_PARTY_VERIFIED INSTITUTIONAL SELF_CERTIFIED UNVERIFIED NOT_ACCREDITED"`
	CheckSizeMin           *float64                     `json:"check_size_min,omitempty" validate:"omitempty,gte=0"`
	CheckSizeMax           *float64                     `json:"check_size_max,omitempty" validate:"omitempty,gte=0"`
	DealMinimum            float64                      `json:"deal_minimum" validate:"gte=0"`
	DealTarget             float64                      `json:"deal_target" validate:"gte=0"`
	AssetClassPrefs        []string                     `json:"asset_class_prefs"`
	PriorHotelInvestments  int                          `json:"prior_hotel_investments" validate:"gte=0"`
	HospitalityExperience  models.HospitalityExperience `json:"hospitality_experience" validate:"required,oneof=DEVELOPER OPERATOR ACTIVE_LP PASSIVE_LP NONE"`
	EmailOpens30d          int                          `json:"email_opens_30d" validate:"gte=0"`
	EmailClicks30d         int                          `json:"email_clicks_30d" validate:"gte=0"`
	EmailReplies30d        int                          `json:"email_replies_30d" validate:"gte=0"`
	VoiceCallsCompleted30d int                          `json:"voice_calls_completed_30d" validate:"gte=0"`
	WebsiteVisits30d       int                          `json:"website_visits_30d" validate:"gte=0"`
	DocDownloads30d        int                          `json:"doc_downloads_30d" validate:"gte=0"`
	IsPriorInvestor        bool                         `json:"is_prior_investor"`
	IsReferral             bool                         `json:"is_referral"`
	Has1031Exchange        bool                         `json:"has_1031_exchange"`
	DeploymentDeadlineDays *int                         `json:"deployment_deadline_days,omitempty"`
}

// ScoreBreakdown is the composite score and each dimension behind it
type ScoreBreakdown struct {
	Total          int  `json:"total"`
	Accreditation  int  `json:"accreditation"`
	CheckSizeFit   int  `json:"check_size_fit"`
	AssetAlignment int  `json:"asset_alignment"`
	Engagement     int  `json:"engagement"`
	Behavioral     int  `json:"behavioral"`
	Relationship   int  `json:"relationship"`
	Urgency        int  `json:"urgency"`
	Tier           Tier `json:"tier"`
}

// DimensionScore provides detailed information about one scored dimension
type DimensionScore struct {
	Dimension    Dimension `json:"dimension"`
	Score        int       `json:"score"`
	Weight       float64   `json:"weight"`
	Contribution float64   `json:"contribution"`
}

// ScoringEngine handles investor scoring. It holds no state.
type ScoringEngine struct{}

// NewScoringEngine creates a new scoring engine instance
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Score scores an investor
func (e *ScoringEngine) Score(input InvestorScoreInput) ScoreBreakdown {
	return CalculateInvestorScore(input)
}

// CalculateInvestorScore computes every dimension and the weighted total
func CalculateInvestorScore(input InvestorScoreInput) ScoreBreakdown {
	b := ScoreBreakdown{
		Accreditation:  clamp(scoreAccreditation(input.AccreditedStatus)),
		CheckSizeFit:   clamp(scoreCheckSizeFit(input.CheckSizeMin, input.CheckSizeMax, input.DealMinimum, input.DealTarget)),
		AssetAlignment: clamp(scoreAssetAlignment(input.AssetClassPrefs, input.PriorHotelInvestments, input.HospitalityExperience)),
		Engagement:     clamp(scoreEngagement(input)),
		Behavioral:     clamp(scoreBehavioral(input)),
		Relationship:   clamp(scoreRelationship(input.IsPriorInvestor, input.IsReferral)),
		Urgency:        clamp(scoreUrgency(input.Has1031Exchange, input.DeploymentDeadlineDays)),
	}

	// Weighted sum in hundredths of a point so half-up rounding is exact.
	hundredths := 0
	for _, w := range weights {
		hundredths += b.score(w.Dimension) * w.Percent
	}
	b.Total = (hundredths + 50) / 100
	b.Tier = TierFor(b.Total)

	return b
}

// TierFor maps a total score to its tier
func TierFor(total int) Tier {
	switch {
	case total >= 85:
		return TierAPlus
	case total >= 70:
		return TierA
	case total >= 50:
		return TierB
	case total >= 30:
		return TierC
	default:
		return TierD
	}
}

// Dimensions lists each dimension with its weight and weighted contribution
// to the total, in weight-table order
func (b ScoreBreakdown) Dimensions() []DimensionScore {
	out := make([]DimensionScore, 0, len(weights))
	for _, w := range weights {
		s := b.score(w.Dimension)
		out = append(out, DimensionScore{
			Dimension:    w.Dimension,
			Score:        s,
			Weight:       float64(w.Percent) / 100,
			Contribution: float64(s*w.Percent) / 100,
		})
	}
	return out
}

func (b ScoreBreakdown) score(d Dimension) int {
	switch d {
	case DimensionAccreditation:
		return b.Accreditation
	case DimensionCheckSizeFit:
		return b.CheckSizeFit
	case DimensionAssetAlignment:
		return b.AssetAlignment
	case DimensionEngagement:
		return b.Engagement
	case DimensionBehavioral:
		return b.Behavioral
	case DimensionRelationship:
		return b.Relationship
	case DimensionUrgency:
		return b.Urgency
	}
	return 0
}

// DealTargetFromRaise is the per-investor target allocation for a raise:
// one twentieth of the total.
func DealTargetFromRaise(totalRaise float64) float64 {
	return totalRaise / 20
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
