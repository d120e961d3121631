package score

import (
	"math"

	"github.com/yourorg/dealiq-engine/internal/types"
)

// maxIQScore caps the deal-opportunity score. No deal is ever guaranteed, so
// the scale intentionally tops out below 100. This is a business rule, not
// a computational artifact.
const maxIQScore = 90.0

// discountCeiling is the largest discount any seller concedes, even at
// perfect motivation.
const discountCeiling = 0.25

// marketTempModifier is the motivation swing for cold/hot markets.
const marketTempModifier = 15

// MotivationBreakdown explains how the composite motivation score was built.
type MotivationBreakdown struct {
	Score          int             `json:"score"`
	Label          MotivationLabel `json:"label"`
	Base           int             `json:"base"`
	DOMBonus       int             `json:"dom_bonus"`
	MarketModifier int             `json:"market_modifier"`
}

// IQVerdict is the investor-facing deal-opportunity assessment.
type IQVerdict struct {
	Score                  float64             `json:"score"`
	Grade                  string              `json:"grade"`
	Label                  string              `json:"label"`
	Color                  string              `json:"color"`
	Motivation             MotivationBreakdown `json:"motivation"`
	Availability           AvailabilityRanking `json:"availability"`
	DOM                    DOMScore            `json:"dom"`
	DealGapPercent         float64             `json:"deal_gap_percent"`
	MaxAchievableDiscount  float64             `json:"max_achievable_discount"`
}

// OpportunityInputs are the inputs to CalculateDealOpportunityScore.
type OpportunityInputs struct {
	IncomeValue       float64
	ListPrice         float64
	Signals           ListingSignals
	DaysOnMarket      int
	MarketTemperature types.MarketTemperature
}

// CalculateDealOpportunityScore blends the discount a deal requires against
// the discount this seller can plausibly concede. The required discount is
// the gap between list price and income value; the achievable discount is
// motivation-scaled up to a hard 25% ceiling. Five piecewise bands map one
// against the other, and the result is capped at 90.
func CalculateDealOpportunityScore(in OpportunityInputs) IQVerdict {
	// (a) Required discount: how far list price sits above breakeven
	var dealGapPct float64
	if in.ListPrice > 0 && in.IncomeValue > 0 {
		dealGapPct = math.Max(0, (in.ListPrice-in.IncomeValue)/in.ListPrice*100)
	}

	// (b) Motivation: availability base + DOM bonus + market temperature
	availability := GetAvailabilityRanking(in.Signals)
	bonus := domBonus(in.DaysOnMarket)

	modifier := 0
	switch in.MarketTemperature {
	case types.MarketCold:
		modifier = marketTempModifier
	case types.MarketHot:
		modifier = -marketTempModifier
	}

	motivation := availability.Score + bonus + modifier
	if motivation < 0 {
		motivation = 0
	}
	if motivation > 100 {
		motivation = 100
	}

	// (c) Achievable discount ceiling scales with motivation
	achievable := float64(motivation) / 100 * discountCeiling

	// (d) Map required against achievable through the piecewise bands
	iq := bandScore(dealGapPct/100, achievable)
	if iq > maxIQScore {
		iq = maxIQScore
	}
	if iq < 0 {
		iq = 0
	}
	iq = math.Round(iq*100) / 100

	grade, label, color := gradeFor(iq)

	return IQVerdict{
		Score: iq,
		Grade: grade,
		Label: label,
		Color: color,
		Motivation: MotivationBreakdown{
			Score:          motivation,
			Label:          motivationLabel(motivation),
			Base:           availability.Score,
			DOMBonus:       bonus,
			MarketModifier: modifier,
		},
		Availability:          availability,
		DOM:                   CalculateDOMScore(in.DaysOnMarket, dealGapPct),
		DealGapPercent:        math.Round(dealGapPct*100) / 100,
		MaxAchievableDiscount: math.Round(achievable*10000) / 10000,
	}
}

// bandScore maps the required discount (gap, as a fraction) against the
// achievable ceiling through five bands:
//
//	gap <= 0              -> 90 (no discount needed)
//	ceiling unreachable   -> steep penalty below 30
//	gap <= 60% of ceiling -> 90-100 interpolated (the 90 cap flattens this)
//	gap <= ceiling        -> 70-90
//	gap <= 1.5 x ceiling  -> 40-70
//	beyond                -> steep linear drop-off, floor 0
func bandScore(gap, ceiling float64) float64 {
	if gap <= 0 {
		return maxIQScore
	}
	if ceiling <= 0 {
		// No motivation at all: any required discount is unreachable
		return math.Max(0, 25-gap*50)
	}

	easy := 0.6 * ceiling
	switch {
	case gap <= easy:
		return 100 - gap/easy*10
	case gap <= ceiling:
		return 90 - (gap-easy)/(ceiling-easy)*20
	case gap <= 1.5*ceiling:
		return 70 - (gap-ceiling)/(0.5*ceiling)*30
	default:
		return math.Max(0, 40-(gap-1.5*ceiling)*200)
	}
}

// gradeFor buckets a capped IQ score into grade, label, and display color.
func gradeFor(score float64) (grade, label, color string) {
	switch {
	case score >= 90:
		return "A+", "Exceptional Opportunity", "emerald"
	case score >= 80:
		return "A", "Strong Opportunity", "green"
	case score >= 65:
		return "B", "Good Opportunity", "lime"
	case score >= 50:
		return "C", "Fair Opportunity", "yellow"
	case score >= 30:
		return "D", "Weak Opportunity", "orange"
	default:
		return "F", "Poor Opportunity", "red"
	}
}
