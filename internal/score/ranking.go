// Package score implements seller-motivation and deal-opportunity scoring on
// top of the valuation formulas. Every function is a single-pass pure
// computation over caller-supplied signals.
package score

import "github.com/yourorg/dealiq-engine/internal/types"

// MotivationLabel is the qualitative bucket for a motivation score.
type MotivationLabel string

// Motivation labels
const (
	MotivationHigh   MotivationLabel = "high"
	MotivationMedium MotivationLabel = "medium"
	MotivationLow    MotivationLabel = "low"
)

// ListingSignals carries the listing facts that drive motivation scoring.
type ListingSignals struct {
	Status              types.ListingStatus
	PriceReductionCount int
	IsFSBO              bool
	IsForeclosure       bool
}

// AvailabilityRanking describes where a listing sits in the fixed
// distress-priority table, with its base seller-motivation score.
type AvailabilityRanking struct {
	Status     string          `json:"status"`
	Rank       int             `json:"rank"`
	Score      int             `json:"score"`
	Label      string          `json:"label"`
	Motivation MotivationLabel `json:"motivation"`
}

// availabilityRule is one row of the priority table.
type availabilityRule struct {
	status  string
	label   string
	score   int
	matches func(ListingSignals) bool
}

// availabilityRules is ordered most-distressed-first; the first matching rule
// wins. Scores are the 0-100 seller-motivation base.
var availabilityRules = []availabilityRule{
	{
		status: "withdrawn", label: "Withdrawn Listing", score: 95,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusWithdrawn },
	},
	{
		status: "price_reduced", label: "Multiple Price Reductions", score: 85,
		matches: func(s ListingSignals) bool { return s.PriceReductionCount >= 2 },
	},
	{
		status: "auction", label: "Auction", score: 80,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusAuction },
	},
	{
		status: "bank_owned", label: "Bank Owned / Foreclosure", score: 75,
		matches: func(s ListingSignals) bool {
			return s.Status == types.StatusBankOwned || s.IsForeclosure
		},
	},
	{
		status: "fsbo", label: "For Sale By Owner", score: 65,
		matches: func(s ListingSignals) bool { return s.IsFSBO },
	},
	{
		status: "for_sale", label: "For Sale", score: 50,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusForSale },
	},
	{
		status: "off_market", label: "Off Market", score: 35,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusOffMarket },
	},
	{
		status: "for_rent", label: "For Rent", score: 25,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusForRent },
	},
	{
		status: "pending", label: "Sale Pending", score: 15,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusPending },
	},
	{
		status: "sold", label: "Recently Sold", score: 5,
		matches: func(s ListingSignals) bool { return s.Status == types.StatusSold },
	},
}

// GetAvailabilityRanking maps listing signals to the fixed priority table.
// Unmatched signals fall through to an unknown entry with minimal motivation.
func GetAvailabilityRanking(signals ListingSignals) AvailabilityRanking {
	for i, rule := range availabilityRules {
		if rule.matches(signals) {
			return AvailabilityRanking{
				Status:     rule.status,
				Rank:       i + 1,
				Score:      rule.score,
				Label:      rule.label,
				Motivation: motivationLabel(rule.score),
			}
		}
	}
	return AvailabilityRanking{
		Status:     "unknown",
		Rank:       len(availabilityRules) + 1,
		Score:      10,
		Label:      "Unknown Status",
		Motivation: MotivationLow,
	}
}

// motivationLabel buckets a 0-100 motivation score.
func motivationLabel(score int) MotivationLabel {
	switch {
	case score >= 70:
		return MotivationHigh
	case score >= 40:
		return MotivationMedium
	default:
		return MotivationLow
	}
}
