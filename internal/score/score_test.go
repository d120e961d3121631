package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourorg/dealiq-engine/internal/types"
)

func TestGetAvailabilityRanking_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		signals    ListingSignals
		wantStatus string
		wantRank   int
	}{
		{
			name:       "withdrawn always wins",
			signals:    ListingSignals{Status: types.StatusWithdrawn, PriceReductionCount: 5, IsFSBO: true},
			wantStatus: "withdrawn",
			wantRank:   1,
		},
		{
			name:       "two price reductions beat foreclosure",
			signals:    ListingSignals{Status: types.StatusBankOwned, PriceReductionCount: 2},
			wantStatus: "price_reduced",
			wantRank:   2,
		},
		{
			name:       "auction",
			signals:    ListingSignals{Status: types.StatusAuction},
			wantStatus: "auction",
			wantRank:   3,
		},
		{
			name:       "foreclosure flag without bank-owned status",
			signals:    ListingSignals{Status: types.StatusForSale, IsForeclosure: true},
			wantStatus: "bank_owned",
			wantRank:   4,
		},
		{
			name:       "fsbo beats plain for-sale",
			signals:    ListingSignals{Status: types.StatusForSale, IsFSBO: true},
			wantStatus: "fsbo",
			wantRank:   5,
		},
		{
			name:       "plain for-sale",
			signals:    ListingSignals{Status: types.StatusForSale},
			wantStatus: "for_sale",
			wantRank:   6,
		},
		{
			name:       "off market",
			signals:    ListingSignals{Status: types.StatusOffMarket},
			wantStatus: "off_market",
			wantRank:   7,
		},
		{
			name:       "unknown falls through",
			signals:    ListingSignals{Status: types.StatusUnknown},
			wantStatus: "unknown",
			wantRank:   11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetAvailabilityRanking(tt.signals)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantRank, got.Rank)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
		})
	}
}

func TestGetAvailabilityRanking_MotivationLabels(t *testing.T) {
	assert.Equal(t, MotivationHigh, GetAvailabilityRanking(ListingSignals{Status: types.StatusWithdrawn}).Motivation)
	assert.Equal(t, MotivationMedium, GetAvailabilityRanking(ListingSignals{Status: types.StatusForSale}).Motivation)
	assert.Equal(t, MotivationLow, GetAvailabilityRanking(ListingSignals{Status: types.StatusSold}).Motivation)
}

func TestCalculateDOMScore_Lattice(t *testing.T) {
	tests := []struct {
		name string
		dom  int
		gap  float64
		want int
	}{
		{"fresh listing small gap", 10, 5, 20},
		{"fresh listing large gap", 10, 30, 10},
		{"stale listing small gap", 150, 5, 60},
		{"stale listing large gap", 150, 30, 90},
		{"mid DOM mid gap", 45, 15, 40},
		{"boundary 30 days", 30, 5, 35},
		{"boundary 60 days", 60, 25, 70},
		{"boundary 120 days", 120, 10, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDOMScore(tt.dom, tt.gap)
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestCalculateDOMScore_SameDOMDifferentGap(t *testing.T) {
	// The same DOM yields different leverage depending on the required gap
	small := CalculateDOMScore(90, 5)
	large := CalculateDOMScore(90, 30)
	assert.NotEqual(t, small.Score, large.Score)
}

func TestCalculateDealOpportunityScore_CappedAt90(t *testing.T) {
	// Sweep a wide grid of inputs; the score never leaves [0, 90]
	statuses := []types.ListingStatus{
		types.StatusWithdrawn, types.StatusForSale, types.StatusAuction,
		types.StatusOffMarket, types.StatusSold, types.StatusUnknown,
	}
	temps := []types.MarketTemperature{types.MarketCold, types.MarketNeutral, types.MarketHot}

	for _, status := range statuses {
		for _, temp := range temps {
			for _, dom := range []int{0, 45, 95, 200} {
				for _, list := range []float64{0, 100000, 300000, 900000} {
					for _, iv := range []float64{0, 80000, 300000, 500000} {
						v := CalculateDealOpportunityScore(OpportunityInputs{
							IncomeValue:       iv,
							ListPrice:         list,
							Signals:           ListingSignals{Status: status},
							DaysOnMarket:      dom,
							MarketTemperature: temp,
						})
						assert.GreaterOrEqual(t, v.Score, 0.0)
						assert.LessOrEqual(t, v.Score, 90.0)
						assert.GreaterOrEqual(t, v.Motivation.Score, 0)
						assert.LessOrEqual(t, v.Motivation.Score, 100)
					}
				}
			}
		}
	}
}

func TestCalculateDealOpportunityScore_NoDiscountNeeded(t *testing.T) {
	// Income value above list price: no discount required, top score
	v := CalculateDealOpportunityScore(OpportunityInputs{
		IncomeValue:       350000,
		ListPrice:         300000,
		Signals:           ListingSignals{Status: types.StatusForSale},
		DaysOnMarket:      10,
		MarketTemperature: types.MarketNeutral,
	})
	assert.Equal(t, 90.0, v.Score)
	assert.Equal(t, "A+", v.Grade)
	assert.Equal(t, 0.0, v.DealGapPercent)
}

func TestCalculateDealOpportunityScore_Motivation(t *testing.T) {
	v := CalculateDealOpportunityScore(OpportunityInputs{
		IncomeValue:       280000,
		ListPrice:         300000,
		Signals:           ListingSignals{Status: types.StatusForSale},
		DaysOnMarket:      130,
		MarketTemperature: types.MarketCold,
	})

	// base 50 + DOM 15 + cold 15
	assert.Equal(t, 50, v.Motivation.Base)
	assert.Equal(t, 15, v.Motivation.DOMBonus)
	assert.Equal(t, 15, v.Motivation.MarketModifier)
	assert.Equal(t, 80, v.Motivation.Score)
	assert.InDelta(t, 0.20, v.MaxAchievableDiscount, 0.0001)
}

func TestCalculateDealOpportunityScore_HotMarketPenalty(t *testing.T) {
	base := OpportunityInputs{
		IncomeValue:       250000,
		ListPrice:         300000,
		Signals:           ListingSignals{Status: types.StatusForSale},
		DaysOnMarket:      70,
		MarketTemperature: types.MarketNeutral,
	}

	neutral := CalculateDealOpportunityScore(base)

	base.MarketTemperature = types.MarketHot
	hot := CalculateDealOpportunityScore(base)

	assert.Less(t, hot.Motivation.Score, neutral.Motivation.Score)
	assert.LessOrEqual(t, hot.Score, neutral.Score)
}

func TestCalculateDealOpportunityScore_UnreachableGap(t *testing.T) {
	// A 40% required discount with a sold listing (motivation 5) is hopeless
	v := CalculateDealOpportunityScore(OpportunityInputs{
		IncomeValue:       180000,
		ListPrice:         300000,
		Signals:           ListingSignals{Status: types.StatusSold},
		DaysOnMarket:      0,
		MarketTemperature: types.MarketNeutral,
	})
	assert.Less(t, v.Score, 30.0)
	assert.Equal(t, "F", v.Grade)
}

func TestGradeBuckets(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{90, "A+"},
		{85, "A"},
		{70, "B"},
		{55, "C"},
		{35, "D"},
		{10, "F"},
	}

	for _, tt := range tests {
		grade, _, _ := gradeFor(tt.score)
		assert.Equal(t, tt.grade, grade, "score %v", tt.score)
	}
}
