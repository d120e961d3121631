// Package verdict orchestrates the full analysis pipeline: market price and
// income value, the six strategy calculators, and the composite deal
// opportunity score, producing one investor-facing verdict per property.
//
// The resolved assumption set is passed in immutably and used for the whole
// analysis; it is never re-resolved mid-computation, so every number in a
// verdict reflects one consistent configuration.
package verdict

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/assumptions"
	"github.com/yourorg/dealiq-engine/internal/calc"
	"github.com/yourorg/dealiq-engine/internal/model"
	"github.com/yourorg/dealiq-engine/internal/score"
	"github.com/yourorg/dealiq-engine/internal/valuation"
)

// Strategy names used as keys in the per-strategy breakdown.
const (
	StrategyLTR       = "ltr"
	StrategySTR       = "str"
	StrategyBRRRR     = "brrrr"
	StrategyFlip      = "flip"
	StrategyHouseHack = "house_hack"
	StrategyWholesale = "wholesale"
)

// Extreme-leverage deals can produce cash-on-cash returns far outside normal
// ranges; the best-strategy comparison works on values clamped to this span.
const (
	minComparableCoC = -10.0
	maxComparableCoC = 100.0
)

// StrategyAnalysis is one strategy's slice of the verdict: its metrics, or
// the input error that prevented computing them.
type StrategyAnalysis struct {
	Metrics interface{} `json:"metrics,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DealAnalysis is the complete output for one property.
type DealAnalysis struct {
	PropertyID     string                      `json:"property_id"`
	MarketPrice    *float64                    `json:"market_price"`
	IncomeValue    float64                     `json:"income_value"`
	TargetBuyPrice float64                     `json:"target_buy_price"`
	Strategies     map[string]StrategyAnalysis `json:"strategies"`
	Verdict        score.IQVerdict             `json:"verdict"`
	BestStrategy   string                      `json:"best_strategy,omitempty"`
	BestCoCReturn  float64                     `json:"best_coc_return"`
}

// Analyze runs the full pipeline for one property against one resolved
// assumption set. It never fails outright: strategies with invalid inputs
// carry their error in the breakdown, and a property with no market price
// still gets a scored verdict against whatever signals exist.
func Analyze(facts model.PropertyFacts, a assumptions.AllAssumptions) DealAnalysis {
	marketPrice := valuation.ComputeMarketPrice(
		facts.IsListed, facts.ListPrice, facts.Zestimate,
		facts.CurrentValueAVM, facts.TaxAssessedValue,
	)

	anchor := 0.0
	if marketPrice != nil {
		anchor = *marketPrice
	}

	incomeInputs := assumptions.BuildValuationParams(a, facts, anchor)
	incomeValue := valuation.EstimateIncomeValue(incomeInputs)

	targetBuy := anchor
	if marketPrice != nil {
		targetBuy = valuation.CalculateBuyPrice(valuation.BuyPriceInputs{
			MarketPrice:    anchor,
			BuyDiscountPct: a.Valuation.BuyDiscountPct,
			Income:         incomeInputs,
		})
	}

	strategies := map[string]StrategyAnalysis{}
	type coc struct {
		name  string
		value float64
		ok    bool
	}
	var best coc

	consider := func(name string, value float64, ok bool) {
		if !ok {
			return
		}
		v := math.Max(minComparableCoC, math.Min(maxComparableCoC, value))
		if !best.ok || v > best.value {
			best = coc{name: name, value: v, ok: true}
		}
	}

	// Purchase-based strategies buy at the target price when one exists
	purchase := targetBuy
	if purchase <= 0 {
		purchase = anchor
	}

	if r, err := calc.LTR(assumptions.BuildLTRParams(a, facts, purchase)); err != nil {
		strategies[StrategyLTR] = StrategyAnalysis{Error: err.Error()}
	} else {
		strategies[StrategyLTR] = StrategyAnalysis{Metrics: r}
		consider(StrategyLTR, r.CashOnCashReturn, true)
	}

	if facts.ADR != nil {
		if r, err := calc.STR(assumptions.BuildSTRParams(a, facts, purchase)); err != nil {
			strategies[StrategySTR] = StrategyAnalysis{Error: err.Error()}
		} else {
			strategies[StrategySTR] = StrategyAnalysis{Metrics: r}
			consider(StrategySTR, r.CashOnCashReturn, true)
		}
	}

	if r, err := calc.BRRRR(assumptions.BuildBRRRRParams(a, facts, anchor)); err != nil {
		strategies[StrategyBRRRR] = StrategyAnalysis{Error: err.Error()}
	} else {
		strategies[StrategyBRRRR] = StrategyAnalysis{Metrics: r}
		if r.InfiniteReturn {
			consider(StrategyBRRRR, maxComparableCoC, true)
		} else {
			consider(StrategyBRRRR, r.CashOnCashReturn, true)
		}
	}

	if r, err := calc.Flip(assumptions.BuildFlipParams(a, facts, anchor)); err != nil {
		strategies[StrategyFlip] = StrategyAnalysis{Error: err.Error()}
	} else {
		strategies[StrategyFlip] = StrategyAnalysis{Metrics: r}
		consider(StrategyFlip, r.AnnualizedROI, true)
	}

	if r, err := calc.HouseHack(assumptions.BuildHouseHackParams(a, facts, purchase)); err != nil {
		strategies[StrategyHouseHack] = StrategyAnalysis{Error: err.Error()}
	} else {
		strategies[StrategyHouseHack] = StrategyAnalysis{Metrics: r}
		consider(StrategyHouseHack, r.SavingsReturn, true)
	}

	if r, err := calc.Wholesale(assumptions.BuildWholesaleParams(a, facts, anchor)); err != nil {
		strategies[StrategyWholesale] = StrategyAnalysis{Error: err.Error()}
	} else {
		strategies[StrategyWholesale] = StrategyAnalysis{Metrics: r}
		consider(StrategyWholesale, r.ROI, true)
	}

	listPrice := model.Float(facts.ListPrice, anchor)
	iq := score.CalculateDealOpportunityScore(score.OpportunityInputs{
		IncomeValue: incomeValue,
		ListPrice:   listPrice,
		Signals: score.ListingSignals{
			Status:              facts.Status,
			PriceReductionCount: facts.PriceReductionCount,
			IsFSBO:              facts.IsFSBO,
			IsForeclosure:       facts.IsForeclosure,
		},
		DaysOnMarket:      facts.DaysOnMarket,
		MarketTemperature: facts.MarketTemperature,
	})

	analysis := DealAnalysis{
		PropertyID:     facts.PropertyID,
		MarketPrice:    marketPrice,
		IncomeValue:    incomeValue,
		TargetBuyPrice: targetBuy,
		Strategies:     strategies,
		Verdict:        iq,
	}
	if best.ok {
		analysis.BestStrategy = best.name
		analysis.BestCoCReturn = best.value
	}

	logrus.WithFields(logrus.Fields{
		"property_id":   facts.PropertyID,
		"market_price":  anchor,
		"income_value":  incomeValue,
		"iq_score":      iq.Score,
		"grade":         iq.Grade,
		"best_strategy": analysis.BestStrategy,
	}).Debug("Deal analysis complete")

	return analysis
}
