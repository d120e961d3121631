package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/dealiq-engine/internal/assumptions"
	"github.com/yourorg/dealiq-engine/internal/calc"
	"github.com/yourorg/dealiq-engine/internal/model"
	"github.com/yourorg/dealiq-engine/internal/types"
)

func listedFacts() model.PropertyFacts {
	f := model.NewPropertyFacts("prop-1", "test")
	f.IsListed = true
	f.Status = types.StatusForSale
	f.ListPrice = model.FloatPtr(320000)
	f.MonthlyRent = model.FloatPtr(2600)
	f.PropertyTaxesAnnual = model.FloatPtr(3800)
	f.InsuranceAnnual = model.FloatPtr(1400)
	f.ARV = model.FloatPtr(360000)
	f.Bedrooms = func() *int { v := 4; return &v }()
	f.DaysOnMarket = 75
	return f
}

func TestAnalyze_FullPipeline(t *testing.T) {
	a := assumptions.Resolve(nil, nil)
	got := Analyze(listedFacts(), a)

	require.NotNil(t, got.MarketPrice)
	assert.Equal(t, 320000.0, *got.MarketPrice)
	assert.Greater(t, got.IncomeValue, 0.0)
	assert.LessOrEqual(t, got.TargetBuyPrice, *got.MarketPrice)

	// STR is skipped without an ADR; the other five run
	assert.Len(t, got.Strategies, 5)
	assert.NotContains(t, got.Strategies, StrategySTR)
	for name, s := range got.Strategies {
		assert.Empty(t, s.Error, "strategy %s returned an error", name)
		assert.NotNil(t, s.Metrics, "strategy %s has no metrics", name)
	}

	assert.NotEmpty(t, got.BestStrategy)
	assert.GreaterOrEqual(t, got.BestCoCReturn, -10.0)
	assert.LessOrEqual(t, got.BestCoCReturn, 100.0)

	assert.GreaterOrEqual(t, got.Verdict.Score, 0.0)
	assert.LessOrEqual(t, got.Verdict.Score, 90.0)
}

func TestAnalyze_IncludesSTRWithADR(t *testing.T) {
	f := listedFacts()
	f.ADR = model.FloatPtr(210)
	f.OccupancyRate = model.FloatPtr(0.70)

	got := Analyze(f, assumptions.Resolve(nil, nil))
	require.Contains(t, got.Strategies, StrategySTR)
	assert.Empty(t, got.Strategies[StrategySTR].Error)

	metrics, ok := got.Strategies[StrategySTR].Metrics.(*calc.STRResult)
	require.True(t, ok)
	assert.Greater(t, metrics.GrossAnnualRevenue, 0.0)
}

func TestAnalyze_OffMarketNoZestimate(t *testing.T) {
	f := model.NewPropertyFacts("prop-2", "test")
	f.IsListed = false
	f.Status = types.StatusOffMarket
	f.CurrentValueAVM = model.FloatPtr(500000)
	f.MonthlyRent = model.FloatPtr(2000)

	got := Analyze(f, assumptions.Resolve(nil, nil))

	// No market price off-market without a Zestimate, but the pipeline
	// still produces a scored verdict
	assert.Nil(t, got.MarketPrice)
	assert.Greater(t, got.IncomeValue, 0.0)
	assert.GreaterOrEqual(t, got.Verdict.Score, 0.0)
	assert.LessOrEqual(t, got.Verdict.Score, 90.0)
}

func TestAnalyze_UserOverridesFlowThrough(t *testing.T) {
	f := listedFacts()
	a := assumptions.Resolve(nil, &assumptions.Overrides{
		Financing: &assumptions.FinancingOverrides{
			InterestRate: model.FloatPtr(0.04),
		},
	})
	cheap := Analyze(f, a)

	b := assumptions.Resolve(nil, &assumptions.Overrides{
		Financing: &assumptions.FinancingOverrides{
			InterestRate: model.FloatPtr(0.09),
		},
	})
	expensive := Analyze(f, b)

	// Cheaper debt supports a higher breakeven price
	assert.Greater(t, cheap.IncomeValue, expensive.IncomeValue)
}

func TestAnalyze_Deterministic(t *testing.T) {
	f := listedFacts()
	a := assumptions.Resolve(nil, nil)

	first := Analyze(f, a)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Analyze(f, a))
	}
}
