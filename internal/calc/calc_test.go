package calc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     int
		want      float64
	}{
		{
			name:      "standard 30 year loan",
			principal: 240000,
			rate:      0.06,
			years:     30,
			want:      1438.92,
		},
		{
			name:      "zero rate degenerates to straight line",
			principal: 120000,
			rate:      0,
			years:     10,
			want:      1000,
		},
		{
			name:      "zero principal",
			principal: 0,
			rate:      0.06,
			years:     30,
			want:      0,
		},
		{
			name:      "zero term",
			principal: 100000,
			rate:      0.06,
			years:     0,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(tt.principal, tt.rate, tt.years)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestLTR_Scenario(t *testing.T) {
	p := LTRParams{
		PurchasePrice:       300000,
		MonthlyRent:         2500,
		DownPaymentPct:      0.20,
		InterestRate:        0.06,
		LoanTermYears:       30,
		ClosingCostsPct:     0.03,
		PropertyTaxesAnnual: 3600,
		InsuranceAnnual:     1200,
		VacancyRate:         0.05,
		ManagementPct:       0.10,
		MaintenancePct:      0.05,
	}

	r, err := LTR(p)
	require.NoError(t, err)

	// EGI = 30000 * 0.95 = 28500; opex = 2850 + 1425 + 1200 + 3600 = 9075
	assert.InDelta(t, 28500, r.EffectiveGrossIncome, 0.01)
	assert.InDelta(t, 19425, r.NetOperatingIncome, 0.01)
	assert.InDelta(t, r.NetOperatingIncome/300000, r.CapRate, 0.0001)
	assert.Greater(t, r.CashOnCashReturn, 0.0)
	assert.Greater(t, r.DSCR, 1.0)
	assert.InDelta(t, 60000, r.DownPayment, 0.01)
	assert.InDelta(t, 69000, r.TotalCashInvested, 0.01)
}

func TestLTR_InputRejection(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LTRParams)
		wantMsg string
	}{
		{
			name:    "negative purchase price",
			mutate:  func(p *LTRParams) { p.PurchasePrice = -100000 },
			wantMsg: "Purchase price",
		},
		{
			name:    "interest rate above 30 percent",
			mutate:  func(p *LTRParams) { p.InterestRate = 0.50 },
			wantMsg: "Interest rate",
		},
		{
			name:    "negative interest rate",
			mutate:  func(p *LTRParams) { p.InterestRate = -0.01 },
			wantMsg: "Interest rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := LTRParams{
				PurchasePrice: 300000,
				MonthlyRent:   2500,
				InterestRate:  0.06,
				LoanTermYears: 30,
			}
			tt.mutate(&p)

			_, err := LTR(p)
			require.Error(t, err)

			var inputErr *CalculationInputError
			require.True(t, errors.As(err, &inputErr))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLTR_RentMonotonicity(t *testing.T) {
	base := LTRParams{
		PurchasePrice:       300000,
		DownPaymentPct:      0.20,
		InterestRate:        0.06,
		LoanTermYears:       30,
		PropertyTaxesAnnual: 3600,
		InsuranceAnnual:     1200,
		VacancyRate:         0.05,
		ManagementPct:       0.10,
		MaintenancePct:      0.05,
	}

	prev := math.Inf(-1)
	for rent := 500.0; rent <= 5000; rent += 250 {
		p := base
		p.MonthlyRent = rent
		r, err := LTR(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.MonthlyCashFlow, prev,
			"cash flow must not decrease as rent rises (rent=%v)", rent)
		prev = r.MonthlyCashFlow
	}
}

func TestLTR_Idempotent(t *testing.T) {
	p := LTRParams{
		PurchasePrice:  250000,
		MonthlyRent:    2100,
		DownPaymentPct: 0.25,
		InterestRate:   0.0675,
		LoanTermYears:  30,
		VacancyRate:    0.05,
	}

	first, err := LTR(p)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := LTR(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSTR(t *testing.T) {
	p := STRParams{
		PurchasePrice:       400000,
		ADR:                 220,
		OccupancyRate:       0.65,
		DownPaymentPct:      0.20,
		InterestRate:        0.07,
		LoanTermYears:       30,
		ClosingCostsPct:     0.03,
		PropertyTaxesAnnual: 4800,
		InsuranceAnnual:     2400,
		PlatformFeePct:      0.03,
		ManagementPct:       0.20,
		CleaningCostPerStay: 120,
		CleaningFeePerStay:  100,
		AvgStayNights:       3,
		SuppliesMonthly:     150,
		UtilitiesMonthly:    300,
		FurnitureCost:       25000,
	}

	r, err := STR(p)
	require.NoError(t, err)

	// 220 * 0.65 * 365
	assert.InDelta(t, 52195, r.GrossAnnualRevenue, 0.01)
	assert.InDelta(t, 237.25, r.OccupiedNights, 0.01)

	// Furniture is capital, not opex: it appears in the investment base only
	assert.InDelta(t, 400000*0.20+400000*0.03+25000, r.TotalCashInvested, 0.01)
	assert.InDelta(t, r.NetOperatingIncome/400000, r.CapRate, 0.0001)
}

func TestSTR_CleaningFeeOffset(t *testing.T) {
	p := STRParams{
		PurchasePrice:       300000,
		ADR:                 200,
		OccupancyRate:       0.60,
		CleaningCostPerStay: 100,
		CleaningFeePerStay:  150,
		AvgStayNights:       3,
	}

	r, err := STR(p)
	require.NoError(t, err)
	// Guest cleaning fees exceed the turnover cost: net cleaning is revenue
	assert.Less(t, r.NetCleaningCost, 0.0)
}

func TestBRRRR(t *testing.T) {
	p := BRRRRParams{
		MarketValue:         250000,
		PurchaseDiscountPct: 0.20,
		DownPaymentPct:      0.15,
		AcquisitionRate:     0.10,
		AcquisitionTermYears: 30,
		ClosingCostsPct:     0.03,
		RenovationBudget:    40000,
		ContingencyPct:      0.10,
		HoldingPeriodMonths: 6,
		HoldingCostMonthly:  1500,
		ARV:                 320000,
		RefinanceLTV:        0.75,
		RefinanceRate:       0.065,
		RefinanceTermYears:  30,
		RefinanceClosingPct: 0.02,
		MonthlyRent:         2400,
		VacancyRate:         0.05,
		ManagementPct:       0.10,
		MaintenancePct:      0.05,
		PropertyTaxesAnnual: 3000,
		InsuranceAnnual:     1400,
	}

	r, err := BRRRR(p)
	require.NoError(t, err)

	assert.InDelta(t, 200000, r.PurchasePrice, 0.01)
	assert.InDelta(t, 44000, r.RehabTotal, 0.01)
	assert.InDelta(t, 240000, r.RefinanceLoan, 0.01)
	assert.Equal(t, r.CashLeftInDeal <= 0, r.InfiniteReturn)
	assert.InDelta(t, r.TotalInvestment-r.CashOut, r.CashLeftInDeal, 0.01)
}

func TestBRRRR_InfiniteReturn(t *testing.T) {
	p := BRRRRParams{
		MarketValue:         200000,
		PurchaseDiscountPct: 0.35,
		DownPaymentPct:      0.10,
		AcquisitionRate:     0.09,
		AcquisitionTermYears: 30,
		RenovationBudget:    15000,
		ARV:                 300000,
		RefinanceLTV:        0.75,
		RefinanceRate:       0.06,
		RefinanceTermYears:  30,
		MonthlyRent:         2200,
	}

	r, err := BRRRR(p)
	require.NoError(t, err)
	assert.True(t, r.InfiniteReturn)
	assert.LessOrEqual(t, r.CashLeftInDeal, 0.0)
	assert.Zero(t, r.CashOnCashReturn)
}

func TestFlip(t *testing.T) {
	p := FlipParams{
		ARV:                 350000,
		PurchaseDiscountPct: 0.30,
		ClosingCostsPct:     0.02,
		RenovationBudget:    45000,
		ContingencyPct:      0.15,
		HoldingPeriodMonths: 6,
		HoldingCostMonthly:  1200,
		HardMoneyLTV:        0.85,
		HardMoneyRate:       0.12,
		SellingCostsPct:     0.07,
	}

	r, err := Flip(p)
	require.NoError(t, err)

	assert.InDelta(t, 245000, r.PurchasePrice, 0.01)
	assert.InDelta(t, 51750, r.RehabTotal, 0.01)
	// 245000 + 51750 > 245000 (0.70*350000) so the 70% rule fails here
	assert.False(t, r.Meets70Rule)
	assert.InDelta(t, 350000-r.TotalCosts, r.NetProfitBeforeTax, 0.01)
}

func TestFlip_Meets70Rule(t *testing.T) {
	p := FlipParams{
		ARV:                 400000,
		PurchaseDiscountPct: 0.45,
		RenovationBudget:    50000,
	}

	r, err := Flip(p)
	require.NoError(t, err)
	// 220000 + 50000 <= 280000
	assert.True(t, r.Meets70Rule)
}

func TestHouseHack(t *testing.T) {
	p := HouseHackParams{
		PurchasePrice:       350000,
		FHADownPaymentPct:   0.035,
		InterestRate:        0.065,
		LoanTermYears:       30,
		MIPAnnualPct:        0.0085,
		ClosingCostsPct:     0.03,
		PropertyTaxesAnnual: 4200,
		InsuranceAnnual:     1600,
		UtilitiesMonthly:    250,
		MaintenancePct:      0.05,
		RoomsRented:         3,
		RentPerRoom:         750,
		MarketRentOwnerUnit: 2200,
	}

	r, err := HouseHack(p)
	require.NoError(t, err)

	assert.InDelta(t, 2250, r.RoomIncome, 0.01)
	assert.InDelta(t, 350000*0.965, r.LoanAmount, 0.01)
	assert.InDelta(t, r.TotalMonthlyPayment-r.RoomIncome+r.MaintenanceReserve, r.NetHousingCost, 0.01)
	assert.InDelta(t, 2200-r.NetHousingCost, r.MonthlySavings, 0.01)
}

func TestWholesale_70Rule(t *testing.T) {
	r, err := Wholesale(WholesaleParams{
		ARV:                 400000,
		EstimatedRehabCosts: 50000,
		AssignmentFee:       10000,
		MarketingCosts:      1500,
		EarnestMoney:        1000,
	})
	require.NoError(t, err)

	// 400000*0.70 - 50000, using the default 30% discount
	assert.Equal(t, 230000.0, r.SeventyPctMaxOffer)
	assert.Equal(t, 7500.0, r.NetProfit)
	assert.InDelta(t, 3.0, r.ROI, 0.0001)
}

func TestWholesale_CustomDiscount(t *testing.T) {
	r, err := Wholesale(WholesaleParams{
		ARV:                 400000,
		ARVDiscountPct:      0.25,
		EstimatedRehabCosts: 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, 250000.0, r.SeventyPctMaxOffer)
}

func TestCalculators_RejectNegativeARV(t *testing.T) {
	_, err := Flip(FlipParams{ARV: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "After-repair value")

	_, err = Wholesale(WholesaleParams{ARV: -400000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "After-repair value")

	_, err = BRRRR(BRRRRParams{MarketValue: 200000, ARV: -5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "After-repair value")
}
