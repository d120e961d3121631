// Package valuation implements the core breakeven and discount math shared by
// every strategy: market price resolution, income value, and target buy price.
//
// Unlike the strategy calculators, these functions run deep inside the verdict
// pipeline on derived upstream data, so out-of-domain inputs are clamped to
// the nearest valid bound and logged rather than rejected. A hard failure here
// would abort a whole verdict over one slightly-malformed field.
package valuation

import (
	"math"

	"github.com/sirupsen/logrus"
)

// assessedToMarketRatio approximates market value from a county tax
// assessment. Assessors typically land around 75% of market.
const assessedToMarketRatio = 0.75

// cashPurchaseCapRate is the floor cap rate used to value an all-cash
// purchase, where no debt service exists to solve against.
const cashPurchaseCapRate = 0.05

// maxBuyDiscount caps the target-buy discount off income value.
const maxBuyDiscount = 0.50

// clampWarn clamps v into [lo, hi] and logs a warning when it had to move.
// Silent correction would hide data problems; aborting would kill the verdict.
func clampWarn(field string, v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": "NaN",
			"bound": lo,
		}).Warn("Clamped out-of-domain valuation input")
		return lo
	}
	if v < lo {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": v,
			"bound": lo,
		}).Warn("Clamped out-of-domain valuation input")
		return lo
	}
	if v > hi {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": v,
			"bound": hi,
		}).Warn("Clamped out-of-domain valuation input")
		return hi
	}
	return v
}

// nonNegative clamps negative or missing dollar inputs to zero with a warning.
func nonNegative(field string, v *float64) float64 {
	if v == nil {
		return 0
	}
	return clampWarn(field, *v, 0, math.MaxFloat64)
}

// ComputeMarketPrice resolves a single market price from the available value
// signals. Strict fallback, no blending: an active listing's asking price
// wins; otherwise the Zestimate. Only listed properties fall further, first
// to the provider AVM, then to the tax assessment grossed up to market. An
// off-market property with no Zestimate has no market price: AVM and assessed
// values are too stale off-market to anchor a verdict on.
//
// Returns nil when no signal is usable. Output is rounded to whole dollars.
func ComputeMarketPrice(isListed bool, listPrice, zestimate, currentValueAVM, taxAssessedValue *float64) *float64 {
	price := func(v float64) *float64 {
		r := math.Round(v)
		return &r
	}

	if isListed && listPrice != nil && *listPrice > 0 {
		return price(*listPrice)
	}
	if zestimate != nil && *zestimate > 0 {
		return price(*zestimate)
	}
	if !isListed {
		return nil
	}
	if currentValueAVM != nil && *currentValueAVM > 0 {
		return price(*currentValueAVM)
	}
	if taxAssessedValue != nil && *taxAssessedValue > 0 {
		return price(*taxAssessedValue / assessedToMarketRatio)
	}
	return nil
}

// IncomeValueInputs are the inputs to EstimateIncomeValue. Dollar fields are
// optional; nil is treated as zero after a logged clamp check.
type IncomeValueInputs struct {
	MonthlyRent         *float64
	PropertyTaxesAnnual *float64
	InsuranceAnnual     *float64
	DownPaymentPct      float64
	InterestRate        float64
	LoanTermYears       int
	VacancyRate         float64
	MaintenancePct      float64
	ManagementPct       float64
}

// EstimateIncomeValue computes the purchase price at which net operating
// income exactly covers annual debt service, i.e. the breakeven price where
// cash flow is zero. Returns 0 when the property cannot break even at any
// price (NOI <= 0). Output is rounded to whole dollars.
func EstimateIncomeValue(in IncomeValueInputs) float64 {
	rent := nonNegative("monthly_rent", in.MonthlyRent)
	taxes := nonNegative("property_taxes_annual", in.PropertyTaxesAnnual)
	insurance := nonNegative("insurance_annual", in.InsuranceAnnual)

	down := clampWarn("down_payment_pct", in.DownPaymentPct, 0, 1)
	rate := clampWarn("interest_rate", in.InterestRate, 0, 0.30)
	vacancy := clampWarn("vacancy_rate", in.VacancyRate, 0, 1)
	maintenance := clampWarn("maintenance_pct", in.MaintenancePct, 0, 1)
	management := clampWarn("management_pct", in.ManagementPct, 0, 1)

	term := in.LoanTermYears
	if term < 1 {
		logrus.WithFields(logrus.Fields{
			"field": "loan_term_years",
			"value": term,
			"bound": 1,
		}).Warn("Clamped out-of-domain valuation input")
		term = 1
	} else if term > 50 {
		logrus.WithFields(logrus.Fields{
			"field": "loan_term_years",
			"value": term,
			"bound": 50,
		}).Warn("Clamped out-of-domain valuation input")
		term = 50
	}

	egi := rent * 12 * (1 - vacancy)
	noi := egi*(1-maintenance-management) - taxes - insurance
	if noi <= 0 {
		return 0
	}

	mc := mortgageConstant(rate, term)
	ltv := 1 - down

	denominator := ltv * mc
	if denominator <= 0 {
		// Pure cash purchase: value at a floor cap rate instead
		return math.Round(noi / cashPurchaseCapRate)
	}

	return math.Round(noi / denominator)
}

// mortgageConstant returns annual debt service per dollar of loan: the
// monthly amortization factor times 12. A zero rate degenerates to 1/term.
func mortgageConstant(annualRate float64, termYears int) float64 {
	if annualRate == 0 {
		return 1 / float64(termYears)
	}
	r := annualRate / 12
	n := float64(termYears * 12)
	factor := math.Pow(1+r, n)
	return r * factor / (factor - 1) * 12
}

// BuyPriceInputs are the inputs to CalculateBuyPrice.
type BuyPriceInputs struct {
	MarketPrice    float64
	BuyDiscountPct float64
	Income         IncomeValueInputs
}

// CalculateBuyPrice computes the target buy price: the income value less the
// configured discount, never above market price regardless of what the
// formula produces. Falls back to the market price unchanged when rent is
// missing or the income value computes to zero.
func CalculateBuyPrice(in BuyPriceInputs) float64 {
	if in.Income.MonthlyRent == nil || *in.Income.MonthlyRent <= 0 {
		return in.MarketPrice
	}

	iv := EstimateIncomeValue(in.Income)
	if iv == 0 {
		return in.MarketPrice
	}

	discount := clampWarn("buy_discount_pct", in.BuyDiscountPct, 0, maxBuyDiscount)
	buy := iv * (1 - discount)

	return math.Round(math.Min(buy, in.MarketPrice))
}
