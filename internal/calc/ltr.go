// Package calc implements the six deal-strategy calculators. Each calculator
// is a pure function: a typed parameter struct in, a typed metrics struct out.
// Calculators never read persisted or global defaults; parameter structs are
// populated by the assumptions package, which is the only bridge between
// configuration and calculation.
package calc

// LTRParams holds the inputs for a long-term rental analysis.
type LTRParams struct {
	PurchasePrice       float64
	MonthlyRent         float64
	DownPaymentPct      float64
	InterestRate        float64
	LoanTermYears       int
	ClosingCostsPct     float64
	PropertyTaxesAnnual float64
	InsuranceAnnual     float64
	VacancyRate         float64
	ManagementPct       float64
	MaintenancePct      float64
	UtilitiesMonthly    float64
	LandscapingMonthly  float64
	PestControlMonthly  float64
	HOAMonthly          float64
}

// LTRResult holds the long-term rental metrics. Key names are stable: the
// export layer serializes this struct as-is.
type LTRResult struct {
	GrossAnnualIncome     float64 `json:"gross_annual_income"`
	EffectiveGrossIncome  float64 `json:"effective_gross_income"`
	OperatingExpenses     float64 `json:"operating_expenses"`
	NetOperatingIncome    float64 `json:"net_operating_income"`
	LoanAmount            float64 `json:"loan_amount"`
	MonthlyMortgage       float64 `json:"monthly_mortgage"`
	AnnualDebtService     float64 `json:"annual_debt_service"`
	MonthlyCashFlow       float64 `json:"monthly_cash_flow"`
	AnnualCashFlow        float64 `json:"annual_cash_flow"`
	CapRate               float64 `json:"cap_rate"`
	CashOnCashReturn      float64 `json:"cash_on_cash_return"`
	DSCR                  float64 `json:"dscr"`
	DownPayment           float64 `json:"down_payment"`
	ClosingCosts          float64 `json:"closing_costs"`
	TotalCashInvested     float64 `json:"total_cash_invested"`
	GrossRentMultiplier   float64 `json:"gross_rent_multiplier"`
	OperatingExpenseRatio float64 `json:"operating_expense_ratio"`
}

// LTR analyzes a property as a long-term rental.
func LTR(p LTRParams) (*LTRResult, error) {
	if err := validatePrice("Purchase price", p.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validateRate("Interest rate", p.InterestRate); err != nil {
		return nil, err
	}

	grossAnnual := p.MonthlyRent * 12
	egi := grossAnnual * (1 - p.VacancyRate)

	// Percentage expenses run off effective gross income; fixed expenses are
	// annualized dollar amounts.
	opex := p.ManagementPct*egi +
		p.MaintenancePct*egi +
		p.InsuranceAnnual +
		p.PropertyTaxesAnnual +
		(p.UtilitiesMonthly+p.LandscapingMonthly+p.PestControlMonthly+p.HOAMonthly)*12

	noi := egi - opex

	loan := p.PurchasePrice * (1 - p.DownPaymentPct)
	monthly := MonthlyPayment(loan, p.InterestRate, p.LoanTermYears)
	ads := monthly * 12

	annualCF := noi - ads
	downPayment := p.PurchasePrice * p.DownPaymentPct
	closing := p.PurchasePrice * p.ClosingCostsPct
	invested := downPayment + closing

	r := &LTRResult{
		GrossAnnualIncome:    roundCents(grossAnnual),
		EffectiveGrossIncome: roundCents(egi),
		OperatingExpenses:    roundCents(opex),
		NetOperatingIncome:   roundCents(noi),
		LoanAmount:           roundCents(loan),
		MonthlyMortgage:      roundCents(monthly),
		AnnualDebtService:    roundCents(ads),
		MonthlyCashFlow:      roundCents(annualCF / 12),
		AnnualCashFlow:       roundCents(annualCF),
		DownPayment:          roundCents(downPayment),
		ClosingCosts:         roundCents(closing),
		TotalCashInvested:    roundCents(invested),
	}

	if p.PurchasePrice > 0 {
		r.CapRate = roundRate(noi / p.PurchasePrice)
	}
	if invested > 0 {
		r.CashOnCashReturn = roundRate(annualCF / invested)
	}
	if ads > 0 {
		r.DSCR = roundRate(noi / ads)
	}
	if grossAnnual > 0 {
		r.GrossRentMultiplier = roundRate(p.PurchasePrice / grossAnnual)
	}
	if egi > 0 {
		r.OperatingExpenseRatio = roundRate(opex / egi)
	}

	return r, nil
}
