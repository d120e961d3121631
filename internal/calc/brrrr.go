package calc

// BRRRRParams holds the inputs for a buy-rehab-rent-refinance-repeat analysis.
type BRRRRParams struct {
	MarketValue            float64 // breakeven or market value the discount applies to
	PurchaseDiscountPct    float64
	DownPaymentPct         float64 // acquisition financing
	AcquisitionRate        float64
	AcquisitionTermYears   int
	ClosingCostsPct        float64
	RenovationBudget       float64
	ContingencyPct         float64
	HoldingPeriodMonths    int
	HoldingCostMonthly     float64
	ARV                    float64
	RefinanceLTV           float64
	RefinanceRate          float64
	RefinanceTermYears     int
	RefinanceClosingPct    float64
	MonthlyRent            float64
	VacancyRate            float64
	ManagementPct          float64
	MaintenancePct         float64
	PropertyTaxesAnnual    float64
	InsuranceAnnual        float64
}

// BRRRRResult holds the two-phase BRRRR metrics.
type BRRRRResult struct {
	PurchasePrice        float64 `json:"purchase_price"`
	ClosingCosts         float64 `json:"closing_costs"`
	RehabTotal           float64 `json:"rehab_total"`
	HoldingCosts         float64 `json:"holding_costs"`
	TotalProjectCost     float64 `json:"total_project_cost"`
	TotalInvestment      float64 `json:"total_investment"`
	AcquisitionLoan      float64 `json:"acquisition_loan"`
	RefinanceLoan        float64 `json:"refinance_loan"`
	RefinanceClosing     float64 `json:"refinance_closing"`
	CashOut              float64 `json:"cash_out"`
	CashLeftInDeal       float64 `json:"cash_left_in_deal"`
	InfiniteReturn       bool    `json:"infinite_return"`
	EquityAfterRefinance float64 `json:"equity_after_refinance"`
	MonthlyMortgage      float64 `json:"monthly_mortgage"`
	NetOperatingIncome   float64 `json:"net_operating_income"`
	MonthlyCashFlow      float64 `json:"monthly_cash_flow"`
	AnnualCashFlow       float64 `json:"annual_cash_flow"`
	CashOnCashReturn     float64 `json:"cash_on_cash_return"`
}

// BRRRR analyzes the two-phase buy-rehab-rent-refinance strategy: acquire at
// a discount, rehab, then refinance against ARV and measure how much cash is
// left in the deal. A non-positive cash-left-in-deal flags an infinite return.
func BRRRR(p BRRRRParams) (*BRRRRResult, error) {
	if err := validatePrice("Market value", p.MarketValue); err != nil {
		return nil, err
	}
	if err := validatePrice("After-repair value", p.ARV); err != nil {
		return nil, err
	}
	if err := validateRate("Interest rate", p.AcquisitionRate); err != nil {
		return nil, err
	}
	if err := validateRate("Refinance interest rate", p.RefinanceRate); err != nil {
		return nil, err
	}

	purchase := p.MarketValue * (1 - p.PurchaseDiscountPct)
	closing := purchase * p.ClosingCostsPct
	rehab := p.RenovationBudget * (1 + p.ContingencyPct)
	holding := p.HoldingCostMonthly * float64(p.HoldingPeriodMonths)

	acquisitionLoan := purchase * (1 - p.DownPaymentPct)
	downPayment := purchase * p.DownPaymentPct

	projectCost := purchase + closing + rehab + holding
	// Cash in: everything the loan does not cover
	invested := downPayment + closing + rehab + holding

	refiLoan := p.ARV * p.RefinanceLTV
	refiClosing := refiLoan * p.RefinanceClosingPct
	cashOut := refiLoan - acquisitionLoan - refiClosing
	if cashOut < 0 {
		cashOut = 0
	}

	cashLeft := invested - cashOut

	// Stabilized phase: rent against the refinance loan
	egi := p.MonthlyRent * 12 * (1 - p.VacancyRate)
	opex := p.ManagementPct*egi + p.MaintenancePct*egi +
		p.PropertyTaxesAnnual + p.InsuranceAnnual
	noi := egi - opex

	monthly := MonthlyPayment(refiLoan, p.RefinanceRate, p.RefinanceTermYears)
	annualCF := noi - monthly*12

	r := &BRRRRResult{
		PurchasePrice:        roundCents(purchase),
		ClosingCosts:         roundCents(closing),
		RehabTotal:           roundCents(rehab),
		HoldingCosts:         roundCents(holding),
		TotalProjectCost:     roundCents(projectCost),
		TotalInvestment:      roundCents(invested),
		AcquisitionLoan:      roundCents(acquisitionLoan),
		RefinanceLoan:        roundCents(refiLoan),
		RefinanceClosing:     roundCents(refiClosing),
		CashOut:              roundCents(cashOut),
		CashLeftInDeal:       roundCents(cashLeft),
		InfiniteReturn:       cashLeft <= 0,
		EquityAfterRefinance: roundCents(p.ARV - refiLoan),
		MonthlyMortgage:      roundCents(monthly),
		NetOperatingIncome:   roundCents(noi),
		MonthlyCashFlow:      roundCents(annualCF / 12),
		AnnualCashFlow:       roundCents(annualCF),
	}

	if cashLeft > 0 {
		r.CashOnCashReturn = roundRate(annualCF / cashLeft)
	}

	return r, nil
}
