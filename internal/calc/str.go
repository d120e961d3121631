package calc

// STRParams holds the inputs for a short-term rental analysis.
type STRParams struct {
	PurchasePrice       float64
	ADR                 float64
	OccupancyRate       float64
	DownPaymentPct      float64
	InterestRate        float64
	LoanTermYears       int
	ClosingCostsPct     float64
	PropertyTaxesAnnual float64
	InsuranceAnnual     float64
	PlatformFeePct      float64
	ManagementPct       float64
	CleaningCostPerStay float64
	CleaningFeePerStay  float64
	AvgStayNights       float64
	SuppliesMonthly     float64
	UtilitiesMonthly    float64
	FurnitureCost       float64
}

// STRResult holds the short-term rental metrics.
type STRResult struct {
	GrossAnnualRevenue float64 `json:"gross_annual_revenue"`
	OccupiedNights     float64 `json:"occupied_nights"`
	StaysPerYear       float64 `json:"stays_per_year"`
	PlatformFees       float64 `json:"platform_fees"`
	ManagementFees     float64 `json:"management_fees"`
	NetCleaningCost    float64 `json:"net_cleaning_cost"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	NetOperatingIncome float64 `json:"net_operating_income"`
	LoanAmount         float64 `json:"loan_amount"`
	MonthlyMortgage    float64 `json:"monthly_mortgage"`
	AnnualDebtService  float64 `json:"annual_debt_service"`
	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCashReturn   float64 `json:"cash_on_cash_return"`
	DSCR               float64 `json:"dscr"`
	FurnitureCost      float64 `json:"furniture_cost"`
	TotalCashInvested  float64 `json:"total_cash_invested"`
	RevPAR             float64 `json:"revpar"`
}

// STR analyzes a property as a short-term (nightly) rental. The furniture
// setup cost is a one-time capital cost counted in total investment, not an
// operating expense.
func STR(p STRParams) (*STRResult, error) {
	if err := validatePrice("Purchase price", p.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validateRate("Interest rate", p.InterestRate); err != nil {
		return nil, err
	}
	if p.ADR < 0 {
		return nil, newInputError("Average daily rate", p.ADR, "must not be negative")
	}

	occupiedNights := p.OccupancyRate * 365
	gross := p.ADR * occupiedNights

	var stays float64
	if p.AvgStayNights > 0 {
		stays = occupiedNights / p.AvgStayNights
	}

	platformFees := p.PlatformFeePct * gross
	mgmtFees := p.ManagementPct * gross
	// Cleaning fees charged to guests offset the cleaning cost per turnover
	netCleaning := (p.CleaningCostPerStay - p.CleaningFeePerStay) * stays

	opex := platformFees + mgmtFees + netCleaning +
		(p.SuppliesMonthly+p.UtilitiesMonthly)*12 +
		p.InsuranceAnnual + p.PropertyTaxesAnnual

	noi := gross - opex

	loan := p.PurchasePrice * (1 - p.DownPaymentPct)
	monthly := MonthlyPayment(loan, p.InterestRate, p.LoanTermYears)
	ads := monthly * 12
	annualCF := noi - ads

	invested := p.PurchasePrice*p.DownPaymentPct +
		p.PurchasePrice*p.ClosingCostsPct +
		p.FurnitureCost

	r := &STRResult{
		GrossAnnualRevenue: roundCents(gross),
		OccupiedNights:     roundCents(occupiedNights),
		StaysPerYear:       roundCents(stays),
		PlatformFees:       roundCents(platformFees),
		ManagementFees:     roundCents(mgmtFees),
		NetCleaningCost:    roundCents(netCleaning),
		OperatingExpenses:  roundCents(opex),
		NetOperatingIncome: roundCents(noi),
		LoanAmount:         roundCents(loan),
		MonthlyMortgage:    roundCents(monthly),
		AnnualDebtService:  roundCents(ads),
		MonthlyCashFlow:    roundCents(annualCF / 12),
		AnnualCashFlow:     roundCents(annualCF),
		FurnitureCost:      roundCents(p.FurnitureCost),
		TotalCashInvested:  roundCents(invested),
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
	r.RevPAR = roundCents(gross / 365)

	return r, nil
}
