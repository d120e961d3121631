package calc

// HouseHackParams holds the inputs for an owner-occupied house-hack analysis.
type HouseHackParams struct {
	PurchasePrice       float64
	FHADownPaymentPct   float64
	InterestRate        float64
	LoanTermYears       int
	MIPAnnualPct        float64 // FHA mortgage insurance premium, annual % of loan
	ClosingCostsPct     float64
	PropertyTaxesAnnual float64
	InsuranceAnnual     float64
	UtilitiesMonthly    float64
	MaintenancePct      float64 // of room income, reserves for tenant wear
	RoomsRented         int
	RentPerRoom         float64
	MarketRentOwnerUnit float64 // what the owner would pay to rent comparably
}

// HouseHackResult holds the house-hack metrics.
type HouseHackResult struct {
	LoanAmount          float64 `json:"loan_amount"`
	MonthlyPI           float64 `json:"monthly_pi"`
	MonthlyMIP          float64 `json:"monthly_mip"`
	MonthlyEscrow       float64 `json:"monthly_escrow"`
	TotalMonthlyPayment float64 `json:"total_monthly_payment"`
	RoomIncome          float64 `json:"room_income"`
	MaintenanceReserve  float64 `json:"maintenance_reserve"`
	NetHousingCost      float64 `json:"net_housing_cost"`
	MonthlySavings      float64 `json:"monthly_savings"`
	AnnualSavings       float64 `json:"annual_savings"`
	DownPayment         float64 `json:"down_payment"`
	ClosingCosts        float64 `json:"closing_costs"`
	TotalCashInvested   float64 `json:"total_cash_invested"`
	SavingsReturn       float64 `json:"savings_return"`
	LivesForFree        bool    `json:"lives_for_free"`
}

// HouseHack analyzes an FHA-financed owner-occupied purchase where spare
// rooms are rented out to offset the owner's housing cost. Savings are
// measured against the market rent the owner would otherwise pay.
func HouseHack(p HouseHackParams) (*HouseHackResult, error) {
	if err := validatePrice("Purchase price", p.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validateRate("Interest rate", p.InterestRate); err != nil {
		return nil, err
	}

	loan := p.PurchasePrice * (1 - p.FHADownPaymentPct)
	pi := MonthlyPayment(loan, p.InterestRate, p.LoanTermYears)
	mip := loan * p.MIPAnnualPct / 12
	escrow := (p.PropertyTaxesAnnual + p.InsuranceAnnual) / 12
	totalPayment := pi + mip + escrow + p.UtilitiesMonthly

	roomIncome := float64(p.RoomsRented) * p.RentPerRoom
	reserve := roomIncome * p.MaintenancePct

	netCost := totalPayment - roomIncome + reserve
	savings := p.MarketRentOwnerUnit - netCost

	downPayment := p.PurchasePrice * p.FHADownPaymentPct
	closing := p.PurchasePrice * p.ClosingCostsPct
	invested := downPayment + closing

	r := &HouseHackResult{
		LoanAmount:          roundCents(loan),
		MonthlyPI:           roundCents(pi),
		MonthlyMIP:          roundCents(mip),
		MonthlyEscrow:       roundCents(escrow),
		TotalMonthlyPayment: roundCents(totalPayment),
		RoomIncome:          roundCents(roomIncome),
		MaintenanceReserve:  roundCents(reserve),
		NetHousingCost:      roundCents(netCost),
		MonthlySavings:      roundCents(savings),
		AnnualSavings:       roundCents(savings * 12),
		DownPayment:         roundCents(downPayment),
		ClosingCosts:        roundCents(closing),
		TotalCashInvested:   roundCents(invested),
		LivesForFree:        netCost <= 0,
	}

	if invested > 0 {
		r.SavingsReturn = roundRate(savings * 12 / invested)
	}

	return r, nil
}
