package calc

// FlipParams holds the inputs for a fix-and-flip analysis.
type FlipParams struct {
	ARV                 float64
	PurchaseDiscountPct float64
	ClosingCostsPct     float64
	RenovationBudget    float64
	ContingencyPct      float64
	HoldingPeriodMonths int
	HoldingCostMonthly  float64
	HardMoneyLTV        float64
	HardMoneyRate       float64
	SellingCostsPct     float64
}

// FlipResult holds the fix-and-flip metrics.
type FlipResult struct {
	PurchasePrice      float64 `json:"purchase_price"`
	ClosingCosts       float64 `json:"closing_costs"`
	RehabTotal         float64 `json:"rehab_total"`
	HoldingCosts       float64 `json:"holding_costs"`
	HardMoneyLoan      float64 `json:"hard_money_loan"`
	FinancingCost      float64 `json:"financing_cost"`
	SellingCosts       float64 `json:"selling_costs"`
	TotalCosts         float64 `json:"total_costs"`
	SaleProceeds       float64 `json:"sale_proceeds"`
	NetProfitBeforeTax float64 `json:"net_profit_before_tax"`
	CashInvested       float64 `json:"cash_invested"`
	ROI                float64 `json:"roi"`
	AnnualizedROI      float64 `json:"annualized_roi"`
	Meets70Rule        bool    `json:"meets_70_rule"`
	ProfitMarginPct    float64 `json:"profit_margin_pct"`
}

// Flip analyzes a hard-money financed fix-and-flip: purchase at a discount
// off ARV, rehab with contingency, hold, then sell at ARV less selling costs.
func Flip(p FlipParams) (*FlipResult, error) {
	if err := validatePrice("After-repair value", p.ARV); err != nil {
		return nil, err
	}
	if err := validateRate("Hard money rate", p.HardMoneyRate); err != nil {
		return nil, err
	}

	purchase := p.ARV * (1 - p.PurchaseDiscountPct)
	closing := purchase * p.ClosingCostsPct
	rehab := p.RenovationBudget * (1 + p.ContingencyPct)
	holding := p.HoldingCostMonthly * float64(p.HoldingPeriodMonths)

	loan := purchase * p.HardMoneyLTV
	// Interest-only carry over the holding period
	financing := loan * p.HardMoneyRate * float64(p.HoldingPeriodMonths) / 12

	selling := p.ARV * p.SellingCostsPct

	totalCosts := purchase + closing + rehab + holding + financing + selling
	netProfit := p.ARV - totalCosts

	cashInvested := (purchase - loan) + closing + rehab + holding + financing

	r := &FlipResult{
		PurchasePrice:      roundCents(purchase),
		ClosingCosts:       roundCents(closing),
		RehabTotal:         roundCents(rehab),
		HoldingCosts:       roundCents(holding),
		HardMoneyLoan:      roundCents(loan),
		FinancingCost:      roundCents(financing),
		SellingCosts:       roundCents(selling),
		TotalCosts:         roundCents(totalCosts),
		SaleProceeds:       roundCents(p.ARV - selling),
		NetProfitBeforeTax: roundCents(netProfit),
		CashInvested:       roundCents(cashInvested),
		Meets70Rule:        purchase+rehab <= 0.70*p.ARV,
	}

	if cashInvested > 0 {
		r.ROI = roundRate(netProfit / cashInvested)
		if p.HoldingPeriodMonths > 0 {
			r.AnnualizedROI = roundRate(netProfit / cashInvested * 12 / float64(p.HoldingPeriodMonths))
		}
	}
	if p.ARV > 0 {
		r.ProfitMarginPct = roundRate(netProfit / p.ARV)
	}

	return r, nil
}
