package calc

// DefaultARVDiscountPct is the discount off ARV used by the 70% rule when no
// override is supplied.
const DefaultARVDiscountPct = 0.30

// WholesaleParams holds the inputs for a wholesale assignment analysis.
type WholesaleParams struct {
	ARV                 float64
	ARVDiscountPct      float64 // zero means use DefaultARVDiscountPct
	EstimatedRehabCosts float64
	AssignmentFee       float64
	MarketingCosts      float64
	EarnestMoney        float64
}

// WholesaleResult holds the wholesale metrics.
type WholesaleResult struct {
	SeventyPctMaxOffer float64 `json:"seventy_pct_max_offer"`
	ARVDiscountPct     float64 `json:"arv_discount_pct"`
	AssignmentFee      float64 `json:"assignment_fee"`
	MarketingCosts     float64 `json:"marketing_costs"`
	EarnestMoney       float64 `json:"earnest_money"`
	CapitalAtRisk      float64 `json:"capital_at_risk"`
	NetProfit          float64 `json:"net_profit"`
	ROI                float64 `json:"roi"`
}

// Wholesale analyzes a wholesale assignment using the 70% rule: maximum
// offer = ARV x (1 - discount) - estimated rehab. Earnest money and marketing
// spend are the capital at risk against the assignment fee.
func Wholesale(p WholesaleParams) (*WholesaleResult, error) {
	if err := validatePrice("After-repair value", p.ARV); err != nil {
		return nil, err
	}
	if p.EstimatedRehabCosts < 0 {
		return nil, newInputError("Estimated rehab costs", p.EstimatedRehabCosts, "must not be negative")
	}

	discount := p.ARVDiscountPct
	if discount == 0 {
		discount = DefaultARVDiscountPct
	}

	maxOffer := p.ARV*(1-discount) - p.EstimatedRehabCosts
	atRisk := p.MarketingCosts + p.EarnestMoney
	netProfit := p.AssignmentFee - p.MarketingCosts - p.EarnestMoney

	r := &WholesaleResult{
		SeventyPctMaxOffer: roundCents(maxOffer),
		ARVDiscountPct:     roundRate(discount),
		AssignmentFee:      roundCents(p.AssignmentFee),
		MarketingCosts:     roundCents(p.MarketingCosts),
		EarnestMoney:       roundCents(p.EarnestMoney),
		CapitalAtRisk:      roundCents(atRisk),
		NetProfit:          roundCents(netProfit),
	}

	if atRisk > 0 {
		r.ROI = roundRate(netProfit / atRisk)
	}

	return r, nil
}
