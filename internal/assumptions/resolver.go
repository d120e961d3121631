package assumptions

// Overrides is a sparse assumption set: every field is a pointer, and nil
// means "no opinion", never "reset to zero". Both the admin-defaults record
// and per-request user overrides use this shape.
type Overrides struct {
	Financing *FinancingOverrides `json:"financing,omitempty" yaml:"financing,omitempty"`
	Operating *OperatingOverrides `json:"operating,omitempty" yaml:"operating,omitempty"`
	STR       *STROverrides       `json:"str_assumptions,omitempty" yaml:"str_assumptions,omitempty"`
	Rehab     *RehabOverrides     `json:"rehab,omitempty" yaml:"rehab,omitempty"`
	BRRRR     *BRRRROverrides     `json:"brrrr,omitempty" yaml:"brrrr,omitempty"`
	Flip      *FlipOverrides      `json:"flip,omitempty" yaml:"flip,omitempty"`
	HouseHack *HouseHackOverrides `json:"house_hack,omitempty" yaml:"house_hack,omitempty"`
	Wholesale *WholesaleOverrides `json:"wholesale,omitempty" yaml:"wholesale,omitempty"`
	Valuation *ValuationOverrides `json:"valuation,omitempty" yaml:"valuation,omitempty"`

	AppreciationRate  *float64 `json:"appreciation_rate,omitempty" yaml:"appreciation_rate,omitempty"`
	RentGrowthRate    *float64 `json:"rent_growth_rate,omitempty" yaml:"rent_growth_rate,omitempty"`
	ExpenseGrowthRate *float64 `json:"expense_growth_rate,omitempty" yaml:"expense_growth_rate,omitempty"`
}

// FinancingOverrides mirrors Financing with optional fields.
type FinancingOverrides struct {
	DownPaymentPct  *float64 `json:"down_payment_pct,omitempty" yaml:"down_payment_pct,omitempty"`
	InterestRate    *float64 `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty"`
	LoanTermYears   *int     `json:"loan_term_years,omitempty" yaml:"loan_term_years,omitempty"`
	ClosingCostsPct *float64 `json:"closing_costs_pct,omitempty" yaml:"closing_costs_pct,omitempty"`
}

// OperatingOverrides mirrors Operating with optional fields.
type OperatingOverrides struct {
	VacancyRate        *float64 `json:"vacancy_rate,omitempty" yaml:"vacancy_rate,omitempty"`
	ManagementPct      *float64 `json:"management_pct,omitempty" yaml:"management_pct,omitempty"`
	MaintenancePct     *float64 `json:"maintenance_pct,omitempty" yaml:"maintenance_pct,omitempty"`
	InsurancePct       *float64 `json:"insurance_pct,omitempty" yaml:"insurance_pct,omitempty"`
	PropertyTaxPct     *float64 `json:"property_tax_pct,omitempty" yaml:"property_tax_pct,omitempty"`
	UtilitiesMonthly   *float64 `json:"utilities_monthly,omitempty" yaml:"utilities_monthly,omitempty"`
	LandscapingMonthly *float64 `json:"landscaping_monthly,omitempty" yaml:"landscaping_monthly,omitempty"`
	PestControlMonthly *float64 `json:"pest_control_monthly,omitempty" yaml:"pest_control_monthly,omitempty"`
}

// STROverrides mirrors STR with optional fields.
type STROverrides struct {
	PlatformFeePct      *float64 `json:"platform_fee_pct,omitempty" yaml:"platform_fee_pct,omitempty"`
	ManagementPct       *float64 `json:"management_pct,omitempty" yaml:"management_pct,omitempty"`
	OccupancyRate       *float64 `json:"occupancy_rate,omitempty" yaml:"occupancy_rate,omitempty"`
	CleaningCostPerStay *float64 `json:"cleaning_cost_per_stay,omitempty" yaml:"cleaning_cost_per_stay,omitempty"`
	CleaningFeePerStay  *float64 `json:"cleaning_fee_per_stay,omitempty" yaml:"cleaning_fee_per_stay,omitempty"`
	AvgStayNights       *float64 `json:"avg_stay_nights,omitempty" yaml:"avg_stay_nights,omitempty"`
	SuppliesMonthly     *float64 `json:"supplies_monthly,omitempty" yaml:"supplies_monthly,omitempty"`
	UtilitiesMonthly    *float64 `json:"utilities_monthly,omitempty" yaml:"utilities_monthly,omitempty"`
	FurnitureCost       *float64 `json:"furniture_cost,omitempty" yaml:"furniture_cost,omitempty"`
	InsurancePct        *float64 `json:"insurance_pct,omitempty" yaml:"insurance_pct,omitempty"`
}

// RehabOverrides mirrors Rehab with optional fields.
type RehabOverrides struct {
	RenovationBudgetPct *float64 `json:"renovation_budget_pct,omitempty" yaml:"renovation_budget_pct,omitempty"`
	ContingencyPct      *float64 `json:"contingency_pct,omitempty" yaml:"contingency_pct,omitempty"`
	HoldingPeriodMonths *int     `json:"holding_period_months,omitempty" yaml:"holding_period_months,omitempty"`
	HoldingCostMonthly  *float64 `json:"holding_cost_monthly,omitempty" yaml:"holding_cost_monthly,omitempty"`
}

// BRRRROverrides mirrors BRRRR with optional fields.
type BRRRROverrides struct {
	PurchaseDiscountPct *float64 `json:"purchase_discount_pct,omitempty" yaml:"purchase_discount_pct,omitempty"`
	DownPaymentPct      *float64 `json:"down_payment_pct,omitempty" yaml:"down_payment_pct,omitempty"`
	AcquisitionRate     *float64 `json:"acquisition_rate,omitempty" yaml:"acquisition_rate,omitempty"`
	RefinanceLTV        *float64 `json:"refinance_ltv,omitempty" yaml:"refinance_ltv,omitempty"`
	RefinanceRate       *float64 `json:"refinance_rate,omitempty" yaml:"refinance_rate,omitempty"`
	RefinanceTermYears  *int     `json:"refinance_term_years,omitempty" yaml:"refinance_term_years,omitempty"`
	RefinanceClosingPct *float64 `json:"refinance_closing_pct,omitempty" yaml:"refinance_closing_pct,omitempty"`
}

// FlipOverrides mirrors Flip with optional fields.
type FlipOverrides struct {
	PurchaseDiscountPct *float64 `json:"purchase_discount_pct,omitempty" yaml:"purchase_discount_pct,omitempty"`
	HardMoneyLTV        *float64 `json:"hard_money_ltv,omitempty" yaml:"hard_money_ltv,omitempty"`
	HardMoneyRate       *float64 `json:"hard_money_rate,omitempty" yaml:"hard_money_rate,omitempty"`
	SellingCostsPct     *float64 `json:"selling_costs_pct,omitempty" yaml:"selling_costs_pct,omitempty"`
}

// HouseHackOverrides mirrors HouseHack with optional fields.
type HouseHackOverrides struct {
	DownPaymentPct *float64 `json:"down_payment_pct,omitempty" yaml:"down_payment_pct,omitempty"`
	MIPAnnualPct   *float64 `json:"mip_annual_pct,omitempty" yaml:"mip_annual_pct,omitempty"`
	RentPerRoom    *float64 `json:"rent_per_room,omitempty" yaml:"rent_per_room,omitempty"`
	MaintenancePct *float64 `json:"maintenance_pct,omitempty" yaml:"maintenance_pct,omitempty"`
}

// WholesaleOverrides mirrors Wholesale with optional fields.
type WholesaleOverrides struct {
	ARVDiscountPct *float64 `json:"arv_discount_pct,omitempty" yaml:"arv_discount_pct,omitempty"`
	AssignmentFee  *float64 `json:"assignment_fee,omitempty" yaml:"assignment_fee,omitempty"`
	MarketingCosts *float64 `json:"marketing_costs,omitempty" yaml:"marketing_costs,omitempty"`
	EarnestMoney   *float64 `json:"earnest_money,omitempty" yaml:"earnest_money,omitempty"`
}

// ValuationOverrides mirrors Valuation with optional fields.
type ValuationOverrides struct {
	BuyDiscountPct *float64 `json:"buy_discount_pct,omitempty" yaml:"buy_discount_pct,omitempty"`
}

// Resolve merges the three assumption layers into one fully-populated set.
// Priority, highest wins: user overrides, then admin defaults, then schema
// defaults. The merge is recursive and key-by-key: overriding one field of a
// group never clobbers its siblings. Either layer may be nil.
func Resolve(admin, user *Overrides) AllAssumptions {
	resolved := SchemaDefaults()
	apply(&resolved, admin)
	apply(&resolved, user)
	return resolved
}

// apply copies every non-nil override field onto the resolved set.
func apply(a *AllAssumptions, o *Overrides) {
	if o == nil {
		return
	}

	if f := o.Financing; f != nil {
		setFloat(&a.Financing.DownPaymentPct, f.DownPaymentPct)
		setFloat(&a.Financing.InterestRate, f.InterestRate)
		setInt(&a.Financing.LoanTermYears, f.LoanTermYears)
		setFloat(&a.Financing.ClosingCostsPct, f.ClosingCostsPct)
	}

	if op := o.Operating; op != nil {
		setFloat(&a.Operating.VacancyRate, op.VacancyRate)
		setFloat(&a.Operating.ManagementPct, op.ManagementPct)
		setFloat(&a.Operating.MaintenancePct, op.MaintenancePct)
		setFloat(&a.Operating.InsurancePct, op.InsurancePct)
		setFloat(&a.Operating.PropertyTaxPct, op.PropertyTaxPct)
		setFloat(&a.Operating.UtilitiesMonthly, op.UtilitiesMonthly)
		setFloat(&a.Operating.LandscapingMonthly, op.LandscapingMonthly)
		setFloat(&a.Operating.PestControlMonthly, op.PestControlMonthly)
	}

	if s := o.STR; s != nil {
		setFloat(&a.STR.PlatformFeePct, s.PlatformFeePct)
		setFloat(&a.STR.ManagementPct, s.ManagementPct)
		setFloat(&a.STR.OccupancyRate, s.OccupancyRate)
		setFloat(&a.STR.CleaningCostPerStay, s.CleaningCostPerStay)
		setFloat(&a.STR.CleaningFeePerStay, s.CleaningFeePerStay)
		setFloat(&a.STR.AvgStayNights, s.AvgStayNights)
		setFloat(&a.STR.SuppliesMonthly, s.SuppliesMonthly)
		setFloat(&a.STR.UtilitiesMonthly, s.UtilitiesMonthly)
		setFloat(&a.STR.FurnitureCost, s.FurnitureCost)
		setFloat(&a.STR.InsurancePct, s.InsurancePct)
	}

	if r := o.Rehab; r != nil {
		setFloat(&a.Rehab.RenovationBudgetPct, r.RenovationBudgetPct)
		setFloat(&a.Rehab.ContingencyPct, r.ContingencyPct)
		setInt(&a.Rehab.HoldingPeriodMonths, r.HoldingPeriodMonths)
		setFloat(&a.Rehab.HoldingCostMonthly, r.HoldingCostMonthly)
	}

	if b := o.BRRRR; b != nil {
		setFloat(&a.BRRRR.PurchaseDiscountPct, b.PurchaseDiscountPct)
		setFloat(&a.BRRRR.DownPaymentPct, b.DownPaymentPct)
		setFloat(&a.BRRRR.AcquisitionRate, b.AcquisitionRate)
		setFloat(&a.BRRRR.RefinanceLTV, b.RefinanceLTV)
		setFloat(&a.BRRRR.RefinanceRate, b.RefinanceRate)
		setInt(&a.BRRRR.RefinanceTermYears, b.RefinanceTermYears)
		setFloat(&a.BRRRR.RefinanceClosingPct, b.RefinanceClosingPct)
	}

	if f := o.Flip; f != nil {
		setFloat(&a.Flip.PurchaseDiscountPct, f.PurchaseDiscountPct)
		setFloat(&a.Flip.HardMoneyLTV, f.HardMoneyLTV)
		setFloat(&a.Flip.HardMoneyRate, f.HardMoneyRate)
		setFloat(&a.Flip.SellingCostsPct, f.SellingCostsPct)
	}

	if h := o.HouseHack; h != nil {
		setFloat(&a.HouseHack.DownPaymentPct, h.DownPaymentPct)
		setFloat(&a.HouseHack.MIPAnnualPct, h.MIPAnnualPct)
		setFloat(&a.HouseHack.RentPerRoom, h.RentPerRoom)
		setFloat(&a.HouseHack.MaintenancePct, h.MaintenancePct)
	}

	if w := o.Wholesale; w != nil {
		setFloat(&a.Wholesale.ARVDiscountPct, w.ARVDiscountPct)
		setFloat(&a.Wholesale.AssignmentFee, w.AssignmentFee)
		setFloat(&a.Wholesale.MarketingCosts, w.MarketingCosts)
		setFloat(&a.Wholesale.EarnestMoney, w.EarnestMoney)
	}

	if v := o.Valuation; v != nil {
		setFloat(&a.Valuation.BuyDiscountPct, v.BuyDiscountPct)
	}

	setFloat(&a.AppreciationRate, o.AppreciationRate)
	setFloat(&a.RentGrowthRate, o.RentGrowthRate)
	setFloat(&a.ExpenseGrowthRate, o.ExpenseGrowthRate)
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
