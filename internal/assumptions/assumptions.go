// Package assumptions resolves the layered assumption configuration that
// feeds every calculator: hard-coded schema defaults, admin-configured
// defaults looked up externally, and per-request user overrides, highest
// layer winning field by field.
//
// This package is the only bridge between persisted configuration and the
// pure calculation packages. Calculators receive fully-populated parameter
// structs built here and never read defaults themselves.
package assumptions

// AllAssumptions is a fully-populated assumption set. Every rate is a
// fraction in [0,1] unless documented otherwise; every dollar amount is
// non-negative.
type AllAssumptions struct {
	Financing Financing `json:"financing" yaml:"financing"`
	Operating Operating `json:"operating" yaml:"operating"`
	STR       STR       `json:"str_assumptions" yaml:"str_assumptions"`
	Rehab     Rehab     `json:"rehab" yaml:"rehab"`
	BRRRR     BRRRR     `json:"brrrr" yaml:"brrrr"`
	Flip      Flip      `json:"flip" yaml:"flip"`
	HouseHack HouseHack `json:"house_hack" yaml:"house_hack"`
	Wholesale Wholesale `json:"wholesale" yaml:"wholesale"`
	Valuation Valuation `json:"valuation" yaml:"valuation"`

	AppreciationRate  float64 `json:"appreciation_rate" yaml:"appreciation_rate"`
	RentGrowthRate    float64 `json:"rent_growth_rate" yaml:"rent_growth_rate"`
	ExpenseGrowthRate float64 `json:"expense_growth_rate" yaml:"expense_growth_rate"`
}

// Financing holds conventional loan parameters.
type Financing struct {
	DownPaymentPct  float64 `json:"down_payment_pct" yaml:"down_payment_pct"`
	InterestRate    float64 `json:"interest_rate" yaml:"interest_rate"`
	LoanTermYears   int     `json:"loan_term_years" yaml:"loan_term_years"`
	ClosingCostsPct float64 `json:"closing_costs_pct" yaml:"closing_costs_pct"`
}

// Operating holds long-term rental operating parameters.
type Operating struct {
	VacancyRate        float64 `json:"vacancy_rate" yaml:"vacancy_rate"`
	ManagementPct      float64 `json:"management_pct" yaml:"management_pct"`
	MaintenancePct     float64 `json:"maintenance_pct" yaml:"maintenance_pct"`
	InsurancePct       float64 `json:"insurance_pct" yaml:"insurance_pct"`
	PropertyTaxPct     float64 `json:"property_tax_pct" yaml:"property_tax_pct"`
	UtilitiesMonthly   float64 `json:"utilities_monthly" yaml:"utilities_monthly"`
	LandscapingMonthly float64 `json:"landscaping_monthly" yaml:"landscaping_monthly"`
	PestControlMonthly float64 `json:"pest_control_monthly" yaml:"pest_control_monthly"`
}

// STR holds short-term rental parameters.
type STR struct {
	PlatformFeePct      float64 `json:"platform_fee_pct" yaml:"platform_fee_pct"`
	ManagementPct       float64 `json:"management_pct" yaml:"management_pct"`
	OccupancyRate       float64 `json:"occupancy_rate" yaml:"occupancy_rate"`
	CleaningCostPerStay float64 `json:"cleaning_cost_per_stay" yaml:"cleaning_cost_per_stay"`
	CleaningFeePerStay  float64 `json:"cleaning_fee_per_stay" yaml:"cleaning_fee_per_stay"`
	AvgStayNights       float64 `json:"avg_stay_nights" yaml:"avg_stay_nights"`
	SuppliesMonthly     float64 `json:"supplies_monthly" yaml:"supplies_monthly"`
	UtilitiesMonthly    float64 `json:"utilities_monthly" yaml:"utilities_monthly"`
	FurnitureCost       float64 `json:"furniture_cost" yaml:"furniture_cost"`
	InsurancePct        float64 `json:"insurance_pct" yaml:"insurance_pct"`
}

// Rehab holds renovation parameters shared by BRRRR and Flip.
type Rehab struct {
	RenovationBudgetPct float64 `json:"renovation_budget_pct" yaml:"renovation_budget_pct"`
	ContingencyPct      float64 `json:"contingency_pct" yaml:"contingency_pct"`
	HoldingPeriodMonths int     `json:"holding_period_months" yaml:"holding_period_months"`
	HoldingCostMonthly  float64 `json:"holding_cost_monthly" yaml:"holding_cost_monthly"`
}

// BRRRR holds buy-rehab-rent-refinance parameters.
type BRRRR struct {
	PurchaseDiscountPct float64 `json:"purchase_discount_pct" yaml:"purchase_discount_pct"`
	DownPaymentPct      float64 `json:"down_payment_pct" yaml:"down_payment_pct"`
	AcquisitionRate     float64 `json:"acquisition_rate" yaml:"acquisition_rate"`
	RefinanceLTV        float64 `json:"refinance_ltv" yaml:"refinance_ltv"`
	RefinanceRate       float64 `json:"refinance_rate" yaml:"refinance_rate"`
	RefinanceTermYears  int     `json:"refinance_term_years" yaml:"refinance_term_years"`
	RefinanceClosingPct float64 `json:"refinance_closing_pct" yaml:"refinance_closing_pct"`
}

// Flip holds fix-and-flip parameters.
type Flip struct {
	PurchaseDiscountPct float64 `json:"purchase_discount_pct" yaml:"purchase_discount_pct"`
	HardMoneyLTV        float64 `json:"hard_money_ltv" yaml:"hard_money_ltv"`
	HardMoneyRate       float64 `json:"hard_money_rate" yaml:"hard_money_rate"`
	SellingCostsPct     float64 `json:"selling_costs_pct" yaml:"selling_costs_pct"`
}

// HouseHack holds owner-occupied FHA parameters.
type HouseHack struct {
	DownPaymentPct float64 `json:"down_payment_pct" yaml:"down_payment_pct"`
	MIPAnnualPct   float64 `json:"mip_annual_pct" yaml:"mip_annual_pct"`
	RentPerRoom    float64 `json:"rent_per_room" yaml:"rent_per_room"`
	MaintenancePct float64 `json:"maintenance_pct" yaml:"maintenance_pct"`
}

// Wholesale holds wholesale assignment parameters.
type Wholesale struct {
	ARVDiscountPct float64 `json:"arv_discount_pct" yaml:"arv_discount_pct"`
	AssignmentFee  float64 `json:"assignment_fee" yaml:"assignment_fee"`
	MarketingCosts float64 `json:"marketing_costs" yaml:"marketing_costs"`
	EarnestMoney   float64 `json:"earnest_money" yaml:"earnest_money"`
}

// Valuation holds target-buy parameters.
type Valuation struct {
	BuyDiscountPct float64 `json:"buy_discount_pct" yaml:"buy_discount_pct"`
}

// SchemaDefaults returns the hard-coded last-resort assumption set, used when
// neither admin defaults nor user overrides supply a value.
func SchemaDefaults() AllAssumptions {
	return AllAssumptions{
		Financing: Financing{
			DownPaymentPct:  0.20,
			InterestRate:    0.07,
			LoanTermYears:   30,
			ClosingCostsPct: 0.03,
		},
		Operating: Operating{
			VacancyRate:    0.05,
			ManagementPct:  0.08,
			MaintenancePct: 0.05,
			InsurancePct:   0.005,
			PropertyTaxPct: 0.011,
		},
		STR: STR{
			PlatformFeePct:      0.03,
			ManagementPct:       0.20,
			OccupancyRate:       0.65,
			CleaningCostPerStay: 110,
			CleaningFeePerStay:  90,
			AvgStayNights:       3,
			SuppliesMonthly:     150,
			UtilitiesMonthly:    250,
			FurnitureCost:       20000,
			InsurancePct:        0.008,
		},
		Rehab: Rehab{
			RenovationBudgetPct: 0.10,
			ContingencyPct:      0.10,
			HoldingPeriodMonths: 6,
			HoldingCostMonthly:  1200,
		},
		BRRRR: BRRRR{
			PurchaseDiscountPct: 0.20,
			DownPaymentPct:      0.15,
			AcquisitionRate:     0.10,
			RefinanceLTV:        0.75,
			RefinanceRate:       0.065,
			RefinanceTermYears:  30,
			RefinanceClosingPct: 0.02,
		},
		Flip: Flip{
			PurchaseDiscountPct: 0.25,
			HardMoneyLTV:        0.85,
			HardMoneyRate:       0.12,
			SellingCostsPct:     0.07,
		},
		HouseHack: HouseHack{
			DownPaymentPct: 0.035,
			MIPAnnualPct:   0.0085,
			RentPerRoom:    700,
			MaintenancePct: 0.05,
		},
		Wholesale: Wholesale{
			ARVDiscountPct: 0.30,
			AssignmentFee:  10000,
			MarketingCosts: 1500,
			EarnestMoney:   1000,
		},
		Valuation: Valuation{
			BuyDiscountPct: 0.10,
		},
		AppreciationRate:  0.03,
		RentGrowthRate:    0.025,
		ExpenseGrowthRate: 0.02,
	}
}
