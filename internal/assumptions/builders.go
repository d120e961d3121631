package assumptions

import (
	"github.com/yourorg/dealiq-engine/internal/calc"
	"github.com/yourorg/dealiq-engine/internal/model"
	"github.com/yourorg/dealiq-engine/internal/valuation"
)

// Per-strategy parameter builders. Each extracts the exact flat inputs one
// calculator needs from the resolved assumption set and the property facts,
// applying one derivation rule throughout: a derived dollar value that the
// facts do not supply is computed as base_value * pct_rate (e.g. annual
// insurance as purchase price times the insurance percentage).

// derivedDollar returns the explicit value when the facts carry one,
// otherwise base * pct.
func derivedDollar(explicit *float64, base, pct float64) float64 {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	return base * pct
}

// BuildLTRParams assembles long-term rental inputs for a given purchase price.
func BuildLTRParams(a AllAssumptions, facts model.PropertyFacts, purchasePrice float64) calc.LTRParams {
	return calc.LTRParams{
		PurchasePrice:       purchasePrice,
		MonthlyRent:         model.Float(facts.MonthlyRent, 0),
		DownPaymentPct:      a.Financing.DownPaymentPct,
		InterestRate:        a.Financing.InterestRate,
		LoanTermYears:       a.Financing.LoanTermYears,
		ClosingCostsPct:     a.Financing.ClosingCostsPct,
		PropertyTaxesAnnual: derivedDollar(facts.PropertyTaxesAnnual, purchasePrice, a.Operating.PropertyTaxPct),
		InsuranceAnnual:     derivedDollar(facts.InsuranceAnnual, purchasePrice, a.Operating.InsurancePct),
		VacancyRate:         a.Operating.VacancyRate,
		ManagementPct:       a.Operating.ManagementPct,
		MaintenancePct:      a.Operating.MaintenancePct,
		UtilitiesMonthly:    a.Operating.UtilitiesMonthly,
		LandscapingMonthly:  a.Operating.LandscapingMonthly,
		PestControlMonthly:  a.Operating.PestControlMonthly,
		HOAMonthly:          model.Float(facts.HOAMonthly, 0),
	}
}

// BuildSTRParams assembles short-term rental inputs. Occupancy from the facts
// wins over the assumption default.
func BuildSTRParams(a AllAssumptions, facts model.PropertyFacts, purchasePrice float64) calc.STRParams {
	return calc.STRParams{
		PurchasePrice:       purchasePrice,
		ADR:                 model.Float(facts.ADR, 0),
		OccupancyRate:       model.Float(facts.OccupancyRate, a.STR.OccupancyRate),
		DownPaymentPct:      a.Financing.DownPaymentPct,
		InterestRate:        a.Financing.InterestRate,
		LoanTermYears:       a.Financing.LoanTermYears,
		ClosingCostsPct:     a.Financing.ClosingCostsPct,
		PropertyTaxesAnnual: derivedDollar(facts.PropertyTaxesAnnual, purchasePrice, a.Operating.PropertyTaxPct),
		InsuranceAnnual:     derivedDollar(nil, purchasePrice, a.STR.InsurancePct),
		PlatformFeePct:      a.STR.PlatformFeePct,
		ManagementPct:       a.STR.ManagementPct,
		CleaningCostPerStay: a.STR.CleaningCostPerStay,
		CleaningFeePerStay:  a.STR.CleaningFeePerStay,
		AvgStayNights:       a.STR.AvgStayNights,
		SuppliesMonthly:     a.STR.SuppliesMonthly,
		UtilitiesMonthly:    a.STR.UtilitiesMonthly,
		FurnitureCost:       a.STR.FurnitureCost,
	}
}

// BuildBRRRRParams assembles two-phase BRRRR inputs against the market price.
func BuildBRRRRParams(a AllAssumptions, facts model.PropertyFacts, marketPrice float64) calc.BRRRRParams {
	arv := model.Float(facts.ARV, marketPrice)
	return calc.BRRRRParams{
		MarketValue:          marketPrice,
		PurchaseDiscountPct:  a.BRRRR.PurchaseDiscountPct,
		DownPaymentPct:       a.BRRRR.DownPaymentPct,
		AcquisitionRate:      a.BRRRR.AcquisitionRate,
		AcquisitionTermYears: a.Financing.LoanTermYears,
		ClosingCostsPct:      a.Financing.ClosingCostsPct,
		RenovationBudget:     marketPrice * a.Rehab.RenovationBudgetPct,
		ContingencyPct:       a.Rehab.ContingencyPct,
		HoldingPeriodMonths:  a.Rehab.HoldingPeriodMonths,
		HoldingCostMonthly:   a.Rehab.HoldingCostMonthly,
		ARV:                  arv,
		RefinanceLTV:         a.BRRRR.RefinanceLTV,
		RefinanceRate:        a.BRRRR.RefinanceRate,
		RefinanceTermYears:   a.BRRRR.RefinanceTermYears,
		RefinanceClosingPct:  a.BRRRR.RefinanceClosingPct,
		MonthlyRent:          model.Float(facts.MonthlyRent, 0),
		VacancyRate:          a.Operating.VacancyRate,
		ManagementPct:        a.Operating.ManagementPct,
		MaintenancePct:       a.Operating.MaintenancePct,
		PropertyTaxesAnnual:  derivedDollar(facts.PropertyTaxesAnnual, marketPrice, a.Operating.PropertyTaxPct),
		InsuranceAnnual:      derivedDollar(facts.InsuranceAnnual, marketPrice, a.Operating.InsurancePct),
	}
}

// BuildFlipParams assembles fix-and-flip inputs.
func BuildFlipParams(a AllAssumptions, facts model.PropertyFacts, marketPrice float64) calc.FlipParams {
	arv := model.Float(facts.ARV, marketPrice)
	return calc.FlipParams{
		ARV:                 arv,
		PurchaseDiscountPct: a.Flip.PurchaseDiscountPct,
		ClosingCostsPct:     a.Financing.ClosingCostsPct,
		RenovationBudget:    marketPrice * a.Rehab.RenovationBudgetPct,
		ContingencyPct:      a.Rehab.ContingencyPct,
		HoldingPeriodMonths: a.Rehab.HoldingPeriodMonths,
		HoldingCostMonthly:  a.Rehab.HoldingCostMonthly,
		HardMoneyLTV:        a.Flip.HardMoneyLTV,
		HardMoneyRate:       a.Flip.HardMoneyRate,
		SellingCostsPct:     a.Flip.SellingCostsPct,
	}
}

// BuildHouseHackParams assembles owner-occupied house-hack inputs. Rooms
// rented is bedrooms minus the owner's; market rent for the owner's unit
// falls back to the whole-property rent estimate.
func BuildHouseHackParams(a AllAssumptions, facts model.PropertyFacts, purchasePrice float64) calc.HouseHackParams {
	rooms := 0
	if facts.Bedrooms != nil && *facts.Bedrooms > 1 {
		rooms = *facts.Bedrooms - 1
	}
	return calc.HouseHackParams{
		PurchasePrice:       purchasePrice,
		FHADownPaymentPct:   a.HouseHack.DownPaymentPct,
		InterestRate:        a.Financing.InterestRate,
		LoanTermYears:       a.Financing.LoanTermYears,
		MIPAnnualPct:        a.HouseHack.MIPAnnualPct,
		ClosingCostsPct:     a.Financing.ClosingCostsPct,
		PropertyTaxesAnnual: derivedDollar(facts.PropertyTaxesAnnual, purchasePrice, a.Operating.PropertyTaxPct),
		InsuranceAnnual:     derivedDollar(facts.InsuranceAnnual, purchasePrice, a.Operating.InsurancePct),
		UtilitiesMonthly:    a.Operating.UtilitiesMonthly,
		MaintenancePct:      a.HouseHack.MaintenancePct,
		RoomsRented:         rooms,
		RentPerRoom:         a.HouseHack.RentPerRoom,
		MarketRentOwnerUnit: model.Float(facts.MonthlyRent, 0),
	}
}

// BuildWholesaleParams assembles wholesale assignment inputs.
func BuildWholesaleParams(a AllAssumptions, facts model.PropertyFacts, marketPrice float64) calc.WholesaleParams {
	arv := model.Float(facts.ARV, marketPrice)
	return calc.WholesaleParams{
		ARV:                 arv,
		ARVDiscountPct:      a.Wholesale.ARVDiscountPct,
		EstimatedRehabCosts: marketPrice * a.Rehab.RenovationBudgetPct,
		AssignmentFee:       a.Wholesale.AssignmentFee,
		MarketingCosts:      a.Wholesale.MarketingCosts,
		EarnestMoney:        a.Wholesale.EarnestMoney,
	}
}

// BuildValuationParams assembles the income-value inputs shared by the
// breakeven and target-buy formulas.
func BuildValuationParams(a AllAssumptions, facts model.PropertyFacts, marketPrice float64) valuation.IncomeValueInputs {
	taxes := derivedDollar(facts.PropertyTaxesAnnual, marketPrice, a.Operating.PropertyTaxPct)
	insurance := derivedDollar(facts.InsuranceAnnual, marketPrice, a.Operating.InsurancePct)
	return valuation.IncomeValueInputs{
		MonthlyRent:         facts.MonthlyRent,
		PropertyTaxesAnnual: &taxes,
		InsuranceAnnual:     &insurance,
		DownPaymentPct:      a.Financing.DownPaymentPct,
		InterestRate:        a.Financing.InterestRate,
		LoanTermYears:       a.Financing.LoanTermYears,
		VacancyRate:         a.Operating.VacancyRate,
		MaintenancePct:      a.Operating.MaintenancePct,
		ManagementPct:       a.Operating.ManagementPct,
	}
}
