// Package model defines the core data structures for the dealiq-engine.
package model

import (
	"time"

	"github.com/yourorg/dealiq-engine/internal/types"
)

// PropertyFacts holds the raw, externally-sourced facts about a property.
// This is the core input structure that flows into the valuation pipeline.
// Optional fields are pointers: nil means the data source had no opinion,
// which is distinct from an explicit zero.
type PropertyFacts struct {
	// PropertyID is the unique identifier of the property record
	PropertyID string `json:"property_id"`

	// Address in a single display line, informational only
	Address string `json:"address,omitempty"`

	// IsListed indicates whether the property is actively listed for sale
	IsListed bool `json:"is_listed"`

	// ListPrice is the current asking price, if listed
	ListPrice *float64 `json:"list_price,omitempty"`

	// Zestimate is the consumer-facing automated estimate, if available
	Zestimate *float64 `json:"zestimate,omitempty"`

	// CurrentValueAVM is the provider AVM value estimate, if available
	CurrentValueAVM *float64 `json:"current_value_avm,omitempty"`

	// TaxAssessedValue is the county assessed value, if available
	TaxAssessedValue *float64 `json:"tax_assessed_value,omitempty"`

	// MonthlyRent is the point rent estimate, if the provider supplies one
	MonthlyRent *float64 `json:"monthly_rent,omitempty"`

	// ADR is the average daily rate for short-term rental analysis
	ADR *float64 `json:"adr,omitempty"`

	// OccupancyRate is the short-term rental occupancy as a fraction
	OccupancyRate *float64 `json:"occupancy_rate,omitempty"`

	// PropertyTaxesAnnual is the annual property tax bill
	PropertyTaxesAnnual *float64 `json:"property_taxes_annual,omitempty"`

	// InsuranceAnnual is the known annual insurance premium, if any
	InsuranceAnnual *float64 `json:"insurance_annual,omitempty"`

	// HOAMonthly is the monthly homeowners association fee, if any
	HOAMonthly *float64 `json:"hoa_monthly,omitempty"`

	// ARV is the after-repair value estimate, if available
	ARV *float64 `json:"arv,omitempty"`

	// SquareFootage of the living area
	SquareFootage *float64 `json:"square_footage,omitempty"`

	// Bedrooms count, used for house-hack room income
	Bedrooms *int `json:"bedrooms,omitempty"`

	// Listing signals used for seller-motivation scoring
	Status              types.ListingStatus `json:"status"`
	DaysOnMarket        int                 `json:"days_on_market"`
	PriceReductionCount int                 `json:"price_reduction_count"`
	IsFSBO              bool                `json:"is_fsbo"`
	IsForeclosure       bool                `json:"is_foreclosure"`

	// MarketTemperature of the local market, from the market-data feed
	MarketTemperature types.MarketTemperature `json:"market_temperature"`

	// Provider is the identifier of the data source that produced these facts
	Provider string `json:"provider,omitempty"`

	// CollectedAt is the Unix timestamp when these facts were collected
	CollectedAt int64 `json:"collected_at,omitempty"`
}

// RentComp is a single comparable rental listing used to derive a rent
// estimate when the provider does not supply a point estimate.
type RentComp struct {
	// Provider is the data source that supplied this comparable
	Provider string `json:"provider"`

	// MonthlyRent is the asking or closed rent of the comparable
	MonthlyRent float64 `json:"monthly_rent"`

	// SquareFootage of the comparable
	SquareFootage float64 `json:"square_footage"`

	// DistanceMiles from the subject property
	DistanceMiles float64 `json:"distance_miles"`

	// DaysOld is the age of the comparable listing in days
	DaysOld int `json:"days_old"`

	// Correlation is the provider-reported similarity score in [0,1], if any
	Correlation float64 `json:"correlation,omitempty"`
}

// NewPropertyFacts creates a facts record stamped with the current time.
func NewPropertyFacts(propertyID, provider string) PropertyFacts {
	return PropertyFacts{
		PropertyID:        propertyID,
		Provider:          provider,
		Status:            types.StatusUnknown,
		MarketTemperature: types.MarketNeutral,
		CollectedAt:       time.Now().Unix(),
	}
}

// Float returns the value of an optional field, or the fallback when unset.
func Float(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

// FloatPtr is a convenience constructor for optional numeric fields.
func FloatPtr(v float64) *float64 {
	return &v
}
