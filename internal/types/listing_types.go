// Package types contains shared type definitions used across multiple packages
package types

// ListingStatus represents the market status of a property listing
type ListingStatus string

// Known listing statuses
const (
	StatusForSale   ListingStatus = "for_sale"
	StatusForRent   ListingStatus = "for_rent"
	StatusPending   ListingStatus = "pending"
	StatusSold      ListingStatus = "sold"
	StatusOffMarket ListingStatus = "off_market"
	StatusWithdrawn ListingStatus = "withdrawn"
	StatusAuction   ListingStatus = "auction"
	StatusBankOwned ListingStatus = "bank_owned"
	StatusUnknown   ListingStatus = "unknown"
)

// ParseListingStatus maps a provider status string to a known status,
// returning StatusUnknown for anything unrecognized.
func ParseListingStatus(s string) ListingStatus {
	switch ListingStatus(s) {
	case StatusForSale, StatusForRent, StatusPending, StatusSold,
		StatusOffMarket, StatusWithdrawn, StatusAuction, StatusBankOwned:
		return ListingStatus(s)
	default:
		return StatusUnknown
	}
}

// MarketTemperature classifies local market conditions for motivation scoring
type MarketTemperature string

// Market temperature values
const (
	MarketCold    MarketTemperature = "cold"
	MarketNeutral MarketTemperature = "neutral"
	MarketHot     MarketTemperature = "hot"
)
