package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/yourorg/dealiq-engine/internal/config"
	"github.com/yourorg/dealiq-engine/internal/model"
	"github.com/yourorg/dealiq-engine/internal/types"
)

// ListingsClient fetches active listing data: asking price, market status,
// days on market, and seller signals.
type ListingsClient struct {
	cfg config.Config
}

// NewListingsClient creates a new listings feed client
func NewListingsClient(cfg config.Config) *ListingsClient {
	return &ListingsClient{cfg: cfg}
}

// Fetch retrieves the active listing record for a property, if any.
func (c *ListingsClient) Fetch(ctx context.Context, propertyID string) (Result, error) {
	client := newRetryClient()

	query := fmt.Sprintf(`{"query":"{ listing(propertyId: %q) { listPrice zestimate status daysOnMarket priceReductions fsbo foreclosure marketTemperature } }"}`, propertyID)
	req, err := retryablehttp.NewRequest("POST", c.cfg.ListingsURL, []byte(query))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	if k := getAPIKey(c.cfg, "listings"); k != "" {
		req.Header.Set("Authorization", k)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var response struct {
		Data struct {
			Listing *struct {
				ListPrice         *float64 `json:"listPrice"`
				Zestimate         *float64 `json:"zestimate"`
				Status            string   `json:"status"`
				DaysOnMarket      int      `json:"daysOnMarket"`
				PriceReductions   int      `json:"priceReductions"`
				FSBO              bool     `json:"fsbo"`
				Foreclosure       bool     `json:"foreclosure"`
				MarketTemperature string   `json:"marketTemperature"`
			} `json:"listing"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	facts := model.NewPropertyFacts(propertyID, "listings")
	facts.CollectedAt = time.Now().Unix()

	listing := response.Data.Listing
	if listing == nil {
		// Not an error: the property simply is not on the market
		facts.Status = types.StatusOffMarket
		return Result{Facts: facts}, nil
	}

	facts.ListPrice = listing.ListPrice
	facts.Zestimate = listing.Zestimate
	facts.Status = types.ParseListingStatus(listing.Status)
	facts.IsListed = facts.Status == types.StatusForSale ||
		facts.Status == types.StatusAuction ||
		facts.Status == types.StatusBankOwned
	facts.DaysOnMarket = listing.DaysOnMarket
	facts.PriceReductionCount = listing.PriceReductions
	facts.IsFSBO = listing.FSBO
	facts.IsForeclosure = listing.Foreclosure
	switch types.MarketTemperature(listing.MarketTemperature) {
	case types.MarketCold, types.MarketHot:
		facts.MarketTemperature = types.MarketTemperature(listing.MarketTemperature)
	default:
		facts.MarketTemperature = types.MarketNeutral
	}

	return Result{Facts: facts}, nil
}
