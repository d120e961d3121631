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
)

// CountyClient fetches assessment and tax records from the county feed
type CountyClient struct {
	cfg config.Config
}

// NewCountyClient creates a new county records client
func NewCountyClient(cfg config.Config) *CountyClient {
	return &CountyClient{cfg: cfg}
}

// Fetch retrieves assessed value and annual taxes for a property.
func (c *CountyClient) Fetch(ctx context.Context, propertyID string) (Result, error) {
	client := newRetryClient()
	req, err := retryablehttp.NewRequest("GET", fmt.Sprintf("%s/parcels/%s", c.cfg.CountyURL, propertyID), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	if k := getAPIKey(c.cfg, "county"); k != "" {
		req.Header.Set("Authorization", k)
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data struct {
		AssessedValue *float64 `json:"assessedValue"`
		AnnualTaxes   *float64 `json:"annualTaxes"`
		// SquareFootage may be absent in older parcel records
		SquareFootage *float64 `json:"squareFootage,omitempty"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	facts := model.NewPropertyFacts(propertyID, "county")
	facts.TaxAssessedValue = data.AssessedValue
	facts.PropertyTaxesAnnual = data.AnnualTaxes
	facts.SquareFootage = data.SquareFootage
	facts.CollectedAt = time.Now().Unix()

	return Result{Facts: facts}, nil
}
