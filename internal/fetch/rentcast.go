package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/config"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// RentCastClient fetches valuation and rent data from the RentCast API
type RentCastClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// NewRentCastClient creates a new RentCast API client
func NewRentCastClient(cfg config.Config) *RentCastClient {
	return &RentCastClient{
		baseURL:    cfg.RentCastURL,
		httpClient: StandardClient(newRetryClient()),
		apiKey:     getAPIKey(cfg, "rentcast"),
	}
}

// rentcastResponse matches the RentCast property endpoint payload
type rentcastResponse struct {
	ID             string   `json:"id"`
	FormattedAddr  string   `json:"formattedAddress"`
	Value          *float64 `json:"price"`
	ValueRangeLow  *float64 `json:"priceRangeLow"`
	Rent           *float64 `json:"rent"`
	TaxAssessment  *float64 `json:"taxAssessment"`
	AnnualTaxes    *float64 `json:"propertyTaxes"`
	SquareFootage  *float64 `json:"squareFootage"`
	Bedrooms       *int     `json:"bedrooms"`
	HOAMonthly     *float64 `json:"hoa"`
	LastSeenOnMkt  string   `json:"lastSeenDate"`
	Comparables    []struct {
		Rent          float64 `json:"rent"`
		SquareFootage float64 `json:"squareFootage"`
		Distance      float64 `json:"distance"`
		DaysOld       int     `json:"daysOld"`
		Correlation   float64 `json:"correlation"`
	} `json:"comparables"`
}

// Fetch retrieves value and rent estimates for a property from RentCast.
func (c *RentCastClient) Fetch(ctx context.Context, propertyID string) (Result, error) {
	u := fmt.Sprintf("%s/avm/value?propertyId=%s", c.baseURL, url.QueryEscape(propertyID))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Fetching property data from RentCast: %s", c.baseURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("error fetching data from RentCast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("RentCast API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload rentcastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("error decoding response: %w", err)
	}

	facts := model.NewPropertyFacts(propertyID, "rentcast")
	facts.Address = payload.FormattedAddr
	facts.CurrentValueAVM = payload.Value
	facts.MonthlyRent = payload.Rent
	facts.TaxAssessedValue = payload.TaxAssessment
	facts.PropertyTaxesAnnual = payload.AnnualTaxes
	facts.SquareFootage = payload.SquareFootage
	facts.Bedrooms = payload.Bedrooms
	facts.HOAMonthly = payload.HOAMonthly
	facts.CollectedAt = time.Now().Unix()

	comps := make([]model.RentComp, 0, len(payload.Comparables))
	for _, comp := range payload.Comparables {
		comps = append(comps, model.RentComp{
			Provider:      "rentcast",
			MonthlyRent:   comp.Rent,
			SquareFootage: comp.SquareFootage,
			DistanceMiles: comp.Distance,
			DaysOld:       comp.DaysOld,
			Correlation:   comp.Correlation,
		})
	}

	logrus.Debugf("Received RentCast facts with %d rent comps", len(comps))
	return Result{Facts: facts, Comps: comps}, nil
}
