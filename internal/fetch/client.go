// Package fetch provides provider-specific clients for retrieving property
// facts from external real-estate data services.
package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/yourorg/dealiq-engine/internal/config"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// Result is one provider's view of a property: the facts plus any rent
// comparables the provider supplied alongside them.
type Result struct {
	Facts model.PropertyFacts `json:"facts"`
	Comps []model.RentComp    `json:"comps,omitempty"`
}

// Client defines the interface that all provider clients must implement
type Client interface {
	// Fetch retrieves the provider's facts for a single property
	Fetch(ctx context.Context, propertyID string) (Result, error)
}

// NewClient creates a new provider client based on the provided configuration and provider name
func NewClient(cfg config.Config, provider string) Client {
	switch provider {
	case "rentcast":
		return NewRentCastClient(cfg)
	case "listings":
		return NewListingsClient(cfg)
	case "county":
		return NewCountyClient(cfg)
	default:
		return NewRentCastClient(cfg)
	}
}

// newRetryClient creates a new HTTP client with retry capabilities
func newRetryClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.Logger = nil
	return c
}

// StandardClient converts a retryablehttp.Client to a standard http.Client
func StandardClient(retryClient *retryablehttp.Client) *http.Client {
	return retryClient.StandardClient()
}

// getAPIKey retrieves an API key for a specific provider from configuration
func getAPIKey(cfg config.Config, provider string) string {
	if k, ok := cfg.APIKeys[provider]; ok {
		return k
	}
	return ""
}
