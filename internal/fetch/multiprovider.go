package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// MultiProviderClient fans a property lookup out to every registered
// provider and tolerates partial failures. Results are cached briefly so
// repeated analyses of the same property do not hammer the upstream APIs.
type MultiProviderClient struct {
	providers map[string]Client
	mutex     sync.RWMutex
	cacheTTL  time.Duration
	cached    map[string][]Result
	cacheTime map[string]time.Time
}

// NewMultiProviderClient creates a client that fetches from multiple providers
func NewMultiProviderClient() *MultiProviderClient {
	return &MultiProviderClient{
		providers: make(map[string]Client),
		cacheTTL:  5 * time.Minute,
		cached:    make(map[string][]Result),
		cacheTime: make(map[string]time.Time),
	}
}

// RegisterProvider adds a named data provider
func (c *MultiProviderClient) RegisterProvider(name string, client Client) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.providers[name] = client
	logrus.Infof("Registered data provider %s", name)
}

// FetchAll retrieves the property from every provider concurrently. Provider
// failures are logged and skipped; an error is returned only when every
// provider fails.
func (c *MultiProviderClient) FetchAll(ctx context.Context, propertyID string) ([]Result, error) {
	c.mutex.RLock()
	if cached, ok := c.cached[propertyID]; ok && time.Since(c.cacheTime[propertyID]) < c.cacheTTL {
		c.mutex.RUnlock()
		return cached, nil
	}
	providers := make(map[string]Client, len(c.providers))
	for name, p := range c.providers {
		providers[name] = p
	}
	c.mutex.RUnlock()

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers registered")
	}

	var wg sync.WaitGroup
	resultCh := make(chan struct {
		name   string
		result Result
		err    error
	}, len(providers))

	for name, provider := range providers {
		wg.Add(1)
		go func(name string, p Client) {
			defer wg.Done()

			providerCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			result, err := p.Fetch(providerCtx, propertyID)
			resultCh <- struct {
				name   string
				result Result
				err    error
			}{name, result, err}
		}(name, provider)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]Result, 0, len(providers))
	errs := make(map[string]error)
	for r := range resultCh {
		if r.err != nil {
			errs[r.name] = r.err
			logrus.Warnf("Error fetching property from %s: %v", r.name, r.err)
			continue
		}
		results = append(results, r.result)
	}

	if len(results) == 0 && len(errs) > 0 {
		for _, err := range errs {
			return nil, fmt.Errorf("multi-provider fetch failed: %w", err)
		}
	}

	c.mutex.Lock()
	// Evict anything past its TTL so the cache stays bounded by the set of
	// recently analyzed properties
	for id, at := range c.cacheTime {
		if time.Since(at) >= c.cacheTTL {
			delete(c.cached, id)
			delete(c.cacheTime, id)
		}
	}
	c.cached[propertyID] = results
	c.cacheTime[propertyID] = time.Now()
	c.mutex.Unlock()

	logrus.Infof("Fetched property from %d/%d providers", len(results), len(providers))
	return results, nil
}

// mergePriority orders providers from most to least authoritative for
// field-level merging.
var mergePriority = []string{"listings", "rentcast", "county"}

// Merge folds per-provider results into one canonical facts record plus the
// combined comp set. Listing signals come from the most authoritative
// provider that has them; optional fields take the first non-nil value in
// priority order.
func Merge(results []Result) (model.PropertyFacts, []model.RentComp) {
	if len(results) == 0 {
		return model.PropertyFacts{}, nil
	}

	ordered := make([]Result, 0, len(results))
	seen := make(map[string]bool)
	for _, want := range mergePriority {
		for _, r := range results {
			if r.Facts.Provider == want {
				ordered = append(ordered, r)
				seen[want] = true
			}
		}
	}
	for _, r := range results {
		if !seen[r.Facts.Provider] {
			ordered = append(ordered, r)
		}
	}

	merged := ordered[0].Facts
	var comps []model.RentComp
	comps = append(comps, ordered[0].Comps...)

	for _, r := range ordered[1:] {
		f := r.Facts
		comps = append(comps, r.Comps...)

		if merged.Address == "" {
			merged.Address = f.Address
		}
		if !merged.IsListed && f.IsListed {
			merged.IsListed = f.IsListed
			merged.Status = f.Status
			merged.DaysOnMarket = f.DaysOnMarket
			merged.PriceReductionCount = f.PriceReductionCount
			merged.IsFSBO = f.IsFSBO
			merged.IsForeclosure = f.IsForeclosure
		}
		merged.ListPrice = firstFloat(merged.ListPrice, f.ListPrice)
		merged.Zestimate = firstFloat(merged.Zestimate, f.Zestimate)
		merged.CurrentValueAVM = firstFloat(merged.CurrentValueAVM, f.CurrentValueAVM)
		merged.TaxAssessedValue = firstFloat(merged.TaxAssessedValue, f.TaxAssessedValue)
		merged.MonthlyRent = firstFloat(merged.MonthlyRent, f.MonthlyRent)
		merged.ADR = firstFloat(merged.ADR, f.ADR)
		merged.OccupancyRate = firstFloat(merged.OccupancyRate, f.OccupancyRate)
		merged.PropertyTaxesAnnual = firstFloat(merged.PropertyTaxesAnnual, f.PropertyTaxesAnnual)
		merged.InsuranceAnnual = firstFloat(merged.InsuranceAnnual, f.InsuranceAnnual)
		merged.HOAMonthly = firstFloat(merged.HOAMonthly, f.HOAMonthly)
		merged.ARV = firstFloat(merged.ARV, f.ARV)
		merged.SquareFootage = firstFloat(merged.SquareFootage, f.SquareFootage)
		if merged.Bedrooms == nil {
			merged.Bedrooms = f.Bedrooms
		}
	}

	return merged, comps
}

func firstFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}
