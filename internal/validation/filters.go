// Package validation provides filtering and sanitization for externally
// sourced property facts before they enter the valuation pipeline.
package validation

import (
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// ValidationOptions holds configuration for the validation process
type ValidationOptions struct {
	// MaxAge defines how recent a facts record must be to be considered valid
	MaxAge time.Duration

	// MinPrice is the lowest plausible property value in dollars
	MinPrice float64

	// MaxPrice is the highest plausible property value in dollars
	MaxPrice float64

	// MaxMonthlyRent is the highest plausible monthly rent
	MaxMonthlyRent float64

	// MaxRentToPriceRatio caps monthly rent as a fraction of value; a 5%
	// monthly rent-to-price ratio is almost always a data error
	MaxRentToPriceRatio float64

	// RequireProvider rejects records with no provider identifier
	RequireProvider bool
}

// DefaultValidationOptions returns sensible defaults for residential data
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		MaxAge:              7 * 24 * time.Hour,
		MinPrice:            5000,
		MaxPrice:            100_000_000,
		MaxMonthlyRent:      100_000,
		MaxRentToPriceRatio: 0.05,
		RequireProvider:     true,
	}
}

// FilterInvalid removes facts records that fail basic validation criteria.
// This is the main entrypoint for the validation package.
func FilterInvalid(records []model.PropertyFacts) []model.PropertyFacts {
	return FilterInvalidWithOptions(records, DefaultValidationOptions())
}

// FilterInvalidWithOptions removes records with custom validation options.
func FilterInvalidWithOptions(records []model.PropertyFacts, opts ValidationOptions) []model.PropertyFacts {
	valid := make([]model.PropertyFacts, 0, len(records))
	for _, f := range records {
		if err := Validate(f, opts); err == nil {
			valid = append(valid, Sanitize(f, opts))
		} else {
			logrus.WithFields(logrus.Fields{
				"property": f.PropertyID,
				"provider": f.Provider,
				"reason":   err.Error(),
			}).Debug("Filtered invalid facts record")
		}
	}
	return valid
}

// FilterInvalidConcurrently performs validation in parallel for large batches.
func FilterInvalidConcurrently(records []model.PropertyFacts, opts ValidationOptions) []model.PropertyFacts {
	if len(records) < 100 {
		// For small batches, parallel processing overhead isn't worth it
		return FilterInvalidWithOptions(records, opts)
	}

	workerCount := 4
	chunkSize := (len(records) + workerCount - 1) / workerCount
	wg := sync.WaitGroup{}
	resultChan := make(chan []model.PropertyFacts, workerCount)

	for i := 0; i < workerCount; i++ {
		start := i * chunkSize
		end := (i + 1) * chunkSize
		if end > len(records) {
			end = len(records)
		}
		if start >= len(records) {
			break
		}

		chunk := records[start:end]
		wg.Add(1)
		go func(chunk []model.PropertyFacts) {
			defer wg.Done()
			resultChan <- FilterInvalidWithOptions(chunk, opts)
		}(chunk)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var valid []model.PropertyFacts
	for chunk := range resultChan {
		valid = append(valid, chunk...)
	}
	return valid
}

// Validate checks whether a facts record as a whole is usable. Field-level
// implausibility is handled by Sanitize; Validate rejects only records that
// cannot anchor any analysis.
func Validate(f model.PropertyFacts, opts ValidationOptions) error {
	if f.PropertyID == "" {
		return errMissingPropertyID
	}

	if opts.RequireProvider && f.Provider == "" {
		return errMissingProvider
	}

	if f.CollectedAt != 0 {
		collectedAt := time.Unix(f.CollectedAt, 0)
		if time.Since(collectedAt) > opts.MaxAge {
			return errStaleRecord
		}
	}

	// A listed property must carry a positive list price
	if f.IsListed && model.Float(f.ListPrice, 0) <= 0 {
		return errListedWithoutPrice
	}

	return nil
}

// Sanitize clears individual fields that are implausible, leaving the rest
// of the record intact. A bad AVM value should not cost us a good rent
// estimate from the same provider.
func Sanitize(f model.PropertyFacts, opts ValidationOptions) model.PropertyFacts {
	out := f

	out.ListPrice = plausiblePrice(out.ListPrice, f, "list_price", opts)
	out.Zestimate = plausiblePrice(out.Zestimate, f, "zestimate", opts)
	out.CurrentValueAVM = plausiblePrice(out.CurrentValueAVM, f, "current_value_avm", opts)
	out.TaxAssessedValue = plausiblePrice(out.TaxAssessedValue, f, "tax_assessed_value", opts)
	out.ARV = plausiblePrice(out.ARV, f, "arv", opts)

	if out.MonthlyRent != nil {
		rent := *out.MonthlyRent
		anchor := model.Float(out.ListPrice, model.Float(out.Zestimate, 0))
		switch {
		case rent <= 0 || rent > opts.MaxMonthlyRent || math.IsNaN(rent) || math.IsInf(rent, 0):
			out.MonthlyRent = dropField(f, "monthly_rent", rent)
		case anchor > 0 && rent/anchor > opts.MaxRentToPriceRatio:
			out.MonthlyRent = dropField(f, "monthly_rent", rent)
		}
	}

	if out.OccupancyRate != nil {
		if o := *out.OccupancyRate; o < 0 || o > 1 || math.IsNaN(o) {
			out.OccupancyRate = dropField(f, "occupancy_rate", o)
		}
	}

	if out.ADR != nil {
		if a := *out.ADR; a <= 0 || a > 50_000 || math.IsNaN(a) {
			out.ADR = dropField(f, "adr", a)
		}
	}

	if out.DaysOnMarket < 0 {
		out.DaysOnMarket = 0
	}
	if out.PriceReductionCount < 0 {
		out.PriceReductionCount = 0
	}

	return out
}

// plausiblePrice returns the pointer unchanged when the value is in the
// plausible dollar range, nil otherwise.
func plausiblePrice(p *float64, f model.PropertyFacts, field string, opts ValidationOptions) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if v < opts.MinPrice || v > opts.MaxPrice || math.IsNaN(v) || math.IsInf(v, 0) {
		return dropField(f, field, v)
	}
	return p
}

func dropField(f model.PropertyFacts, field string, value float64) *float64 {
	logrus.WithFields(logrus.Fields{
		"property": f.PropertyID,
		"provider": f.Provider,
		"field":    field,
		"value":    value,
	}).Info("Dropped implausible field")
	return nil
}

// ScoredFacts pairs a provider record with its cross-provider confidence
type ScoredFacts struct {
	model.PropertyFacts
	Confidence float64 `json:"confidence"`
}

// CalculateConfidenceScores assigns a confidence score (0-1) to each record
// based on how closely its value estimate agrees with the other providers.
func CalculateConfidenceScores(records []model.PropertyFacts) []ScoredFacts {
	result := make([]ScoredFacts, len(records))

	var total float64
	var n int
	for _, f := range records {
		if v := valueAnchor(f); v > 0 {
			total += v
			n++
		}
	}

	if n < 2 {
		for i, f := range records {
			result[i] = ScoredFacts{PropertyFacts: f, Confidence: 0.5}
		}
		return result
	}
	ref := total / float64(n)

	for i, f := range records {
		v := valueAnchor(f)
		if v <= 0 {
			result[i] = ScoredFacts{PropertyFacts: f, Confidence: 0.5}
			continue
		}
		relativeDist := math.Abs(v-ref) / ref
		result[i] = ScoredFacts{
			PropertyFacts: f,
			Confidence:    1.0 / (1.0 + relativeDist*5),
		}
	}
	return result
}

// valueAnchor picks the record's best available value estimate for
// cross-provider comparison.
func valueAnchor(f model.PropertyFacts) float64 {
	if v := model.Float(f.ListPrice, 0); v > 0 {
		return v
	}
	if v := model.Float(f.Zestimate, 0); v > 0 {
		return v
	}
	return model.Float(f.CurrentValueAVM, 0)
}
