// Package circuitbreaker protects the analysis pipeline from degraded or
// erroneous upstream property-data feeds.
package circuitbreaker

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/model"
)

// State represents the current state of the circuit breaker
type State int

// Circuit breaker states
const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Tripped, no new operations allowed
	StateHalfOpen              // Testing if the feed has recovered
)

// CircuitBreaker implements the circuit breaker pattern against the property
// data feed: implausible values, drastic consensus swings, or too few
// providers trip it and the pipeline falls back to the last good snapshot.
type CircuitBreaker struct {
	thresholds Thresholds

	state State

	// Timestamp of the last circuit trip
	lastTrip time.Time

	// Duration before auto-reset attempt
	resetDelay time.Duration

	mu sync.RWMutex

	// Per-property consensus values from prior good batches, keyed by
	// property id, used to detect drastic swings
	consensusHistory map[string][]float64

	// Last batch of facts that passed every check
	lastGood []model.PropertyFacts

	// Count of consecutive successful operations in HalfOpen state
	successCount int

	// Number of successful operations required to close circuit
	successThreshold int

	// Event callback for monitoring/alerting
	onTripCallback func(reason string, records []model.PropertyFacts)
}

// Thresholds defines the limits that will trigger the circuit breaker
type Thresholds struct {
	// Maximum plausible property value in dollars
	MaxValue float64 `json:"max_value"`

	// Maximum allowed change in a property's consensus value between
	// consecutive batches (e.g. 0.5 for 50%)
	MaxValueChange float64 `json:"max_value_change"`

	// Minimum number of providers required in a batch
	MinProviders int `json:"min_providers"`

	// Maximum standard deviation of provider value estimates as a
	// multiple of their mean
	MaxSpreadMultiple float64 `json:"max_spread_multiple,omitempty"`
}

// New creates a new CircuitBreaker with the provided thresholds
func New(t Thresholds) *CircuitBreaker {
	return &CircuitBreaker{
		thresholds:       t,
		state:            StateClosed,
		resetDelay:       5 * time.Minute,
		successThreshold: 3,
		consensusHistory: make(map[string][]float64),
	}
}

// WithResetDelay sets a custom reset delay and returns the circuit breaker
func (cb *CircuitBreaker) WithResetDelay(delay time.Duration) *CircuitBreaker {
	cb.resetDelay = delay
	return cb
}

// WithSuccessThreshold sets the number of successful operations needed to close the circuit
func (cb *CircuitBreaker) WithSuccessThreshold(threshold int) *CircuitBreaker {
	cb.successThreshold = threshold
	return cb
}

// WithTripCallback sets a callback function that is called when the circuit trips
func (cb *CircuitBreaker) WithTripCallback(callback func(reason string, records []model.PropertyFacts)) *CircuitBreaker {
	cb.onTripCallback = callback
	return cb
}

// Check evaluates a batch of provider facts for one property against the
// thresholds. If the circuit is open it blocks and returns an error; if the
// batch violates a threshold it trips the circuit and returns an error.
func (cb *CircuitBreaker) Check(records []model.PropertyFacts) error {
	cb.mu.RLock()
	state := cb.state
	lastTripTime := cb.lastTrip
	cb.mu.RUnlock()

	if state == StateOpen {
		if time.Since(lastTripTime) > cb.resetDelay {
			cb.transitionToHalfOpen()
		} else {
			return errors.New("circuit breaker open: feed protection engaged")
		}
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if len(records) == 0 {
		return errors.New("no facts provided to circuit breaker")
	}

	if len(records) < cb.thresholds.MinProviders {
		reason := fmt.Sprintf("insufficient provider count: got %d, need %d",
			len(records), cb.thresholds.MinProviders)
		cb.trip(reason, records)
		return errors.New(reason)
	}

	for _, f := range records {
		if v := valueEstimate(f); v > cb.thresholds.MaxValue {
			reason := fmt.Sprintf("value estimate exceeds maximum threshold: %f > %f",
				v, cb.thresholds.MaxValue)
			cb.trip(reason, records)
			return errors.New(reason)
		}
	}

	// Check for drastic consensus swings against the property's history
	propertyID := records[0].PropertyID
	consensus := consensusValue(records)
	if history := cb.consensusHistory[propertyID]; len(history) > 0 && consensus > 0 {
		last := history[len(history)-1]
		if last > 1.0 {
			changeRatio := math.Abs(consensus-last) / last
			if changeRatio > cb.thresholds.MaxValueChange {
				reason := fmt.Sprintf("consensus value change too drastic: %.2f%% (threshold: %.2f%%)",
					changeRatio*100, cb.thresholds.MaxValueChange*100)
				cb.trip(reason, records)
				return errors.New(reason)
			}
		}
	}

	// Check for excessive disagreement between providers if threshold is set
	if cb.thresholds.MaxSpreadMultiple > 0 {
		stdDev, mean := valueSpread(records)
		if mean > 0 && stdDev/mean > cb.thresholds.MaxSpreadMultiple {
			reason := fmt.Sprintf("provider value spread too high: %.2f x mean (threshold: %.2f)",
				stdDev/mean, cb.thresholds.MaxSpreadMultiple)
			cb.trip(reason, records)
			return errors.New(reason)
		}
	}

	logrus.Debug("Circuit breaker checks passed")

	cb.recordGoodBatch(propertyID, consensus, records)

	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = StateClosed
			cb.successCount = 0
			logrus.Info("Circuit breaker closed: feed has recovered")
		}
	}

	return nil
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forcibly resets the circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.successCount = 0
	logrus.Info("Circuit breaker manually reset to closed state")
}

// LastGoodFacts returns the most recent batch that passed every check, or
// nil when no batch has passed yet. Callers fall back to it while the
// circuit is open.
func (cb *CircuitBreaker) LastGoodFacts() []model.PropertyFacts {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if len(cb.lastGood) == 0 {
		return nil
	}

	out := make([]model.PropertyFacts, len(cb.lastGood))
	copy(out, cb.lastGood)
	return out
}

// transitionToHalfOpen changes the circuit state to half-open for testing recovery
func (cb *CircuitBreaker) transitionToHalfOpen() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen {
		cb.state = StateHalfOpen
		cb.successCount = 0
		logrus.Info("Circuit breaker half-open: testing feed recovery")
	}
}

// trip sets the circuit breaker to open state with the current time
func (cb *CircuitBreaker) trip(reason string, records []model.PropertyFacts) {
	cb.state = StateOpen
	cb.lastTrip = time.Now()
	logrus.Warnf("Circuit breaker tripped: %s", reason)

	if cb.onTripCallback != nil {
		go cb.onTripCallback(reason, records)
	}
}

// recordGoodBatch stores the batch and its consensus value, keeping the
// per-property history bounded.
func (cb *CircuitBreaker) recordGoodBatch(propertyID string, consensus float64, records []model.PropertyFacts) {
	cb.lastGood = make([]model.PropertyFacts, len(records))
	copy(cb.lastGood, records)

	if consensus <= 0 {
		return
	}

	history := append(cb.consensusHistory[propertyID], consensus)
	const maxHistorySize = 100
	if len(history) > maxHistorySize {
		history = history[len(history)-maxHistorySize:]
	}
	cb.consensusHistory[propertyID] = history
}

// valueEstimate picks a record's best value estimate for threshold checks
func valueEstimate(f model.PropertyFacts) float64 {
	if v := model.Float(f.ListPrice, 0); v > 0 {
		return v
	}
	if v := model.Float(f.Zestimate, 0); v > 0 {
		return v
	}
	return model.Float(f.CurrentValueAVM, 0)
}

// consensusValue is the mean of the batch's value estimates
func consensusValue(records []model.PropertyFacts) float64 {
	var total float64
	var n int
	for _, f := range records {
		if v := valueEstimate(f); v > 0 {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// valueSpread computes the standard deviation and mean of provider value estimates
func valueSpread(records []model.PropertyFacts) (float64, float64) {
	values := make([]float64, 0, len(records))
	for _, f := range records {
		if v := valueEstimate(f); v > 0 {
			values = append(values, v)
		}
	}
	if len(values) <= 1 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance), mean
}
