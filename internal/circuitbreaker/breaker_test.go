package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/dealiq-engine/internal/model"
)

func providerFacts(provider string, listPrice float64) model.PropertyFacts {
	return model.PropertyFacts{
		PropertyID:  "prop-1",
		Provider:    provider,
		IsListed:    true,
		ListPrice:   model.FloatPtr(listPrice),
		CollectedAt: time.Now().Unix(),
	}
}

func defaultThresholds() Thresholds {
	return Thresholds{
		MaxValue:       50_000_000,
		MaxValueChange: 0.3,
		MinProviders:   2,
	}
}

func TestCircuitBreaker_BasicFunctionality(t *testing.T) {
	thresholds := defaultThresholds()
	thresholds.MaxSpreadMultiple = 3.0

	cb := New(thresholds).WithResetDelay(50 * time.Millisecond)
	assert.Equal(t, StateClosed, cb.GetState(), "Circuit breaker should start closed")

	validBatch := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(validBatch)
	assert.NoError(t, err, "Valid batch should pass checks")
	assert.Equal(t, StateClosed, cb.GetState(), "Circuit should remain closed for valid batch")
}

func TestCircuitBreaker_ValueThreshold(t *testing.T) {
	cb := New(defaultThresholds())

	invalidBatch := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 90_000_000), // Exceeds MaxValue
	}

	err := cb.Check(invalidBatch)
	assert.Error(t, err, "Implausible value should trip the circuit")
	assert.Equal(t, StateOpen, cb.GetState(), "Circuit should be open after trip")
	assert.Contains(t, err.Error(), "value estimate exceeds maximum threshold")
}

func TestCircuitBreaker_ConsensusSwing(t *testing.T) {
	cb := New(defaultThresholds())

	baseline := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(baseline)
	require.NoError(t, err, "Baseline batch should pass")

	// Consensus drops from 305000 to 105000, about a 66% swing
	swung := []model.PropertyFacts{
		providerFacts("rentcast", 100000),
		providerFacts("listings", 110000),
	}

	err = cb.Check(swung)
	assert.Error(t, err, "Drastic consensus swing should trip the circuit")
	assert.Contains(t, err.Error(), "consensus value change too drastic")
}

func TestCircuitBreaker_InsufficientProviders(t *testing.T) {
	cb := New(defaultThresholds())

	err := cb.Check([]model.PropertyFacts{providerFacts("rentcast", 300000)})
	assert.Error(t, err, "Insufficient provider count should trip the circuit")
	assert.Contains(t, err.Error(), "insufficient provider count")
}

func TestCircuitBreaker_Recovery(t *testing.T) {
	cb := New(defaultThresholds()).
		WithResetDelay(50 * time.Millisecond).
		WithSuccessThreshold(1)

	invalidBatch := []model.PropertyFacts{
		providerFacts("rentcast", 90_000_000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(invalidBatch)
	require.Error(t, err, "Should trip circuit with invalid batch")
	assert.Equal(t, StateOpen, cb.GetState(), "Circuit should be open after trip")

	time.Sleep(60 * time.Millisecond)

	validBatch := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
	}

	err = cb.Check(validBatch)
	assert.NoError(t, err, "Valid batch should pass in half-open state")
	assert.Equal(t, StateClosed, cb.GetState(), "Circuit should close after successful check in half-open state")
}

func TestCircuitBreaker_LastGoodFacts(t *testing.T) {
	cb := New(defaultThresholds())

	assert.Nil(t, cb.LastGoodFacts(), "LastGoodFacts should return nil before any batch passes")

	validBatch := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(validBatch)
	require.NoError(t, err, "Valid batch should pass")

	lastGood := cb.LastGoodFacts()
	require.NotNil(t, lastGood, "LastGoodFacts should return the batch after a successful check")
	assert.Len(t, lastGood, 2)
	assert.Equal(t, "rentcast", lastGood[0].Provider)
}

func TestCircuitBreaker_CallbackExecution(t *testing.T) {
	done := make(chan string, 1)

	cb := New(defaultThresholds()).WithTripCallback(func(reason string, records []model.PropertyFacts) {
		done <- reason
	})

	invalidBatch := []model.PropertyFacts{
		providerFacts("rentcast", 90_000_000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(invalidBatch)
	require.Error(t, err, "Should trip circuit with invalid batch")

	select {
	case reason := <-done:
		assert.Contains(t, reason, "value estimate exceeds maximum threshold")
	case <-time.After(time.Second):
		t.Fatal("trip callback was not executed")
	}
}

func TestCircuitBreaker_ManualReset(t *testing.T) {
	cb := New(defaultThresholds())

	invalidBatch := []model.PropertyFacts{
		providerFacts("rentcast", 90_000_000),
		providerFacts("listings", 310000),
	}

	err := cb.Check(invalidBatch)
	require.Error(t, err, "Should trip circuit with invalid batch")
	assert.Equal(t, StateOpen, cb.GetState(), "Circuit should be open after trip")

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState(), "Circuit should be closed after manual reset")

	validBatch := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
	}

	err = cb.Check(validBatch)
	assert.NoError(t, err, "Valid batch should pass after manual reset")
}

func TestCircuitBreaker_SpreadCheck(t *testing.T) {
	thresholds := defaultThresholds()
	thresholds.MaxSpreadMultiple = 0.5

	cb := New(thresholds)

	consistent := []model.PropertyFacts{
		providerFacts("rentcast", 300000),
		providerFacts("listings", 310000),
		providerFacts("county", 295000),
	}

	err := cb.Check(consistent)
	assert.NoError(t, err, "Consistent estimates should pass the spread check")

	divergent := []model.PropertyFacts{
		providerFacts("rentcast", 150000),
		providerFacts("listings", 600000),
		providerFacts("county", 160000),
	}

	cb.Reset()
	err = cb.Check(divergent)
	assert.Error(t, err, "Divergent estimates should trip the circuit")
	assert.Contains(t, err.Error(), "provider value spread too high")
}

func TestCircuitBreaker_EmptyBatch(t *testing.T) {
	cb := New(defaultThresholds())

	err := cb.Check([]model.PropertyFacts{})
	assert.Error(t, err, "Empty batch should cause error")
	assert.Contains(t, err.Error(), "no facts provided")
}
