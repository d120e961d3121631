package security

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, opts VerificationOptions) *ReportSigner {
	t.Helper()
	signer, err := NewReportSigner(opts)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
	})

	payload := map[string]interface{}{
		"property_id": "prop-1",
		"iq_score":    82.5,
		"grade":       "A",
	}

	signed, err := signer.SignReport(payload)
	require.NoError(t, err)
	require.Contains(t, signed, "_signature")

	ok, err := signer.VerifyReport(signed)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyAfterWireRoundTrip(t *testing.T) {
	signer := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
	})

	signed, err := signer.SignReport(map[string]interface{}{
		"property_id": "prop-1",
		"iq_score":    82.5,
	})
	require.NoError(t, err)

	// A consumer receives the report over the wire, so the timestamp
	// fields arrive as float64 rather than the int64 written at signing
	wire, err := json.Marshal(signed)
	require.NoError(t, err)
	var received map[string]interface{}
	require.NoError(t, json.Unmarshal(wire, &received))

	ok, err := signer.VerifyReport(received)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyDetectsTampering(t *testing.T) {
	signer := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
	})

	signed, err := signer.SignReport(map[string]interface{}{"iq_score": 82.5})
	require.NoError(t, err)

	signed["iq_score"] = 95.0

	ok, err := signer.VerifyReport(signed)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsExpiredSignature(t *testing.T) {
	signer := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    -time.Minute,
	})

	signed, err := signer.SignReport(map[string]interface{}{"iq_score": 82.5})
	require.NoError(t, err)

	ok, err := signer.VerifyReport(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature expired")
	assert.False(t, ok)
}

func TestSigningDisabledPassesThrough(t *testing.T) {
	signer := newTestSigner(t, VerificationOptions{SignatureEnabled: false})

	signed, err := signer.SignReport(map[string]interface{}{"iq_score": 82.5})
	require.NoError(t, err)
	assert.NotContains(t, signed, "_signature")

	ok, err := signer.VerifyReport(signed)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMissingSignature(t *testing.T) {
	strict := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
		StrictMode:           true,
	})

	ok, err := strict.VerifyReport(map[string]interface{}{"iq_score": 82.5})
	assert.Error(t, err)
	assert.False(t, ok)

	lenient := newTestSigner(t, VerificationOptions{
		SignatureEnabled:     true,
		VerificationRequired: true,
		SignatureValidity:    time.Hour,
	})

	ok, err = lenient.VerifyReport(map[string]interface{}{"iq_score": 82.5})
	assert.NoError(t, err)
	assert.False(t, ok)
}
