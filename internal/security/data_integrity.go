// Package security provides cryptographic signing for analysis reports so
// downstream consumers can verify reports were produced by this service and
// were not altered in transit.
package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
)

// ReportSigner signs analysis reports and verifies signed reports
type ReportSigner struct {
	privateKey       *ecdsa.PrivateKey
	publicKeyEncoded string
	verificationOpts VerificationOptions
}

// VerificationOptions configures signing and verification behavior
type VerificationOptions struct {
	SignatureEnabled     bool          `json:"signature_enabled"`
	VerificationRequired bool          `json:"verification_required"`
	SignatureValidity    time.Duration `json:"signature_validity"`
	StrictMode           bool          `json:"strict_mode"`
}

// NewReportSigner creates a signer with a fresh P-256 key pair
func NewReportSigner(opts VerificationOptions) (*ReportSigner, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	publicKeyBytes := elliptic.Marshal(elliptic.P256(), privateKey.PublicKey.X, privateKey.PublicKey.Y)
	publicKeyEncoded := base64.StdEncoding.EncodeToString(publicKeyBytes)

	signer := &ReportSigner{
		privateKey:       privateKey,
		publicKeyEncoded: publicKeyEncoded,
		verificationOpts: opts,
	}

	logrus.Infof("Report signer initialized with public key: %s", publicKeyEncoded[:16]+"...")
	return signer, nil
}

// SignReport adds a signature block to an analysis report payload
func (rs *ReportSigner) SignReport(payload interface{}) (map[string]interface{}, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var resultMap map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &resultMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if !rs.verificationOpts.SignatureEnabled {
		return resultMap, nil
	}

	// Hash the canonical map form so verification, which re-marshals the
	// map without the signature block, computes the same digest
	canonical, err := json.Marshal(resultMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	hash := sha256.Sum256(canonical)

	r, s, err := ecdsa.Sign(rand.Reader, rs.privateKey, hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	signature := make([]byte, 64)
	r.FillBytes(signature[:32])
	s.FillBytes(signature[32:])
	signatureEncoded := base64.StdEncoding.EncodeToString(signature)

	resultMap["_signature"] = map[string]interface{}{
		"signature":  signatureEncoded,
		"publicKey":  rs.publicKeyEncoded,
		"algorithm":  "ECDSA-P256-SHA256",
		"timestamp":  time.Now().Unix(),
		"validUntil": time.Now().Add(rs.verificationOpts.SignatureValidity).Unix(),
	}

	return resultMap, nil
}

// VerifyReport checks the signature block on a signed report
func (rs *ReportSigner) VerifyReport(signedPayload map[string]interface{}) (bool, error) {
	if !rs.verificationOpts.SignatureEnabled || !rs.verificationOpts.VerificationRequired {
		return true, nil
	}

	sigMetadata, ok := signedPayload["_signature"].(map[string]interface{})
	if !ok {
		if rs.verificationOpts.StrictMode {
			return false, fmt.Errorf("signature metadata missing")
		}
		logrus.Warn("Signature metadata missing from payload")
		return false, nil
	}

	signatureStr, ok := sigMetadata["signature"].(string)
	if !ok {
		return false, fmt.Errorf("invalid signature format")
	}

	publicKeyStr, ok := sigMetadata["publicKey"].(string)
	if !ok {
		return false, fmt.Errorf("invalid public key format")
	}

	validUntil, err := epochSeconds(sigMetadata["validUntil"])
	if err != nil {
		return false, fmt.Errorf("invalid validUntil format: %w", err)
	}

	now := time.Now().Unix()
	if now > validUntil {
		return false, fmt.Errorf("signature expired at %v (current time: %v)",
			time.Unix(validUntil, 0), time.Unix(now, 0))
	}

	signatureBytes, err := base64.StdEncoding.DecodeString(signatureStr)
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyStr)
	if err != nil {
		return false, fmt.Errorf("failed to decode public key: %w", err)
	}

	x, y := elliptic.Unmarshal(elliptic.P256(), publicKeyBytes)
	if x == nil {
		return false, fmt.Errorf("failed to unmarshal public key")
	}
	publicKey := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x,
		Y:     y,
	}

	payloadCopy := make(map[string]interface{})
	for k, v := range signedPayload {
		if k != "_signature" {
			payloadCopy[k] = v
		}
	}

	payloadBytes, err := json.Marshal(payloadCopy)
	if err != nil {
		return false, fmt.Errorf("failed to marshal payload: %w", err)
	}
	hash := sha256.Sum256(payloadBytes)

	if len(signatureBytes) != 64 {
		return false, fmt.Errorf("invalid signature length: %d", len(signatureBytes))
	}
	r := new(big.Int).SetBytes(signatureBytes[:32])
	s := new(big.Int).SetBytes(signatureBytes[32:])

	if !ecdsa.Verify(publicKey, hash[:], r, s) {
		return false, fmt.Errorf("signature verification failed")
	}

	return true, nil
}

// epochSeconds reads a Unix timestamp from a signature block. The value is
// an int64 when the map comes straight from SignReport and a float64 (or
// json.Number) after a JSON round trip, so all three forms are accepted.
func epochSeconds(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case json.Number:
		return t.Int64()
	default:
		return 0, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// GetPublicKey returns the base64-encoded public key
func (rs *ReportSigner) GetPublicKey() string {
	return rs.publicKeyEncoded
}
