package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signStripePayload(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeSignature(t *testing.T) {
	secret := "whsec_test_secret"
	body := []byte(`{"id": "evt_1", "type": "invoice.paid"}`)
	timestamp := "1756723200"

	header := fmt.Sprintf("t=%s,v1=%s", timestamp, signStripePayload(secret, timestamp, body))
	assert.True(t, VerifyStripeSignature(body, header, secret))
}

func TestVerifyStripeSignatureRejectsTampering(t *testing.T) {
	secret := "whsec_test_secret"
	body := []byte(`{"id": "evt_1", "type": "invoice.paid"}`)
	timestamp := "1756723200"
	header := fmt.Sprintf("t=%s,v1=%s", timestamp, signStripePayload(secret, timestamp, body))

	tampered := []byte(`{"id": "evt_1", "type": "invoice.voided"}`)
	assert.False(t, VerifyStripeSignature(tampered, header, secret))
	assert.False(t, VerifyStripeSignature(body, header, "whsec_other_secret"))
}

func TestVerifyStripeSignatureMalformedHeader(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, VerifyStripeSignature(body, "", "whsec_test_secret"))
	assert.False(t, VerifyStripeSignature(body, "v1=deadbeef", "whsec_test_secret"))
	assert.False(t, VerifyStripeSignature(body, "t=1756723200", "whsec_test_secret"))
}

func TestVerifyStripeSignatureMultipleEntries(t *testing.T) {
	secret := "whsec_test_secret"
	body := []byte(`{"id": "evt_2"}`)
	timestamp := "1756723200"

	// Stripe sends extra v1 entries during secret rotation.
	header := fmt.Sprintf("t=%s,v1=deadbeef,v1=%s", timestamp, signStripePayload(secret, timestamp, body))
	assert.True(t, VerifyStripeSignature(body, header, secret))
}
