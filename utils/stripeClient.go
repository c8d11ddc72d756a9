package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lingala/config"

	"github.com/go-resty/resty/v2"
)

// StripeSubscriptionState is the subset of the Stripe subscription object the
// webhook handler needs.
type StripeSubscriptionState struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

// FetchStripeSubscription reads the current state of a subscription from the
// Stripe API, so decisions are made on fresh data rather than a possibly
// stale webhook body.
func FetchStripeSubscription(subscriptionID string) (*StripeSubscriptionState, error) {
	cfg := config.AppConfig
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("stripe secret key not configured")
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetAuthToken(cfg.StripeSecretKey).
		Get(cfg.StripeApiURL + "subscriptions/" + subscriptionID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var state StripeSubscriptionState
	if err := json.Unmarshal(resp.Body(), &state); err != nil {
		return nil, fmt.Errorf("invalid stripe response: %w", err)
	}
	return &state, nil
}

// StripeWebhookSecret exposes the configured endpoint secret.
func StripeWebhookSecret() string {
	return config.AppConfig.StripeWebhookSecret
}

// VerifyStripeSignature checks the Stripe-Signature header: HMAC-SHA256 of
// "<timestamp>.<body>" with the endpoint secret, compared against the v1
// entries.
func VerifyStripeSignature(body []byte, header, secret string) bool {
	if header == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}
