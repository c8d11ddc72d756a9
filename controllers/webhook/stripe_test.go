package webhookController

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingala/config"
	"lingala/database"
	"lingala/models"
	courseModels "lingala/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWebhookApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/webhooks/stripe", StripeWebhook)

	return app, db
}

func postEvent(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func checkoutEvent(eventID string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"client_reference_id": "42",
			"payment_intent": "pi_test_1",
			"metadata": {"course_id": "7"}
		}}
	}`, eventID)
}

func TestStripeWebhookCheckoutCreatesEnrollment(t *testing.T) {
	app, db := setupWebhookApp(t)

	resp := postEvent(t, app, checkoutEvent("evt_checkout_1"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 42, 7).First(&enrollment).Error)
	assert.Equal(t, "pi_test_1", enrollment.PaymentID)
	assert.Equal(t, "PURCHASE", enrollment.Source)
}

func TestStripeWebhookRedeliveryIsDeduped(t *testing.T) {
	app, db := setupWebhookApp(t)

	resp := postEvent(t, app, checkoutEvent("evt_checkout_2"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Stripe redelivers until acknowledged; the replay must be a no-op.
	resp = postEvent(t, app, checkoutEvent("evt_checkout_2"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Where("event_id = ?", "evt_checkout_2").Count(&events).Error)
	assert.Equal(t, int64(1), events)

	var enrollments int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", 42, 7).Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)
}

func TestStripeWebhookSubscriptionLifecycle(t *testing.T) {
	app, db := setupWebhookApp(t)

	created := `{
		"id": "evt_sub_1",
		"type": "customer.subscription.created",
		"data": {"object": {
			"id": "sub_test_9",
			"status": "active",
			"current_period_start": 1756000000,
			"current_period_end": 1758600000,
			"metadata": {"user_id": "42"}
		}}
	}`
	resp := postEvent(t, app, created)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_test_9").First(&sub).Error)
	assert.Equal(t, models.SubscriptionActive, sub.Status)

	updated := `{
		"id": "evt_sub_2",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_test_9",
			"status": "past_due",
			"current_period_start": 1756000000,
			"current_period_end": 1758600000,
			"metadata": {"user_id": "42"}
		}}
	}`
	resp = postEvent(t, app, updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("stripe_subscription_id = ?", "sub_test_9").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_test_9").First(&sub).Error)
	assert.Equal(t, models.SubscriptionPastDue, sub.Status)

	deleted := `{
		"id": "evt_sub_3",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_test_9"}}
	}`
	resp = postEvent(t, app, deleted)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_test_9").First(&sub).Error)
	assert.Equal(t, models.SubscriptionCancelled, sub.Status)
}

func TestStripeWebhookMalformedPayload(t *testing.T) {
	app, _ := setupWebhookApp(t)

	resp := postEvent(t, app, `{"type": "checkout.session.completed"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookUnknownTypeAcknowledged(t *testing.T) {
	app, _ := setupWebhookApp(t)

	resp := postEvent(t, app, `{"id": "evt_other_1", "type": "invoice.paid", "data": {"object": {}}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMapStripeStatus(t *testing.T) {
	assert.Equal(t, models.SubscriptionActive, mapStripeStatus("active"))
	assert.Equal(t, models.SubscriptionActive, mapStripeStatus("trialing"))
	assert.Equal(t, models.SubscriptionPastDue, mapStripeStatus("past_due"))
	assert.Equal(t, models.SubscriptionCancelled, mapStripeStatus("canceled"))
	assert.Equal(t, models.SubscriptionExpired, mapStripeStatus("incomplete_expired"))
}
