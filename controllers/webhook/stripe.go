package webhookController

import (
	"encoding/json"
	"log"
	"time"

	"lingala/database"
	"lingala/middleware"
	"lingala/models"
	courseModels "lingala/models/course"
	"lingala/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// stripeEvent is the slice of the Stripe event envelope we care about.
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	ID                string `json:"id"`
	ClientReferenceID string `json:"client_reference_id"` // User id we set at checkout creation
	PaymentIntent     string `json:"payment_intent"`
	Metadata          struct {
		CourseID string `json:"course_id"`
	} `json:"metadata"`
}

type stripeSubscription struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Metadata           struct {
		UserID string `json:"user_id"`
	} `json:"metadata"`
}

// StripeWebhook ingests payment events. Stripe retries delivery until it gets
// a 2xx, so every branch must be safe to replay: events are deduped by their
// provider id and the row writes are conflict-tolerant.
func StripeWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if secret := utils.StripeWebhookSecret(); secret != "" {
		if !utils.VerifyStripeSignature(body, c.Get("Stripe-Signature"), secret) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Invalid webhook signature!")
		}
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" || event.Type == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Malformed event payload!")
	}

	db := database.Database.Db

	// Dedupe on the provider event id; a redelivered event is acknowledged
	// without reprocessing.
	record := models.WebhookEvent{
		EventID:     event.ID,
		Type:        event.Type,
		Payload:     datatypes.JSON(body),
		ProcessedAt: time.Now(),
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&record)
	if res.Error != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to record event!")
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event already processed.", nil)
	}

	switch event.Type {
	case "checkout.session.completed":
		return handleCheckoutCompleted(c, event.Data.Object)
	case "customer.subscription.created", "customer.subscription.updated":
		return handleSubscriptionUpserted(c, event.Data.Object)
	case "customer.subscription.deleted":
		return handleSubscriptionDeleted(c, event.Data.Object)
	default:
		// Unhandled event types are acknowledged so Stripe stops resending.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}
}

func handleCheckoutCompleted(c *fiber.Ctx, object json.RawMessage) error {
	var session checkoutSession
	if err := json.Unmarshal(object, &session); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Malformed checkout session!")
	}

	userID := utils.ParseUint(session.ClientReferenceID)
	courseID := utils.ParseUint(session.Metadata.CourseID)
	if userID == 0 || courseID == 0 {
		log.Printf("[STRIPE] checkout session %s missing user/course reference", session.ID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		PaymentID:  session.PaymentIntent,
		Source:     "PURCHASE",
	}
	err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error
	if err != nil {
		log.Printf("[STRIPE] Failed to create enrollment for user %d course %d: %v", userID, courseID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to create enrollment!")
	}

	log.Printf("[STRIPE] Enrolled user %d in course %d (session %s)", userID, courseID, session.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment created.", nil)
}

func handleSubscriptionUpserted(c *fiber.Ctx, object json.RawMessage) error {
	var payload stripeSubscription
	if err := json.Unmarshal(object, &payload); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Malformed subscription object!")
	}

	userID := utils.ParseUint(payload.Metadata.UserID)
	if userID == 0 || payload.ID == "" {
		log.Printf("[STRIPE] subscription event missing user reference")
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	// Re-fetch from the API when possible; the webhook body can arrive out
	// of order relative to later updates.
	if fresh, err := utils.FetchStripeSubscription(payload.ID); err == nil {
		payload.Status = fresh.Status
		payload.CurrentPeriodStart = fresh.CurrentPeriodStart
		payload.CurrentPeriodEnd = fresh.CurrentPeriodEnd
	} else {
		log.Printf("[STRIPE] Could not refresh subscription %s, using webhook payload: %v", payload.ID, err)
	}

	sub := models.Subscription{
		UserID:               userID,
		StripeSubscriptionID: payload.ID,
		Status:               mapStripeStatus(payload.Status),
		CurrentPeriodStart:   time.Unix(payload.CurrentPeriodStart, 0),
		CurrentPeriodEnd:     time.Unix(payload.CurrentPeriodEnd, 0),
	}
	err := database.Database.Db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "current_period_start", "current_period_end", "updated_at",
		}),
	}).Create(&sub).Error
	if err != nil {
		log.Printf("[STRIPE] Failed to upsert subscription %s: %v", payload.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to upsert subscription!")
	}

	log.Printf("[STRIPE] Subscription %s for user %d now %s", payload.ID, userID, sub.Status)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription updated.", nil)
}

func handleSubscriptionDeleted(c *fiber.Ctx, object json.RawMessage) error {
	var payload stripeSubscription
	if err := json.Unmarshal(object, &payload); err != nil || payload.ID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidInput, "Malformed subscription object!")
	}

	err := database.Database.Db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", payload.ID).
		Update("status", models.SubscriptionCancelled).Error
	if err != nil {
		log.Printf("[STRIPE] Failed to cancel subscription %s: %v", payload.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to cancel subscription!")
	}

	log.Printf("[STRIPE] Subscription %s cancelled", payload.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription cancelled.", nil)
}

// mapStripeStatus folds Stripe's status vocabulary into ours.
func mapStripeStatus(status string) string {
	switch status {
	case "active", "trialing":
		return models.SubscriptionActive
	case "past_due", "unpaid":
		return models.SubscriptionPastDue
	case "canceled":
		return models.SubscriptionCancelled
	default:
		return models.SubscriptionExpired
	}
}
