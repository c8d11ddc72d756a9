package subscriptionController

import (
	"errors"
	"time"

	"lingala/database"
	"lingala/middleware"
	"lingala/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubscriptionStatus is the DTO the dashboard and player consume.
type SubscriptionStatus struct {
	IsActive         bool       `json:"is_active"`
	Status           string     `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// GetSubscription returns the caller's current subscription status
func GetSubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeAuthRequired, "Unauthorized!")
	}

	var sub models.Subscription
	err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("current_period_end desc").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No subscription found.", SubscriptionStatus{IsActive: false})
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeUpstreamUnavailable, "Failed to fetch subscription!")
	}

	status := SubscriptionStatus{
		IsActive:         sub.IsActive(time.Now()),
		Status:           sub.Status,
		CurrentPeriodEnd: &sub.CurrentPeriodEnd,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully!", status)
}
