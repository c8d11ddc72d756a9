package subscriptionRoutes

import (
	subscriptionControllers "lingala/controllers/subscription"
	webhookControllers "lingala/controllers/webhook"
	"lingala/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupSubscriptionRoutes sets up subscription status and payment webhook routes
func SetupSubscriptionRoutes(app *fiber.App) {
	userGroup := app.Group("/user")
	userGroup.Get("/subscription", middleware.JWTMiddleware, subscriptionControllers.GetSubscription)

	// Stripe authenticates itself with the signature header, not a JWT
	app.Post("/webhooks/stripe", webhookControllers.StripeWebhook)
}
