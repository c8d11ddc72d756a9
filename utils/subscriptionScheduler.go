package utils

import (
	"log"
	"time"

	"lingala/database"
	"lingala/models"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the subscription expiry scheduler
func InitializeSubscriptionScheduler() {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	// Run daily at 6 AM to check expiring subscriptions
	c.AddFunc("0 6 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		ProcessExpiringSubscriptions()
		ExpireSubscriptions()
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started - runs daily at 6 AM")
}

// ProcessExpiringSubscriptions sends reminder emails for subscriptions ending in 3 days
func ProcessExpiringSubscriptions() {
	db := database.Database.Db
	now := time.Now()
	threeDaysFromNow := now.AddDate(0, 0, 3)

	var expiring []models.Subscription
	if err := db.
		Where("status = ? AND reminder_sent = false", models.SubscriptionActive).
		Where("current_period_end BETWEEN ? AND ?", now, threeDaysFromNow).
		Find(&expiring).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching expiring subscriptions: %v", err)
		return
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Found %d subscriptions expiring soon", len(expiring))

	for _, sub := range expiring {
		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err != nil {
			log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching user %d: %v", sub.UserID, err)
			continue
		}

		SendSubscriptionExpiryReminder(user.Email, user.Name, sub.CurrentPeriodEnd)

		db.Model(&sub).Update("reminder_sent", true)
		log.Printf("[SUBSCRIPTION-SCHEDULER] Sent expiry reminder for subscription %d to %s", sub.ID, user.Email)
	}
}

// ExpireSubscriptions marks subscriptions past their period end as EXPIRED.
// Stripe normally renews or cancels first; this sweep catches the ones whose
// renewal events never arrived.
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	var lapsed []models.Subscription
	if err := db.
		Where("status = ? AND current_period_end < ?", models.SubscriptionActive, now).
		Find(&lapsed).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching lapsed subscriptions: %v", err)
		return
	}
	if len(lapsed) == 0 {
		return
	}

	result := db.Model(&models.Subscription{}).
		Where("status = ? AND current_period_end < ?", models.SubscriptionActive, now).
		Update("status", models.SubscriptionExpired)
	if result.Error != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error expiring subscriptions: %v", result.Error)
		return
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Expired %d subscriptions", result.RowsAffected)

	for _, sub := range lapsed {
		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err == nil {
			SendSubscriptionExpiredEmail(user.Email, user.Name)
		}
	}
}
