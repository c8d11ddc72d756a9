package utils

import (
	"fmt"
	"log"
	"time"

	"lingala/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func sendEmail(toEmail, toName, subject, htmlBody string) error {
	apiKey := config.AppConfig.SendgridApiKey
	if apiKey == "" {
		log.Printf("SENDGRID_API_KEY not set; skipping email %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("Lingala.cd", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) {
	html := fmt.Sprintf(`<p>Mbote %s!</p>
<p>Welcome to Lingala.cd. Browse the course catalog and start with the free preview lessons.</p>`, name)

	if err := sendEmail(email, name, "Welcome to Lingala.cd", html); err != nil {
		log.Printf("Error sending welcome email to %s: %v", email, err)
	}
}

// SendEnrollmentEmail confirms a course enrollment
func SendEnrollmentEmail(email, name, courseTitle string) {
	html := fmt.Sprintf(`<p>Mbote %s!</p>
<p>You are now enrolled in <strong>%s</strong>. Your progress is saved automatically while you watch.</p>`, name, courseTitle)

	if err := sendEmail(email, name, "Enrollment confirmed: "+courseTitle, html); err != nil {
		log.Printf("Error sending enrollment email to %s: %v", email, err)
	}
}

// SendSubscriptionExpiryReminder warns a user their subscription ends soon
func SendSubscriptionExpiryReminder(email, name string, expiresAt time.Time) {
	html := fmt.Sprintf(`<p>Mbote %s!</p>
<p>Your Lingala.cd subscription ends on %s. Renew to keep access to all courses.</p>`,
		name, expiresAt.Format("Jan 2, 2006"))

	if err := sendEmail(email, name, "Your subscription is ending soon", html); err != nil {
		log.Printf("Error sending expiry reminder to %s: %v", email, err)
	}
}

// SendSubscriptionExpiredEmail notifies a user their subscription lapsed
func SendSubscriptionExpiredEmail(email, name string) {
	html := fmt.Sprintf(`<p>Mbote %s!</p>
<p>Your Lingala.cd subscription has expired. Resubscribe anytime to pick up where you left off; your progress is kept.</p>`, name)

	if err := sendEmail(email, name, "Your subscription has expired", html); err != nil {
		log.Printf("Error sending expiry notice to %s: %v", email, err)
	}
}
