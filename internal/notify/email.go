package notify

import (
	"fmt"

	"pennywise-backend/internal/log"

	"github.com/resend/resend-go/v2"
)

// WelcomeMailer sends the post-registration welcome email. Delivery is
// best-effort; when no API key is configured the mail is logged instead
// so local development works without credentials.
type WelcomeMailer struct {
	apiKey string
	from   string
	logger *log.Logger
}

func NewWelcomeMailer(apiKey, from string, logger *log.Logger) *WelcomeMailer {
	return &WelcomeMailer{
		apiKey: apiKey,
		from:   from,
		logger: logger.WithComponent("mailer"),
	}
}

func (m *WelcomeMailer) SendWelcome(name, email string) error {
	if m.apiKey == "" {
		m.logger.Info("RESEND_API_KEY not set, skipping email send", "to", email)
		return nil
	}

	client := resend.NewClient(m.apiKey)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Welcome to Pennywise",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Welcome, %s!</h2>
				<p>Your Pennywise account is ready. Log in to set up your budget and start recording transactions.</p>
				<p style="color: #aaa; font-size: 12px;">
					If you didn't create this account, you can safely ignore this email.
				</p>
			</div>
		`, name),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info("welcome email sent", "id", sent.Id, "to", email)
	return nil
}
