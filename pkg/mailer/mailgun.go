package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends rendered emails through the Mailgun API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := m.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}

// Render turns a job into a subject and plain-text body.
func Render(job EmailJob) (string, string, error) {
	switch job.Template {
	case TemplateVerifyEmail:
		return "Verify your account",
			fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in %s.\n",
				job.Data["username"], job.Data["token"], job.Data["expires_in"]), nil
	case TemplateForgotPassword:
		return "Reset your password",
			fmt.Sprintf("Hello %s,\n\nUse code %s to reset your password. It expires in %s.\n"+
				"If you did not ask for this, ignore this email.\n",
				job.Data["username"], job.Data["token"], job.Data["expires_in"]), nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
