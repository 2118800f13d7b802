package mail

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/resendlabs/resend-go"
)

// Mailer defines contract for outbound email delivery (Resend implementation).
type Mailer interface {
	Send(to, subject, html string) error
	// SendWithAttachment attaches a single file (e.g. a registration QR code).
	SendWithAttachment(to, subject, html, fileName string, content []byte) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer builds a Resend-backed Mailer from RESEND_API_KEY and
// MAIL_FROM. Returns an error when the API key is missing so callers can
// decide whether mail is optional for them.
func NewResendMailer() (Mailer, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not set")
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "ClubHub <noreply@clubhub.campus.id>"
	}

	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

func (m *resendMailer) Send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s (id=%s)", to, sent.Id)
	return nil
}

func (m *resendMailer) SendWithAttachment(to, subject, html, fileName string, content []byte) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Attachments: []resend.Attachment{
			{Filename: fileName, Content: base64.StdEncoding.EncodeToString(content)},
		},
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email with attachment sent to %s (id=%s)", to, sent.Id)
	return nil
}
