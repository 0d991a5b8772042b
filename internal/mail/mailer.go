package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer delivers transactional email. Implementations must honor the
// context deadline so a stalled provider fails the request fast.
type Mailer interface {
	SendResetPassword(ctx context.Context, toEmail, resetURL string) error
}

// BrevoMailer sends transactional emails via the Brevo (Sendinblue) HTTP
// API v3.
type BrevoMailer struct {
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
	resetTpl    *template.Template
}

var resetTemplate = template.Must(template.New("reset").Parse(`<h2>Hello</h2>
<p>Please use the link below to reset your password.</p>
<p>This reset link is valid for only 30 minutes.</p>
<p><a href="{{.ResetURL}}" clicktracking="off">{{.ResetURL}}</a></p>
<p>Regards,</p>
<p>Inventory App Team</p>`))

// NewBrevoMailer initializes the mailer with a 10 second request timeout.
func NewBrevoMailer(apiKey, senderName, senderEmail string) *BrevoMailer {
	return &BrevoMailer{
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		client:      &http.Client{Timeout: 10 * time.Second},
		resetTpl:    resetTemplate,
	}
}

// SendResetPassword emails the password reset link to a user.
func (m *BrevoMailer) SendResetPassword(ctx context.Context, toEmail, resetURL string) error {
	var buf bytes.Buffer
	if err := m.resetTpl.Execute(&buf, struct{ ResetURL string }{resetURL}); err != nil {
		return err
	}
	return m.send(ctx, toEmail, "Password Reset Request", buf.String())
}

func (m *BrevoMailer) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := map[string]any{
		"sender":      map[string]string{"name": m.senderName, "email": m.senderEmail},
		"to":          []map[string]string{{"email": toEmail}},
		"subject":     subject,
		"htmlContent": htmlContent,
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Info().Str("to", toEmail).Str("subject", subject).Msg("Email sent")
		return nil
	}
	return fmt.Errorf("brevo send failed status=%d", resp.StatusCode)
}
