package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/logger"
)

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(toEmail, toName, subject, htmlContent string) error
}

// EmailClient is the active mailer. A nil client disables outbound email.
var EmailClient Mailer

const brevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// InitEmailService picks the provider named by EMAIL_PROVIDER.
func InitEmailService() {
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")
	provider := config.Config("EMAIL_PROVIDER")

	var apiKey string
	switch provider {
	case "sendgrid":
		apiKey = config.Config("SENDGRID_API_KEY")
	default:
		provider = "brevo"
		apiKey = config.Config("BREVO_API_KEY")
	}

	if apiKey == "" || senderEmail == "" || senderName == "" {
		logger.Log.Warnw("Email service not configured, outbound email disabled", "provider", provider)
		EmailClient = nil
		return
	}

	if provider == "sendgrid" {
		EmailClient = NewSendgridService(apiKey, senderName, senderEmail)
	} else {
		EmailClient = &BrevoService{
			APIKey:      apiKey,
			SenderEmail: senderEmail,
			SenderName:  senderName,
			client:      &http.Client{Timeout: 10 * time.Second},
		}
	}
	logger.Log.Infow("Email service initialized", "provider", provider, "sender", senderEmail)
}

func recipientName(toEmail, toName string) string {
	if toName != "" {
		return toName
	}
	return toEmail[:strings.Index(toEmail, "@")]
}

func (s *BrevoService) Send(toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName(toEmail, toName)}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, brevoURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// SendEmail is fire-and-forget; callers usually run it in a goroutine.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		logger.Log.Debugw("Email client not initialized, skipping email", "to", toEmail, "subject", subject)
		return
	}

	if err := EmailClient.Send(toEmail, toName, subject, htmlContent); err != nil {
		logger.Log.Errorw("Failed to send email", "to", toEmail, "subject", subject, "error", err)
		return
	}
	logger.Log.Infow("Email sent", "to", toEmail, "subject", subject)
}
