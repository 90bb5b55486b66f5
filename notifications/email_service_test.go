package notifications

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(toEmail, toName, subject, htmlContent string) error {
	f.sent = append(f.sent, toEmail+"|"+subject)
	return f.err
}

func withMailer(t *testing.T, m Mailer) {
	prev := EmailClient
	EmailClient = m
	t.Cleanup(func() { EmailClient = prev })
}

func TestSendEmailUsesClient(t *testing.T) {
	fm := &fakeMailer{}
	withMailer(t, fm)

	SendEmail("Ann", "ann@example.com", "Hello", "<p>hi</p>")
	SendEmail("Ann", "ann@example.com", "Again", "<p>hi</p>")

	assert.Equal(t, []string{"ann@example.com|Hello", "ann@example.com|Again"}, fm.sent)
}

func TestSendEmailSwallowsErrors(t *testing.T) {
	withMailer(t, &fakeMailer{err: errors.New("boom")})
	assert.NotPanics(t, func() { SendEmail("Ann", "ann@example.com", "Hello", "") })
}

func TestSendEmailWithoutClient(t *testing.T) {
	withMailer(t, nil)
	assert.NotPanics(t, func() { SendEmail("Ann", "ann@example.com", "Hello", "") })
}

func TestInitEmailServiceSelectsProvider(t *testing.T) {
	withMailer(t, nil)
	t.Setenv("EMAIL_SENDER", "noreply@example.com")
	t.Setenv("EMAIL_SENDER_NAME", "Skill Tutor")

	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	InitEmailService()
	require.NotNil(t, EmailClient)
	assert.IsType(t, &SendgridService{}, EmailClient)

	t.Setenv("EMAIL_PROVIDER", "brevo")
	t.Setenv("BREVO_API_KEY", "")
	InitEmailService()
	assert.Nil(t, EmailClient)

	t.Setenv("BREVO_API_KEY", "brevo-key")
	InitEmailService()
	assert.IsType(t, &BrevoService{}, EmailClient)
}

func TestInvalidRecipientRejected(t *testing.T) {
	svc := NewSendgridService("key", "Skill Tutor", "noreply@example.com")
	assert.Error(t, svc.Send("not-an-email", "", "s", "b"))

	brevo := &BrevoService{APIKey: "k"}
	assert.Error(t, brevo.Send("", "", "s", "b"))
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	msg := "<script>alert(1)</script>"
	subject, body := ReviewRequestEmail("Sam", "Tia", "Go 101", &msg)
	assert.Equal(t, "Review request from Tia", subject)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")

	reason := "Busy"
	_, body = BookingStatusEmail("Sam", "Go 101", "rejected", time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC), &reason)
	assert.Contains(t, body, "Reason: Busy")
}
