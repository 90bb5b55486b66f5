package notifications

import (
	"fmt"
	"html"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
)

const sessionTimeLayout = "Monday, January 2, 2006 at 15:04 MST"

func esc(s string) string { return html.EscapeString(s) }

func frontendLink(path string) string {
	return config.Config("FRONTEND_URL") + path
}

func PasswordResetEmail(name, token string) (string, string) {
	link := frontendLink("/reset-password?token=" + token)
	return "Reset your password", fmt.Sprintf(
		`<h1>Password reset</h1><p>Hi %s,</p><p>Use the link below to choose a new password. It expires in 15 minutes.</p><p><a href="%s">Reset password</a></p>`,
		esc(name), link)
}

func WelcomeEmail(name, role string) (string, string) {
	return "Welcome to Skill Tutor", fmt.Sprintf(
		`<h1>Welcome, %s!</h1><p>Your %s account is ready.</p>`, esc(name), esc(role))
}

func NewBookingEmail(tutorName, learnerName, courseTitle string, at time.Time) (string, string) {
	return "New booking request", fmt.Sprintf(
		`<h1>New booking request</h1><p>Hi %s,</p><p>%s requested a session for <strong>%s</strong> on %s.</p>`,
		esc(tutorName), esc(learnerName), esc(courseTitle), at.Format(sessionTimeLayout))
}

func BookingStatusEmail(learnerName, courseTitle, status string, at time.Time, reason *string) (string, string) {
	body := fmt.Sprintf(`<h1>Booking %s</h1><p>Hi %s,</p><p>Your session for <strong>%s</strong> on %s was %s.</p>`,
		esc(status), esc(learnerName), esc(courseTitle), at.Format(sessionTimeLayout), esc(status))
	if reason != nil && *reason != "" {
		body += fmt.Sprintf(`<p>Reason: %s</p>`, esc(*reason))
	}
	return "Your booking was " + status, body
}

func SessionReminderEmail(name, courseTitle string, at time.Time, meetingLink *string) (string, string) {
	body := fmt.Sprintf(`<h1>Upcoming session</h1><p>Hi %s,</p><p>Your session for <strong>%s</strong> starts at %s.</p>`,
		esc(name), esc(courseTitle), at.Format(sessionTimeLayout))
	if meetingLink != nil && *meetingLink != "" {
		body += fmt.Sprintf(`<p><a href="%s">Join the session</a></p>`, esc(*meetingLink))
	}
	return "Reminder: your session starts soon", body
}

func EnrollmentEmail(learnerName, courseTitle, status string) (string, string) {
	return "Enrollment update", fmt.Sprintf(
		`<h1>Enrollment %s</h1><p>Hi %s,</p><p>Your enrollment in <strong>%s</strong> is now %s.</p>`,
		esc(status), esc(learnerName), esc(courseTitle), esc(status))
}

func CertificateEmail(learnerName, courseTitle, url string) (string, string) {
	return "Your certificate is ready", fmt.Sprintf(
		`<h1>Congratulations, %s!</h1><p>You completed <strong>%s</strong>.</p><p><a href="%s">Download your certificate</a></p>`,
		esc(learnerName), esc(courseTitle), esc(url))
}

func PaymentReceiptEmail(learnerName string, amount float64, currency, method string) (string, string) {
	return "Payment received", fmt.Sprintf(
		`<h1>Payment received</h1><p>Hi %s,</p><p>We received your %s payment of %.2f %s. Thank you!</p>`,
		esc(learnerName), esc(method), amount, esc(currency))
}

func ReviewRequestEmail(studentName, tutorName, courseTitle string, message *string) (string, string) {
	body := fmt.Sprintf(`<h1>%s would love your feedback</h1><p>Hi %s,</p><p>Please take a minute to review <strong>%s</strong>.</p>`,
		esc(tutorName), esc(studentName), esc(courseTitle))
	if message != nil && *message != "" {
		body += fmt.Sprintf(`<blockquote>%s</blockquote>`, esc(*message))
	}
	body += fmt.Sprintf(`<p><a href="%s">Leave a review</a></p>`, frontendLink("/dashboard/review-requests"))
	return "Review request from " + tutorName, body
}

func ReviewRequestReminderEmail(studentName, tutorName, courseTitle string) (string, string) {
	return "Reminder: " + tutorName + " is waiting for your review", fmt.Sprintf(
		`<p>Hi %s,</p><p>%s is still waiting for your review of <strong>%s</strong>.</p><p><a href="%s">Leave a review</a></p>`,
		esc(studentName), esc(tutorName), esc(courseTitle), frontendLink("/dashboard/review-requests"))
}

func NewReviewEmail(tutorName, learnerName string, rating int) (string, string) {
	return "You received a new review", fmt.Sprintf(
		`<h1>New review</h1><p>Hi %s,</p><p>%s rated you %d/5.</p>`, esc(tutorName), esc(learnerName), rating)
}
