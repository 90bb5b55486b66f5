package jobs

import (
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/websocket"
)

func SendSessionReminders() {
	sent, err := sendSessionReminders(clock())
	if err != nil {
		logger.Log.Errorw("Session reminder job failed", "error", err)
		return
	}
	if sent > 0 {
		logger.Log.Infow("Session reminders sent", "count", sent)
	}
}

// sendSessionReminders emails both sides of every accepted booking starting
// 60 to 65 minutes from now. Each booking is claimed by stamping
// reminder_sent_at first, so overlapping runs never remind twice.
func sendSessionReminders(now time.Time) (int, error) {
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Booking
	err := database.DB.
		Preload("Learner").
		Preload("Tutor").
		Preload("Course").
		Where("status = ? AND reminder_sent_at IS NULL AND session_date BETWEEN ? AND ?",
			models.BookingAccepted, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, booking := range upcoming {
		res := database.DB.Model(&models.Booking{}).
			Where("id = ? AND reminder_sent_at IS NULL", booking.ID).
			Update("reminder_sent_at", now)
		if res.Error != nil {
			return sent, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		for _, u := range []models.User{booking.Learner, booking.Tutor} {
			subject, body := notifications.SessionReminderEmail(u.FullName, booking.Course.Title, booking.SessionDate, booking.MeetingLink)
			go notifications.SendEmail(u.FullName, u.Email, subject, body)
			websocket.Notify(u.ID, "booking.reminder", booking)
		}
		sent++
	}
	return sent, nil
}
