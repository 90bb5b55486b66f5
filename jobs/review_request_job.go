package jobs

import (
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/websocket"
)

func RemindPendingReviewRequests() {
	reminded, err := remindPendingReviewRequests(clock(), config.Duration("REVIEW_REQUEST_REMINDER_AFTER"))
	if err != nil {
		logger.Log.Errorw("Review request reminder job failed", "error", err)
		return
	}
	if reminded > 0 {
		logger.Log.Infow("Review request reminders sent", "count", reminded)
	}
}

// remindPendingReviewRequests nudges students about requests that have been
// pending for longer than after. Each request is reminded at most once.
func remindPendingReviewRequests(now time.Time, after time.Duration) (int, error) {
	var stale []models.ReviewRequest
	if err := database.DB.
		Preload("Student").
		Preload("Tutor").
		Preload("Course").
		Where("status = ? AND reminded_at IS NULL AND created_at < ?", models.ReviewRequestPending, now.Add(-after)).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	reminded := 0
	for _, rr := range stale {
		res := database.DB.Model(&models.ReviewRequest{}).
			Where("id = ? AND status = ? AND reminded_at IS NULL", rr.ID, models.ReviewRequestPending).
			Update("reminded_at", now)
		if res.Error != nil {
			return reminded, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		subject, body := notifications.ReviewRequestReminderEmail(rr.Student.FullName, rr.Tutor.FullName, rr.Course.Title)
		go notifications.SendEmail(rr.Student.FullName, rr.Student.Email, subject, body)
		websocket.Notify(rr.StudentID, "review_request.reminder", rr)
		reminded++
	}
	return reminded, nil
}
