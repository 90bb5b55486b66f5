package jobs

import (
	"time"

	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/robfig/cron/v3"
)

// clock is replaced in tests.
var clock = func() time.Time { return time.Now().UTC() }

// Start schedules every background job to run each five minutes. The caller
// stops the returned scheduler on shutdown.
func Start() (*cron.Cron, error) {
	c := cron.New()
	for name, job := range map[string]func(){
		"session_reminders":       SendSessionReminders,
		"expire_stale_bookings":   ExpireStaleBookings,
		"review_request_reminder": RemindPendingReviewRequests,
	} {
		if _, err := c.AddFunc("*/5 * * * *", job); err != nil {
			return nil, err
		}
		logger.Log.Debugw("Job scheduled", "job", name)
	}
	c.Start()
	logger.Log.Info("Background jobs scheduled")
	return c, nil
}
