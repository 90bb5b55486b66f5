package jobs

import (
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/websocket"
)

const expiredReason = "The tutor did not respond before the session date"

func ExpireStaleBookings() {
	expired, err := expireStaleBookings(clock())
	if err != nil {
		logger.Log.Errorw("Booking expiry job failed", "error", err)
		return
	}
	if expired > 0 {
		logger.Log.Infow("Stale bookings cancelled", "count", expired)
	}
}

// expireStaleBookings cancels pending bookings whose session date has passed.
func expireStaleBookings(now time.Time) (int, error) {
	var stale []models.Booking
	if err := database.DB.
		Where("status = ? AND session_date < ?", models.BookingPending, now).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range stale {
		res := database.DB.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingPending).
			Updates(map[string]interface{}{
				"status":           models.BookingCancelled,
				"rejection_reason": expiredReason,
			})
		if res.Error != nil {
			return expired, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		booking.Status = models.BookingCancelled
		websocket.Notify(booking.LearnerID, "booking.cancelled", booking)
		expired++
	}
	return expired, nil
}
