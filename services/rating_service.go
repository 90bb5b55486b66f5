package services

import (
	"math"

	"github.com/anjiri1684/skill_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecalculateTutorRating recomputes avg_rating and total_reviews over the
// tutor's published reviews. Call it with the transaction that changed them.
func RecalculateTutorRating(tx *gorm.DB, tutorID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("tutor_id = ? AND status = ?", tutorID, models.ReviewPublished).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Tutor{}).
		Where("user_id = ?", tutorID).
		Updates(map[string]interface{}{
			"avg_rating":    math.Round(agg.Avg*100) / 100,
			"total_reviews": agg.Count,
		}).Error
}
