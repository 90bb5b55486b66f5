package services

import (
	"errors"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	TutorID  uuid.UUID
	CourseID *uuid.UUID
	Rating   int
	Comment  string
}

// hasLearnedWith reports whether the learner completed a session with the
// tutor or holds a non-cancelled enrollment in one of their courses.
func hasLearnedWith(db *gorm.DB, learnerID, tutorID uuid.UUID, courseID *uuid.UUID) (bool, error) {
	bookings := db.Model(&models.Booking{}).
		Where("learner_id = ? AND tutor_id = ? AND status = ?", learnerID, tutorID, models.BookingCompleted)
	if courseID != nil {
		bookings = bookings.Where("course_id = ?", *courseID)
	}
	var n int64
	if err := bookings.Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	enrollments := db.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.learner_id = ? AND courses.tutor_id = ? AND enrollments.status <> ?",
			learnerID, tutorID, models.EnrollmentCancelled)
	if courseID != nil {
		enrollments = enrollments.Where("enrollments.course_id = ?", *courseID)
	}
	if err := enrollments.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreateReview(learnerID uuid.UUID, in CreateReviewInput) (*models.Review, error) {
	var review models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var tutor models.Tutor
		if err := tx.First(&tutor, "user_id = ?", in.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Tutor not found")
			}
			return err
		}
		if in.CourseID != nil {
			var course models.Course
			if err := tx.First(&course, "id = ?", *in.CourseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFound("Course not found")
				}
				return err
			}
			if course.TutorID != in.TutorID {
				return utils.BadRequest("Course is not taught by this tutor")
			}
		}

		ok, err := hasLearnedWith(tx, learnerID, in.TutorID, in.CourseID)
		if err != nil {
			return err
		}
		if !ok {
			return utils.Forbidden("You can only review tutors you have learned with")
		}

		dup := tx.Model(&models.Review{}).Where("learner_id = ? AND tutor_id = ?", learnerID, in.TutorID)
		if in.CourseID != nil {
			dup = dup.Where("course_id = ?", *in.CourseID)
		} else {
			dup = dup.Where("course_id IS NULL")
		}
		var n int64
		if err := dup.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return utils.Conflict("You have already reviewed this tutor")
		}

		review = models.Review{
			LearnerID: learnerID,
			TutorID:   in.TutorID,
			CourseID:  in.CourseID,
			Rating:    in.Rating,
			Comment:   in.Comment,
			Status:    models.ReviewPublished,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		// Answer an outstanding request for the same course, if any.
		if in.CourseID != nil {
			if err := tx.Model(&models.ReviewRequest{}).
				Where("tutor_id = ? AND student_id = ? AND course_id = ? AND status = ?",
					in.TutorID, learnerID, *in.CourseID, models.ReviewRequestPending).
				Updates(map[string]interface{}{
					"status":       models.ReviewRequestResponded,
					"review_id":    review.ID,
					"responded_at": review.CreatedAt,
				}).Error; err != nil {
				return err
			}
		}
		return RecalculateTutorRating(tx, in.TutorID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review by its author or an admin. Review requests it
// answered go back to pending.
func DeleteReview(reviewID, userID uuid.UUID, isAdmin bool) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Review not found")
			}
			return err
		}
		if !isAdmin && review.LearnerID != userID {
			return utils.Forbidden("You can only delete your own reviews")
		}

		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		if err := ReopenRequestsForReview(tx, review.ID); err != nil {
			return err
		}
		return RecalculateTutorRating(tx, review.TutorID)
	})
}

// SetReviewStatus publishes or hides a review.
func SetReviewStatus(reviewID uuid.UUID, status string) (*models.Review, error) {
	var review models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Review not found")
			}
			return err
		}
		if err := tx.Model(&review).Update("status", status).Error; err != nil {
			return err
		}
		return RecalculateTutorRating(tx, review.TutorID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
