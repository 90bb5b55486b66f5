package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReviewRequestInput struct {
	TutorID   uuid.UUID
	StudentID uuid.UUID
	CourseID  uuid.UUID
	BookingID *uuid.UUID
	Message   *string
}

// CreateReviewRequest solicits a review from a student for one of the tutor's
// courses. The boolean result is false when an existing request whose review
// was deleted has been reopened instead of a new one being created.
func CreateReviewRequest(in CreateReviewRequestInput) (*models.ReviewRequest, bool, error) {
	db := database.DB

	var course models.Course
	if err := db.First(&course, "id = ?", in.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, utils.NotFound("Course not found")
		}
		return nil, false, err
	}
	if course.TutorID != in.TutorID {
		return nil, false, utils.Forbidden("You can only request reviews for your own courses")
	}

	var student models.User
	if err := db.First(&student, "id = ?", in.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, utils.BadRequest("Student not found")
		}
		return nil, false, err
	}
	if student.Role != models.RoleLearner {
		return nil, false, utils.BadRequest("Review requests can only be sent to learners")
	}

	if err := checkStudentRelationship(db, in); err != nil {
		return nil, false, err
	}

	var existing models.ReviewRequest
	err := db.Where("tutor_id = ? AND student_id = ? AND course_id = ?", in.TutorID, in.StudentID, in.CourseID).
		First(&existing).Error
	switch {
	case err == nil:
		return reopenReviewRequest(db, existing, in)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	if err := ensureNotReviewed(db, in.StudentID, in.TutorID, in.CourseID); err != nil {
		return nil, false, err
	}

	req := models.ReviewRequest{
		TutorID:   in.TutorID,
		StudentID: in.StudentID,
		CourseID:  in.CourseID,
		BookingID: in.BookingID,
		Message:   in.Message,
		Status:    models.ReviewRequestPending,
	}
	if err := db.Create(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, utils.Conflict("A review request already exists for this student and course")
		}
		return nil, false, err
	}
	return &req, true, nil
}

func checkStudentRelationship(db *gorm.DB, in CreateReviewRequestInput) error {
	if in.BookingID != nil {
		var count int64
		err := db.Model(&models.Booking{}).
			Where("id = ? AND learner_id = ? AND course_id = ?", *in.BookingID, in.StudentID, in.CourseID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return utils.BadRequest("Booking does not belong to this student and course")
		}
	}

	var enrollments int64
	err := db.Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ? AND status <> ?", in.StudentID, in.CourseID, models.EnrollmentCancelled).
		Count(&enrollments).Error
	if err != nil {
		return err
	}
	if enrollments > 0 {
		return nil
	}

	var bookings int64
	err = db.Model(&models.Booking{}).
		Where("learner_id = ? AND course_id = ? AND status IN ?", in.StudentID, in.CourseID,
			[]string{models.BookingAccepted, models.BookingCompleted}).
		Count(&bookings).Error
	if err != nil {
		return err
	}
	if bookings == 0 {
		return utils.BadRequest("Student is not enrolled in and has no sessions booked for this course")
	}
	return nil
}

func ensureNotReviewed(db *gorm.DB, studentID, tutorID, courseID uuid.UUID) error {
	var count int64
	err := db.Model(&models.Review{}).
		Where("learner_id = ? AND tutor_id = ? AND course_id = ?", studentID, tutorID, courseID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.Conflict("Student has already reviewed this course")
	}
	return nil
}

func reviewExists(db *gorm.DB, reviewID *uuid.UUID) (bool, error) {
	if reviewID == nil {
		return false, nil
	}
	var count int64
	if err := db.Model(&models.Review{}).Where("id = ?", *reviewID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func reopenReviewRequest(db *gorm.DB, existing models.ReviewRequest, in CreateReviewRequestInput) (*models.ReviewRequest, bool, error) {
	if existing.Status == models.ReviewRequestPending {
		return nil, false, utils.Conflict("A review request is already pending for this student and course")
	}

	live, err := reviewExists(db, existing.ReviewID)
	if err != nil {
		return nil, false, err
	}
	if live {
		return nil, false, utils.Conflict("Student has already responded to this review request")
	}
	if err := ensureNotReviewed(db, in.StudentID, in.TutorID, in.CourseID); err != nil {
		return nil, false, err
	}

	res := db.Model(&models.ReviewRequest{}).
		Where("id = ? AND status = ?", existing.ID, models.ReviewRequestResponded).
		Updates(map[string]interface{}{
			"status":       models.ReviewRequestPending,
			"review_id":    nil,
			"responded_at": nil,
			"reminded_at":  nil,
			"booking_id":   in.BookingID,
			"message":      in.Message,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, utils.Conflict("Review request was modified concurrently")
	}

	var reopened models.ReviewRequest
	if err := db.First(&reopened, "id = ?", existing.ID).Error; err != nil {
		return nil, false, err
	}
	return &reopened, false, nil
}

// ReconcileReviewRequests moves responded requests whose review no longer
// exists back to pending, updating both the rows and the given slice.
func ReconcileReviewRequests(db *gorm.DB, requests []models.ReviewRequest) error {
	var reviewIDs []uuid.UUID
	for _, r := range requests {
		if r.Status == models.ReviewRequestResponded && r.ReviewID != nil {
			reviewIDs = append(reviewIDs, *r.ReviewID)
		}
	}

	live := make(map[uuid.UUID]bool, len(reviewIDs))
	if len(reviewIDs) > 0 {
		var found []uuid.UUID
		if err := db.Model(&models.Review{}).Where("id IN ?", reviewIDs).Pluck("id", &found).Error; err != nil {
			return err
		}
		for _, id := range found {
			live[id] = true
		}
	}

	for i := range requests {
		r := &requests[i]
		if r.Status != models.ReviewRequestResponded || (r.ReviewID != nil && live[*r.ReviewID]) {
			continue
		}
		q := db.Model(&models.ReviewRequest{}).Where("id = ? AND status = ?", r.ID, models.ReviewRequestResponded)
		if r.ReviewID != nil {
			q = q.Where("review_id = ?", *r.ReviewID)
		}
		if err := q.Updates(map[string]interface{}{
			"status":       models.ReviewRequestPending,
			"review_id":    nil,
			"responded_at": nil,
		}).Error; err != nil {
			return err
		}
		r.Status = models.ReviewRequestPending
		r.ReviewID = nil
		r.RespondedAt = nil
	}
	return nil
}

type RespondInput struct {
	Rating  int
	Comment string
}

// RespondToReviewRequest records the student's review against the request and
// refreshes the tutor rating in one transaction.
func RespondToReviewRequest(requestID, studentID uuid.UUID, in RespondInput) (*models.Review, *models.ReviewRequest, error) {
	var review models.Review
	var req models.ReviewRequest

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Review request not found")
			}
			return err
		}
		if req.StudentID != studentID {
			return utils.Forbidden("Only the requested student can respond")
		}

		if req.Status == models.ReviewRequestResponded {
			live, err := reviewExists(tx, req.ReviewID)
			if err != nil {
				return err
			}
			if live {
				return utils.Conflict("You have already responded to this review request")
			}
		}
		if err := ensureNotReviewed(tx, req.StudentID, req.TutorID, req.CourseID); err != nil {
			return err
		}

		courseID, reqID := req.CourseID, req.ID
		review = models.Review{
			LearnerID:       req.StudentID,
			TutorID:         req.TutorID,
			CourseID:        &courseID,
			BookingID:       req.BookingID,
			ReviewRequestID: &reqID,
			Rating:          in.Rating,
			Comment:         in.Comment,
			Status:          models.ReviewPublished,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		q := tx.Model(&models.ReviewRequest{}).Where("id = ? AND status = ?", req.ID, req.Status)
		if req.Status == models.ReviewRequestResponded && req.ReviewID != nil {
			q = q.Where("review_id = ?", *req.ReviewID)
		}
		res := q.Updates(map[string]interface{}{
			"status":       models.ReviewRequestResponded,
			"review_id":    review.ID,
			"responded_at": now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("You have already responded to this review request")
		}

		reviewID := review.ID
		req.Status = models.ReviewRequestResponded
		req.ReviewID = &reviewID
		req.RespondedAt = &now

		return RecalculateTutorRating(tx, req.TutorID)
	})
	if err != nil {
		return nil, nil, err
	}
	return &review, &req, nil
}

// ReopenRequestsForReview returns requests answered by reviewID to pending.
func ReopenRequestsForReview(tx *gorm.DB, reviewID uuid.UUID) error {
	return tx.Model(&models.ReviewRequest{}).
		Where("review_id = ?", reviewID).
		Updates(map[string]interface{}{
			"status":       models.ReviewRequestPending,
			"review_id":    nil,
			"responded_at": nil,
		}).Error
}

// DeleteReviewRequest lets the owning tutor withdraw a request that is still pending.
func DeleteReviewRequest(requestID, tutorID uuid.UUID) error {
	var req models.ReviewRequest
	if err := database.DB.First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Review request not found")
		}
		return err
	}
	if req.TutorID != tutorID {
		return utils.Forbidden("You can only delete your own review requests")
	}

	res := database.DB.Where("id = ? AND status = ?", req.ID, models.ReviewRequestPending).Delete(&models.ReviewRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.Conflict("Only pending review requests can be deleted")
	}
	return nil
}
