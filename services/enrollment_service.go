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

// Enroll registers the learner for a course. Paid courses start in
// pending_payment, free ones are active straight away. A cancelled
// enrollment is revived rather than duplicated.
func Enroll(learnerID, courseID uuid.UUID) (*models.Enrollment, error) {
	db := database.DB

	var course models.Course
	if err := db.First(&course, "id = ? AND is_active = ?", courseID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Course not found")
		}
		return nil, err
	}

	status := models.EnrollmentPendingPayment
	if course.FullCourseRate == 0 {
		status = models.EnrollmentActive
	}

	if course.MaxStudents > 0 {
		var seats int64
		err := db.Model(&models.Enrollment{}).
			Where("course_id = ? AND status IN ?", course.ID, []string{models.EnrollmentActive, models.EnrollmentPendingPayment}).
			Count(&seats).Error
		if err != nil {
			return nil, err
		}
		if seats >= int64(course.MaxStudents) {
			return nil, utils.Conflict("This course is full")
		}
	}

	var existing models.Enrollment
	err := db.Where("learner_id = ? AND course_id = ?", learnerID, course.ID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status != models.EnrollmentCancelled {
			return nil, utils.Conflict("You are already enrolled in this course")
		}
		res := db.Model(&models.Enrollment{}).
			Where("id = ? AND status = ?", existing.ID, models.EnrollmentCancelled).
			Updates(map[string]interface{}{"status": status, "progress": 0, "hours_completed": 0, "completed_at": nil})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, utils.Conflict("You are already enrolled in this course")
		}
		existing.Status = status
		existing.Progress = 0
		existing.HoursCompleted = 0
		existing.CompletedAt = nil
		existing.Course = course
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	enrollment := models.Enrollment{LearnerID: learnerID, CourseID: course.ID, Status: status}
	if err := db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("You are already enrolled in this course")
		}
		return nil, err
	}
	enrollment.Course = course
	return &enrollment, nil
}

func loadEnrollment(db *gorm.DB, enrollmentID uuid.UUID) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := db.Preload("Learner").Preload("Course").First(&e, "id = ?", enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Enrollment not found")
		}
		return nil, err
	}
	return &e, nil
}

// UpdateProgress records progress on an active enrollment. The boolean result
// is true when this update completed the course.
func UpdateProgress(tutorID, enrollmentID uuid.UUID, progress int, hours float64) (*models.Enrollment, bool, error) {
	e, err := loadEnrollment(database.DB, enrollmentID)
	if err != nil {
		return nil, false, err
	}
	if e.Course.TutorID != tutorID {
		return nil, false, utils.Forbidden("You can only update enrollments in your own courses")
	}
	if e.Status != models.EnrollmentActive {
		return nil, false, utils.Conflict("Only active enrollments can be updated")
	}

	updates := map[string]interface{}{"progress": progress, "hours_completed": hours}
	completed := progress >= 100
	if completed {
		now := time.Now().UTC()
		updates["status"] = models.EnrollmentCompleted
		updates["completed_at"] = now
		e.Status = models.EnrollmentCompleted
		e.CompletedAt = &now
	}

	res := database.DB.Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", e.ID, models.EnrollmentActive).
		Updates(updates)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, utils.Conflict("Enrollment was updated by another request")
	}
	e.Progress = progress
	e.HoursCompleted = hours
	return e, completed, nil
}

func CancelEnrollment(learnerID, enrollmentID uuid.UUID) (*models.Enrollment, error) {
	e, err := loadEnrollment(database.DB, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.LearnerID != learnerID {
		return nil, utils.Forbidden("You can only cancel your own enrollments")
	}

	res := database.DB.Model(&models.Enrollment{}).
		Where("id = ? AND status IN ?", e.ID, []string{models.EnrollmentPendingPayment, models.EnrollmentActive}).
		Update("status", models.EnrollmentCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.Conflict("Only pending or active enrollments can be cancelled")
	}
	e.Status = models.EnrollmentCancelled
	return e, nil
}
