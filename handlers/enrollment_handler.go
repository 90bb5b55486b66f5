package handlers

import (
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/anjiri1684/skill_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

type ProgressRequest struct {
	Progress       int     `json:"progress" validate:"gte=0,lte=100"`
	HoursCompleted float64 `json:"hours_completed" validate:"gte=0"`
}

func CreateEnrollment(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req EnrollRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	enrollment, err := services.Enroll(learnerID, uuid.MustParse(req.CourseID))
	if err != nil {
		return utils.HandleError(c, err)
	}

	websocket.Notify(enrollment.Course.TutorID, "enrollment.created", enrollment)
	return utils.Created(c, enrollment, "Enrollment created")
}

func GetMyEnrollments(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	query := database.DB.Preload("Course").Preload("Course.Tutor").Where("learner_id = ?", learnerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var enrollments []models.Enrollment
	if err := query.Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list enrollments")
	}
	return utils.OK(c, enrollments)
}

func CancelEnrollment(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	enrollmentID, ok, err := paramID(c, "enrollmentId")
	if !ok {
		return err
	}

	enrollment, err := services.CancelEnrollment(learnerID, enrollmentID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	websocket.Notify(enrollment.Course.TutorID, "enrollment.cancelled", enrollment)
	return utils.OK(c, enrollment, "Enrollment cancelled")
}

func GetTutorEnrollments(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	query := database.DB.Preload("Learner").Preload("Course").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.tutor_id = ?", tutorID)
	if status := c.Query("status"); status != "" {
		query = query.Where("enrollments.status = ?", status)
	}
	if id, err := uuid.Parse(c.Query("course_id")); err == nil {
		query = query.Where("enrollments.course_id = ?", id)
	}

	var enrollments []models.Enrollment
	if err := query.Order("enrollments.created_at DESC").Find(&enrollments).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list enrollments")
	}
	return utils.OK(c, enrollments)
}

func UpdateEnrollmentProgress(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	enrollmentID, ok, err := paramID(c, "enrollmentId")
	if !ok {
		return err
	}
	var req ProgressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	enrollment, completed, err := services.UpdateProgress(tutorID, enrollmentID, req.Progress, req.HoursCompleted)
	if err != nil {
		return utils.HandleError(c, err)
	}

	if completed {
		subject, body := notifications.EnrollmentEmail(enrollment.Learner.FullName, enrollment.Course.Title, models.EnrollmentCompleted)
		go notifications.SendEmail(enrollment.Learner.FullName, enrollment.Learner.Email, subject, body)
		go services.GenerateCertificate(enrollment.ID)
		websocket.Notify(enrollment.LearnerID, "enrollment.completed", enrollment)
	} else {
		websocket.Notify(enrollment.LearnerID, "enrollment.progress", enrollment)
	}
	return utils.OK(c, enrollment, "Progress updated")
}
