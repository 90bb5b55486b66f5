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

type CreateReviewRequestBody struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	CourseID  string  `json:"course_id" validate:"required,uuid"`
	BookingID *string `json:"booking_id" validate:"omitempty,uuid"`
	Message   *string `json:"message" validate:"omitempty,max=1000"`
}

type RespondToReviewRequestBody struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func loadReviewRequest(id uuid.UUID) (*models.ReviewRequest, error) {
	var req models.ReviewRequest
	err := database.DB.Preload("Tutor").Preload("Student").Preload("Course").First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func CreateReviewRequest(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var body CreateReviewRequestBody
	if ok, err := bind(c, &body); !ok {
		return err
	}
	bookingID, err := parseOptionalUUID(body.BookingID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid booking_id format")
	}

	rr, created, err := services.CreateReviewRequest(services.CreateReviewRequestInput{
		TutorID:   tutorID,
		StudentID: uuid.MustParse(body.StudentID),
		CourseID:  uuid.MustParse(body.CourseID),
		BookingID: bookingID,
		Message:   body.Message,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	full, err := loadReviewRequest(rr.ID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	subject, html := notifications.ReviewRequestEmail(full.Student.FullName, full.Tutor.FullName, full.Course.Title, full.Message)
	go notifications.SendEmail(full.Student.FullName, full.Student.Email, subject, html)
	websocket.Notify(full.StudentID, "review_request.created", full)

	if !created {
		return utils.OK(c, full, "Review request reopened")
	}
	return utils.Created(c, full, "Review request sent")
}

func GetSentReviewRequests(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	query := database.DB.Preload("Student").Preload("Course").Where("tutor_id = ?", tutorID)
	if id, err := uuid.Parse(c.Query("course_id")); err == nil {
		query = query.Where("course_id = ?", id)
	}

	var requests []models.ReviewRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list review requests")
	}
	if err := services.ReconcileReviewRequests(database.DB, requests); err != nil {
		return utils.ServerError(c, err, "Failed to list review requests")
	}
	return utils.OK(c, filterByStatus(requests, c.Query("status")))
}

func GetReceivedReviewRequests(c *fiber.Ctx) error {
	studentID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	status := c.Query("status")
	if status != "" && status != models.ReviewRequestPending && status != models.ReviewRequestResponded {
		return utils.Fail(c, fiber.StatusBadRequest, "status must be pending or responded")
	}

	var requests []models.ReviewRequest
	if err := database.DB.Preload("Tutor").Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list review requests")
	}
	if err := services.ReconcileReviewRequests(database.DB, requests); err != nil {
		return utils.ServerError(c, err, "Failed to list review requests")
	}
	return utils.OK(c, filterByStatus(requests, status))
}

// filterByStatus runs after reconciliation so reopened requests land in the right bucket.
func filterByStatus(requests []models.ReviewRequest, status string) []models.ReviewRequest {
	out := make([]models.ReviewRequest, 0, len(requests))
	for _, r := range requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func GetReviewRequest(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	requestID, ok, err := paramID(c, "requestId")
	if !ok {
		return err
	}

	rr, err := loadReviewRequest(requestID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if rr.TutorID != userID && rr.StudentID != userID {
		return utils.Fail(c, fiber.StatusForbidden, "You do not have access to this review request")
	}

	list := []models.ReviewRequest{*rr}
	if err := services.ReconcileReviewRequests(database.DB, list); err != nil {
		return utils.ServerError(c, err, "Failed to load review request")
	}
	return utils.OK(c, list[0])
}

func RespondToReviewRequest(c *fiber.Ctx) error {
	studentID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	requestID, ok, err := paramID(c, "requestId")
	if !ok {
		return err
	}
	var body RespondToReviewRequestBody
	if ok, err := bind(c, &body); !ok {
		return err
	}

	review, rr, err := services.RespondToReviewRequest(requestID, studentID, services.RespondInput{
		Rating:  body.Rating,
		Comment: body.Comment,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	websocket.Notify(rr.TutorID, "review_request.responded", rr)
	reviewPosted(review)
	return utils.Created(c, fiber.Map{"review": review, "review_request": rr}, "Review submitted")
}

func DeleteReviewRequest(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	requestID, ok, err := paramID(c, "requestId")
	if !ok {
		return err
	}
	if err := services.DeleteReviewRequest(requestID, tutorID); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, nil, "Review request deleted")
}
