package handlers

import (
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/anjiri1684/skill_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateReviewBody struct {
	TutorID  string  `json:"tutor_id" validate:"required,uuid"`
	CourseID *string `json:"course_id" validate:"omitempty,uuid"`
	Rating   int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string  `json:"comment" validate:"max=2000"`
}

type ReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=published hidden"`
}

// reviewPosted tells the tutor about a new review.
func reviewPosted(review *models.Review) {
	websocket.Notify(review.TutorID, "review.created", review)

	var tutor, learner models.User
	if database.DB.First(&tutor, "id = ?", review.TutorID).Error != nil ||
		database.DB.First(&learner, "id = ?", review.LearnerID).Error != nil {
		return
	}
	subject, body := notifications.NewReviewEmail(tutor.FullName, learner.FullName, review.Rating)
	go notifications.SendEmail(tutor.FullName, tutor.Email, subject, body)
}

func CreateReview(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CreateReviewBody
	if ok, err := bind(c, &req); !ok {
		return err
	}
	courseID, err := parseOptionalUUID(req.CourseID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid course_id format")
	}

	review, err := services.CreateReview(learnerID, services.CreateReviewInput{
		TutorID:  uuid.MustParse(req.TutorID),
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	reviewPosted(review)
	return utils.Created(c, review, "Review submitted")
}

func GetTutorPublicReviews(c *fiber.Ctx) error {
	tutorID, ok, err := paramID(c, "tutorId")
	if !ok {
		return err
	}
	var reviews []models.Review
	if err := database.DB.Preload("Learner").
		Where("tutor_id = ? AND status = ?", tutorID, models.ReviewPublished).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list reviews")
	}
	return utils.OK(c, reviews)
}

func GetMyReviews(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var reviews []models.Review
	if err := database.DB.Where("learner_id = ?", learnerID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list reviews")
	}
	return utils.OK(c, reviews)
}

func GetReceivedReviews(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var reviews []models.Review
	if err := database.DB.Preload("Learner").Where("tutor_id = ?", tutorID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list reviews")
	}
	return utils.OK(c, reviews)
}

func DeleteReview(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	reviewID, ok, err := paramID(c, "reviewId")
	if !ok {
		return err
	}

	isAdmin := middleware.CurrentRole(c) == models.RoleAdmin
	if err := services.DeleteReview(reviewID, userID, isAdmin); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, nil, "Review deleted")
}

func AdminSetReviewStatus(c *fiber.Ctx) error {
	reviewID, ok, err := paramID(c, "reviewId")
	if !ok {
		return err
	}
	var req ReviewStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	review, err := services.SetReviewStatus(reviewID, req.Status)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, review, "Review "+req.Status)
}
