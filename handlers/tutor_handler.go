package handlers

import (
	"strings"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpdateTutorProfileRequest struct {
	Headline        *string           `json:"headline" validate:"omitempty,max=255"`
	Bio             *string           `json:"bio"`
	HourlyRate      *float64          `json:"hourly_rate" validate:"omitempty,gte=0"`
	Specialties     []string          `json:"specialties" validate:"omitempty,dive,required,max=100"`
	Availability    []models.TimeSlot `json:"availability" validate:"omitempty,dive"`
	ExperienceYears *int              `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
}

func ListTutors(c *fiber.Ctx) error {
	p := utils.Paginate(c)
	query := database.DB.Model(&models.Tutor{}).
		Joins("JOIN users ON users.id = tutors.user_id").
		Where("users.is_active = ?", true)

	if specialty := strings.TrimSpace(c.Query("specialty")); specialty != "" {
		query = query.Where("tutors.specialties LIKE ?", `%"`+specialty+`"%`)
	}
	if maxRate := c.QueryFloat("max_rate", -1); maxRate >= 0 {
		query = query.Where("tutors.hourly_rate <= ?", maxRate)
	}
	if minRating := c.QueryFloat("min_rating", 0); minRating > 0 {
		query = query.Where("tutors.avg_rating >= ?", minRating)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&p.Total).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list tutors")
	}

	var tutors []models.Tutor
	if err := query.Preload("User").
		Order("tutors.avg_rating DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&tutors).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list tutors")
	}
	return utils.OK(c, utils.Page{Items: tutors, Pagination: p})
}

func GetTutor(c *fiber.Ctx) error {
	tutorID, ok, err := paramID(c, "tutorId")
	if !ok {
		return err
	}

	var tutor models.Tutor
	if err := database.DB.Preload("User").First(&tutor, "user_id = ?", tutorID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Tutor not found")
	}

	var courses []models.Course
	if err := database.DB.Preload("Category").
		Where("tutor_id = ? AND is_active = ?", tutorID, true).
		Order("created_at DESC").Find(&courses).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load tutor courses")
	}

	var reviews []models.Review
	if err := database.DB.Preload("Learner").
		Where("tutor_id = ? AND status = ?", tutorID, models.ReviewPublished).
		Order("created_at DESC").Limit(20).Find(&reviews).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load tutor reviews")
	}

	return utils.OK(c, fiber.Map{"tutor": tutor, "courses": courses, "reviews": reviews})
}

func GetMyTutorProfile(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var tutor models.Tutor
	if err := database.DB.Preload("User").First(&tutor, "user_id = ?", userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Tutor profile not found")
	}
	return utils.OK(c, tutor)
}

func UpdateMyTutorProfile(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req UpdateTutorProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var tutor models.Tutor
	if err := database.DB.First(&tutor, "user_id = ?", userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Tutor profile not found")
	}

	if req.Headline != nil {
		tutor.Headline = req.Headline
	}
	if req.Bio != nil {
		tutor.Bio = req.Bio
	}
	if req.HourlyRate != nil {
		tutor.HourlyRate = *req.HourlyRate
	}
	if req.Specialties != nil {
		tutor.Specialties = req.Specialties
	}
	if req.Availability != nil {
		tutor.Availability = req.Availability
	}
	if req.ExperienceYears != nil {
		tutor.ExperienceYears = *req.ExperienceYears
	}

	if err := database.DB.Model(&tutor).
		Select("headline", "bio", "hourly_rate", "specialties", "availability", "experience_years").
		Updates(&tutor).Error; err != nil {
		return utils.ServerError(c, err, "Failed to update tutor profile")
	}
	return utils.OK(c, tutor, "Tutor profile updated")
}
