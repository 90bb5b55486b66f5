package handlers

import (
	"strings"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCourseRequest struct {
	Title          string            `json:"title" validate:"required,min=3,max=255"`
	Description    string            `json:"description" validate:"max=5000"`
	CategoryID     string            `json:"category_id" validate:"required,uuid"`
	Difficulty     string            `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Schedule       []models.TimeSlot `json:"schedule" validate:"omitempty,dive"`
	TrialRate      float64           `json:"trial_rate" validate:"gte=0"`
	FullCourseRate float64           `json:"full_course_rate" validate:"gte=0"`
	Currency       string            `json:"currency" validate:"omitempty,len=3"`
	DurationWeeks  int               `json:"duration_weeks" validate:"omitempty,gte=1,lte=104"`
	SessionMinutes int               `json:"session_minutes" validate:"omitempty,gte=15,lte=480"`
	MaxStudents    int               `json:"max_students" validate:"gte=0"`
	ThumbnailURL   *string           `json:"thumbnail_url" validate:"omitempty,url"`
}

type UpdateCourseRequest struct {
	Title          *string           `json:"title" validate:"omitempty,min=3,max=255"`
	Description    *string           `json:"description" validate:"omitempty,max=5000"`
	CategoryID     *string           `json:"category_id" validate:"omitempty,uuid"`
	Difficulty     *string           `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Schedule       []models.TimeSlot `json:"schedule" validate:"omitempty,dive"`
	TrialRate      *float64          `json:"trial_rate" validate:"omitempty,gte=0"`
	FullCourseRate *float64          `json:"full_course_rate" validate:"omitempty,gte=0"`
	MaxStudents    *int              `json:"max_students" validate:"omitempty,gte=0"`
	ThumbnailURL   *string           `json:"thumbnail_url" validate:"omitempty,url"`
	IsActive       *bool             `json:"is_active"`
}

func ListCourses(c *fiber.Ctx) error {
	p := utils.Paginate(c)
	query := database.DB.Model(&models.Course{}).Where("is_active = ?", true)

	if id, err := uuid.Parse(c.Query("category_id")); err == nil {
		query = query.Where("category_id = ?", id)
	}
	if id, err := uuid.Parse(c.Query("tutor_id")); err == nil {
		query = query.Where("tutor_id = ?", id)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if maxPrice := c.QueryFloat("max_price", -1); maxPrice >= 0 {
		query = query.Where("full_course_rate <= ?", maxPrice)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&p.Total).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list courses")
	}

	var courses []models.Course
	if err := query.Preload("Tutor").Preload("Category").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&courses).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list courses")
	}
	return utils.OK(c, utils.Page{Items: courses, Pagination: p})
}

func GetCourse(c *fiber.Ctx) error {
	courseID, ok, err := paramID(c, "courseId")
	if !ok {
		return err
	}

	var course models.Course
	if err := database.DB.Preload("Tutor").Preload("Category").First(&course, "id = ?", courseID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Course not found")
	}

	var enrolled int64
	if err := database.DB.Model(&models.Enrollment{}).
		Where("course_id = ? AND status IN ?", courseID, []string{models.EnrollmentActive, models.EnrollmentCompleted}).
		Count(&enrolled).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load course")
	}

	return utils.OK(c, fiber.Map{"course": course, "enrolled_students": enrolled})
}

func CreateCourse(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CreateCourseRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	categoryID := uuid.MustParse(req.CategoryID)
	var category models.CourseCategory
	if err := database.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Category does not exist")
	}

	course := models.Course{
		TutorID:        tutorID,
		CategoryID:     categoryID,
		Title:          req.Title,
		Description:    req.Description,
		Difficulty:     req.Difficulty,
		Schedule:       req.Schedule,
		TrialRate:      req.TrialRate,
		FullCourseRate: req.FullCourseRate,
		Currency:       strings.ToUpper(req.Currency),
		DurationWeeks:  req.DurationWeeks,
		SessionMinutes: req.SessionMinutes,
		MaxStudents:    req.MaxStudents,
		ThumbnailURL:   req.ThumbnailURL,
		IsActive:       true,
	}
	if course.Currency == "" {
		course.Currency = "USD"
	}
	if course.DurationWeeks == 0 {
		course.DurationWeeks = 1
	}
	if course.SessionMinutes == 0 {
		course.SessionMinutes = 60
	}

	if err := database.DB.Create(&course).Error; err != nil {
		return utils.ServerError(c, err, "Failed to create course")
	}
	course.Category = category
	return utils.Created(c, course, "Course created")
}

func ListMyCourses(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var courses []models.Course
	if err := database.DB.Preload("Category").
		Where("tutor_id = ?", tutorID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list courses")
	}
	return utils.OK(c, courses)
}

// ownCourse loads the course and checks the caller teaches it.
func ownCourse(c *fiber.Ctx) (*models.Course, bool, error) {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return nil, false, err
	}
	courseID, ok, err := paramID(c, "courseId")
	if !ok {
		return nil, false, err
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, false, utils.Fail(c, fiber.StatusNotFound, "Course not found")
	}
	if course.TutorID != tutorID {
		return nil, false, utils.Fail(c, fiber.StatusForbidden, "You can only manage your own courses")
	}
	return &course, true, nil
}

func UpdateCourse(c *fiber.Ctx) error {
	course, ok, err := ownCourse(c)
	if !ok {
		return err
	}
	var req UpdateCourseRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		var count int64
		if err := database.DB.Model(&models.CourseCategory{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return utils.ServerError(c, err, "Failed to update course")
		}
		if count == 0 {
			return utils.Fail(c, fiber.StatusBadRequest, "Category does not exist")
		}
		updates["category_id"] = uuid.MustParse(*req.CategoryID)
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.TrialRate != nil {
		updates["trial_rate"] = *req.TrialRate
	}
	if req.FullCourseRate != nil {
		updates["full_course_rate"] = *req.FullCourseRate
	}
	if req.MaxStudents != nil {
		updates["max_students"] = *req.MaxStudents
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.Schedule != nil {
		course.Schedule = req.Schedule
		if err := database.DB.Model(course).Select("schedule").Updates(course).Error; err != nil {
			return utils.ServerError(c, err, "Failed to update course")
		}
	}
	if len(updates) > 0 {
		if err := database.DB.Model(course).Updates(updates).Error; err != nil {
			return utils.ServerError(c, err, "Failed to update course")
		}
	}

	var updated models.Course
	if err := database.DB.Preload("Category").First(&updated, "id = ?", course.ID).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load course")
	}
	return utils.OK(c, updated, "Course updated")
}

func DeleteCourse(c *fiber.Ctx) error {
	course, ok, err := ownCourse(c)
	if !ok {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var enrollments, bookings int64
		if err := tx.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollments).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).Where("course_id = ?", course.ID).Count(&bookings).Error; err != nil {
			return err
		}
		if enrollments > 0 || bookings > 0 {
			return utils.Conflict("Cannot delete a course with existing enrollments or bookings")
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.ReviewRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, nil, "Course deleted")
}
