package handlers

import (
	"fmt"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const maxResourceSize = 20 << 20

func UploadResource(c *fiber.Ctx) error {
	course, ok, err := ownCourse(c)
	if !ok {
		return err
	}
	if !services.StorageConfigured() {
		return utils.Fail(c, fiber.StatusServiceUnavailable, "File storage is not configured")
	}

	file, err := c.FormFile("resource")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Resource file is required")
	}
	if file.Size > maxResourceSize {
		return utils.Fail(c, fiber.StatusBadRequest, "Resource file must be 20MB or smaller")
	}

	url, err := services.UploadFile(file, uploader.UploadParams{
		Folder:       services.FolderResources,
		PublicID:     fmt.Sprintf("course_%s_%s", course.ID, file.Filename),
		ResourceType: "auto",
	})
	if err != nil {
		return utils.ServerError(c, err, "Failed to upload file")
	}

	resource := models.Resource{CourseID: course.ID, FileName: file.Filename, FileURL: url}
	if err := database.DB.Create(&resource).Error; err != nil {
		return utils.ServerError(c, err, "Failed to save resource")
	}
	return utils.Created(c, resource, "Resource uploaded")
}

// ListResources is open to the course's tutor, its enrolled learners and admins.
func ListResources(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	courseID, ok, err := paramID(c, "courseId")
	if !ok {
		return err
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Course not found")
	}

	if course.TutorID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		var enrolled int64
		if err := database.DB.Model(&models.Enrollment{}).
			Where("course_id = ? AND learner_id = ? AND status IN ?", courseID, userID,
				[]string{models.EnrollmentActive, models.EnrollmentCompleted}).
			Count(&enrolled).Error; err != nil {
			return utils.ServerError(c, err, "Failed to check course access")
		}
		if enrolled == 0 {
			return utils.Fail(c, fiber.StatusForbidden, "You do not have access to this course's resources")
		}
	}

	var resources []models.Resource
	if err := database.DB.Where("course_id = ?", courseID).Order("created_at DESC").Find(&resources).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list resources")
	}
	return utils.OK(c, resources)
}
