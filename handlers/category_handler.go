package handlers

import (
	"errors"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

func ListCategories(c *fiber.Ctx) error {
	var categories []models.CourseCategory
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list categories")
	}
	return utils.OK(c, categories)
}

func CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	category := models.CourseCategory{Name: req.Name, Description: req.Description}
	if err := database.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusConflict, "A category with this name already exists")
		}
		return utils.ServerError(c, err, "Failed to create category")
	}
	return utils.Created(c, category, "Category created")
}

func UpdateCategory(c *fiber.Ctx) error {
	categoryID, ok, err := paramID(c, "categoryId")
	if !ok {
		return err
	}
	var req CategoryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var category models.CourseCategory
	if err := database.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Category not found")
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := database.DB.Save(&category).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, category, "Category updated")
}

func DeleteCategory(c *fiber.Ctx) error {
	categoryID, ok, err := paramID(c, "categoryId")
	if !ok {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Course{}).Where("category_id = ?", categoryID).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return utils.Conflict("Cannot delete a category that has courses")
		}
		res := tx.Delete(&models.CourseCategory{}, "id = ?", categoryID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFound("Category not found")
		}
		return nil
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, nil, "Category deleted")
}
