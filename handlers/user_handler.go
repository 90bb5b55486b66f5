package handlers

import (
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UpdateMeRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func GetMe(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	}

	if user.Role == models.RoleTutor {
		var tutor models.Tutor
		if err := database.DB.First(&tutor, "user_id = ?", userID).Error; err == nil {
			return utils.OK(c, fiber.Map{"user": user, "tutor_profile": tutor})
		}
	}
	return utils.OK(c, fiber.Map{"user": user})
}

func UpdateMe(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req UpdateMeRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "No fields to update")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return utils.ServerError(c, err, "Failed to update profile")
	}
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load profile")
	}
	return utils.OK(c, user, "Profile updated")
}

func ChangePassword(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.ServerError(c, err, "Failed to hash password")
	}
	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return utils.ServerError(c, err, "Failed to update password")
	}
	return utils.OK(c, nil, "Password updated")
}
