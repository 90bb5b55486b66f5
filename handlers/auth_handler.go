package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=learner tutor"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

const resetTokenTTL = 15 * time.Minute

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ServerError(c, err, "Failed to hash password")
	}

	newUser := models.User{
		FullName: req.FullName,
		Email:    normalizeEmail(req.Email),
		Password: string(hashedPassword),
		Role:     req.Role,
		Phone:    req.Phone,
		IsActive: true,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if newUser.Role == models.RoleTutor {
			return tx.Create(&models.Tutor{UserID: newUser.ID}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusConflict, "Email already exists")
		}
		return utils.ServerError(c, err, "Failed to create user")
	}

	subject, body := notifications.WelcomeEmail(newUser.FullName, newUser.Role)
	go notifications.SendEmail(newUser.FullName, newUser.Email, subject, body)

	return utils.Created(c, newUser, "Registration successful")
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return utils.Fail(c, fiber.StatusForbidden, "Account is deactivated")
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return utils.ServerError(c, err, "Failed to create token")
	}
	return utils.OK(c, fiber.Map{"token": token, "user": user}, "Login successful")
}

func ForgotPassword(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req Request
	if ok, err := bind(c, &req); !ok {
		return err
	}

	const msg = "If an account with that email exists, a password reset link has been sent."
	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return utils.OK(c, nil, msg)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return utils.ServerError(c, err, "Failed to generate reset token")
	}
	token := hex.EncodeToString(tokenBytes)
	expiration := time.Now().UTC().Add(resetTokenTTL)

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":            token,
		"reset_password_token_expires_at": expiration,
	}).Error; err != nil {
		return utils.ServerError(c, err, "Failed to save reset token")
	}

	subject, body := notifications.PasswordResetEmail(user.FullName, token)
	go notifications.SendEmail(user.FullName, user.Email, subject, body)

	return utils.OK(c, nil, msg)
}

func ResetPassword(c *fiber.Ctx) error {
	type Request struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	var req Request
	if ok, err := bind(c, &req); !ok {
		return err
	}

	var user models.User
	if err := database.DB.Where("reset_password_token = ?", req.Token).First(&user).Error; err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or expired reset token")
	}

	clearToken := map[string]interface{}{
		"reset_password_token":            nil,
		"reset_password_token_expires_at": nil,
	}
	if user.ResetPasswordTokenExpiresAt == nil || user.ResetPasswordTokenExpiresAt.Before(time.Now()) {
		if err := database.DB.Model(&user).Updates(clearToken).Error; err != nil {
			return utils.ServerError(c, err, "Failed to reset password")
		}
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.ServerError(c, err, "Failed to hash new password")
	}
	clearToken["password"] = string(hashedPassword)
	if err := database.DB.Model(&user).Updates(clearToken).Error; err != nil {
		return utils.ServerError(c, err, "Failed to update password")
	}

	return utils.OK(c, nil, "Password has been reset successfully.")
}
