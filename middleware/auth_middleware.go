package middleware

import (
	"errors"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Protected verifies the bearer token, stores it under c.Locals("user") and
// rejects tokens whose account was deactivated or removed after issue.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.Config("JWT_SECRET")),
		ErrorHandler:   jwtError,
		SuccessHandler: activeAccount,
	})
}

func activeAccount(c *fiber.Ctx) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	var user models.User
	if err := database.DB.Select("id", "is_active").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusForbidden, "Account no longer exists")
		}
		return utils.ServerError(c, err, "Failed to verify account")
	}
	if !user.IsActive {
		return utils.Fail(c, fiber.StatusForbidden, "Account is deactivated")
	}
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return utils.Fail(c, fiber.StatusUnauthorized, "Missing or malformed JWT")
	}
	return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
}

func claims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	mc, _ := token.Claims.(jwt.MapClaims)
	return mc
}

// CurrentUserID returns the user id carried by the verified token.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := claims(c)["user_id"].(string)
	return uuid.Parse(raw)
}

func CurrentRole(c *fiber.Ctx) string {
	role, _ := claims(c)["role"].(string)
	return role
}

func requireRole(role, msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentRole(c) != role {
			return utils.Fail(c, fiber.StatusForbidden, msg)
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return requireRole(models.RoleAdmin, "Forbidden: Admin access required")
}

func TutorRequired() fiber.Handler {
	return requireRole(models.RoleTutor, "Forbidden: Tutor access required")
}

func LearnerRequired() fiber.Handler {
	return requireRole(models.RoleLearner, "Forbidden: Learner access required")
}
