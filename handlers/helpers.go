package handlers

import (
	"strings"

	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// bind parses and validates the JSON body into req. When it returns false the
// error response has already been written and err is what the handler returns.
func bind(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validator.Struct(req); err != nil {
		return false, utils.ValidationFailed(c, err)
	}
	return true, nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, utils.Fail(c, fiber.StatusBadRequest, "Invalid "+name+" format")
	}
	return id, true, nil
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool, error) {
	id, err := middleware.CurrentUserID(c)
	if err != nil {
		return uuid.Nil, false, utils.Fail(c, fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return id, true, nil
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
