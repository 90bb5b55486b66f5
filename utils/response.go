package utils

import (
	"errors"

	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Envelope is the shape of every JSON response the API produces.
type Envelope struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func OK(c *fiber.Ctx, data interface{}, message ...string) error {
	env := Envelope{Success: true, Data: data}
	if len(message) > 0 {
		env.Message = message[0]
	}
	return c.Status(fiber.StatusOK).JSON(env)
}

func Created(c *fiber.Ctx, data interface{}, message ...string) error {
	env := Envelope{Success: true, Data: data}
	if len(message) > 0 {
		env.Message = message[0]
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: msg})
}

func ValidationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{
			Success: false,
			Error:   "Validation failed",
			Details: Details(verrs),
		})
	}
	return Fail(c, fiber.StatusBadRequest, err.Error())
}

// ServerError logs err with the request context and answers with a generic 500.
func ServerError(c *fiber.Ctx, err error, msg string) error {
	logger.Report(err, map[string]interface{}{
		"path":   c.Path(),
		"method": c.Method(),
	})
	return Fail(c, fiber.StatusInternalServerError, msg)
}

// HandleError maps service and gorm errors onto the envelope.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return Fail(c, appErr.Status, appErr.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Fail(c, fiber.StatusConflict, "Resource already exists")
	default:
		return ServerError(c, err, "Internal server error")
	}
}
