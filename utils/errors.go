package utils

import "github.com/gofiber/fiber/v2"

// AppError is a business-rule failure that carries its HTTP status.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func BadRequest(msg string) *AppError { return NewError(fiber.StatusBadRequest, msg) }
func Forbidden(msg string) *AppError  { return NewError(fiber.StatusForbidden, msg) }
func NotFound(msg string) *AppError   { return NewError(fiber.StatusNotFound, msg) }
func Conflict(msg string) *AppError   { return NewError(fiber.StatusConflict, msg) }
