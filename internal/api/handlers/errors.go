package handlers

import (
	"Receipt-Tracker/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFromError maps service errors onto HTTP status codes.
func statusFromError(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTransactionDate),
		errors.Is(err, domain.ErrInvalidImageFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrIngestUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInitData),
		errors.Is(err, domain.ErrInitDataExpired):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrReceiptNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
