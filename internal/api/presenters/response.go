package presenters

import (
	"Receipt-Tracker/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	MessageResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	ErrorBody struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
)

// SuccessResponse writes data as the response body. Without data the body is a
// bare success message.
func SuccessResponse(c *fiber.Ctx, data interface{}, code int, message string) error {
	if data == nil {
		return c.Status(code).JSON(MessageResponse{Success: true, Message: message})
	}
	return c.Status(code).JSON(data)
}

// ErrorResponse writes the error envelope. Server errors never leak their detail
// to the caller; it is logged instead.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
		detail = domain.MessageInternalError
	}
	return c.Status(code).JSON(ErrorBody{
		Success: false,
		Status:  "error",
		Message: message,
		Error:   detail,
	})
}
