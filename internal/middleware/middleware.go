package middleware

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/internal/api/presenters"
	"Receipt-Tracker/internal/utils"
	"Receipt-Tracker/pkg/jwt"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		IngestKeyMiddleware() fiber.Handler
	}

	middleware struct {
		allowOrigins string
		ingestKey    string
	}
)

func NewMiddleware() Middleware {
	return &middleware{
		allowOrigins: utils.GetConfig("CORS_ORIGINS"),
		ingestKey:    utils.GetConfig("INGEST_API_KEY"),
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: m.allowOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Ingest-Key",
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userID, telegramID, err := jwtService.GetUserByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", userID)
		c.Locals("telegram_id", telegramID)
		return c.Next()
	}
}

// IngestKeyMiddleware guards the OCR ingestion endpoint when INGEST_API_KEY is set.
func (m *middleware) IngestKeyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.ingestKey == "" {
			return c.Next()
		}
		if subtle.ConstantTimeCompare([]byte(c.Get("X-Ingest-Key")), []byte(m.ingestKey)) != 1 {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedProcessReceipt, domain.ErrIngestUnauthorized)
		}
		return c.Next()
	}
}
