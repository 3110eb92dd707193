package routes

import (
	"Receipt-Tracker/internal/api/handlers"
	"Receipt-Tracker/internal/middleware"
	"Receipt-Tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	ReceiptHandler handlers.ReceiptHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Ingest()
	c.User()
	c.Receipts()
	c.Stats()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Ingest() {
	c.App.Post("/process-receipt", c.Middleware.IngestKeyMiddleware(), c.ReceiptHandler.ProcessReceipt)
}

func (c *Config) User() {
	c.App.Post("/api/user-data", c.UserHandler.UserData)
	c.App.Get("/api/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/receipts", c.Middleware.AuthMiddleware(c.JWTService))
	// receipt routes
	{
		receipts.Get("", c.ReceiptHandler.GetReceipts)
		receipts.Get("/:receipt_id", c.ReceiptHandler.GetReceipt)
		receipts.Post("/:receipt_id", c.ReceiptHandler.ConfirmReceipt)
		receipts.Put("/:receipt_id", c.ReceiptHandler.ConfirmReceipt)
		receipts.Post("/:receipt_id/image", c.ReceiptHandler.UploadReceiptImage)
	}
}

func (c *Config) Stats() {
	c.App.Get("/api/stats/categories", c.Middleware.AuthMiddleware(c.JWTService), c.ReceiptHandler.GetCategoryStats)
}
