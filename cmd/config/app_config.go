package config

import (
	"Receipt-Tracker/internal/api/handlers"
	"Receipt-Tracker/internal/api/routes"
	"Receipt-Tracker/internal/middleware"
	"Receipt-Tracker/internal/utils"
	"Receipt-Tracker/internal/utils/storage"
	"Receipt-Tracker/pkg/jwt"
	"Receipt-Tracker/pkg/receipt"
	"Receipt-Tracker/pkg/user"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	timezone := utils.GetConfig("APP_TIMEZONE")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	var initDataMaxAge time.Duration
	if raw := utils.GetConfig("INIT_DATA_MAX_AGE"); raw != "" {
		initDataMaxAge, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse INIT_DATA_MAX_AGE: %w", err)
		}
	}

	jwtSecret := utils.GetConfig("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	// setting up logging and limiter
	err = os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   timezone,
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)

	// Service
	jwtService := jwt.NewJWTService(jwtSecret)
	userService := user.NewUserService(userRepository, jwtService, utils.GetConfig("BOT_TOKEN"), initDataMaxAge)
	receiptService := receipt.NewReceiptService(receiptRepository, s3, location)

	// Handler
	userHandler := handlers.NewUserHandler(userService, receiptService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		ReceiptHandler: receiptHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
