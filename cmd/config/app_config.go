package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"leftys-backend/internal/api/handlers"
	"leftys-backend/internal/api/routes"
	"leftys-backend/internal/middleware"
	"leftys-backend/internal/utils"
	"leftys-backend/internal/utils/storage"
	"leftys-backend/pkg/account"
	"leftys-backend/pkg/assist"
	"leftys-backend/pkg/auth0"
	"leftys-backend/pkg/gemini"
	"leftys-backend/pkg/inventory"
	"leftys-backend/pkg/notification"
	"leftys-backend/pkg/posting"
	"leftys-backend/pkg/scan"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
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
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	settings, err := auth0.SettingsFromConfig()
	if err != nil {
		return nil, err
	}
	verifier := auth0.NewVerifier(settings)

	geminiClient := gemini.NewClient(
		utils.GetConfig("GEMINI_API_KEY"),
		utils.GetConfig("GEMINI_MODEL"),
		"",
	)

	// Repository
	accountRepository := account.NewAccountRepository(db)
	postingRepository := posting.NewPostingRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)
	scanRepository := scan.NewScanRepository(db)

	// Service
	accountService := account.NewAccountService(accountRepository)
	postingService := posting.NewPostingService(postingRepository)
	assistService := assist.NewAssistService(geminiClient, inventoryRepository)
	inventoryService := inventory.NewInventoryService(inventoryRepository, assistService)
	scanService := scan.NewScanService(scanRepository, s3)

	// Background jobs
	sweeper, err := posting.NewSweeper(postingRepository)
	if err != nil {
		return nil, err
	}
	if err := sweeper.Start(); err != nil {
		return nil, err
	}

	notifier, err := notification.NewNotificationService(db, inventoryRepository, geminiClient)
	if err != nil {
		return nil, err
	}
	if err := notifier.Start(); err != nil {
		return nil, err
	}

	// Handler
	postingHandler := handlers.NewPostingHandler(postingService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	assistHandler := handlers.NewAssistHandler(assistService, validator)
	accountHandler := handlers.NewAccountHandler(accountService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		PostingHandler:   postingHandler,
		InventoryHandler: inventoryHandler,
		ScanHandler:      scanHandler,
		AssistHandler:    assistHandler,
		AccountHandler:   accountHandler,
		Middleware:       middlewares,
		Verifier:         verifier,
		AccountService:   accountService,
	}
	routesConfig.Setup()
	return app, nil
}
