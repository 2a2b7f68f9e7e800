package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"supplymatch_backend/internal/auth"
	"supplymatch_backend/internal/config"
	"supplymatch_backend/internal/delivery"
	"supplymatch_backend/internal/handlers"
	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/middleware"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/queue"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/routes"
	"supplymatch_backend/internal/services"
	"supplymatch_backend/internal/validator"
	"supplymatch_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// defaultCategories seeds the flat category list on first startup. Requests
// and suppliers can only reference categories from this table.
var defaultCategories = []string{
	"Electronics",
	"Furniture",
	"Construction",
	"Textiles",
	"Food & Beverage",
	"Logistics",
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Request{},
		&models.Supplier{},
		&models.Match{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter, notificationQueue := SetupRouter(cfg, gormDB)
	notificationQueue.Start(ctx)
	defer notificationQueue.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full dependency graph and returns the router plus
// the notification queue, which the caller owns starting and stopping.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *queue.NotificationQueue) {
	userRepo := repositories.NewUserRepository(gormDB)
	categoryRepo := repositories.NewCategoryRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB)
	supplierRepo := repositories.NewSupplierRepository(gormDB)
	matchRepo := repositories.NewMatchRepository(gormDB)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := categoryRepo.Seed(seedCtx, defaultCategories); err != nil {
		logger.Fatal("Failed to seed categories", "error", err)
	}
	if err := seedFirstAdmin(seedCtx, userRepo); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	channel := buildDeliveryChannel(cfg, userRepo)
	notificationQueue := queue.NewNotificationQueue(channel, matchRepo, queue.Options{
		Workers:        cfg.Queue.Workers,
		MaxRetries:     cfg.Queue.MaxRetries,
		RetryDelay:     cfg.RetryDelay(),
		AttemptTimeout: cfg.AttemptTimeout(),
	})

	matchingService := services.NewMatchingService(supplierRepo, matchRepo)
	lifecycleService := services.NewLifecycleService(requestRepo, supplierRepo, matchingService, notificationQueue)
	authService := services.NewAuthService(userRepo)
	requestService := services.NewRequestService(requestRepo, categoryRepo)
	supplierService := services.NewSupplierService(supplierRepo, categoryRepo)
	matchService := services.NewMatchService(matchRepo, requestRepo)
	categoryService := services.NewCategoryService(categoryRepo)

	reconciler := workers.NewReconcileWorker(
		matchRepo,
		notificationQueue,
		time.Duration(cfg.Reconcile.IntervalMin)*time.Minute,
		time.Duration(cfg.Reconcile.GraceMin)*time.Minute,
	)
	reconciler.Start(context.Background())

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, authService),
		CategoryHandler: handlers.NewCategoryHandler(baseHandler, categoryService),
		RequestHandler:  handlers.NewRequestHandler(baseHandler, requestService, lifecycleService, matchService),
		SupplierHandler: handlers.NewSupplierHandler(baseHandler, supplierService, lifecycleService),
		MatchHandler:    handlers.NewMatchHandler(baseHandler, matchService),
		AdminHandler:    handlers.NewAdminHandler(baseHandler, requestService, supplierService, lifecycleService),
	}

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, notificationQueue
}

func buildDeliveryChannel(cfg *config.Config, userRepo repositories.UserRepository) delivery.Channel {
	switch cfg.Delivery.Channel {
	case "email":
		logger.Info("Delivery channel: email", "smtp_host", cfg.Email.SMTPHost)
		return delivery.NewEmailChannel(cfg, userRepo)
	default:
		logger.Warn("Delivery channel: log (notifications are written to the log only)")
		return delivery.NewLogChannel()
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}

func seedFirstAdmin(ctx context.Context, userRepo repositories.UserRepository) error {
	adminEmail := os.Getenv("FIRST_ADMIN_EMAIL")
	adminPassword := os.Getenv("FIRST_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	_, err := userRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
	}
	if err := userRepo.Create(ctx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
