package app

import (
	"errors"
	"fmt"
	"strings"

	"leadtrack/database"
	"leadtrack/internal/auth"
	"leadtrack/internal/config"
	"leadtrack/internal/handlers"
	"leadtrack/internal/logger"
	"leadtrack/internal/middleware"
	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
	"leadtrack/internal/routes"
	"leadtrack/internal/services"
	"leadtrack/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

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

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedSuperAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first super admin", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	leadRepo := repositories.NewLeadRepository(gormDB)
	tagRepo := repositories.NewTagRepository(gormDB)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		UserService:         services.NewUserService(userRepo),
		LeadService:         services.NewLeadService(leadRepo, tagRepo),
		TagService:          services.NewTagService(tagRepo),
		ImportExportService: services.NewImportExportService(leadRepo),
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler: handlers.NewUserHandler(baseHandler, container.UserService),
		LeadHandler: handlers.NewLeadHandler(baseHandler, container.LeadService, container.ImportExportService),
		TagHandler:  handlers.NewTagHandler(baseHandler, container.TagService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedSuperAdmin creates the bootstrap super admin when configured and absent.
func seedSuperAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(cfg.FirstAdminEmail)
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Super admin already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for super admin: %w", result.Error)
	}

	logger.Warn("No super admin found. Creating first super admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Super Admin",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleSuperAdmin,
		IsActive:     true,
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	logger.Info("Successfully created first super admin", "email", admin.Email)
	return nil
}
