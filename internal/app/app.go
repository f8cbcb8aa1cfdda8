package app

import (
	"fmt"

	"sohagstore_backend/database"
	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/config"
	"sohagstore_backend/internal/email"
	"sohagstore_backend/internal/handlers"
	"sohagstore_backend/internal/logger"
	"sohagstore_backend/internal/middleware"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/repositories"
	"sohagstore_backend/internal/routes"
	"sohagstore_backend/internal/services"
	"sohagstore_backend/internal/validator"
	"sohagstore_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedInitialAdmin(gormDB, repositories.NewUserRepository(), cfg); err != nil {
		logger.Fatal("Failed to seed initial admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает gin.Engine со всеми зависимостями.
// Вынесен отдельно, чтобы интеграционные тесты поднимали роутер
// поверх тестовой транзакции.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	userRepo := repositories.NewUserRepository()

	serviceContainer := initializeServices(cfg, userRepo)
	appHandlers := initializeHandlers(serviceContainer)

	guard := middleware.NewAuthGuard(userRepo, []byte(cfg.Auth.JWTSecret))

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, guard)

	return ginRouter
}

func initializeServices(cfg *config.Config, userRepo repositories.UserRepository) *services.ServiceContainer {
	resetRepo := repositories.NewPasswordResetRepository()

	var mailSender email.Sender
	if cfg.Email.Enabled {
		sender, err := email.NewGomailSender(email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize email sender", "error", err)
		}
		mailSender = sender
	} else {
		logger.Warn("Email delivery disabled, using mock sender")
		mailSender = &MockMailSender{}
	}

	return services.NewServiceContainer(userRepo, resetRepo, mailSender, cfg)
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(baseHandler, container.Auth),
		UserHandler:           handlers.NewUserHandler(baseHandler, container.User),
		UserManagementHandler: handlers.NewUserManagementHandler(baseHandler, container.UserManagement),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedInitialAdmin гарантирует наличие администратора: существующий
// пользователь с настроенным email повышается до admin, иначе
// учетная запись создается с нуля
func seedInitialAdmin(db *gorm.DB, userRepo repositories.UserRepository, cfg *config.Config) error {
	adminEmail := cfg.InitialAdmin.Email
	adminPassword := cfg.InitialAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Initial admin email or password is not set. Skipping admin seeding.")
		return nil
	}

	hasAdmin, err := userRepo.HasAdmin(db)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if hasAdmin {
		logger.Info("Admin user already exists. Skipping creation.")
		return nil
	}

	existing, err := userRepo.FindByEmail(db, adminEmail)
	if err == nil {
		logger.Warn("Promoting existing user to initial admin", "email", adminEmail)
		existing.Role = models.UserRoleAdmin
		existing.Active = true
		if err := userRepo.Update(db, existing); err != nil {
			return fmt.Errorf("failed to promote user to admin: %w", err)
		}
		return nil
	}
	if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin email: %w", err)
	}

	logger.Warn("No admin user found. Creating initial admin...", "email", adminEmail)

	passwordHash, err := auth.HashPassword(adminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.UserRoleAdmin,
		Active:       true,
	}

	if err := userRepo.Create(db, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Initial admin user created", "email", adminEmail)
	return nil
}
