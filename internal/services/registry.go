package services

import (
	"sohagstore_backend/internal/config"
	"sohagstore_backend/internal/email"
	"sohagstore_backend/internal/repositories"
)

// ServiceContainer объединяет все сервисы приложения
type ServiceContainer struct {
	Auth           AuthService
	User           UserService
	UserManagement UserManagementService
}

// NewServiceContainer создает контейнер сервисов поверх репозиториев
func NewServiceContainer(
	userRepo repositories.UserRepository,
	resetRepo repositories.PasswordResetRepository,
	mail email.Sender,
	cfg *config.Config,
) *ServiceContainer {
	authCfg := AuthConfig{
		JWTSecret:     []byte(cfg.Auth.JWTSecret),
		BcryptCost:    cfg.Auth.BcryptCost,
		SessionTTL:    cfg.SessionTTL(),
		CodeTTL:       cfg.VerificationCodeTTL(),
		ResetTokenTTL: cfg.ResetTokenTTL(),
	}

	return &ServiceContainer{
		Auth:           NewAuthService(userRepo, resetRepo, mail, authCfg),
		User:           NewUserService(userRepo, cfg.Auth.BcryptCost),
		UserManagement: NewUserManagementService(userRepo, cfg.Auth.BcryptCost),
	}
}
