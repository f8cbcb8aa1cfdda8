package services

import (
	"time"

	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/email"
	"sohagstore_backend/internal/logger"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/repositories"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AuthConfig - параметры аутентификации, инжектируются в конструктор
type AuthConfig struct {
	JWTSecret     []byte
	BcryptCost    int
	SessionTTL    time.Duration
	CodeTTL       time.Duration
	ResetTokenTTL time.Duration
}

// AuthService - регистрация, вход и восстановление пароля.
//
// Восстановление - машина состояний на пользователя:
// нет запроса -> код выдан -> код подтвержден (выдан reset-токен) -> сброшен.
// Истечение кода и исчерпание попыток - тупики, из которых выводит
// только новый ForgetPassword.
type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
	ForgetPassword(db *gorm.DB, userEmail string) error
	VerifyVerificationCode(db *gorm.DB, req *dto.VerifyVerificationCodeRequest) (*dto.VerifyVerificationCodeResponse, error)
	ResetPassword(db *gorm.DB, rawToken, newPassword string) error
}

type authService struct {
	userRepo  repositories.UserRepository
	resetRepo repositories.PasswordResetRepository
	mail      email.Sender
	cfg       AuthConfig
}

// NewAuthService создает новый AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	resetRepo repositories.PasswordResetRepository,
	mail email.Sender,
	cfg AuthConfig,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mail:      mail,
		cfg:       cfg,
	}
}

// Register - регистрация нового пользователя с ролью user
func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	passwordHash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
		Active:       true,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		// Уникальный индекс по email закрывает гонку двух регистраций
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return dto.NewUserDTO(user), nil
}

// Login - аутентификация пользователя.
// Неизвестный email и неверный пароль дают одинаковую ошибку.
func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, apperrors.ErrUserDeactivated
	}

	token, err := auth.GenerateToken(user.ID, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Message: "User logged in successfully",
		Token:   token,
	}, nil
}

// ChangePassword - смена пароля, когда пользователь знает текущий
func (s *authService) ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.ErrInvalidOldPassword
	}

	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	newHash, err := auth.HashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID, newHash); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ForgetPassword - выдача кода восстановления.
//
// Для неизвестного email молча возвращает успех, чтобы не раскрывать
// существование аккаунта. Upsert перезаписывает любой прежний код:
// действителен только самый свежий запрос, attempts обнуляется.
func (s *authService) ForgetPassword(db *gorm.DB, userEmail string) error {
	user, err := s.userRepo.FindByEmail(db, userEmail)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.Warn("Password reset requested for unknown email", "email", userEmail)
			return nil
		}
		return apperrors.InternalError(err)
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return apperrors.InternalError(err)
	}

	codeHash, err := auth.HashPassword(code, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	reset := &models.PasswordReset{
		UserID:                    user.ID,
		VerificationCodeHash:      codeHash,
		VerificationCodeExpiresAt: time.Now().Add(s.cfg.CodeTTL),
		Attempts:                  0,
	}
	if err := s.resetRepo.Upsert(db, reset); err != nil {
		return apperrors.InternalError(err)
	}

	// Код уже сохранен: провал доставки логируется, но не откатывает
	// запрос - пользователь сможет запросить код повторно
	s.sendVerificationCode(user.Email, code)

	return nil
}

// VerifyVerificationCode - проверка кода и выдача одноразового reset-токена.
//
// Каждый неверный ввод и каждая проверка истекшего кода атомарно
// инкрементируют attempts; после пятой неудачи даже правильный код
// отвергается до нового ForgetPassword.
func (s *authService) VerifyVerificationCode(db *gorm.DB, req *dto.VerifyVerificationCodeRequest) (*dto.VerifyVerificationCodeResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidVerificationCode
		}
		return nil, apperrors.InternalError(err)
	}

	reset, err := s.resetRepo.FindByUserID(db, user.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPasswordResetNotFound) {
			return nil, apperrors.ErrInvalidVerificationCode
		}
		return nil, apperrors.InternalError(err)
	}

	if reset.AttemptsExceeded() {
		return nil, apperrors.ErrTooManyAttempts
	}

	if reset.CodeExpired(time.Now()) {
		if _, err := s.resetRepo.IncrementAttempts(db, reset.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrVerificationCodeExpired
	}

	if !auth.CheckPasswordHash(req.VerificationCode, reset.VerificationCodeHash) {
		if _, err := s.resetRepo.IncrementAttempts(db, reset.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrInvalidVerificationCode
	}

	resetToken, err := auth.GenerateResetToken(s.cfg.ResetTokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.resetRepo.SetResetToken(db, reset.ID, resetToken.Hash, resetToken.ExpiresAt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Сырой токен отдается единственный раз; дальше живет только хеш
	return &dto.VerifyVerificationCodeResponse{
		Message: "Verification code confirmed",
		Token:   resetToken.Raw,
	}, nil
}

// ResetPassword - установка нового пароля по одноразовому reset-токену.
//
// Потребление одноразовое: запись удаляется, и повтор того же токена
// неотличим от токена, который никогда не выдавался.
func (s *authService) ResetPassword(db *gorm.DB, rawToken, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	reset, err := s.resetRepo.FindByResetTokenHash(db, auth.HashResetToken(rawToken))
	if err != nil {
		if apperrors.Is(err, repositories.ErrPasswordResetNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.InternalError(err)
	}

	if reset.ResetTokenExpired(time.Now()) {
		return apperrors.ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(db, reset.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			// Пользователь удален между выдачей токена и сбросом
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	newHash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID, newHash); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.resetRepo.DeleteByID(db, reset.ID); err != nil {
		if !apperrors.Is(err, repositories.ErrPasswordResetNotFound) {
			return apperrors.InternalError(err)
		}
	}

	return nil
}

// sendVerificationCode отправляет письмо с кодом восстановления
func (s *authService) sendVerificationCode(to, code string) {
	if s.mail == nil {
		return
	}

	htmlBody, err := email.RenderVerificationCode(code)
	if err != nil {
		logger.Error("Failed to render verification code email", "error", err)
		return
	}

	if err := s.mail.Send(to, email.VerificationCodeSubject, htmlBody); err != nil {
		logger.Error("Failed to send verification code email", "error", err, "to", to)
	}
}
