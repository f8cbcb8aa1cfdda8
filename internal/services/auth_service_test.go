package services_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/services"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"
	"sohagstore_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var codePattern = regexp.MustCompile(`>(\d{6})</p>`)

// testEnv - сервис поверх in-memory репозиториев
type testEnv struct {
	svc       services.AuthService
	userRepo  *helpers.MemoryUserRepository
	resetRepo *helpers.MemoryPasswordResetRepository
	sender    *helpers.RecordingSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userRepo := helpers.NewMemoryUserRepository()
	resetRepo := helpers.NewMemoryPasswordResetRepository()
	sender := &helpers.RecordingSender{}

	svc := services.NewAuthService(userRepo, resetRepo, sender, services.AuthConfig{
		JWTSecret:     []byte("test_secret_key_12345"),
		BcryptCost:    bcrypt.MinCost,
		SessionTTL:    time.Hour,
		CodeTTL:       24 * time.Hour,
		ResetTokenTTL: 5 * time.Minute,
	})

	return &testEnv{svc: svc, userRepo: userRepo, resetRepo: resetRepo, sender: sender}
}

func (e *testEnv) registerUser(t *testing.T, email, password string) *dto.UserDTO {
	t.Helper()
	user, err := e.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// lastSentCode достает 6-значный код из последнего перехваченного письма
func (e *testEnv) lastSentCode(t *testing.T) string {
	t.Helper()
	sent, ok := e.sender.LastSent()
	require.True(t, ok, "no email was sent")
	match := codePattern.FindStringSubmatch(sent.Body)
	require.Len(t, match, 2, "verification code not found in email body")
	return match[1]
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	user, err := env.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@test.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", user.Email)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "dup@test.com", "password123")

	_, err := env.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Second",
		Email:    "dup@test.com",
		Password: "password456",
	})

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.svc.Register(nil, &dto.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@test.com",
		Password: "123",
	})

	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")

	resp, err := env.svc.Login(nil, &dto.LoginRequest{
		Email:    "alice@test.com",
		Password: "password123",
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := auth.ParseToken(resp.Token, []byte("test_secret_key_12345"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

// TestLogin_UniformError - неизвестный email и неверный пароль
// неотличимы по ошибке
func TestLogin_UniformError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")

	_, errUnknown := env.svc.Login(nil, &dto.LoginRequest{
		Email:    "nobody@test.com",
		Password: "password123",
	})
	_, errBadPassword := env.svc.Login(nil, &dto.LoginRequest{
		Email:    "alice@test.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPassword, apperrors.ErrInvalidCredentials)
}

func TestLogin_DeactivatedUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.userRepo.SetActive(nil, user.ID, false))

	_, err := env.svc.Login(nil, &dto.LoginRequest{
		Email:    "alice@test.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, apperrors.ErrUserDeactivated)
}

func TestChangePassword_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")

	err := env.svc.ChangePassword(nil, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	require.NoError(t, err)

	_, err = env.svc.Login(nil, &dto.LoginRequest{Email: "alice@test.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Login(nil, &dto.LoginRequest{Email: "alice@test.com", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")

	err := env.svc.ChangePassword(nil, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "newpassword456",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidOldPassword)
}

// TestForgetPassword_UnknownEmail - по ответу нельзя понять,
// существует ли аккаунт
func TestForgetPassword_UnknownEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.svc.ForgetPassword(nil, "nobody@test.com")

	assert.NoError(t, err)
	assert.Empty(t, env.sender.Sent)
}

func TestForgetPassword_SendsCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")

	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))

	sent, ok := env.sender.LastSent()
	require.True(t, ok)
	assert.Equal(t, "alice@test.com", sent.To)
	assert.Equal(t, "Verification Code - Sohag Store", sent.Subject)
	assert.Regexp(t, codePattern, sent.Body)
}

// TestForgetPassword_EmailFailureIsSilent - отказ SMTP не превращается
// в ошибку для клиента: код сохранен, запрос можно повторить
func TestForgetPassword_EmailFailureIsSilent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")
	env.sender.Err = assert.AnError

	err := env.svc.ForgetPassword(nil, "alice@test.com")

	assert.NoError(t, err)
	_, findErr := env.resetRepo.FindByUserID(nil, user.ID)
	assert.NoError(t, findErr)
}

func TestVerifyVerificationCode_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	code := env.lastSentCode(t)

	resp, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: code,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestVerifyVerificationCode_WrongCodeIncrementsAttempts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))

	_, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: "000000",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
	reset, findErr := env.resetRepo.FindByUserID(nil, user.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 1, reset.Attempts)
}

// TestVerifyVerificationCode_Lockout - после пяти неудач отвергается
// даже правильный код
func TestVerifyVerificationCode_Lockout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	code := env.lastSentCode(t)

	for i := 0; i < models.MaxVerificationAttempts; i++ {
		_, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
			Email:            "alice@test.com",
			VerificationCode: "000000",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
	}

	_, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: code,
	})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
}

// TestVerifyVerificationCode_ReissueResetsAttempts - новый forgetPassword
// перезаписывает код и обнуляет счетчик
func TestVerifyVerificationCode_ReissueResetsAttempts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	oldCode := env.lastSentCode(t)

	for i := 0; i < models.MaxVerificationAttempts; i++ {
		_, _ = env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
			Email:            "alice@test.com",
			VerificationCode: "000000",
		})
	}

	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	newCode := env.lastSentCode(t)

	// Старый код мертв, даже если совпал бы по значению с новым
	if oldCode != newCode {
		_, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
			Email:            "alice@test.com",
			VerificationCode: oldCode,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
	}

	resp, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: newCode,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

// TestVerifyVerificationCode_ExpiredCode - проверка истекшего кода
// тоже тратит попытку
func TestVerifyVerificationCode_ExpiredCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")

	codeHash, err := auth.HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.resetRepo.Upsert(nil, &models.PasswordReset{
		UserID:                    user.ID,
		VerificationCodeHash:      codeHash,
		VerificationCodeExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err = env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: "123456",
	})

	assert.ErrorIs(t, err, apperrors.ErrVerificationCodeExpired)
	reset, findErr := env.resetRepo.FindByUserID(nil, user.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 1, reset.Attempts)
}

func TestVerifyVerificationCode_NoActiveRequest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")

	_, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: "123456",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
}

// TestVerifyVerificationCode_ConcurrentAttempts - конкурентные неверные
// вводы не теряют инкременты
func TestVerifyVerificationCode_ConcurrentAttempts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))

	var wg sync.WaitGroup
	for i := 0; i < models.MaxVerificationAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
				Email:            "alice@test.com",
				VerificationCode: "000000",
			})
		}()
	}
	wg.Wait()

	reset, err := env.resetRepo.FindByUserID(nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxVerificationAttempts, reset.Attempts)
}

func TestResetPassword_FullFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	code := env.lastSentCode(t)

	resp, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: code,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.ResetPassword(nil, resp.Token, "brand-new-password"))

	_, err = env.svc.Login(nil, &dto.LoginRequest{Email: "alice@test.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Login(nil, &dto.LoginRequest{Email: "alice@test.com", Password: "brand-new-password"})
	assert.NoError(t, err)
}

// TestResetPassword_TokenIsOneShot - повтор потребленного токена
// неотличим от токена, который никогда не выдавался
func TestResetPassword_TokenIsOneShot(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.registerUser(t, "alice@test.com", "password123")
	require.NoError(t, env.svc.ForgetPassword(nil, "alice@test.com"))
	code := env.lastSentCode(t)

	resp, err := env.svc.VerifyVerificationCode(nil, &dto.VerifyVerificationCodeRequest{
		Email:            "alice@test.com",
		VerificationCode: code,
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.ResetPassword(nil, resp.Token, "brand-new-password"))

	err = env.svc.ResetPassword(nil, resp.Token, "another-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPassword_NeverIssuedToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.svc.ResetPassword(nil, "deadbeefdeadbeefdeadbeefdeadbeef", "new-password")

	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@test.com", "password123")

	codeHash, err := auth.HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	reset := &models.PasswordReset{
		UserID:                    user.ID,
		VerificationCodeHash:      codeHash,
		VerificationCodeExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, env.resetRepo.Upsert(nil, reset))

	token, err := auth.GenerateResetToken(-time.Minute)
	require.NoError(t, err)
	require.NoError(t, env.resetRepo.SetResetToken(nil, reset.ID, token.Hash, token.ExpiresAt))

	err = env.svc.ResetPassword(nil, token.Raw, "new-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPassword_WeakPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.svc.ResetPassword(nil, "sometoken", "123")

	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
}
