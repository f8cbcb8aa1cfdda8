package apperrors

import (
	"net/http"
)

/*
Предопределенные доменные ошибки аутентификации и восстановления пароля.
Сервисы возвращают их как есть, транспортный слой мапит в HTTP один раз.
*/

// --- Auth ---

// ErrWeakPassword - пароль слишком слабый.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный email или пароль.
// Одна и та же ошибка для неизвестного email и неверного пароля,
// чтобы не раскрывать существование аккаунта.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidOldPassword - текущий пароль не подошел при смене пароля.
var ErrInvalidOldPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Old password is incorrect",
	http.StatusBadRequest,
)

// ErrUserDeactivated - аккаунт деактивирован администратором.
var ErrUserDeactivated = New(
	CodeForbidden,
	"auth",
	"Your account has been deactivated",
	http.StatusForbidden,
)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// --- Password recovery ---

// ErrInvalidVerificationCode - код не совпал, либо активного запроса нет.
var ErrInvalidVerificationCode = New(
	CodeInvalidVerificationCode,
	"auth",
	"Invalid verification code",
	http.StatusBadRequest,
)

// ErrVerificationCodeExpired - срок действия кода истек.
var ErrVerificationCodeExpired = New(
	CodeVerificationCodeExpired,
	"auth",
	"Verification code has expired",
	http.StatusBadRequest,
)

// ErrTooManyAttempts - исчерпан лимит попыток ввода кода.
// Снимается только новым запросом forget-password.
var ErrTooManyAttempts = New(
	CodeTooManyAttempts,
	"auth",
	"Too many verification attempts. Request a new code.",
	http.StatusTooManyRequests,
)

// ErrInvalidResetToken - reset-токен не найден, истек или уже использован.
// Одна ошибка для всех трех случаев, чтобы не давать оракула.
var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired reset token",
	http.StatusBadRequest,
)
