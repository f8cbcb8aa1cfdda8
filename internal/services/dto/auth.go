package dto

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse - ответ с сессионным токеном
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ForgetPasswordRequest - запрос кода восстановления
type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyVerificationCodeRequest - проверка 6-значного кода
type VerifyVerificationCodeRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationCode string `json:"verificationCode" binding:"required,len=6,numeric"`
}

// VerifyVerificationCodeResponse - одноразовый reset-токен.
// Token отдается клиенту ровно один раз и больше не восстановим.
type VerifyVerificationCodeResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ResetPasswordRequest - установка нового пароля по reset-токену
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ChangePasswordRequest - смена пароля аутентифицированным пользователем
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}
