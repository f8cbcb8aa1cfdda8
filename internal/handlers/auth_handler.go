package handlers

import (
	"net/http"

	"sohagstore_backend/internal/services"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.Register(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgetPassword всегда отвечает 200: по ответу нельзя понять,
// существует ли аккаунт с таким email
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req dto.ForgetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ForgetPassword(db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a verification code has been sent",
	})
}

func (h *AuthHandler) VerifyVerificationCode(c *gin.Context) {
	var req dto.VerifyVerificationCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.VerifyVerificationCode(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ResetPassword принимает reset-токен как параметр пути.
// Маршрут публичный: токен проверяет сервис, а не guard.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	rawToken := c.Param("token")
	if rawToken == "" {
		h.HandleServiceError(c, apperrors.ErrInvalidResetToken)
		return
	}

	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ResetPassword(db, rawToken, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully",
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ChangePassword(db, userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
	})
}
