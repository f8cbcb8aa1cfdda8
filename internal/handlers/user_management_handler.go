package handlers

import (
	"net/http"

	"sohagstore_backend/internal/services"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// UserManagementHandler - admin-маршруты /users
type UserManagementHandler struct {
	*BaseHandler
	managementService services.UserManagementService
}

func NewUserManagementHandler(base *BaseHandler, managementService services.UserManagementService) *UserManagementHandler {
	return &UserManagementHandler{
		BaseHandler:       base,
		managementService: managementService,
	}
}

func (h *UserManagementHandler) Create(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.managementService.Create(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserManagementHandler) FindAll(c *gin.Context) {
	var req dto.QueryUsersRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.managementService.FindAll(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserManagementHandler) FindOne(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	db := h.GetDB(c)

	user, err := h.managementService.FindOne(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserManagementHandler) Update(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.managementService.Update(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserManagementHandler) Remove(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	db := h.GetDB(c)

	if err := h.managementService.Remove(db, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func (h *UserManagementHandler) Deactivate(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing required path parameter: id"))
		return
	}

	db := h.GetDB(c)

	if err := h.managementService.Deactivate(db, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deactivated successfully",
	})
}

func pathUserID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		return "", false
	}
	return id, true
}
