package dto

import (
	"time"

	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/pagination"
)

// UserDTO - базовая информация о пользователе (без хеша пароля)
type UserDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	Active      bool            `json:"active"`
	Age         int             `json:"age,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	Avatar      string          `json:"avatar,omitempty"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewUserDTO строит DTO из модели
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Active:      user.Active,
		Age:         user.Age,
		Gender:      user.Gender,
		Avatar:      user.Avatar,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateMeRequest - обновление собственного профиля
type UpdateMeRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=3,max=30"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Password    *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	Age         *int    `json:"age,omitempty" binding:"omitempty,min=12,max=200"`
	Gender      *string `json:"gender,omitempty" binding:"omitempty,oneof=male female"`
	Avatar      *string `json:"avatar,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// AdminCreateUserRequest - создание пользователя администратором
type AdminCreateUserRequest struct {
	Name     string          `json:"name" binding:"required,min=3,max=30"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6,max=72"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=user admin"`
}

// AdminUpdateUserRequest - обновление пользователя администратором
type AdminUpdateUserRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,min=3,max=30"`
	Email       *string          `json:"email,omitempty" binding:"omitempty,email"`
	Password    *string          `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	Role        *models.UserRole `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
	Age         *int             `json:"age,omitempty" binding:"omitempty,min=12,max=200"`
	Gender      *string          `json:"gender,omitempty" binding:"omitempty,oneof=male female"`
	PhoneNumber *string          `json:"phoneNumber,omitempty"`
	Address     *string          `json:"address,omitempty"`
}

// QueryUsersRequest - параметры admin-листинга пользователей
type QueryUsersRequest struct {
	Page      int             `form:"page" binding:"omitempty,min=1"`
	Limit     int             `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy    string          `form:"sortBy" binding:"omitempty,oneof=created_at name email"`
	SortOrder string          `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Name      string          `form:"name"`
	Email     string          `form:"email"`
	Role      models.UserRole `form:"role" binding:"omitempty,oneof=user admin"`
}

// PaginatedUsersResponse - страница пользователей с метаданными
type PaginatedUsersResponse struct {
	Data []UserDTO       `json:"data"`
	Meta pagination.Meta `json:"meta"`
}
