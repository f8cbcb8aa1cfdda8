package services

import (
	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/repositories"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService - операции пользователя над собственным профилем
type UserService interface {
	Me(db *gorm.DB, userID string) (*dto.UserDTO, error)
	UpdateMe(db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserDTO, error)
	DeleteMe(db *gorm.DB, userID string) error
}

type userService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

// NewUserService создает новый UserService
func NewUserService(userRepo repositories.UserRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Me(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserDTO(user), nil
}

// UpdateMe обновляет только присланные поля профиля.
// Роль и флаг активности здесь недоступны - их меняет только администратор.
func (s *userService) UpdateMe(db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(db, *req.Email)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return dto.NewUserDTO(user), nil
}

func (s *userService) DeleteMe(db *gorm.DB, userID string) error {
	if err := s.userRepo.Delete(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
