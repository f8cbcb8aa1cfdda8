package services

import (
	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/pagination"
	"sohagstore_backend/internal/repositories"
	"sohagstore_backend/internal/services/dto"
	"sohagstore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserManagementService - администрирование учетных записей
type UserManagementService interface {
	Create(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserDTO, error)
	FindAll(db *gorm.DB, req *dto.QueryUsersRequest) (*dto.PaginatedUsersResponse, error)
	FindOne(db *gorm.DB, userID string) (*dto.UserDTO, error)
	Update(db *gorm.DB, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserDTO, error)
	Remove(db *gorm.DB, userID string) error
	Deactivate(db *gorm.DB, userID string) error
}

type userManagementService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

// NewUserManagementService создает новый UserManagementService
func NewUserManagementService(userRepo repositories.UserRepository, bcryptCost int) UserManagementService {
	return &userManagementService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func (s *userManagementService) Create(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserDTO, error) {
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

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return dto.NewUserDTO(user), nil
}

func (s *userManagementService) FindAll(db *gorm.DB, req *dto.QueryUsersRequest) (*dto.PaginatedUsersResponse, error) {
	opts := pagination.Options{
		Page:      req.Page,
		Limit:     req.Limit,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	opts = opts.Normalize()

	filter := repositories.UserFilter{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	users, total, err := s.userRepo.FindWithFilter(db, filter, opts)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	data := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		data = append(data, *dto.NewUserDTO(&users[i]))
	}

	return &dto.PaginatedUsersResponse{
		Data: data,
		Meta: pagination.BuildMeta(total, opts),
	}, nil
}

func (s *userManagementService) FindOne(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserDTO(user), nil
}

func (s *userManagementService) Update(db *gorm.DB, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserDTO, error) {
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
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
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

func (s *userManagementService) Remove(db *gorm.DB, userID string) error {
	if err := s.userRepo.Delete(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// Deactivate выключает учетную запись без удаления данных.
// Вход и guard перестают принимать пользователя немедленно, не дожидаясь
// истечения выданных токенов.
func (s *userManagementService) Deactivate(db *gorm.DB, userID string) error {
	if err := s.userRepo.SetActive(db, userID, false); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
