package repositories

import (
	"errors"
	"strings"
	"time"

	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/pagination"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в БД
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists возвращается при нарушении уникальности email
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserFilter - критерии admin-поиска по пользователям
type UserFilter struct {
	Name   string
	Email  string
	Role   models.UserRole
	Active *bool
}

// UserRepository определяет интерфейс хранилища учетных записей
type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
	SetActive(db *gorm.DB, userID string, active bool) error
	Delete(db *gorm.DB, userID string) error
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	HasAdmin(db *gorm.DB) (bool, error)
	FindWithFilter(db *gorm.DB, filter UserFilter, opts pagination.Options) ([]models.User, int64, error)
}

type userRepository struct {
	// Пустая структура: *gorm.DB (пул или транзакция) передается в каждый вызов
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	result := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":         user.Name,
		"email":        user.Email,
		"role":         user.Role,
		"active":       user.Active,
		"age":          user.Age,
		"gender":       user.Gender,
		"avatar":       user.Avatar,
		"phone_number": user.PhoneNumber,
		"address":      user.Address,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetActive(db *gorm.DB, userID string, active bool) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"active":     active,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete удаляет пользователя вместе с его запросом восстановления пароля
func (r *userRepository) Delete(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) HasAdmin(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FindWithFilter(db *gorm.DB, filter UserFilter, opts pagination.Options) ([]models.User, int64, error) {
	query := db.Model(&models.User{})

	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Email+"%")
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := pagination.Apply(query, opts).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// isUniqueViolation распознает нарушение уникального индекса Postgres
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
