package repositories

import (
	"errors"
	"time"

	"sohagstore_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrPasswordResetNotFound возвращается, когда живого запроса нет
	ErrPasswordResetNotFound = errors.New("password reset request not found")
)

// PasswordResetRepository определяет интерфейс хранилища запросов
// восстановления пароля. На пользователя хранится не больше одной записи.
type PasswordResetRepository interface {
	// Upsert создает запрос либо перезаписывает существующий по user_id
	Upsert(db *gorm.DB, reset *models.PasswordReset) error

	// FindByUserID находит живой запрос пользователя
	FindByUserID(db *gorm.DB, userID string) (*models.PasswordReset, error)

	// FindByResetTokenHash находит запрос по SHA-256 хешу reset-токена
	FindByResetTokenHash(db *gorm.DB, tokenHash string) (*models.PasswordReset, error)

	// IncrementAttempts атомарно инкрементирует счетчик попыток и
	// возвращает новое значение. Конкурентные неудачные попытки не
	// должны теряться, поэтому read-then-write здесь запрещен.
	IncrementAttempts(db *gorm.DB, id string) (int, error)

	// SetResetToken сохраняет хеш reset-токена и срок его действия
	SetResetToken(db *gorm.DB, id, tokenHash string, expiresAt time.Time) error

	// DeleteByID удаляет запрос (одноразовое потребление reset-токена)
	DeleteByID(db *gorm.DB, id string) error

	// DeleteByUserID удаляет запрос пользователя, если он есть
	DeleteByUserID(db *gorm.DB, userID string) error
}

type passwordResetRepository struct{}

// NewPasswordResetRepository создает новый экземпляр PasswordResetRepository
func NewPasswordResetRepository() PasswordResetRepository {
	return &passwordResetRepository{}
}

// Upsert пишет запрос одним запросом с ON CONFLICT (user_id) DO UPDATE.
// Последний писатель побеждает: старый код становится бесполезным,
// как только перезаписан его хеш.
func (r *passwordResetRepository) Upsert(db *gorm.DB, reset *models.PasswordReset) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"verification_code_hash",
			"verification_code_expires_at",
			"attempts",
			"reset_token_hash",
			"reset_token_expires_at",
			"updated_at",
		}),
	}).Create(reset).Error
}

func (r *passwordResetRepository) FindByUserID(db *gorm.DB, userID string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := db.First(&reset, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasswordResetNotFound
		}
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) FindByResetTokenHash(db *gorm.DB, tokenHash string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := db.First(&reset, "reset_token_hash = ?", tokenHash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasswordResetNotFound
		}
		return nil, err
	}
	return &reset, nil
}

// IncrementAttempts выполняется одним UPDATE с RETURNING, чтобы два
// конкурентных неверных ввода кода дали attempts+2, а не attempts+1.
func (r *passwordResetRepository) IncrementAttempts(db *gorm.DB, id string) (int, error) {
	var reset models.PasswordReset
	result := db.Model(&reset).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "attempts"}}}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrPasswordResetNotFound
	}
	return reset.Attempts, nil
}

func (r *passwordResetRepository) SetResetToken(db *gorm.DB, id, tokenHash string, expiresAt time.Time) error {
	result := db.Model(&models.PasswordReset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_token_hash":       tokenHash,
		"reset_token_expires_at": expiresAt,
		"updated_at":             time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPasswordResetNotFound
	}
	return nil
}

func (r *passwordResetRepository) DeleteByID(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.PasswordReset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPasswordResetNotFound
	}
	return nil
}

func (r *passwordResetRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error
}
