package models

import "time"

// MaxVerificationAttempts - лимит неудачных проверок кода на один запрос
const MaxVerificationAttempts = 5

// PasswordReset - живой запрос восстановления пароля.
// На пользователя существует не больше одной записи (upsert по user_id):
// новый forget-password перезаписывает старый код.
//
// Хранятся только хеши: bcrypt для 6-значного кода, SHA-256 для
// reset-токена. Сырые значения уходят клиенту ровно один раз.
type PasswordReset struct {
	BaseModel
	UserID                    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	VerificationCodeHash      string    `gorm:"not null" json:"-"`
	VerificationCodeExpiresAt time.Time `gorm:"not null" json:"verification_code_expires_at"`
	Attempts                  int       `gorm:"not null;default:0" json:"attempts"`
	ResetTokenHash            *string   `gorm:"index" json:"-"`
	ResetTokenExpiresAt       *time.Time `json:"reset_token_expires_at,omitempty"`
}

// CodeExpired сообщает, истек ли срок действия кода
func (p *PasswordReset) CodeExpired(now time.Time) bool {
	return p.VerificationCodeExpiresAt.Before(now)
}

// AttemptsExceeded сообщает, исчерпан ли лимит попыток
func (p *PasswordReset) AttemptsExceeded() bool {
	return p.Attempts >= MaxVerificationAttempts
}

// ResetTokenExpired сообщает, истек ли reset-токен.
// Отсутствие токена считается истечением.
func (p *PasswordReset) ResetTokenExpired(now time.Time) bool {
	return p.ResetTokenExpiresAt == nil || p.ResetTokenExpiresAt.Before(now)
}
