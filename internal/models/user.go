package models

// UserRole - роль пользователя
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User - учетная запись.
// PasswordHash никогда не сериализуется наружу.
type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	Active       bool     `gorm:"default:true" json:"active"`

	// Профиль
	Age         int    `json:"age,omitempty"`
	Gender      string `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// IsAdmin проверяет является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Sanitized возвращает копию без хеша пароля (для записи в request context)
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
