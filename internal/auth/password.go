package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength - минимальная длина пароля
const MinPasswordLength = 6

// HashPassword создает bcrypt хеш пароля с заданной стоимостью.
// Хеш самоописывающий: алгоритм, стоимость и соль закодированы в строке.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша.
// Сравнение константное по времени внутри bcrypt, никогда не через ==.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет сложность пароля
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}
