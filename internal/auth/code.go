package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// VerificationCodeLength - длина кода восстановления
const VerificationCodeLength = 6

// GenerateVerificationCode возвращает равномерно случайный 6-значный код
// из диапазона [100000, 999999]
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
