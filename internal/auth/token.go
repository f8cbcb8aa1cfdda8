package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired возвращается для просроченного токена
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid возвращается для токена с неверной подписью
	// или неразбираемой структурой
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims - утверждения сессионного токена: стандартный набор плюс UserID
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateToken выпускает подписанный HS256 токен с утверждением {UserID}
func GenerateToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

// ParseToken проверяет подпись и срок действия токена.
// Любая ошибка верификации схлопывается в ErrTokenExpired/ErrTokenInvalid,
// деталей наружу не уходит.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ResetToken - одноразовый reset-токен.
// Raw уходит клиенту ровно один раз, в хранилище попадает только Hash.
type ResetToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// GenerateResetToken выпускает 256-битный случайный токен.
// Никакого общего секрета: токен доказывается предъявлением,
// хранилище знает только SHA-256 хеш.
func GenerateResetToken(ttl time.Duration) (*ResetToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	rawHex := hex.EncodeToString(raw)
	return &ResetToken{
		Raw:       rawHex,
		Hash:      HashResetToken(rawHex),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashResetToken возвращает SHA-256 хеш токена в hex
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
