package middleware

import (
	"fmt"
	"strings"

	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/logger"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/repositories"
	"sohagstore_backend/pkg/apperrors"
	"sohagstore_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouteOptions - явная декларация прав маршрута.
// Public пропускает запрос без токена; непустой AllowedRoles
// дополнительно требует совпадения роли.
type RouteOptions struct {
	Public       bool
	AllowedRoles []models.UserRole
}

// AuthGuard проверяет сессионный токен и роль на каждом запросе.
// Токены не обновляются и не ротируются: guard только читает и проверяет.
type AuthGuard struct {
	userRepo repositories.UserRepository
	secret   []byte
}

// NewAuthGuard создает guard с репозиторием пользователей и секретом S1
func NewAuthGuard(userRepo repositories.UserRepository, secret []byte) *AuthGuard {
	return &AuthGuard{
		userRepo: userRepo,
		secret:   secret,
	}
}

// Handler возвращает gin middleware для маршрута с данными правами.
//
// Любая проблема с токеном (отсутствие, подпись, срок, удаленный
// пользователь) схлопывается в один 401 без деталей; деактивация
// и несовпадение роли дают 403.
func (g *AuthGuard) Handler(opts RouteOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Public {
			c.Next()
			return
		}

		tokenStr, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := auth.ParseToken(tokenStr, g.secret)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// Удаление пользователя - неявный отзыв всех его токенов
		user, err := g.userRepo.FindByID(g.db(c), claims.UserID)
		if err != nil {
			if !apperrors.Is(err, repositories.ErrUserNotFound) {
				logger.CtxWithError(c.Request.Context(), "Failed to resolve user for token", err)
			}
			abortUnauthorized(c)
			return
		}

		if !user.Active {
			apperrors.HandleError(c, apperrors.ErrUserDeactivated)
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("role", string(user.Role))
		c.Set(contextkeys.CurrentUserKey, user.Sanitized())

		if len(opts.AllowedRoles) > 0 && !roleAllowed(user.Role, opts.AllowedRoles) {
			apperrors.HandleError(c, apperrors.NewForbiddenError("You are not authorized to access this resource"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// db достает *gorm.DB, положенный DBMiddleware
func (g *AuthGuard) db(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		// Приложение неверно сконфигурировано: DBMiddleware не подключен
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// extractBearerToken достает токен из заголовка Authorization
func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

func roleAllowed(role models.UserRole, allowed []models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context) {
	apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid or missing token"))
	c.Abort()
}

// CurrentUser возвращает пользователя, положенного guard-ом в контекст
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(contextkeys.CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
