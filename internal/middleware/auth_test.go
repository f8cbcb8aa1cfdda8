package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sohagstore_backend/internal/auth"
	"sohagstore_backend/internal/middleware"
	"sohagstore_backend/internal/models"
	"sohagstore_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var guardSecret = []byte("guard_test_secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// newGuardRouter поднимает роутер с одним защищенным маршрутом
func newGuardRouter(userRepo *helpers.MemoryUserRepository, opts middleware.RouteOptions) *gin.Engine {
	guard := middleware.NewAuthGuard(userRepo, guardSecret)

	router := gin.New()
	router.Use(middleware.DBMiddleware(&gorm.DB{}))
	router.GET("/protected", guard.Handler(opts), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": middleware.GetUserID(c),
			"role":   c.GetString("role"),
		})
	})
	return router
}

func seedUser(t *testing.T, repo *helpers.MemoryUserRepository, role models.UserRole, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:   "Guard User",
		Email:  string(role) + "@test.com",
		Role:   role,
		Active: active,
	}
	require.NoError(t, repo.Create(nil, user))
	return user
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthGuard_PublicRoute(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	router := newGuardRouter(repo, middleware.RouteOptions{Public: true})

	rec := doRequest(router, "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGuard_MissingToken(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	router := newGuardRouter(repo, middleware.RouteOptions{})

	rec := doRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or missing token")
}

func TestAuthGuard_ValidToken(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)
	router := newGuardRouter(repo, middleware.RouteOptions{})

	token, err := auth.GenerateToken(user.ID, guardSecret, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ID)
}

func TestAuthGuard_ExpiredToken(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)
	router := newGuardRouter(repo, middleware.RouteOptions{})

	token, err := auth.GenerateToken(user.ID, guardSecret, -time.Minute)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_WrongSecret(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)
	router := newGuardRouter(repo, middleware.RouteOptions{})

	token, err := auth.GenerateToken(user.ID, []byte("another_secret"), time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestAuthGuard_DeletedUser - удаление пользователя отзывает его токены
func TestAuthGuard_DeletedUser(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)
	router := newGuardRouter(repo, middleware.RouteOptions{})

	token, err := auth.GenerateToken(user.ID, guardSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(nil, user.ID))

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_DeactivatedUser(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, false)
	router := newGuardRouter(repo, middleware.RouteOptions{})

	token, err := auth.GenerateToken(user.ID, guardSecret, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestAuthGuard_MissingDBMiddleware - отсутствие DBMiddleware это ошибка
// конфигурации приложения, guard должен падать громко, а не отдавать nil в gorm
func TestAuthGuard_MissingDBMiddleware(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)

	guard := middleware.NewAuthGuard(repo, guardSecret)
	router := gin.New()
	router.GET("/protected", guard.Handler(middleware.RouteOptions{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := auth.GenerateToken(user.ID, guardSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	assert.PanicsWithValue(t, "critical error: DBMiddleware did not set the db key", func() {
		router.ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestAuthGuard_RoleMismatch(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	user := seedUser(t, repo, models.UserRoleUser, true)
	router := newGuardRouter(repo, middleware.RouteOptions{
		AllowedRoles: []models.UserRole{models.UserRoleAdmin},
	})

	token, err := auth.GenerateToken(user.ID, guardSecret, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")
}

func TestAuthGuard_RoleAllowed(t *testing.T) {
	t.Parallel()
	repo := helpers.NewMemoryUserRepository()
	admin := seedUser(t, repo, models.UserRoleAdmin, true)
	router := newGuardRouter(repo, middleware.RouteOptions{
		AllowedRoles: []models.UserRole{models.UserRoleAdmin},
	})

	token, err := auth.GenerateToken(admin.ID, guardSecret, time.Hour)
	require.NoError(t, err)

	rec := doRequest(router, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}
