package routes

import (
	"sohagstore_backend/internal/handlers"
	"sohagstore_backend/internal/middleware"
	"sohagstore_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
//
// Права каждого маршрута декларируются явно через RouteOptions:
// открытые маршруты помечены Public, admin-маршруты - AllowedRoles.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guard *middleware.AuthGuard,
) {
	public := middleware.RouteOptions{Public: true}
	authenticated := middleware.RouteOptions{}
	adminOnly := middleware.RouteOptions{AllowedRoles: []models.UserRole{models.UserRoleAdmin}}

	api := ginRouter.Group("/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", guard.Handler(public), appHandlers.AuthHandler.Register)
		auth.POST("/login", guard.Handler(public), appHandlers.AuthHandler.Login)
		auth.POST("/forget-password", guard.Handler(public), appHandlers.AuthHandler.ForgetPassword)
		auth.POST("/verify-verification-code", guard.Handler(public), appHandlers.AuthHandler.VerifyVerificationCode)
		auth.POST("/reset-password/:token", guard.Handler(public), appHandlers.AuthHandler.ResetPassword)
		auth.POST("/change-password", guard.Handler(authenticated), appHandlers.AuthHandler.ChangePassword)
	}

	me := api.Group("/user/me")
	me.Use(guard.Handler(authenticated))
	{
		me.GET("", appHandlers.UserHandler.Me)
		me.PATCH("", appHandlers.UserHandler.UpdateMe)
		me.DELETE("", appHandlers.UserHandler.DeleteMe)
	}

	users := api.Group("/users")
	users.Use(guard.Handler(adminOnly))
	{
		users.POST("", appHandlers.UserManagementHandler.Create)
		users.GET("", appHandlers.UserManagementHandler.FindAll)
		users.GET("/:id", appHandlers.UserManagementHandler.FindOne)
		users.PATCH("/:id", appHandlers.UserManagementHandler.Update)
		users.DELETE("/:id", appHandlers.UserManagementHandler.Remove)
		users.PATCH("/:id/deactivate", appHandlers.UserManagementHandler.Deactivate)
	}
}
