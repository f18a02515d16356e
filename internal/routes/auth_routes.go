package routes

import (
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты: вход, регистрация
// и шаблон договора. Эти маршруты не требуют проверки токена.
func RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handlers.RegisterHandler)
		authGroup.POST("/login", handlers.LoginHandler)
		authGroup.POST("/logout", handlers.LogoutHandler)
	}

	r.GET("/contract-template", handlers.ContractTemplatePDFHandler)
}
