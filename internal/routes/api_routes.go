// volvera/internal/routes/api_routes.go
package routes

import (
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"
	"github.com/SulimanHakimi/volvera-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// Профиль пользователя
		me := apiGroup.Group("/me")
		{
			me.GET("", handlers.GetProfileHandler)
			me.PUT("", handlers.UpdateProfileHandler)
		}

		// --- ДОГОВОРЫ ---
		contracts := apiGroup.Group("/contracts")
		{
			contracts.GET("", handlers.ListContractsHandler)
			contracts.POST("", handlers.CreateContractHandler)
			contracts.GET("/:id", handlers.GetContractHandler)
			contracts.PUT("/:id", handlers.UpdateContractHandler)
			contracts.DELETE("/:id", handlers.DeleteContractHandler)
			contracts.POST("/:id/submit", handlers.SubmitContractHandler)
		}

		// --- ДОКУМЕНТЫ ---
		documents := apiGroup.Group("/documents")
		{
			documents.GET("", handlers.ListDocumentsHandler)
			documents.POST("", handlers.UploadDocumentHandler)
			documents.GET("/:id/file", handlers.DownloadDocumentHandler)
		}

		// --- УВЕДОМЛЕНИЯ ---
		notifications := apiGroup.Group("/notifications")
		{
			notifications.GET("", handlers.ListNotificationsHandler)
			notifications.GET("/ws", handlers.NotificationsWSEndpoint)
			notifications.POST("/read-all", handlers.MarkAllNotificationsReadHandler)
			notifications.POST("/:id/read", handlers.MarkNotificationReadHandler)
		}

		RegisterAdminRoutes(apiGroup)
	}
}

// RegisterAdminRoutes - back-office, только для роли admin.
func RegisterAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/contracts", handlers.ListAllContractsHandler)
		admin.GET("/contracts/export", handlers.ExportContractsHandler)
		admin.PATCH("/contracts/:id/status", handlers.UpdateContractStatusHandler)
		admin.PUT("/contracts/:id/translation", handlers.UpdateContractTranslationHandler)

		admin.PATCH("/documents/:id", handlers.ReviewDocumentHandler)

		admin.GET("/users", handlers.ListUsersHandler)
		admin.PATCH("/users/:id", handlers.UpdateUserHandler)
		admin.DELETE("/users/:id", handlers.DeleteUserHandler)

		admin.GET("/settings", handlers.GetSettingsHandler)
		admin.PUT("/settings", handlers.UpdateSettingsHandler)
	}
}
