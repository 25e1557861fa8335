package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController, reportController *controllers.ReportController, chatController *controllers.ChatController) {
	users := protected.Group("/users")
	{
		users.GET("/:id", userController.ViewUser)
		users.POST("/:id/report", reportController.ReportUser)
		users.GET("/:id/chat", chatController.DirectChat)
	}
}
