package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/controllers"
	"github.com/secure-trade/api-go/middleware"
)

func SetupAdminRoutes(protected *gin.RouterGroup, adminController *controllers.AdminController) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/reports", adminController.ListReports)
		admin.POST("/users/:id/suspend", adminController.SuspendUser)
		admin.POST("/users/:id/reactivate", adminController.ReactivateUser)
		admin.DELETE("/listings/:id", adminController.DeleteListing)
	}
}
