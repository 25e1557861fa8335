package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/controllers"
)

func SetupListingRoutes(protected *gin.RouterGroup, listingController *controllers.ListingController, purchaseController *controllers.PurchaseController, reportController *controllers.ReportController) {
	listings := protected.Group("/listings")
	{
		listings.POST("", listingController.CreateListing)
		listings.GET("/:id", listingController.GetListing)
		listings.PUT("/:id", listingController.UpdateListing)
		listings.DELETE("/:id", listingController.DeleteListing)

		listings.POST("/:id/buy", purchaseController.BuyListing)
		listings.POST("/:id/confirm", purchaseController.ConfirmPurchase)
		listings.POST("/:id/cancel", purchaseController.CancelPurchase)

		listings.POST("/:id/report", reportController.ReportListing)
	}
}
