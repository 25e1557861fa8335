package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/config"
	"github.com/secure-trade/api-go/controllers"
	"github.com/secure-trade/api-go/middleware"
	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

// SetupRoutes builds the service layer over the store and wires every
// endpoint. Controllers receive their collaborators here; nothing reaches
// into process-wide state.
func SetupRoutes(r *gin.Engine, st store.Store) {
	accounts := services.NewAccountService(st)
	listings := services.NewListingService(st)
	purchases := services.NewPurchaseService(st)
	moderation := services.NewModerationService(st)
	search := services.NewSearchService(st)

	authController := controllers.NewAuthController(accounts)
	userController := controllers.NewUserController(accounts, listings)
	listingController := controllers.NewListingController(listings)
	purchaseController := controllers.NewPurchaseController(purchases)
	reportController := controllers.NewReportController(moderation)
	adminController := controllers.NewAdminController(moderation)
	searchController := controllers.NewSearchController(search)
	chatController := controllers.NewChatController(accounts)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
		public.GET("/search", searchController.SearchListings)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(accounts))
	{
		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)
		protected.PUT("/profile/email", userController.ChangeEmail)
		protected.PUT("/profile/password", userController.ChangePassword)
		protected.DELETE("/profile", userController.DeleteAccount)
		protected.POST("/wallet/charge", userController.ChargeWallet)

		SetupListingRoutes(protected, listingController, purchaseController, reportController)
		SetupUserRoutes(protected, userController, reportController, chatController)
		SetupAdminRoutes(protected, adminController)

		if config.GetR2Config().Enabled() {
			uploadController := controllers.NewUploadController(listings)
			protected.POST("/uploads/listing-photo", uploadController.GetPresignedURL)
			protected.POST("/listings/:id/photo", uploadController.ConfirmListingPhoto)
		}

		protected.GET("/chat/public", chatController.PublicChat)
	}
}
