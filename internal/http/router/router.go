package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mekaniko-ph/mekaniko-backend/internal/config"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/middleware"
	"github.com/mekaniko-ph/mekaniko-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	requestHandler *handlers.RequestHandler,
	bookingHandler *handlers.BookingHandler,
	feedHandler *handlers.FeedHandler,
	catalogHandler *handlers.CatalogHandler,
	mediaHandler *handlers.MediaHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Catalog is public.
	api.GET("/catalog/services", catalogHandler.ListServices)
	api.GET("/catalog/services/:id", middleware.UUIDValidator("id"), catalogHandler.GetService)
	api.GET("/catalog/services/:id/add-ons", middleware.UUIDValidator("id"), catalogHandler.ListServiceAddOns)
	api.GET("/catalog/providers", catalogHandler.ListProviders)
	api.GET("/catalog/providers/:id/services", middleware.UUIDValidator("id"), catalogHandler.ListProviderServices)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/feed", feedHandler.HomeFeed)

		protected.GET("/requests", feedHandler.ListRequests)
		protected.POST("/requests/custom", requestHandler.CreateCustom)
		protected.POST("/requests/direct", requestHandler.CreateDirect)
		protected.POST("/requests/emergency", requestHandler.CreateEmergency)
		protected.POST("/requests/:id/quote", middleware.UUIDValidator("id"), requestHandler.Quote)
		protected.POST("/requests/:id/respond", middleware.UUIDValidator("id"), requestHandler.Respond)

		protected.GET("/bookings", feedHandler.ListBookings)
		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), feedHandler.BookingDetail)
		protected.POST("/bookings/:id/start", middleware.UUIDValidator("id"), bookingHandler.StartWork)
		protected.POST("/bookings/:id/done", middleware.UUIDValidator("id"), bookingHandler.MarkJobDone)
		protected.POST("/bookings/:id/reschedule", middleware.UUIDValidator("id"), bookingHandler.Reschedule)
		protected.POST("/bookings/:id/complete", middleware.UUIDValidator("id"), bookingHandler.Complete)
		protected.POST("/bookings/:id/cancel", middleware.UUIDValidator("id"), bookingHandler.Cancel)
		protected.POST("/bookings/:id/rework", middleware.UUIDValidator("id"), bookingHandler.FileRework)
		protected.POST("/bookings/:id/rework/resolve", middleware.UUIDValidator("id"), bookingHandler.ResolveRework)
		protected.POST("/bookings/:id/dispute", middleware.UUIDValidator("id"), bookingHandler.FileDispute)
		protected.POST("/bookings/:id/dispute/resolve", middleware.UUIDValidator("id"), bookingHandler.ResolveDispute)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
	}

	return r
}
