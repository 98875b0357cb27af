package routes

import (
	"time"

	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the long lived objects the handlers share.
type Dependencies struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    storage.Storage
	Redis    *redis.Client // optional
	Bookings *services.BookingService
	Payments *services.PaymentService
	Recs     *services.RecommendationService
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(utils.RequestID())
	r.Use(config.PerformanceLogger(deps.Log))

	authController := controllers.NewAuthController(deps.Store, cfg.JWT.Secret, cfg.JWT.Expiry, !cfg.IsDevelopment(), deps.Log)
	salonController := controllers.NewSalonController(deps.Store)
	serviceController := controllers.NewServiceController(deps.Store, deps.Recs)
	staffController := controllers.NewStaffController(deps.Store)
	bookingController := controllers.NewBookingController(deps.Bookings)
	reviewController := controllers.NewReviewController(deps.Store)
	recommendationController := controllers.NewRecommendationController(deps.Recs)
	paymentController := controllers.NewPaymentController(deps.Payments, deps.Log)
	profileController := controllers.NewProfileController(deps.Store)
	promotionController := controllers.NewPromotionController(deps.Store)
	dashboardController := controllers.NewDashboardController(deps.Store)
	reportController := controllers.NewReportController(deps.Store, deps.Log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(utils.RateLimit(utils.RateLimitOptions{
		Enabled:        cfg.RateLimit.Enabled,
		Capacity:       cfg.RateLimit.Capacity,
		RefillTokens:   cfg.RateLimit.RefillTokens,
		RefillInterval: cfg.RateLimit.RefillInterval,
		TTL:            cfg.RateLimit.TTL,
		Prefix:         cfg.RateLimit.Prefix,
	}, deps.Redis, deps.Log))

	// Public routes
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)
	api.POST("/logout", authController.Logout)

	salons := api.Group("/salons")
	{
		salons.GET("", salonController.ListSalons)
		salons.GET("/:id", salonController.GetSalon)
		salons.GET("/:id/services", salonController.ListServices)
		salons.GET("/:id/featured-services", salonController.FeaturedServices)
		salons.GET("/:id/reviews", salonController.ListReviews)
		salons.GET("/:id/staff", salonController.ListStaff)
	}

	api.GET("/services/promoted", serviceController.PromotedServices)
	api.GET("/services/:id", serviceController.GetService)
	api.GET("/promotions", promotionController.ListPromotions)
	api.GET("/promotions/code/:code", promotionController.GetByCode)
	api.GET("/membership-tiers", promotionController.ListMembershipTiers)
	api.GET("/membership-tiers/:id", promotionController.GetMembershipTier)

	authed := api.Group("")
	authed.Use(utils.AuthMiddleware(cfg.JWT.Secret, deps.Store))
	{
		authed.GET("/user", authController.Me)
		authed.PUT("/user/profile", profileController.UpdateProfile)
		authed.GET("/user/membership", profileController.Membership)
		authed.GET("/user/welcome-message", recommendationController.WelcomeMessage)

		bookings := authed.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("/my", bookingController.MyBookings)
			bookings.GET("/:id", bookingController.GetBooking)
			bookings.PATCH("/:id/status", bookingController.UpdateStatus)
			bookings.POST("/:id/cancel", bookingController.CancelBooking)
		}

		authed.POST("/reviews", reviewController.CreateReview)
		authed.GET("/reviews/my", reviewController.MyReviews)
		authed.GET("/recommendations", recommendationController.Recommendations)
		authed.GET("/services/:id/suggested-times", serviceController.SuggestedTimes)

		payment := authed.Group("/payment")
		{
			payment.POST("/create-intent", paymentController.CreateIntent)
			payment.POST("/confirm-booking", paymentController.ConfirmBooking)
			payment.GET("/transactions", paymentController.Transactions)
		}

		owner := authed.Group("/owner")
		owner.Use(utils.RequireRole(models.RoleSalonOwner, models.RoleAdmin))
		{
			owner.GET("/salons", salonController.OwnerSalons)
			owner.POST("/salons", salonController.CreateSalon)
			owner.PUT("/salons/:id", salonController.UpdateSalon)
			owner.POST("/salons/:id/services", serviceController.CreateService)
			owner.PUT("/services/:id", serviceController.UpdateService)
			owner.POST("/salons/:id/staff", staffController.CreateStaff)
			owner.PUT("/staff/:id", staffController.UpdateStaff)
			owner.POST("/promotions", promotionController.CreatePromotion)
			owner.PUT("/promotions/:id", promotionController.UpdatePromotion)
			owner.GET("/bookings", bookingController.OwnerBookings)
			owner.GET("/dashboard", dashboardController.GetDashboardOverview)
			owner.GET("/reports", reportController.GetReportAnalytics)
			owner.PUT("/reviews/:id/response", reviewController.RespondToReview)
		}

		admin := authed.Group("/admin")
		admin.Use(utils.RequireRole(models.RoleAdmin))
		{
			admin.PATCH("/reviews/:id/visibility", reviewController.SetVisibility)
			admin.POST("/membership-tiers", promotionController.CreateMembershipTier)
		}
	}

	return r
}
