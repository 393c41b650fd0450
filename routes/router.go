package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hangoutspots/config"
	"hangoutspots/controllers"
	"hangoutspots/middlewares"
	"hangoutspots/models"
	"hangoutspots/websocket"
)

// SetupRouter assembles the HTTP surface.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middlewares.RateLimit(cfg.RateLimit.PerMinute))

	auth := middlewares.AuthRequired(cfg.JWT.Secret)
	admin := middlewares.RequireRole(models.RoleAdmin)

	// Auth & users
	users := r.Group("/users")
	{
		users.POST("", controllers.Register)
		users.POST("/login", controllers.Login)
		users.GET("/:id/profile", controllers.GetUserProfile)
		users.GET("/:id", auth, controllers.GetUser)
		users.PUT("/:id", auth, controllers.UpdateUser)
		users.DELETE("/:id", auth, admin, controllers.DeleteUser)
		users.GET("/admin/all", auth, admin, controllers.GetAllUsers)
		users.GET("/admin/stats", auth, admin, controllers.GetPlatformStats)
		users.PUT("/admin/:id/role", auth, admin, controllers.UpdateUserRole)
		users.PUT("/admin/:id/ban", auth, admin, controllers.SetUserBanned)
	}

	// Businesses
	businesses := r.Group("/businesses")
	{
		businesses.GET("", controllers.GetBusinesses)
		businesses.GET("/search", controllers.SearchBusinesses)
		businesses.GET("/places/:placeId", controllers.GetPlaceDetails)
		businesses.GET("/:id", controllers.GetBusiness)
	}

	// Check-ins
	checkins := r.Group("/checkins")
	{
		checkins.POST("", auth, controllers.CreateCheckin)
		checkins.GET("/user/:userId", controllers.GetUserCheckins)
		checkins.GET("/business/:businessId", controllers.GetBusinessCheckins)
		checkins.GET("/stats/:userId", controllers.GetCheckinStats)
	}

	// Reviews & reactions
	reviews := r.Group("/reviews")
	{
		reviews.POST("", auth, controllers.CreateReview)
		reviews.GET("/top", controllers.GetTopReviews)
		reviews.GET("/business/:businessId", controllers.GetBusinessReviews)
		reviews.GET("/:id", controllers.GetReview)
		reviews.GET("/:id/reactions", controllers.GetReviewReactions)
		reviews.GET("/:id/reaction", auth, controllers.GetMyReaction)
		reviews.POST("/:id/react", auth, controllers.ReactToReview)
		reviews.DELETE("/:id", auth, controllers.DeleteReview)
	}

	// Leaderboard
	leaderboard := r.Group("/leaderboard")
	{
		leaderboard.GET("", controllers.GetLeaderboard)
		leaderboard.GET("/user/:userId", controllers.GetUserRank)
	}

	// Subscriptions
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.GET("/user/:userId", controllers.GetUserSubscription)
		subscriptions.GET("/:userId/status", controllers.GetSubscriptionStatus)
		subscriptions.GET("/admin/all", auth, admin, controllers.GetAllSubscriptions)
		subscriptions.GET("/admin/stats", auth, admin, controllers.GetSubscriptionStats)
		subscriptions.PUT("/admin/:id", auth, admin, controllers.UpdateSubscription)
	}

	// Transactions
	transactions := r.Group("/transactions")
	{
		transactions.POST("", auth, controllers.CreateTransaction)
		transactions.POST("/confirm", auth, controllers.ConfirmTransaction)
		transactions.GET("/user/:userId", auth, controllers.GetUserTransactions)
		transactions.GET("/admin/all", auth, admin, controllers.GetAllTransactions)
		transactions.GET("/admin/stats", auth, admin, controllers.GetTransactionStats)
		transactions.GET("/:id", auth, controllers.GetTransaction)
	}

	// Gamification events
	r.GET("/ws/gamification", websocket.GamificationHandler(cfg.JWT.Secret))

	// Stored review media
	r.Static("/uploads", cfg.Uploads.Dir)

	return r
}
