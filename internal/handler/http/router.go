package http

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hivebuzz/hivebuzz/internal/handler/http/middleware"
	usecasecontract "github.com/hivebuzz/hivebuzz/internal/usecase/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	feedHandler *FeedHandler
	userHandler *UserHandler
	userUsecase usecasecontract.IUserUseCase
}

func NewRouter(feedUsecase usecasecontract.IFeedUseCase, userUsecase usecasecontract.IUserUseCase) *Router {
	return &Router{
		feedHandler: NewFeedHandler(feedUsecase),
		userHandler: NewUserHandler(userUsecase),
		userUsecase: userUsecase,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// rate limiter configuration
	lmt := tollbooth.NewLimiter(20, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
	lmt.SetMessage("Too many requests, please try again later.")
	router.Use(middleware.RateLimiter(lmt))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public routes (no authentication required)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", r.userHandler.Login)
	}

	// Feed routes; merge picks up the identity when a token is present
	posts := v1.Group("/posts")
	posts.Use(middleware.OptionalAuth(r.userUsecase))
	{
		posts.GET("", r.feedHandler.GetPostsHandler)
		posts.GET("/new", r.feedHandler.GetNewPostsHandler)
		posts.POST("/merge", r.feedHandler.MergeNewPostsHandler)
	}

	v1.GET("/feed-status", r.feedHandler.FeedStatusHandler)
	v1.GET("/status", r.feedHandler.CacheStatusHandler)

	// Protected routes (authentication required)
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleWare(r.userUsecase))
	{
		protected.GET("/me", r.userHandler.GetCurrentUser)
		protected.PUT("/me", r.userHandler.UpdatePreferences)

		protected.POST("/maintenance/clear-cache", r.feedHandler.ClearCacheHandler)
	}

	// Logout route (no authentication middleware; the handler validates the token itself)
	v1.POST("/logout", r.userHandler.Logout)
}
