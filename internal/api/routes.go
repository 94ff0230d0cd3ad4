package api

import (
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/payment"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        service.AuthService
	Completions service.CompletionService
	Sessions    service.SessionService
	Membership  service.MembershipService
	Splits      service.SplitService
	Diet        service.DietService
	ChatLimits  service.ChatLimitService
	Exports     service.ExportService
	Progress    service.ProgressService
	Nutrition   service.NutritionService
	Profiles    service.ProfileService

	PaymentVerifier payment.Verifier
}

// RouteOptions carries the settings routes depend on.
type RouteOptions struct {
	JWTSecret            string
	RateLimiter          RequestRateLimiter
	LoginRateLimitPerMin int
	// MetricsGatherer serves /metrics when set.
	MetricsGatherer prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, services Services, opts RouteOptions) {
	authHandler := NewAuthHandler(services.Auth)
	completionHandler := NewCompletionHandler(services.Completions)
	sessionHandler := NewSessionHandler(services.Sessions)
	membershipHandler := NewMembershipHandler(services.Membership, services.PaymentVerifier)
	splitHandler := NewSplitHandler(services.Splits)
	dietHandler := NewDietHandler(services.Diet)
	chatHandler := NewChatHandler(services.ChatLimits)
	exportHandler := NewExportHandler(services.Exports)
	progressHandler := NewProgressHandler(services.Progress)
	nutritionHandler := NewNutritionHandler(services.Nutrition)
	profileHandler := NewProfileHandler(services.Profiles)

	authMiddleware := AuthMiddleware(opts.JWTSecret)
	premium := RequireMembership(services.Membership)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", RateLimit(opts.RateLimiter, "login", opts.LoginRateLimitPerMin), authHandler.Login)
		}
		apiV1.GET("/membership/plans", membershipHandler.Plans)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		completionGroup := protected.Group("/completions")
		{
			completionGroup.GET("", completionHandler.List)
			completionGroup.POST("", completionHandler.MarkComplete)
			completionGroup.GET("/streak", completionHandler.Streak)
			completionGroup.GET("/today", completionHandler.Today)
			// only today's completion of the day is removed
			completionGroup.DELETE("/:workoutDay", completionHandler.UnmarkToday)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/active", sessionHandler.ListActiveSessions)
			sessionGroup.GET("/stats", premium, sessionHandler.Stats)
			sessionGroup.POST("/:id/complete", sessionHandler.CompleteSession)
			sessionGroup.POST("/:id/cancel", sessionHandler.CancelSession)
		}

		membershipGroup := protected.Group("/membership")
		{
			membershipGroup.GET("", membershipHandler.Status)
			membershipGroup.GET("/events", membershipHandler.Events)
			membershipGroup.POST("/checkout", membershipHandler.Checkout)
			membershipGroup.POST("/verify", membershipHandler.VerifyPayment)
			membershipGroup.GET("/orders", membershipHandler.Orders)
		}

		splitGroup := protected.Group("/splits")
		{
			splitGroup.GET("/current", splitHandler.GetCurrentSplit)
			splitGroup.PUT("/current", splitHandler.SaveCurrentSplit)
		}

		dietGroup := protected.Group("/diet")
		{
			dietGroup.GET("/plans", dietHandler.ListPlans)
			dietGroup.GET("/plans/:planId", premium, dietHandler.GetPlan)
		}

		chatGroup := protected.Group("/chat")
		{
			chatGroup.GET("/limits", chatHandler.Limits)
			chatGroup.POST("/prompts", chatHandler.ConsumePrompt)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("/weight", progressHandler.Weight)
			progressGroup.POST("/weight", progressHandler.LogWeight)
			progressGroup.DELETE("/weight/:id", progressHandler.DeleteWeight)
			progressGroup.GET("/strength", progressHandler.StrengthHistory)
			progressGroup.POST("/strength", progressHandler.LogStrength)
			progressGroup.GET("/strength/records", progressHandler.StrengthRecords)
		}

		nutritionGroup := protected.Group("/nutrition")
		{
			nutritionGroup.GET("/meals", nutritionHandler.Day)
			nutritionGroup.POST("/meals", nutritionHandler.LogMeal)
			nutritionGroup.DELETE("/meals/:id", nutritionHandler.DeleteMeal)
			nutritionGroup.GET("/calculations", nutritionHandler.Calculations)
			nutritionGroup.POST("/calculations", nutritionHandler.Calculate)
		}

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.SaveProfile)

		protected.POST("/exports", premium, exportHandler.CreateExport)
	}
}
