package api

import (
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/alert"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/api/handlers"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/api/middleware"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/ws"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/database"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires repositories, services and handlers onto the router.
func SetupRoutes(router *gin.Engine, notifier *notify.Notifier, hub *ws.Hub) {
	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	divisionRepo := repository.NewDivisionRepository(db)
	telemetryRepo := repository.NewTelemetryRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	userService := service.NewUserService(userRepo, notifier)
	divisionService := service.NewDivisionService(divisionRepo)
	telemetryService := service.NewTelemetryService(telemetryRepo, divisionRepo, notifier, hub)
	alertService := service.NewAlertService(telemetryRepo, divisionRepo, alert.NewCache())
	activityService := service.NewActivityService(activityRepo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	divisionHandler := handlers.NewDivisionHandler(divisionService, activityService)
	telemetryHandler := handlers.NewTelemetryHandler(telemetryService, alertService, activityService)
	activityHandler := handlers.NewActivityHandler(activityService)
	healthHandler := handlers.NewHealthHandler()

	public := router.Group("/api/v1")
	{
		public.GET("/health", healthHandler.CheckHealth)

		// Live alert stream for dashboards
		public.GET("/ws/alerts", func(c *gin.Context) {
			ws.ServeWS(hub, c.Writer, c.Request)
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin/login", authHandler.AdminLogin)
			auth.POST("/admin/verify-otp", authHandler.AdminVerifyOTP)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/verify-email", authHandler.VerifyEmail)
		}

		// Coach-mounted devices post readings without accounts
		telemetry := public.Group("/telemetry")
		{
			telemetry.POST("", telemetryHandler.SubmitTelemetry)
			telemetry.GET("", telemetryHandler.GetTelemetry)
			telemetry.POST("/coaches", telemetryHandler.GetAvailableCoaches)
		}

		alerts := public.Group("/alerts")
		{
			alerts.GET("/active", telemetryHandler.GetActiveChainPulls)
			alerts.GET("/stats", telemetryHandler.GetChainStats)
		}

		divisions := public.Group("/divisions")
		{
			divisions.GET("", divisionHandler.ListDivisions)
			divisions.GET("/recent", divisionHandler.ListRecentDivisions)
			divisions.GET("/:id", divisionHandler.GetDivision)
		}
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		auth := protected.Group("/auth")
		{
			auth.GET("/me", authHandler.GetCurrentUser)
		}

		users := protected.Group("/users")
		{
			users.GET("/:id", userHandler.GetUser)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			adminDivisions := admin.Group("/divisions")
			{
				adminDivisions.POST("", divisionHandler.CreateDivision)
				adminDivisions.PUT("/:id", divisionHandler.UpdateDivision)
				adminDivisions.DELETE("/:id", divisionHandler.DeleteDivision)
				adminDivisions.POST("/:id/coaches", divisionHandler.AddCoach)
				adminDivisions.DELETE("/:id/coaches/:uid", divisionHandler.RemoveCoach)
			}

			admin.GET("/users", userHandler.ListUsers)
			admin.POST("/alerts/reset", telemetryHandler.ResetChainPullCache)
			admin.GET("/activities", activityHandler.GetRecentActivities)
			admin.POST("/send-mail", userHandler.BroadcastMail)
		}
	}
}
