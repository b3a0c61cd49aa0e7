package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/controllers"
	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/storage"
)

type Controllers struct {
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Participants *controllers.ParticipantController
	Admin        *controllers.AdminController
	Settings     *controllers.SettingsController
	Profile      *controllers.ProfileController
	Export       *controllers.ExportController
	Upload       *controllers.UploadController
	Health       *controllers.HealthController
}

func Setup(r *gin.Engine, cfg *config.Config, store storage.Store, ctrl Controllers) {
	r.GET("/health", ctrl.Health.Check)

	authLimiter := middleware.NewIPRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginRateBurst, 5*time.Minute)
	authn := middleware.SessionAuth(cfg, store)

	api := r.Group("/api")
	{
		api.POST("/register", middleware.RateLimitByIP(authLimiter), ctrl.Auth.Register)
		api.POST("/login", middleware.RateLimitByIP(authLimiter), ctrl.Auth.Login)
		api.POST("/logout", ctrl.Auth.Logout)
		api.GET("/user", authn, ctrl.Auth.Me)
		api.POST("/forgot-password", middleware.RateLimitByIP(authLimiter), ctrl.Auth.ForgotPassword)
		api.POST("/reset-password", ctrl.Auth.ResetPassword)

		events := api.Group("/events")
		events.Use(authn)
		{
			events.GET("", ctrl.Events.List)
			events.GET("/:id", ctrl.Events.Get)
			// Event mutation is admin-only.
			events.POST("", middleware.RequireAdmin(), ctrl.Events.Create)
			events.PUT("/:id", middleware.RequireAdmin(), ctrl.Events.Update)
			events.DELETE("/:id", middleware.RequireAdmin(), ctrl.Events.Delete)

			events.GET("/:id/participants", ctrl.Participants.ListEventParticipants)
			// Joining an event requires an admin-approved account.
			events.GET("/:id/my-participation", middleware.RequireApproved(), ctrl.Participants.MyParticipation)
			events.POST("/:id/participate", middleware.RequireApproved(), ctrl.Participants.Participate)
			events.PUT("/:id/participate", middleware.RequireApproved(), ctrl.Participants.UpdateParticipation)
		}

		user := api.Group("/user")
		user.Use(authn)
		{
			user.GET("/participations", ctrl.Participants.MyParticipations)
			user.PUT("/profile", ctrl.Profile.Update)
			user.POST("/avatar", ctrl.Profile.ImportAvatar)
		}

		admin := api.Group("/admin")
		admin.Use(authn, middleware.RequireAdmin())
		{
			admin.GET("/users", ctrl.Admin.ListUsers)
			admin.POST("/users/:id/approve", ctrl.Admin.ApproveUser)
			admin.POST("/users/:id/role", ctrl.Admin.SetUserRole)
			admin.POST("/users/:id/toggle-active", ctrl.Admin.ToggleUserActive)

			admin.POST("/events/:eventId/participants/:participantId/approve", ctrl.Admin.ApproveParticipant)
			admin.POST("/events/:eventId/participants/:participantId/reject", ctrl.Admin.RejectParticipant)
			admin.PUT("/events/:eventId/participants/:participantId/payment", ctrl.Admin.UpdateParticipantPayment)

			admin.GET("/site-settings", ctrl.Settings.Get)
			admin.PUT("/site-settings", ctrl.Settings.Update)

			admin.POST("/export", ctrl.Export.CreateExport)
			admin.GET("/export/:job_id", ctrl.Export.GetExport)
		}

		api.POST("/uploads", authn, middleware.RequireAdmin(), ctrl.Upload.Upload)
	}
}
