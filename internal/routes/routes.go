package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	cfg := a.Config

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(a.DB, cfg)
	meHandler := handlers.NewMeHandler(a.DB)
	clientHandler := handlers.NewClientHandler(a.DB, a.Audit)
	messageHandler := handlers.NewMessageHandler(a.DB, a.SendMessage)
	reminderHandler := handlers.NewReminderHandler(a.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(a.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		a.CreateAppointment,
		a.UpdateAppointment,
		a.CancelAppointment,
		a.MarkAttendance,
		a.DeleteAppointment,
		a.ListByDate,
		a.SearchAppointments,
		a.BusinessLoc,
	)

	jobsHandler := handlers.NewJobsHandler(a.Sync, a.Reminders)

	webhookHandler := handlers.NewWebhookHandler(
		cfg.Messaging.VerifyToken,
		cfg.Messaging.AppSecret,
		a.Repo,
		a.Archive,
		a.Logger,
	)

	// ======================================================
	// WHATSAPP WEBHOOK (called by Meta, no auth)
	// ======================================================
	r.GET("/webhooks/whatsapp", webhookHandler.Verify)
	r.POST("/webhooks/whatsapp", webhookHandler.Receive)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			ownerOnly := middleware.RequireRole(models.RoleOwner)
			secured.POST("/me/users", ownerOnly, authHandler.CreateStaff)

			secured.GET("/me/clients", clientHandler.List)
			secured.PATCH("/me/clients/:id", clientHandler.Update)

			// ------------------------------
			// WHATSAPP
			// ------------------------------
			secured.GET("/me/messages", messageHandler.List)
			secured.POST("/me/messages", messageHandler.Send)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/search", appointmentHandler.Search)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/attendance", appointmentHandler.MarkAttendance)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// JOBS
			// ------------------------------
			secured.POST("/me/sync/run", jobsHandler.RunSync)
			secured.POST("/me/reminders/run", jobsHandler.RunReminders)
			secured.GET("/me/reminders", reminderHandler.List)

			secured.GET("/me/audit-logs", ownerOnly, auditLogsHandler.List)
		}
	}
}
