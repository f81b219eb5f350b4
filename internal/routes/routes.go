package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/audit"
	"github.com/BruksfildServices01/care-marketplace/internal/auth"
	"github.com/BruksfildServices01/care-marketplace/internal/config"
	"github.com/BruksfildServices01/care-marketplace/internal/handlers"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/care-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/care-marketplace/internal/infra/storage"
	"github.com/BruksfildServices01/care-marketplace/internal/metrics"
	"github.com/BruksfildServices01/care-marketplace/internal/middleware"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/notify"
	"github.com/BruksfildServices01/care-marketplace/internal/security"
	ucAppointment "github.com/BruksfildServices01/care-marketplace/internal/usecase/appointment"
	ucMessaging "github.com/BruksfildServices01/care-marketplace/internal/usecase/messaging"
	ucRequest "github.com/BruksfildServices01/care-marketplace/internal/usecase/request"
)

// Deps são os singletons criados no main. Storage e Payments podem ser
// nil quando o serviço externo não está configurado.
type Deps struct {
	Auth       *auth.Service
	Audit      *audit.Dispatcher
	Notify     *notify.Dispatcher
	Metrics    *metrics.Collector
	LoginLimit *middleware.RateLimiter
	Storage    storage.ObjectStore
	Payments   payment.Gateway
	Log        *slog.Logger
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigin))

	// ======================================================
	// INFRA
	// ======================================================
	requestRepo := infraRepo.NewRequestGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	messagingRepo := infraRepo.NewMessagingGormRepository(db)

	sanitizer := security.NewSanitizer()

	// ======================================================
	// USE CASES
	// ======================================================
	createRequestUC := ucRequest.NewCreateRequest(requestRepo, d.Audit, d.Notify, sanitizer, d.Log)
	acceptRequestUC := ucRequest.NewAcceptRequest(requestRepo, d.Audit, d.Notify, d.Log)
	rejectRequestUC := ucRequest.NewRejectRequest(requestRepo, d.Audit, d.Notify)
	completeRequestUC := ucRequest.NewCompleteRequest(requestRepo, d.Audit, d.Notify)
	listRequestsUC := ucRequest.NewListRequests(requestRepo)

	rateUC := ucAppointment.NewRateAppointment(appointmentRepo, d.Audit, sanitizer)
	historyUC := ucAppointment.NewListHistory(appointmentRepo)

	listConversationsUC := ucMessaging.NewListConversations(messagingRepo, d.Log)
	fetchThreadUC := ucMessaging.NewFetchThread(messagingRepo, d.Log)
	sendMessageUC := ucMessaging.NewSendMessage(messagingRepo, sanitizer)
	markReadUC := ucMessaging.NewMarkRead(messagingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Auth, d.Metrics, d.Log)
	meHandler := handlers.NewMeHandler(db, d.Storage, d.Log)

	conversationHandler := handlers.NewConversationHandler(
		listConversationsUC,
		fetchThreadUC,
		sendMessageUC,
		markReadUC,
		d.Metrics,
		d.Log,
	)

	adminHandler := handlers.NewAdminHandler(db, d.Auth, d.Audit, d.Log)
	adminCatalogHandler := handlers.NewAdminCatalogHandler(db, d.Audit, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, d.Log)

	professionalHandler := handlers.NewProfessionalHandler(
		db,
		listRequestsUC,
		acceptRequestUC,
		rejectRequestUC,
		completeRequestUC,
		historyUC,
		d.Metrics,
		d.Log,
	)

	clientHandler := handlers.NewClientHandler(
		db,
		createRequestUC,
		listRequestsUC,
		historyUC,
		rateUC,
		d.Payments,
		d.Metrics,
		d.Log,
	)

	// ======================================================
	// INFRA ENDPOINTS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		authAPI.Use(d.LoginLimit.Middleware())
		{
			authAPI.POST("/register", authHandler.Register)
			authAPI.POST("/login", authHandler.Login)
		}

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Auth))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me/photo", meHandler.UploadPhoto)

			// ------------------------------
			// CONVERSAS
			// ------------------------------
			conv := secured.Group("/conversations")
			conv.Use(middleware.RequireRole(models.RoleClient, models.RoleProfessional))
			{
				conv.GET("", conversationHandler.List)
				conv.GET("/:id/messages", conversationHandler.Messages)
				conv.POST("/:id/messages", conversationHandler.Send)
				conv.POST("/:id/read", conversationHandler.MarkRead)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/dashboard", adminHandler.Dashboard)

				admin.GET("/categories", adminCatalogHandler.ListCategories)
				admin.POST("/categories", adminCatalogHandler.CreateCategory)
				admin.PATCH("/categories/:id", adminCatalogHandler.UpdateCategory)
				admin.DELETE("/categories/:id", adminCatalogHandler.DeleteCategory)

				admin.GET("/plans", adminCatalogHandler.ListPlans)
				admin.POST("/plans", adminCatalogHandler.CreatePlan)
				admin.PATCH("/plans/:id", adminCatalogHandler.UpdatePlan)
				admin.DELETE("/plans/:id", adminCatalogHandler.DeletePlan)

				admin.GET("/professionals", adminHandler.ListProfessionals)
				admin.POST("/professionals", adminHandler.CreateProfessional)
				admin.PATCH("/professionals/:id/status", adminHandler.UpdateProfessionalStatus)

				admin.GET("/clients", adminHandler.ListClients)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}

			// ------------------------------
			// PROFISSIONAL
			// ------------------------------
			pro := secured.Group("/professional")
			pro.Use(middleware.RequireRole(models.RoleProfessional))
			{
				pro.GET("/dashboard", professionalHandler.Dashboard)

				pro.GET("/services", professionalHandler.ListServices)
				pro.POST("/services", professionalHandler.CreateService)
				pro.DELETE("/services/:id", professionalHandler.DeleteService)

				pro.GET("/requests", professionalHandler.ListRequests)
				pro.PATCH("/requests/:id/accept", professionalHandler.Accept)
				pro.PATCH("/requests/:id/reject", professionalHandler.Reject)
				pro.PATCH("/requests/:id/complete", professionalHandler.Complete)

				pro.GET("/history", professionalHandler.History)
			}

			// ------------------------------
			// CLIENTE
			// ------------------------------
			client := secured.Group("/client")
			client.Use(middleware.RequireRole(models.RoleClient))
			{
				client.GET("/categories", clientHandler.ListCategories)
				client.GET("/categories/:id/professionals", clientHandler.ListProfessionals)
				client.GET("/service-types", clientHandler.ServiceTypes)

				client.POST("/requests", clientHandler.CreateRequest)
				client.GET("/requests", clientHandler.ListRequests)

				client.GET("/history", clientHandler.History)
				client.POST("/appointments/:id/rating", clientHandler.Rate)

				client.PUT("/location", clientHandler.UpdateLocation)

				client.GET("/plans", clientHandler.ListPlans)
				client.POST("/plans/:id/checkout", clientHandler.Checkout)
			}
		}
	}
}
