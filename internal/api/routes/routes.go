package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/meridian-grc/meridian/backend/internal/api/handlers"
	"github.com/meridian-grc/meridian/backend/internal/api/middleware"
	"github.com/meridian-grc/meridian/backend/internal/config"
	"github.com/meridian-grc/meridian/backend/internal/logger"
	"github.com/meridian-grc/meridian/backend/internal/metrics"
	"github.com/meridian-grc/meridian/backend/internal/models"
	"github.com/meridian-grc/meridian/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations. The
// returned alert service owns the compliance check scheduler; the caller
// stops it on shutdown.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*services.AlertService, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Framework{},
		&models.Requirement{},
		&models.Control{},
		&models.Evidence{},
		&models.Policy{},
		&models.PolicyVersion{},
		&models.Acknowledgment{},
		&models.Risk{},
		&models.RiskHistory{},
		&models.Alert{},
		&models.NotificationProvider{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	authService := services.NewAuthService(db, cfg)
	frameworkService := services.NewFrameworkService(db)
	controlService := services.NewControlService(db)
	policyService := services.NewPolicyService(db)
	ackService := services.NewAcknowledgmentService(db)
	riskService := services.NewRiskService(db)
	notificationService := services.NewNotificationService(db)
	alertService := services.NewAlertService(db, notificationService)
	dashboardService := services.NewDashboardService(db, ackService)
	reportService := services.NewReportService(db, ackService)

	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(db)
	frameworkHandler := handlers.NewFrameworkHandler(frameworkService)
	controlHandler := handlers.NewControlHandler(controlService)
	policyHandler := handlers.NewPolicyHandler(policyService, ackService)
	riskHandler := handlers.NewRiskHandler(riskService)
	alertHandler := handlers.NewAlertHandler(alertService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)
	providerHandler := handlers.NewNotificationProviderHandler(notificationService)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))

	// Role tiers. Managers mutate, readers additionally include the
	// auditor role, deletion stays with admins. Everything outside a
	// tiered group only needs a valid session.
	managers := protected.Group("/", middleware.RequireRole(models.RoleAdmin, models.RoleComplianceOfficer))
	readers := protected.Group("/", middleware.RequireRole(models.RoleAdmin, models.RoleComplianceOfficer, models.RoleExternalAuditor))
	admins := protected.Group("/", middleware.RequireRole(models.RoleAdmin))

	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Users. Listing is open to compliance officers so they can
		// assign owners; account changes stay with admins.
		managers.GET("/users", userHandler.ListUsers)
		managers.GET("/users/:id", userHandler.GetUser)
		admins.POST("/users", userHandler.CreateUser)
		admins.PUT("/users/:id", userHandler.UpdateUser)

		// Frameworks and requirements
		readers.GET("/frameworks", frameworkHandler.List)
		readers.GET("/frameworks/:id", frameworkHandler.Get)
		managers.POST("/frameworks", frameworkHandler.Create)
		readers.GET("/requirements", frameworkHandler.ListRequirements)
		managers.POST("/requirements", frameworkHandler.CreateRequirement)

		// Controls and evidence
		readers.GET("/controls", controlHandler.List)
		readers.GET("/controls/:id", controlHandler.Get)
		managers.POST("/controls", controlHandler.Create)
		managers.PUT("/controls/:id", controlHandler.Update)
		admins.DELETE("/controls/:id", controlHandler.Delete)
		readers.GET("/evidence", controlHandler.ListEvidence)
		managers.POST("/evidence", controlHandler.CreateEvidence)
		admins.DELETE("/evidence/:id", controlHandler.DeleteEvidence)

		// Policies. List and get stay on the session tier so employees
		// can read published policies; the handler filters drafts.
		protected.GET("/policies", policyHandler.List)
		protected.GET("/policies/:id", policyHandler.Get)
		managers.POST("/policies", policyHandler.Create)
		managers.PUT("/policies/:id", policyHandler.Update)
		managers.POST("/policies/:id/publish", policyHandler.Publish)
		admins.DELETE("/policies/:id", policyHandler.Delete)
		readers.GET("/policies/:id/versions", policyHandler.ListVersions)

		// Acknowledgments
		protected.POST("/acknowledgments", policyHandler.Acknowledge)
		protected.GET("/acknowledgments/pending", policyHandler.Pending)

		// Risks
		readers.GET("/risks", riskHandler.List)
		readers.GET("/risks/:id", riskHandler.Get)
		readers.GET("/risks/:id/history", riskHandler.History)
		managers.POST("/risks", riskHandler.Create)
		managers.PUT("/risks/:id", riskHandler.Update)
		admins.DELETE("/risks/:id", riskHandler.Delete)

		// Alerts
		readers.GET("/alerts", alertHandler.List)
		managers.POST("/alerts/:id/resolve", alertHandler.Resolve)
		managers.POST("/alerts/run-checks", alertHandler.RunChecks)

		// Dashboard
		protected.GET("/dashboard/stats", dashboardHandler.Stats)
		readers.GET("/dashboard/frameworks/:id/progress", dashboardHandler.FrameworkProgress)

		// Reports
		readers.GET("/reports/risk-register", reportHandler.RiskRegister)
		readers.GET("/reports/compliance/:id", reportHandler.Compliance)
		readers.GET("/reports/policies/:id/acknowledgments", reportHandler.PolicyAcknowledgments)

		// Notification providers
		managers.GET("/notifications/providers", providerHandler.List)
		managers.POST("/notifications/providers", providerHandler.Create)
		managers.PUT("/notifications/providers/:id", providerHandler.Update)
		admins.DELETE("/notifications/providers/:id", providerHandler.Delete)
		managers.POST("/notifications/providers/test", providerHandler.Test)
	}

	if err := alertService.StartScheduler(cfg.AlertSchedule); err != nil {
		logger.WithError(err).Error("Failed to start compliance check scheduler")
	}

	return alertService, nil
}
