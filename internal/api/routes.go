package api

import (
	"github.com/gin-gonic/gin"
	"github.com/hotelcapital/raise-engine/internal/auth"
	"github.com/hotelcapital/raise-engine/internal/database"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/services"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// Handlers groups the HTTP handlers mounted by registerRoutes
type Handlers struct {
	Auth     *AuthHandler
	Investor *InvestorHandler
	Deal     *DealHandler
	Outreach *OutreachHandler
	Pipeline *PipelineHandler
	Health   *HealthHandler
}

// SetupRoutes configures all API routes. The returned pipeline is owned by
// the caller, which should stop it on shutdown.
func SetupRoutes(r *gin.Engine, db *database.DB, cfg *config.Config, log logger.Logger) *services.RescorePipeline {
	svc := services.NewServices(db.DB, cfg, log)
	pipeline := services.NewRescorePipeline(repository.NewRepositories(db.DB), svc.Scoring, log)

	handlers := &Handlers{
		Auth:     NewAuthHandler(svc.Auth),
		Investor: NewInvestorHandler(svc.Investor, svc.Scoring, svc.Outreach),
		Deal:     NewDealHandler(svc.Deal),
		Outreach: NewOutreachHandler(svc.Outreach, svc.Compliance),
		Pipeline: NewPipelineHandler(pipeline, services.PipelineConfigFrom(cfg)),
		Health:   NewHealthHandler(db),
	}

	registerRoutes(r, handlers, auth.NewJWTService(cfg.JWTSecret))
	return pipeline
}

func registerRoutes(r *gin.Engine, h *Handlers, jwtService *auth.JWTService) {
	writers := auth.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleAnalyst)
	managers := auth.RequireRoles(models.RoleAdmin, models.RoleManager)
	admins := auth.RequireRoles(models.RoleAdmin)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", h.Auth.Login)
		public.GET("/health", h.Health.GetHealth)

		// Unsubscribe links land here straight from email clients
		public.GET("/investors/:id/opt-out", h.Investor.OptOut)
		public.POST("/investors/:id/opt-out", h.Investor.OptOut)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(jwtService))
	{
		protected.POST("/auth/register", admins, h.Auth.Register)

		// Investor endpoints
		protected.GET("/investors", h.Investor.ListInvestors)
		protected.POST("/investors", writers, h.Investor.CreateInvestor)
		protected.GET("/investors/:id", h.Investor.GetInvestor)
		protected.POST("/investors/:id/score", writers, h.Investor.ScoreInvestor)

		// Deal endpoints
		protected.GET("/deals", h.Deal.ListDeals)
		protected.GET("/deals/:id", h.Deal.GetDeal)
		protected.POST("/deals", managers, h.Deal.CreateDeal)
		protected.PATCH("/deals/:id/status", managers, h.Deal.UpdateDealStatus)

		// Compliance endpoints share the outreach prefix
		protected.POST("/outreach/compliance-check", h.Outreach.ComplianceCheck)
		protected.GET("/outreach/disclaimers", h.Outreach.GetDisclaimers)

		// Outreach endpoints
		protected.POST("/outreach/sequences", managers, h.Outreach.CreateSequence)
		protected.POST("/outreach/sequences/:id/approve", managers, h.Outreach.ApproveSequence)
		protected.POST("/outreach/sequences/:id/enroll", writers, h.Outreach.Enroll)

		// Rescore pipeline endpoints
		protected.GET("/pipeline/status", admins, h.Pipeline.GetPipelineStatus)
		protected.POST("/pipeline/start", admins, h.Pipeline.StartPipeline)
		protected.POST("/pipeline/stop", admins, h.Pipeline.StopPipeline)
		protected.POST("/pipeline/run-once", admins, h.Pipeline.RunPipelineOnce)
	}
}
