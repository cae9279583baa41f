package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/scoring"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// Services contains all application services
type Services struct {
	Investor   InvestorService
	Deal       DealService
	Scoring    ScoringService
	Compliance ComplianceService
	Outreach   OutreachService
	Auth       AuthService
}

// InvestorService defines the interface for investor business logic
type InvestorService interface {
	List(ctx context.Context, query ListInvestorsQuery) (*InvestorPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Investor, error)
	Create(ctx context.Context, req *models.CreateInvestorRequest) (*models.Investor, *scoring.ScoreBreakdown, error)
}

// DealService defines the interface for deal business logic
type DealService interface {
	List(ctx context.Context, status string) ([]models.Deal, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	Create(ctx context.Context, req *models.CreateDealRequest) (*models.Deal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*StatusChange, error)
}

// ScoringService defines the interface for investor scoring
type ScoringService interface {
	RescoreInvestor(ctx context.Context, investorID uuid.UUID, dealID *uuid.UUID) (*RescoreResult, error)
}

// ComplianceService defines the interface for content compliance checks
type ComplianceService interface {
	CheckContent(ctx context.Context, req *ComplianceCheckRequest) (*compliance.CheckResult, error)
	Disclaimers() compliance.Disclaimers
	RenderEmail(content string, investorID uuid.UUID) string
}

// OutreachService defines the interface for sequences and enrollments
type OutreachService interface {
	CreateSequence(ctx context.Context, req *models.CreateSequenceRequest) (*models.OutreachSequence, error)
	ApproveSequence(ctx context.Context, sequenceID uuid.UUID) (*ApprovalResult, error)
	Enroll(ctx context.Context, sequenceID uuid.UUID, investorIDs []uuid.UUID) (*EnrollmentReport, error)
	OptOut(ctx context.Context, investorID uuid.UUID) (*OptOutResult, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, cfg *config.Config, log logger.Logger) *Services {
	return newServices(repository.NewRepositories(db), cfg, log)
}

func newServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	engine := compliance.NewEngine(log)
	scoringSvc := newScoringService(repos, cfg, log)

	return &Services{
		Investor:   newInvestorService(repos, cfg, log),
		Deal:       newDealService(repos, log),
		Scoring:    scoringSvc,
		Compliance: newComplianceService(repos, cfg, engine),
		Outreach:   newOutreachService(repos, cfg, engine, log),
		Auth:       newAuthService(repos, cfg),
	}
}
