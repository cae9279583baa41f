package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/scoring"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// Investor list paging defaults
const (
	DefaultPageLimit = 25
	MaxPageLimit     = 100
)

// ListInvestorsQuery is the caller-facing investor list query
type ListInvestorsQuery struct {
	Page             int
	Limit            int
	MinScore         *int
	AccreditedStatus string
	Tags             []string
	Search           string
	SortBy           string
	Ascending        bool
}

// Pagination describes one page of a list result
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// InvestorPage is one page of contactable investors
type InvestorPage struct {
	Investors  []models.Investor `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// investorServiceImpl implements InvestorService
type investorServiceImpl struct {
	repos  *repository.Repositories
	engine *scoring.ScoringEngine
	cfg    *config.Config
	log    logger.Logger
}

func newInvestorService(repos *repository.Repositories, cfg *config.Config, log logger.Logger) InvestorService {
	return &investorServiceImpl{
		repos:  repos,
		engine: scoring.NewScoringEngine(),
		cfg:    cfg,
		log:    log,
	}
}

// List returns contactable investors, best scored first unless another sort
// is requested
func (s *investorServiceImpl) List(ctx context.Context, q ListInvestorsQuery) (*InvestorPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = repository.SortQualityScore
	}

	investors, total, err := s.repos.Investor.List(ctx, repository.InvestorFilter{
		MinScore:         q.MinScore,
		AccreditedStatus: q.AccreditedStatus,
		Tags:             q.Tags,
		Search:           strings.TrimSpace(q.Search),
		SortBy:           sortBy,
		Ascending:        q.Ascending,
		Limit:            limit,
		Offset:           (page - 1) * limit,
	})
	if err != nil {
		return nil, errors.DatabaseError("Failed to list investors", err)
	}

	return &InvestorPage{
		Investors: investors,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Get returns a single investor
func (s *investorServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	investor, err := s.repos.Investor.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Investor not found")
	}
	return investor, nil
}

// Create stores a new investor with an initial score against the default
// deal terms and no engagement history
func (s *investorServiceImpl) Create(ctx context.Context, req *models.CreateInvestorRequest) (*models.Investor, *scoring.ScoreBreakdown, error) {
	investor := req.ToInvestor()
	now := time.Now()

	terms := DealTerms{Minimum: s.cfg.DefaultDealMinimum, Target: s.cfg.DefaultDealTarget}
	breakdown := s.engine.Score(BuildScoreInput(investor, terms, nil, now))

	total := breakdown.Total
	investor.QualityScore = &total
	investor.QualityTier = string(breakdown.Tier)
	investor.LastScoredAt = &now

	if err := s.repos.Investor.Create(ctx, investor); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, nil, errors.Conflict("Investor with this email already exists", err)
		}
		return nil, nil, errors.DatabaseError("Failed to create investor", err)
	}

	s.log.Info("Investor created",
		"investor_id", investor.ID.String(),
		"source", string(investor.Source),
		"initial_score", total,
	)
	return investor, &breakdown, nil
}
