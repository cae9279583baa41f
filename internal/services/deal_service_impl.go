package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
)

// StatusChange records a deal moving between lifecycle statuses
type StatusChange struct {
	Deal   *models.Deal `json:"deal"`
	Before string       `json:"before"`
	After  string       `json:"after"`
}

// dealServiceImpl implements DealService
type dealServiceImpl struct {
	repos *repository.Repositories
	log   logger.Logger
}

func newDealService(repos *repository.Repositories, log logger.Logger) DealService {
	return &dealServiceImpl{repos: repos, log: log}
}

// List returns deals newest first. An empty status lists every deal.
func (s *dealServiceImpl) List(ctx context.Context, status string) ([]models.Deal, error) {
	if status != "" && !models.ValidDealStatus(status) {
		return nil, errors.InvalidInput("Unknown deal status: "+status, nil)
	}

	deals, err := s.repos.Deal.List(ctx, status)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list deals", err)
	}
	return deals, nil
}

// Get returns a single deal
func (s *dealServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	deal, err := s.repos.Deal.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Deal not found")
	}
	return deal, nil
}

// Create stores a new deal in DRAFT
func (s *dealServiceImpl) Create(ctx context.Context, req *models.CreateDealRequest) (*models.Deal, error) {
	deal := req.ToDeal()
	if !deal.OfferingType.Valid() {
		return nil, errors.InvalidInput("Unknown offering type: "+string(deal.OfferingType), nil)
	}

	if err := s.repos.Deal.Create(ctx, deal); err != nil {
		return nil, errors.DatabaseError("Failed to create deal", err)
	}

	s.log.Info("Deal created",
		"deal_id", deal.ID.String(),
		"offering_type", string(deal.OfferingType),
		"total_raise", deal.TotalRaise,
	)
	return deal, nil
}

// UpdateStatus moves a deal to a new lifecycle status
func (s *dealServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*StatusChange, error) {
	if !models.ValidDealStatus(status) {
		return nil, errors.InvalidInput("Unknown deal status: "+status, nil)
	}

	deal, err := s.repos.Deal.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Deal not found")
	}
	before := deal.Status

	if err := s.repos.Deal.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "Deal not found")
	}

	updated, err := s.repos.Deal.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Deal not found")
	}

	s.log.Info("Deal status changed",
		"deal_id", id.String(),
		"before", before,
		"after", status,
	)
	return &StatusChange{Deal: updated, Before: before, After: status}, nil
}
