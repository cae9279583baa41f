package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/scoring"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// engagementWindow is the trailing window engagement counters cover
const engagementWindow = 30 * 24 * time.Hour

// RescoreResult is the outcome of rescoring one investor
type RescoreResult struct {
	Investor  *models.Investor       `json:"investor"`
	Breakdown scoring.ScoreBreakdown `json:"breakdown"`
	DealID    *uuid.UUID             `json:"deal_id,omitempty"`
}

// DealTerms are the deal figures check-size fit is measured against
type DealTerms struct {
	Minimum float64
	Target  float64
}

// scoringServiceImpl implements ScoringService
type scoringServiceImpl struct {
	repos  *repository.Repositories
	engine *scoring.ScoringEngine
	cfg    *config.Config
	log    logger.Logger
	now    func() time.Time
}

// newScoringService creates a new scoring service implementation
func newScoringService(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *scoringServiceImpl {
	return &scoringServiceImpl{
		repos:  repos,
		engine: scoring.NewScoringEngine(),
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// NewScoringService creates a standalone scoring service
func NewScoringService(repos *repository.Repositories, cfg *config.Config, log logger.Logger) ScoringService {
	return newScoringService(repos, cfg, log)
}

// RescoreInvestor recomputes an investor's quality score from current data
// and persists it. With a deal, check-size fit is measured against that deal
// and the deal-specific fit score is stored as well.
func (s *scoringServiceImpl) RescoreInvestor(ctx context.Context, investorID uuid.UUID, dealID *uuid.UUID) (*RescoreResult, error) {
	now := s.now()
	var result *RescoreResult

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		investor, err := tx.Investor.GetByID(ctx, investorID)
		if err != nil {
			return lookupError(err, "Investor not found")
		}

		terms := s.defaultTerms()
		if dealID != nil {
			deal, err := tx.Deal.GetByID(ctx, *dealID)
			if err != nil {
				return lookupError(err, "Deal not found")
			}
			terms = TermsForDeal(deal)
		}

		counters, err := tx.Engagement.Counters(ctx, investorID, now.Add(-engagementWindow))
		if err != nil {
			return errors.DatabaseError("Failed to load engagement", err)
		}

		breakdown := s.engine.Score(BuildScoreInput(investor, terms, counters, now))

		if err := tx.Investor.UpdateScore(ctx, investorID, breakdown.Total, string(breakdown.Tier), now); err != nil {
			return errors.DatabaseError("Failed to save score", err)
		}
		if dealID != nil {
			if err := tx.Deal.UpsertFitScore(ctx, *dealID, investorID, breakdown.Total); err != nil {
				return errors.DatabaseError("Failed to save deal fit score", err)
			}
		}

		total := breakdown.Total
		investor.QualityScore = &total
		investor.QualityTier = string(breakdown.Tier)
		investor.LastScoredAt = &now

		result = &RescoreResult{Investor: investor, Breakdown: breakdown, DealID: dealID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Investor rescored",
		"investor_id", investorID.String(),
		"total", result.Breakdown.Total,
		"tier", string(result.Breakdown.Tier),
	)
	return result, nil
}

func (s *scoringServiceImpl) defaultTerms() DealTerms {
	return DealTerms{Minimum: s.cfg.DefaultDealMinimum, Target: s.cfg.DefaultDealTarget}
}

// TermsForDeal derives check-size terms from a deal's minimum and total raise
func TermsForDeal(deal *models.Deal) DealTerms {
	return DealTerms{
		Minimum: deal.MinimumInvestment,
		Target:  scoring.DealTargetFromRaise(deal.TotalRaise),
	}
}

// BuildScoreInput assembles the scoring input for one investor. A nil
// counters value scores as no engagement.
func BuildScoreInput(inv *models.Investor, terms DealTerms, counters *models.EngagementCounters, now time.Time) scoring.InvestorScoreInput {
	if counters == nil {
		counters = &models.EngagementCounters{}
	}

	return scoring.InvestorScoreInput{
		AccreditedStatus:       inv.AccreditedStatus,
		CheckSizeMin:           inv.CheckSizeMin,
		CheckSizeMax:           inv.CheckSizeMax,
		DealMinimum:            terms.Minimum,
		DealTarget:             terms.Target,
		AssetClassPrefs:        inv.AssetClassPrefs,
		PriorHotelInvestments:  inv.PriorHotelInvestments,
		HospitalityExperience:  inv.HospitalityExperience,
		EmailOpens30d:          counters.EmailOpens,
		EmailClicks30d:         counters.EmailClicks,
		EmailReplies30d:        counters.EmailReplies,
		VoiceCallsCompleted30d: counters.VoiceCallsCompleted,
		WebsiteVisits30d:       counters.WebsiteVisits,
		DocDownloads30d:        counters.DocDownloads,
		IsPriorInvestor:        inv.Source == models.SourcePriorInvestor,
		IsReferral:             inv.Source == models.SourceReferral,
		Has1031Exchange:        inv.HasTag(models.Tag1031Exchange),
		DeploymentDeadlineDays: inv.DeadlineDays(now),
	}
}

// lookupError maps a repository lookup failure to an AppError
func lookupError(err error, notFoundMessage string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(notFoundMessage, err)
	}
	return errors.DatabaseError("Database error", err)
}
