package services

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// ComplianceCheckRequest is pre-send content to validate, optionally for a
// specific investor. Content may be plain text or an HTML body.
type ComplianceCheckRequest struct {
	Content      string              `json:"content" binding:"required"`
	Subject      string              `json:"subject"`
	OfferingType models.OfferingType `json:"offering_type" binding:"omitempty,oneof=REG_D_506B REG_D_506C"`
	InvestorID   *uuid.UUID          `json:"investor_id"`
}

// complianceServiceImpl implements ComplianceService
type complianceServiceImpl struct {
	repos       *repository.Repositories
	engine      *compliance.Engine
	cfg         *config.Config
	disclaimers compliance.Disclaimers
}

func newComplianceService(repos *repository.Repositories, cfg *config.Config, engine *compliance.Engine) ComplianceService {
	return &complianceServiceImpl{
		repos:       repos,
		engine:      engine,
		cfg:         cfg,
		disclaimers: compliance.NewDisclaimers(cfg.FirmName),
	}
}

// CheckContent runs the compliance engine over req. Without an investor, or
// when the investor cannot be found, the most conservative investor context
// applies: no prior relationship and unverified accreditation.
func (s *complianceServiceImpl) CheckContent(ctx context.Context, req *ComplianceCheckRequest) (*compliance.CheckResult, error) {
	input := compliance.CheckInput{
		Subject:                  req.Subject,
		OfferingType:             req.OfferingType,
		InvestorAccreditedStatus: models.AccreditedUnverified,
	}
	if input.OfferingType == "" {
		input.OfferingType = models.OfferingRegD506B
	}

	if req.InvestorID != nil {
		investor, err := s.repos.Investor.GetByID(ctx, *req.InvestorID)
		switch {
		case err == nil:
			input.InvestorHasPriorRelationship = investor.PriorRelationship
			input.InvestorOptedOut = investor.OptedOut
			input.InvestorAccreditedStatus = investor.AccreditedStatus
		case !stderrors.Is(err, repository.ErrNotFound):
			return nil, errors.DatabaseError("Failed to load investor", err)
		}
	}

	content, err := compliance.PlainText(req.Content)
	if err != nil {
		return nil, errors.InvalidInput("Content could not be parsed", err)
	}
	input.Content = content

	result := s.engine.Check(input)
	return &result, nil
}

// Disclaimers returns the firm's channel disclaimers
func (s *complianceServiceImpl) Disclaimers() compliance.Disclaimers {
	return s.disclaimers
}

// RenderEmail appends the compliance footer with the investor's opt-out link
func (s *complianceServiceImpl) RenderEmail(content string, investorID uuid.UUID) string {
	return s.disclaimers.AppendComplianceFooter(content, s.cfg.UnsubscribeLink(investorID.String()))
}
