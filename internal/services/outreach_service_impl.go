package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// Enrollment rejection reasons
const (
	ReasonInvestorNotFound     = "Investor not found"
	ReasonOptedOut             = "Investor opted out or DNC"
	Reason506BRelationship     = "506(b) requires prior relationship"
	Reason506CAccreditation    = "506(c) requires accredited investor"
	ReasonAlreadyEnrolled      = "Already enrolled"
	ReasonDatabaseError        = "Database error"
	maxActiveSequencesTemplate = "Max active sequences reached (%d)"
)

// StepCheck is the compliance result for one sequence step
type StepCheck struct {
	StepOrder int                    `json:"step_order"`
	Channel   models.Channel         `json:"channel"`
	Result    compliance.CheckResult `json:"result"`
}

// ApprovalResult reports whether a sequence passed review and why
type ApprovalResult struct {
	SequenceID uuid.UUID   `json:"sequence_id"`
	Approved   bool        `json:"approved"`
	Steps      []StepCheck `json:"steps"`
}

// EnrollmentResult is the outcome for one investor in a bulk enrollment
type EnrollmentResult struct {
	InvestorID uuid.UUID `json:"investor_id"`
	Enrolled   bool      `json:"enrolled"`
	Reason     string    `json:"reason,omitempty"`
}

// EnrollmentSummary counts a bulk enrollment's outcomes
type EnrollmentSummary struct {
	Total    int `json:"total"`
	Enrolled int `json:"enrolled"`
	Rejected int `json:"rejected"`
}

// EnrollmentReport is the result of a bulk enrollment, in request order
type EnrollmentReport struct {
	SequenceID uuid.UUID          `json:"sequence_id"`
	Results    []EnrollmentResult `json:"results"`
	Summary    EnrollmentSummary  `json:"summary"`
}

// OptOutResult is the outcome of an opt-out request
type OptOutResult struct {
	InvestorID           uuid.UUID `json:"investor_id"`
	CancelledEnrollments int64     `json:"cancelled_enrollments"`
	OptedOutAt           time.Time `json:"opted_out_at"`
}

// outreachServiceImpl implements OutreachService
type outreachServiceImpl struct {
	repos  *repository.Repositories
	engine *compliance.Engine
	cfg    *config.Config
	log    logger.Logger
}

func newOutreachService(repos *repository.Repositories, cfg *config.Config, engine *compliance.Engine, log logger.Logger) OutreachService {
	return &outreachServiceImpl{
		repos:  repos,
		engine: engine,
		cfg:    cfg,
		log:    log,
	}
}

// CreateSequence stores a new, unapproved sequence for an existing deal
func (s *outreachServiceImpl) CreateSequence(ctx context.Context, req *models.CreateSequenceRequest) (*models.OutreachSequence, error) {
	seqType := req.Type
	if seqType == "" {
		seqType = "EMAIL"
	}

	seq := &models.OutreachSequence{
		DealID: req.DealID,
		Name:   req.Name,
		Type:   seqType,
		Steps:  req.Steps,
	}

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		deal, err := tx.Deal.GetByID(ctx, req.DealID)
		if err != nil {
			return lookupError(err, "Deal not found")
		}
		seq.Deal = deal

		if err := tx.Outreach.CreateSequence(ctx, seq); err != nil {
			if stderrors.Is(err, repository.ErrDuplicate) {
				return errors.InvalidInput("Step orders must be unique", err)
			}
			return errors.DatabaseError("Failed to create sequence", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Outreach sequence created",
		"sequence_id", seq.ID.String(),
		"deal_id", seq.DealID.String(),
		"step_count", len(seq.Steps),
	)
	return seq, nil
}

// ApproveSequence runs every written step through the compliance engine and
// marks the sequence approved only when all of them pass. Steps are judged on
// content alone, so the investor context is the most permissive one.
func (s *outreachServiceImpl) ApproveSequence(ctx context.Context, sequenceID uuid.UUID) (*ApprovalResult, error) {
	seq, err := s.repos.Outreach.GetSequence(ctx, sequenceID)
	if err != nil {
		return nil, lookupError(err, "Sequence not found")
	}

	result := &ApprovalResult{SequenceID: seq.ID, Approved: true, Steps: []StepCheck{}}
	for _, step := range seq.Steps {
		if step.Channel == models.ChannelVoice {
			continue
		}

		body, err := compliance.PlainText(step.TemplateBody)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("Step %d body could not be parsed", step.StepOrder), err)
		}

		check := s.engine.Check(compliance.CheckInput{
			Content:                      body,
			Subject:                      step.TemplateSubject,
			OfferingType:                 seq.Deal.OfferingType,
			InvestorHasPriorRelationship: true,
			InvestorAccreditedStatus:     models.AccreditedThirdPartyVerified,
		})
		result.Steps = append(result.Steps, StepCheck{StepOrder: step.StepOrder, Channel: step.Channel, Result: check})
		if !check.Passed {
			result.Approved = false
		}
	}

	if err := s.repos.Outreach.SetApproved(ctx, seq.ID, result.Approved); err != nil {
		return nil, errors.DatabaseError("Failed to update sequence approval", err)
	}

	s.log.Info("Outreach sequence reviewed",
		"sequence_id", seq.ID.String(),
		"approved", result.Approved,
		"checked_steps", len(result.Steps),
	)
	return result, nil
}

// Enroll places each investor in an approved sequence. Investors are handled
// in request order and each one is either enrolled or rejected with the first
// failing gate's reason.
func (s *outreachServiceImpl) Enroll(ctx context.Context, sequenceID uuid.UUID, investorIDs []uuid.UUID) (*EnrollmentReport, error) {
	seq, err := s.repos.Outreach.GetSequence(ctx, sequenceID)
	if err != nil {
		return nil, lookupError(err, "Sequence not found")
	}
	if !seq.ComplianceApproved {
		return nil, errors.Forbidden("Sequence not yet compliance-approved", nil)
	}

	report := &EnrollmentReport{
		SequenceID: seq.ID,
		Results:    make([]EnrollmentResult, 0, len(investorIDs)),
		Summary:    EnrollmentSummary{Total: len(investorIDs)},
	}

	for _, investorID := range investorIDs {
		res := EnrollmentResult{InvestorID: investorID}
		if reason := s.enrollOne(ctx, seq, investorID); reason != "" {
			res.Reason = reason
			report.Summary.Rejected++
		} else {
			res.Enrolled = true
			report.Summary.Enrolled++
		}
		report.Results = append(report.Results, res)
	}

	s.log.Info("Bulk enrollment completed",
		"sequence_id", seq.ID.String(),
		"total", report.Summary.Total,
		"enrolled", report.Summary.Enrolled,
		"rejected", report.Summary.Rejected,
	)
	return report, nil
}

// enrollOne returns the rejection reason, or "" once the investor is enrolled
func (s *outreachServiceImpl) enrollOne(ctx context.Context, seq *models.OutreachSequence, investorID uuid.UUID) string {
	investor, err := s.repos.Investor.GetByID(ctx, investorID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return ReasonInvestorNotFound
		}
		s.log.Error("Enrollment investor lookup failed", err, "investor_id", investorID.String())
		return ReasonDatabaseError
	}

	if reason := gateReason(seq.Deal.OfferingType, investor); reason != "" {
		return reason
	}

	active, err := s.repos.Outreach.CountActiveEnrollments(ctx, investorID)
	if err != nil {
		s.log.Error("Active enrollment count failed", err, "investor_id", investorID.String())
		return ReasonDatabaseError
	}
	if active >= s.cfg.MaxActiveEnrollments {
		return fmt.Sprintf(maxActiveSequencesTemplate, s.cfg.MaxActiveEnrollments)
	}

	err = s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Outreach.CreateEnrollment(ctx, &models.OutreachEnrollment{
			SequenceID: seq.ID,
			InvestorID: investorID,
		}); err != nil {
			return err
		}
		return tx.Deal.MarkContacted(ctx, seq.DealID, investorID)
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return ReasonAlreadyEnrolled
		}
		s.log.Error("Enrollment failed", err, "investor_id", investorID.String())
		return ReasonDatabaseError
	}
	return ""
}

// gateReason applies the structural contact gates for an offering
func gateReason(offering models.OfferingType, investor *models.Investor) string {
	switch {
	case !investor.Contactable():
		return ReasonOptedOut
	case offering == models.OfferingRegD506B && !investor.PriorRelationship:
		return Reason506BRelationship
	case offering == models.OfferingRegD506C && investor.AccreditedStatus == models.AccreditedNotAccredited:
		return Reason506CAccreditation
	}
	return ""
}

// OptOut marks the investor opted out and do-not-contact and stops every
// active enrollment. Repeat requests succeed and keep the first opt-out date.
func (s *outreachServiceImpl) OptOut(ctx context.Context, investorID uuid.UUID) (*OptOutResult, error) {
	result := &OptOutResult{InvestorID: investorID, OptedOutAt: time.Now()}

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Investor.OptOut(ctx, investorID, result.OptedOutAt); err != nil {
			return lookupError(err, "Investor not found")
		}

		cancelled, err := tx.Outreach.CancelActiveEnrollments(ctx, investorID, result.OptedOutAt)
		if err != nil {
			return errors.DatabaseError("Failed to cancel enrollments", err)
		}
		result.CancelledEnrollments = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Investor opted out",
		"investor_id", investorID.String(),
		"cancelled_enrollments", result.CancelledEnrollments,
	)
	return result, nil
}
