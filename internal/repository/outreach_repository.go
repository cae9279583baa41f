package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
)

// outreachRepository implements OutreachRepository
type outreachRepository struct {
	db dbExecutor
}

// NewOutreachRepository creates a new outreach repository
func NewOutreachRepository(db dbExecutor) OutreachRepository {
	return &outreachRepository{db: db}
}

// GetSequence retrieves a sequence with its deal and steps in step order
func (r *outreachRepository) GetSequence(ctx context.Context, id uuid.UUID) (*models.OutreachSequence, error) {
	query := `
		SELECT s.id, s.deal_id, s.name, s.type, s.compliance_approved, s.created_at,
			   d.id, d.name, d.property_name, d.offering_type, d.status, d.total_raise,
			   d.raised_to_date, d.minimum_investment, d.created_at, d.updated_at
		FROM outreach_sequences s
		JOIN deals d ON d.id = s.deal_id
		WHERE s.id = $1
	`

	seq := &models.OutreachSequence{Deal: &models.Deal{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&seq.ID, &seq.DealID, &seq.Name, &seq.Type, &seq.ComplianceApproved, &seq.CreatedAt,
		&seq.Deal.ID, &seq.Deal.Name, &seq.Deal.PropertyName, &seq.Deal.OfferingType,
		&seq.Deal.Status, &seq.Deal.TotalRaise, &seq.Deal.RaisedToDate,
		&seq.Deal.MinimumInvestment, &seq.Deal.CreatedAt, &seq.Deal.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "sequence")
	}

	steps, err := r.getSteps(ctx, seq.ID)
	if err != nil {
		return nil, err
	}
	seq.Steps = steps

	return seq, nil
}

func (r *outreachRepository) getSteps(ctx context.Context, sequenceID uuid.UUID) ([]models.OutreachStep, error) {
	query := `
		SELECT id, sequence_id, step_order, channel, delay_days, template_subject, template_body
		FROM outreach_steps WHERE sequence_id = $1
		ORDER BY step_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequence steps: %w", err)
	}
	defer rows.Close()

	steps := []models.OutreachStep{}
	for rows.Next() {
		var step models.OutreachStep
		if err := rows.Scan(
			&step.ID, &step.SequenceID, &step.StepOrder, &step.Channel,
			&step.DelayDays, &step.TemplateSubject, &step.TemplateBody,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sequence step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sequence steps: %w", err)
	}

	return steps, nil
}

// CreateSequence inserts a sequence and its steps. Callers should run it
// inside a transaction.
func (r *outreachRepository) CreateSequence(ctx context.Context, seq *models.OutreachSequence) error {
	if seq.ID == uuid.Nil {
		seq.ID = uuid.New()
	}
	seq.CreatedAt = time.Now()

	query := `
		INSERT INTO outreach_sequences (id, deal_id, name, type, compliance_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		seq.ID, seq.DealID, seq.Name, seq.Type, seq.ComplianceApproved, seq.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}

	stepQuery := `
		INSERT INTO outreach_steps (id, sequence_id, step_order, channel, delay_days, template_subject, template_body)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range seq.Steps {
		step := &seq.Steps[i]
		if step.ID == uuid.Nil {
			step.ID = uuid.New()
		}
		step.SequenceID = seq.ID

		if _, err := r.db.ExecContext(ctx, stepQuery,
			step.ID, step.SequenceID, step.StepOrder, step.Channel,
			step.DelayDays, step.TemplateSubject, step.TemplateBody,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("step order %d: %w", step.StepOrder, ErrDuplicate)
			}
			return fmt.Errorf("failed to create sequence step: %w", err)
		}
	}

	return nil
}

// SetApproved records the compliance approval state of a sequence
func (r *outreachRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outreach_sequences SET compliance_approved = $2 WHERE id = $1`,
		id, approved,
	)
	if err != nil {
		return fmt.Errorf("failed to update sequence approval: %w", err)
	}
	return requireRow(result, "sequence")
}

// CountActiveEnrollments counts the investor's ACTIVE enrollments across all sequences
func (r *outreachRepository) CountActiveEnrollments(ctx context.Context, investorID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outreach_enrollments WHERE investor_id = $1 AND status = $2`,
		investorID, models.EnrollmentActive,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active enrollments: %w", err)
	}
	return count, nil
}

// CreateEnrollment enrolls an investor. Returns ErrDuplicate when the
// investor is already in the sequence.
func (r *outreachRepository) CreateEnrollment(ctx context.Context, e *models.OutreachEnrollment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = models.EnrollmentActive
	}
	e.EnrolledAt = time.Now()

	query := `
		INSERT INTO outreach_enrollments (id, sequence_id, investor_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, e.ID, e.SequenceID, e.InvestorID, e.Status, e.EnrolledAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("enrollment: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// CancelActiveEnrollments moves every ACTIVE enrollment of the investor to
// OPTED_OUT and returns how many were changed
func (r *outreachRepository) CancelActiveEnrollments(ctx context.Context, investorID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE outreach_enrollments SET status = $3, completed_at = $4
		WHERE investor_id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, investorID, models.EnrollmentActive, models.EnrollmentOptedOut, at)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel enrollments: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
