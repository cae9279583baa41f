package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
)

const dealColumns = `
	id, name, property_name, offering_type, status, total_raise,
	raised_to_date, minimum_investment, created_at, updated_at`

// dealRepository implements DealRepository
type dealRepository struct {
	db dbExecutor
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db dbExecutor) DealRepository {
	return &dealRepository{db: db}
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	deal := &models.Deal{}
	err := row.Scan(
		&deal.ID, &deal.Name, &deal.PropertyName, &deal.OfferingType,
		&deal.Status, &deal.TotalRaise, &deal.RaisedToDate,
		&deal.MinimumInvestment, &deal.CreatedAt, &deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// GetByID retrieves a deal by ID
func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "deal")
	}
	return deal, nil
}

// List retrieves deals newest first, optionally restricted to one status
func (r *dealRepository) List(ctx context.Context, status string) ([]models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals`
	var args []interface{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}

	return deals, nil
}

// Create creates a new deal
func (r *dealRepository) Create(ctx context.Context, deal *models.Deal) error {
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}

	now := time.Now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	query := `
		INSERT INTO deals (` + dealColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		deal.ID, deal.Name, deal.PropertyName, deal.OfferingType,
		deal.Status, deal.TotalRaise, deal.RaisedToDate,
		deal.MinimumInvestment, deal.CreatedAt, deal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

// UpdateStatus moves a deal to status
func (r *dealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE deals SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update deal status: %w", err)
	}
	return requireRow(result, "deal")
}

// UpsertFitScore records the deal-specific fit score, creating the link if needed
func (r *dealRepository) UpsertFitScore(ctx context.Context, dealID, investorID uuid.UUID, score int) error {
	query := `
		INSERT INTO deal_investors (deal_id, investor_id, fit_score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (deal_id, investor_id)
		DO UPDATE SET fit_score = EXCLUDED.fit_score, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, dealID, investorID, score, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert fit score: %w", err)
	}
	return nil
}

// MarkContacted sets the deal-investor link to CONTACTED, creating it if needed
func (r *dealRepository) MarkContacted(ctx context.Context, dealID, investorID uuid.UUID) error {
	query := `
		INSERT INTO deal_investors (deal_id, investor_id, status, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (deal_id, investor_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, dealID, investorID, models.DealInvestorContacted, time.Now()); err != nil {
		return fmt.Errorf("failed to mark investor contacted: %w", err)
	}
	return nil
}
