package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/lib/pq"
)

const investorColumns = `
	id, first_name, last_name, email, phone, company, source, accredited_status,
	check_size_min, check_size_max, asset_class_prefs, prior_hotel_investments,
	hospitality_experience, prior_relationship, opted_out, opt_out_date,
	do_not_contact, tags, deployment_deadline, quality_score, quality_tier,
	last_scored_at, created_at, updated_at`

var investorSortColumns = map[string]string{
	SortQualityScore: "quality_score",
	SortCreatedAt:    "created_at",
	SortLastName:     "last_name",
	SortLastScoredAt: "last_scored_at",
}

// investorRepository implements InvestorRepository
type investorRepository struct {
	db dbExecutor
}

// NewInvestorRepository creates a new investor repository
func NewInvestorRepository(db dbExecutor) InvestorRepository {
	return &investorRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvestor(row rowScanner) (*models.Investor, error) {
	inv := &models.Investor{}
	err := row.Scan(
		&inv.ID, &inv.FirstName, &inv.LastName, &inv.Email, &inv.Phone,
		&inv.Company, &inv.Source, &inv.AccreditedStatus,
		&inv.CheckSizeMin, &inv.CheckSizeMax, pq.Array(&inv.AssetClassPrefs),
		&inv.PriorHotelInvestments, &inv.HospitalityExperience,
		&inv.PriorRelationship, &inv.OptedOut, &inv.OptOutDate,
		&inv.DoNotContact, pq.Array(&inv.Tags), &inv.DeploymentDeadline,
		&inv.QualityScore, &inv.QualityTier, &inv.LastScoredAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID retrieves an investor by ID
func (r *investorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	query := `SELECT ` + investorColumns + ` FROM investors WHERE id = $1`

	inv, err := scanInvestor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "investor")
	}
	return inv, nil
}

// List retrieves a page of investors and the total number matching filter
func (r *investorRepository) List(ctx context.Context, filter InvestorFilter) ([]models.Investor, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if !filter.IncludeUncontactable {
		whereClauses = append(whereClauses, "opted_out = FALSE", "do_not_contact = FALSE")
	}

	if filter.MinScore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("quality_score >= $%d", argIndex))
		args = append(args, *filter.MinScore)
		argIndex++
	}

	if filter.AccreditedStatus != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("accredited_status = $%d", argIndex))
		args = append(args, filter.AccreditedStatus)
		argIndex++
	}

	if len(filter.Tags) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("tags && $%d", argIndex))
		args = append(args, pq.Array(filter.Tags))
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR company ILIKE $%[1]d)", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM investors"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count investors: %w", err)
	}

	sortColumn, ok := investorSortColumns[filter.SortBy]
	if !ok {
		sortColumn = investorSortColumns[SortQualityScore]
	}
	direction := "DESC NULLS LAST"
	if filter.Ascending {
		direction = "ASC NULLS FIRST"
	}

	query := `SELECT ` + investorColumns + ` FROM investors` + where +
		fmt.Sprintf(" ORDER BY %s %s, id", sortColumn, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	investors := []models.Investor{}
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan investor: %w", err)
		}
		investors = append(investors, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate investors: %w", err)
	}

	return investors, total, nil
}

// Create creates a new investor
func (r *investorRepository) Create(ctx context.Context, inv *models.Investor) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `
		INSERT INTO investors (` + investorColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.FirstName, inv.LastName, inv.Email, inv.Phone,
		inv.Company, inv.Source, inv.AccreditedStatus,
		inv.CheckSizeMin, inv.CheckSizeMax, pq.Array(inv.AssetClassPrefs),
		inv.PriorHotelInvestments, inv.HospitalityExperience,
		inv.PriorRelationship, inv.OptedOut, inv.OptOutDate,
		inv.DoNotContact, pq.Array(inv.Tags), inv.DeploymentDeadline,
		inv.QualityScore, inv.QualityTier, inv.LastScoredAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("investor with email %s: %w", inv.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create investor: %w", err)
	}

	return nil
}

// UpdateScore stores the latest composite score and tier
func (r *investorRepository) UpdateScore(ctx context.Context, id uuid.UUID, score int, tier string, scoredAt time.Time) error {
	query := `
		UPDATE investors SET
			quality_score = $2, quality_tier = $3, last_scored_at = $4, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, score, tier, scoredAt)
	if err != nil {
		return fmt.Errorf("failed to update investor score: %w", err)
	}
	return requireRow(result, "investor")
}

// OptOut marks the investor opted out and do-not-contact. The first opt-out
// date is kept.
func (r *investorRepository) OptOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE investors SET
			opted_out = TRUE, do_not_contact = TRUE,
			opt_out_date = COALESCE(opt_out_date, $2), updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to opt out investor: %w", err)
	}
	return requireRow(result, "investor")
}

// StaleIDs returns investors never scored or last scored before scoredBefore,
// never-scored first
func (r *investorRepository) StaleIDs(ctx context.Context, scoredBefore time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM investors
		WHERE last_scored_at IS NULL OR last_scored_at < $1
		ORDER BY last_scored_at ASC NULLS FIRST, created_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, scoredBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale investors: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan investor ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investor IDs: %w", err)
	}

	return ids, nil
}

// ScoringCounts returns the total number of investors and how many have a score
func (r *investorRepository) ScoringCounts(ctx context.Context) (int, int, error) {
	var total, scored int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(quality_score) FROM investors`,
	).Scan(&total, &scored)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count investors: %w", err)
	}
	return total, scored, nil
}
