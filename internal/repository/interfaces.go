package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
)

var (
	// ErrNotFound is returned when a lookup or update matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("record already exists")
)

// InvestorRepository defines the interface for investor data access
type InvestorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investor, error)
	List(ctx context.Context, filter InvestorFilter) ([]models.Investor, int, error)
	Create(ctx context.Context, investor *models.Investor) error
	UpdateScore(ctx context.Context, id uuid.UUID, score int, tier string, scoredAt time.Time) error
	OptOut(ctx context.Context, id uuid.UUID, at time.Time) error

	// Rescoring support
	StaleIDs(ctx context.Context, scoredBefore time.Time, limit int) ([]uuid.UUID, error)
	ScoringCounts(ctx context.Context) (total int, scored int, err error)
}

// DealRepository defines the interface for deal data access
type DealRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, status string) ([]models.Deal, error)
	Create(ctx context.Context, deal *models.Deal) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpsertFitScore(ctx context.Context, dealID, investorID uuid.UUID, score int) error
	MarkContacted(ctx context.Context, dealID, investorID uuid.UUID) error
}

// EngagementRepository reads trailing engagement counters for scoring
type EngagementRepository interface {
	Counters(ctx context.Context, investorID uuid.UUID, since time.Time) (*models.EngagementCounters, error)
}

// OutreachRepository defines the interface for sequence and enrollment data access
type OutreachRepository interface {
	GetSequence(ctx context.Context, id uuid.UUID) (*models.OutreachSequence, error)
	CreateSequence(ctx context.Context, sequence *models.OutreachSequence) error
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error

	CountActiveEnrollments(ctx context.Context, investorID uuid.UUID) (int, error)
	CreateEnrollment(ctx context.Context, enrollment *models.OutreachEnrollment) error
	CancelActiveEnrollments(ctx context.Context, investorID uuid.UUID, at time.Time) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Investor   InvestorRepository
	Deal       DealRepository
	Engagement EngagementRepository
	Outreach   OutreachRepository
	User       UserRepository
	Tx         TransactionManager
}

// Sortable investor columns
const (
	SortQualityScore = "quality_score"
	SortCreatedAt    = "created_at"
	SortLastName     = "last_name"
	SortLastScoredAt = "last_scored_at"
)

// InvestorFilter defines filters for listing investors. Opted-out and
// do-not-contact investors are excluded unless IncludeUncontactable is set.
type InvestorFilter struct {
	MinScore             *int
	AccreditedStatus     string
	Tags                 []string
	Search               string
	IncludeUncontactable bool
	SortBy               string
	Ascending            bool
	Limit                int
	Offset               int
}
