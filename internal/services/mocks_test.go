package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// MockInvestorRepository implements repository.InvestorRepository in memory
type MockInvestorRepository struct {
	mu         sync.Mutex
	investors  map[uuid.UUID]*models.Investor
	lastFilter repository.InvestorFilter
	staleIDs   []uuid.UUID
	getErr     error
	createErr  error
}

func NewMockInvestorRepository(investors ...*models.Investor) *MockInvestorRepository {
	m := &MockInvestorRepository{investors: make(map[uuid.UUID]*models.Investor)}
	for _, inv := range investors {
		m.investors[inv.ID] = inv
	}
	return m
}

func (m *MockInvestorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	inv, ok := m.investors[id]
	if !ok {
		return nil, fmt.Errorf("investor: %w", repository.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (m *MockInvestorRepository) List(ctx context.Context, filter repository.InvestorFilter) ([]models.Investor, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	out := []models.Investor{}
	for _, inv := range m.investors {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *MockInvestorRepository) Create(ctx context.Context, inv *models.Investor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	inv.ID = uuid.New()
	m.investors[inv.ID] = inv
	return nil
}

func (m *MockInvestorRepository) UpdateScore(ctx context.Context, id uuid.UUID, score int, tier string, scoredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investors[id]
	if !ok {
		return fmt.Errorf("investor: %w", repository.ErrNotFound)
	}
	inv.QualityScore = &score
	inv.QualityTier = tier
	inv.LastScoredAt = &scoredAt
	return nil
}

func (m *MockInvestorRepository) OptOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investors[id]
	if !ok {
		return fmt.Errorf("investor: %w", repository.ErrNotFound)
	}
	inv.OptedOut = true
	inv.DoNotContact = true
	if inv.OptOutDate == nil {
		inv.OptOutDate = &at
	}
	return nil
}

func (m *MockInvestorRepository) StaleIDs(ctx context.Context, scoredBefore time.Time, limit int) ([]uuid.UUID, error) {
	return m.staleIDs, nil
}

func (m *MockInvestorRepository) ScoringCounts(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scored := 0
	for _, inv := range m.investors {
		if inv.QualityScore != nil {
			scored++
		}
	}
	return len(m.investors), scored, nil
}

// MockDealRepository implements repository.DealRepository in memory
type MockDealRepository struct {
	mu        sync.Mutex
	deals     map[uuid.UUID]*models.Deal
	fitScores map[uuid.UUID]int
	contacted map[uuid.UUID]bool
	markErr   error
	listErr   error
	createErr error
}

func NewMockDealRepository(deals ...*models.Deal) *MockDealRepository {
	m := &MockDealRepository{
		deals:     make(map[uuid.UUID]*models.Deal),
		fitScores: make(map[uuid.UUID]int),
		contacted: make(map[uuid.UUID]bool),
	}
	for _, d := range deals {
		m.deals[d.ID] = d
	}
	return m
}

func (m *MockDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deals[id]
	if !ok {
		return nil, fmt.Errorf("deal: %w", repository.ErrNotFound)
	}
	return d, nil
}

func (m *MockDealRepository) List(ctx context.Context, status string) ([]models.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	deals := []models.Deal{}
	for _, d := range m.deals {
		if status == "" || d.Status == status {
			deals = append(deals, *d)
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].CreatedAt.After(deals[j].CreatedAt) })
	return deals, nil
}

func (m *MockDealRepository) Create(ctx context.Context, deal *models.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = deal.CreatedAt
	m.deals[deal.ID] = deal
	return nil
}

func (m *MockDealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deals[id]
	if !ok {
		return fmt.Errorf("deal: %w", repository.ErrNotFound)
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}

func (m *MockDealRepository) UpsertFitScore(ctx context.Context, dealID, investorID uuid.UUID, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitScores[investorID] = score
	return nil
}

func (m *MockDealRepository) MarkContacted(ctx context.Context, dealID, investorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	m.contacted[investorID] = true
	return nil
}

// MockEngagementRepository returns fixed counters per investor
type MockEngagementRepository struct {
	mu       sync.Mutex
	counters map[uuid.UUID]*models.EngagementCounters
	since    time.Time
}

func (m *MockEngagementRepository) Counters(ctx context.Context, investorID uuid.UUID, since time.Time) (*models.EngagementCounters, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since = since
	if c, ok := m.counters[investorID]; ok {
		return c, nil
	}
	return &models.EngagementCounters{}, nil
}

// MockOutreachRepository implements repository.OutreachRepository in memory
type MockOutreachRepository struct {
	sequences   map[uuid.UUID]*models.OutreachSequence
	approved    map[uuid.UUID]bool
	active      map[uuid.UUID]int
	enrollments map[[2]uuid.UUID]*models.OutreachEnrollment
	cancelled   map[uuid.UUID]time.Time
}

func NewMockOutreachRepository(sequences ...*models.OutreachSequence) *MockOutreachRepository {
	m := &MockOutreachRepository{
		sequences:   make(map[uuid.UUID]*models.OutreachSequence),
		approved:    make(map[uuid.UUID]bool),
		active:      make(map[uuid.UUID]int),
		enrollments: make(map[[2]uuid.UUID]*models.OutreachEnrollment),
		cancelled:   make(map[uuid.UUID]time.Time),
	}
	for _, s := range sequences {
		m.sequences[s.ID] = s
	}
	return m
}

func (m *MockOutreachRepository) GetSequence(ctx context.Context, id uuid.UUID) (*models.OutreachSequence, error) {
	s, ok := m.sequences[id]
	if !ok {
		return nil, fmt.Errorf("sequence: %w", repository.ErrNotFound)
	}
	return s, nil
}

func (m *MockOutreachRepository) CreateSequence(ctx context.Context, seq *models.OutreachSequence) error {
	seen := map[int]bool{}
	for _, step := range seq.Steps {
		if seen[step.StepOrder] {
			return fmt.Errorf("step order %d: %w", step.StepOrder, repository.ErrDuplicate)
		}
		seen[step.StepOrder] = true
	}
	seq.ID = uuid.New()
	m.sequences[seq.ID] = seq
	return nil
}

func (m *MockOutreachRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	m.approved[id] = approved
	return nil
}

func (m *MockOutreachRepository) CountActiveEnrollments(ctx context.Context, investorID uuid.UUID) (int, error) {
	return m.active[investorID], nil
}

func (m *MockOutreachRepository) CreateEnrollment(ctx context.Context, e *models.OutreachEnrollment) error {
	key := [2]uuid.UUID{e.SequenceID, e.InvestorID}
	if _, ok := m.enrollments[key]; ok {
		return fmt.Errorf("enrollment: %w", repository.ErrDuplicate)
	}
	e.Status = models.EnrollmentActive
	m.enrollments[key] = e
	m.active[e.InvestorID]++
	return nil
}

func (m *MockOutreachRepository) CancelActiveEnrollments(ctx context.Context, investorID uuid.UUID, at time.Time) (int64, error) {
	n := int64(m.active[investorID])
	m.active[investorID] = 0
	m.cancelled[investorID] = at
	return n, nil
}

// MockUserRepository implements repository.UserRepository in memory
type MockUserRepository struct {
	users map[string]*models.User
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return fmt.Errorf("user: %w", repository.ErrDuplicate)
	}
	user.ID = uuid.New()
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

// MockTransactionManager runs fn directly against the same repositories
type MockTransactionManager struct {
	mu    sync.Mutex
	repos *repository.Repositories
	calls int
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if err := fn(m.repos); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

type testEnv struct {
	investors  *MockInvestorRepository
	deals      *MockDealRepository
	engagement *MockEngagementRepository
	outreach   *MockOutreachRepository
	users      *MockUserRepository
	tx         *MockTransactionManager
	repos      *repository.Repositories
	cfg        *config.Config
	services   *Services
}

func newTestEnv() *testEnv {
	env := &testEnv{
		investors:  NewMockInvestorRepository(),
		deals:      NewMockDealRepository(),
		engagement: &MockEngagementRepository{counters: make(map[uuid.UUID]*models.EngagementCounters)},
		outreach:   NewMockOutreachRepository(),
		users:      &MockUserRepository{users: make(map[string]*models.User)},
		cfg: &config.Config{
			JWTSecret:            "test-secret",
			FirmName:             "Harbor Lodging Partners",
			UnsubscribeBaseURL:   "https://crm.example.com/api/v1/investors",
			MaxActiveEnrollments: 2,
			DefaultDealMinimum:   100000,
			DefaultDealTarget:    500000,
		},
	}
	env.tx = &MockTransactionManager{}
	env.repos = &repository.Repositories{
		Investor:   env.investors,
		Deal:       env.deals,
		Engagement: env.engagement,
		Outreach:   env.outreach,
		User:       env.users,
		Tx:         env.tx,
	}
	env.tx.repos = env.repos
	env.services = newServices(env.repos, env.cfg, logger.NewNopLogger())
	return env
}

func (e *testEnv) addInvestor(inv *models.Investor) *models.Investor {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	e.investors.investors[inv.ID] = inv
	return inv
}

func (e *testEnv) addDeal(offering models.OfferingType) *models.Deal {
	d := &models.Deal{
		ID:                uuid.New(),
		Name:              "Austin Select Service",
		OfferingType:      offering,
		Status:            models.DealRaising,
		TotalRaise:        10000000,
		MinimumInvestment: 50000,
	}
	e.deals.deals[d.ID] = d
	return d
}

var errBoom = errors.New("boom")

func f64(v float64) *float64 { return &v }
