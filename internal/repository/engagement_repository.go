package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/models"
)

// engagementRepository implements EngagementRepository
type engagementRepository struct {
	db dbExecutor
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db dbExecutor) EngagementRepository {
	return &engagementRepository{db: db}
}

// Counters aggregates email events, completed calls and website activity
// since the given time in a single round trip
func (r *engagementRepository) Counters(ctx context.Context, investorID uuid.UUID, since time.Time) (*models.EngagementCounters, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM outreach_events
			  WHERE investor_id = $1 AND occurred_at >= $2 AND event_type = $3),
			(SELECT COUNT(*) FROM outreach_events
			  WHERE investor_id = $1 AND occurred_at >= $2 AND event_type = $4),
			(SELECT COUNT(*) FROM outreach_events
			  WHERE investor_id = $1 AND occurred_at >= $2 AND event_type = $5),
			(SELECT COUNT(*) FROM voice_calls
			  WHERE investor_id = $1 AND created_at >= $2 AND status = 'COMPLETED'),
			(SELECT COUNT(*) FROM investor_activities
			  WHERE investor_id = $1 AND occurred_at >= $2 AND activity_type = $6),
			(SELECT COUNT(*) FROM investor_activities
			  WHERE investor_id = $1 AND occurred_at >= $2 AND activity_type = $7)
	`

	c := &models.EngagementCounters{}
	err := r.db.QueryRowContext(ctx, query,
		investorID, since,
		models.EventOpened, models.EventClicked, models.EventReplied,
		models.ActivityWebsiteVisit, models.ActivityDocDownload,
	).Scan(
		&c.EmailOpens, &c.EmailClicks, &c.EmailReplies,
		&c.VoiceCallsCompleted, &c.WebsiteVisits, &c.DocDownloads,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement counters: %w", err)
	}

	return c, nil
}
