package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/pkg/config"
	"golang.org/x/sync/errgroup"
)

// RescorePipeline periodically rescores investors whose score is missing or stale
type RescorePipeline struct {
	investors repository.InvestorRepository
	scoring   ScoringService
	log       logger.Logger
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{} // closed when the current loop returns
	mu        sync.RWMutex
}

// NewRescorePipeline creates a new rescoring pipeline
func NewRescorePipeline(repos *repository.Repositories, scoring ScoringService, log logger.Logger) *RescorePipeline {
	return &RescorePipeline{
		investors: repos.Investor,
		scoring:   scoring,
		log:       log,
	}
}

// PipelineConfig contains configuration for the rescoring pipeline
type PipelineConfig struct {
	BatchSize            int `json:"batch_size"`              // investors picked up per cycle
	IntervalMinutes      int `json:"interval_minutes"`        // minutes between cycles
	MaxConcurrent        int `json:"max_concurrent"`          // concurrent rescoring operations
	RescoreOlderThanDays int `json:"rescore_older_than_days"` // scores older than this are stale
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:            50,
		IntervalMinutes:      60,
		MaxConcurrent:        10,
		RescoreOlderThanDays: 1,
	}
}

// PipelineConfigFrom applies the configured batch size and concurrency to the defaults
func PipelineConfigFrom(cfg *config.Config) PipelineConfig {
	pc := DefaultPipelineConfig()
	if cfg.RescoreBatchSize > 0 {
		pc.BatchSize = cfg.RescoreBatchSize
	}
	if cfg.RescoreConcurrency > 0 {
		pc.MaxConcurrent = cfg.RescoreConcurrency
	}
	return pc
}

// Start begins the periodic rescoring loop
func (p *RescorePipeline) Start(config PipelineConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pipeline is already running")
	}
	if p.done != nil {
		select {
		case <-p.done:
		default:
			return fmt.Errorf("pipeline is still stopping")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.isRunning = true

	go p.runPipeline(ctx, config, p.done)

	p.log.Info("Rescore pipeline started",
		"batch_size", config.BatchSize,
		"interval_minutes", config.IntervalMinutes,
		"max_concurrent", config.MaxConcurrent,
	)
	return nil
}

// Stop cancels the loop and waits for the current cycle to wind down.
// The lock is released before waiting so status reads stay responsive.
func (p *RescorePipeline) Stop() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return fmt.Errorf("pipeline is not running")
	}
	cancel, done := p.cancel, p.done
	p.isRunning = false
	p.mu.Unlock()

	cancel()
	<-done

	p.log.Info("Rescore pipeline stopped")
	return nil
}

// IsRunning returns whether the pipeline is currently running
func (p *RescorePipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// RunOnce executes a single rescoring cycle
func (p *RescorePipeline) RunOnce(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	return p.executeCycle(ctx, config)
}

func (p *RescorePipeline) runPipeline(ctx context.Context, config PipelineConfig, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Duration(config.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		if stats, err := p.executeCycle(ctx, config); err != nil {
			p.log.Error("Rescore cycle failed", err)
		} else {
			p.log.Info("Rescore cycle completed", "summary", stats.Summary())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// executeCycle rescores one batch of stale investors with bounded concurrency.
// A failure on one investor is counted and does not stop the others.
func (p *RescorePipeline) executeCycle(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	stats := &PipelineStats{
		StartTime: time.Now(),
		BatchSize: config.BatchSize,
	}

	cutoff := stats.StartTime.AddDate(0, 0, -config.RescoreOlderThanDays)
	ids, err := p.investors.StaleIDs(ctx, cutoff, config.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("failed to get investors for rescoring: %w", err)
	}
	stats.InvestorsFound = len(ids)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.MaxConcurrent, 1))

	for _, id := range ids {
		id := id
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := p.rescore(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			stats.InvestorsProcessed++
			if err != nil {
				stats.InvestorsFailed++
			} else {
				stats.InvestorsSucceeded++
			}
			return nil
		})
	}

	_ = g.Wait()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	return stats, ctx.Err()
}

func (p *RescorePipeline) rescore(ctx context.Context, id uuid.UUID) error {
	if _, err := p.scoring.RescoreInvestor(ctx, id, nil); err != nil {
		p.log.Warn("Failed to rescore investor", "investor_id", id.String(), "error", err.Error())
		return err
	}
	return nil
}

// GetStats returns current pipeline status and scoring coverage
func (p *RescorePipeline) GetStats(ctx context.Context) (PipelineStatus, error) {
	status := PipelineStatus{
		IsRunning: p.IsRunning(),
		Timestamp: time.Now(),
	}

	total, scored, err := p.investors.ScoringCounts(ctx)
	if err != nil {
		return status, err
	}

	status.TotalInvestors = total
	status.ScoredInvestors = scored
	status.UnscoredInvestors = total - scored
	return status, nil
}

// PipelineStats describes one rescoring cycle
type PipelineStats struct {
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Duration           time.Duration `json:"duration"`
	BatchSize          int           `json:"batch_size"`
	InvestorsFound     int           `json:"investors_found"`
	InvestorsProcessed int           `json:"investors_processed"`
	InvestorsSucceeded int           `json:"investors_succeeded"`
	InvestorsFailed    int           `json:"investors_failed"`
}

// Summary renders the cycle counters on one line
func (s *PipelineStats) Summary() string {
	return fmt.Sprintf("found=%d, processed=%d, succeeded=%d, failed=%d, duration=%v",
		s.InvestorsFound, s.InvestorsProcessed, s.InvestorsSucceeded, s.InvestorsFailed, s.Duration.Round(time.Millisecond))
}

// PipelineStatus is the pipeline's running state and scoring coverage
type PipelineStatus struct {
	IsRunning         bool      `json:"is_running"`
	TotalInvestors    int       `json:"total_investors"`
	ScoredInvestors   int       `json:"scored_investors"`
	UnscoredInvestors int       `json:"unscored_investors"`
	Timestamp         time.Time `json:"timestamp"`
}
