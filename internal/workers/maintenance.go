package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"videobot-backend/internal/common/logger"
	syslogmodels "videobot-backend/internal/features/syslog/models"
)

const (
	limiterSweepInterval = 10 * time.Minute
	limiterIdleTimeout   = 30 * time.Minute
)

type ExpiredCounter interface {
	ExpiredSince(ctx context.Context, since time.Time) (int64, error)
}

type AnalyticsInvalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

type EventRecorder interface {
	Record(ctx context.Context, event syslogmodels.EventType, description string, userID *int64)
}

type LimiterSweeper interface {
	Sweep(idle time.Duration) int
}

// MaintenanceService runs the periodic housekeeping: counting reward
// claims that lapsed, dropping cached analytics and forgetting idle rate
// limiter buckets.
type MaintenanceService struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	interval  time.Duration
	rewards   ExpiredCounter
	analytics AnalyticsInvalidator
	events    EventRecorder
	limiter   LimiterSweeper
	now       func() time.Time
	lastRun   time.Time
}

func NewMaintenanceService(interval time.Duration, rewards ExpiredCounter, analytics AnalyticsInvalidator, events EventRecorder, limiter LimiterSweeper) *MaintenanceService {
	ctx, cancel := context.WithCancel(context.Background())
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &MaintenanceService{
		ctx:       ctx,
		cancel:    cancel,
		interval:  interval,
		rewards:   rewards,
		analytics: analytics,
		events:    events,
		limiter:   limiter,
		now:       time.Now,
		lastRun:   time.Now().UTC(),
	}
}

func (s *MaintenanceService) Start() {
	logger.Info().Dur("interval", s.interval).Msg("Starting maintenance service")
	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RunOnce(s.ctx); err != nil {
					logger.Error().Err(err).Msg("Maintenance run failed")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if s.limiter != nil {
					if n := s.limiter.Sweep(limiterIdleTimeout); n > 0 {
						logger.Debug().Int("removed", n).Msg("Swept idle rate limiters")
					}
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *MaintenanceService) Stop() {
	logger.Info().Msg("Stopping maintenance service")
	s.cancel()
	s.wg.Wait()
	logger.Info().Msg("Maintenance service stopped")
}

// RunOnce performs one maintenance pass covering the time since the
// previous successful pass.
func (s *MaintenanceService) RunOnce(ctx context.Context) error {
	now := s.now().UTC()

	expired, err := s.rewards.ExpiredSince(ctx, s.lastRun)
	if err != nil {
		return fmt.Errorf("failed to count expired rewards: %w", err)
	}

	invalidated := 0
	if s.analytics != nil {
		invalidated, err = s.analytics.Invalidate(ctx)
		if err != nil {
			// stale rollups expire on their own TTL
			logger.Warn().Err(err).Msg("Failed to invalidate analytics cache")
		}
	}

	s.lastRun = now

	logger.Info().
		Int64("expired_rewards", expired).
		Int("invalidated_keys", invalidated).
		Msg("Maintenance completed")

	if s.events != nil {
		s.events.Record(ctx, syslogmodels.EventMaintenance,
			fmt.Sprintf("maintenance: %d rewards expired, %d analytics keys invalidated", expired, invalidated), nil)
	}
	return nil
}
