package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"videobot-backend/internal/common/cache"
	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/common/logger"
	"videobot-backend/internal/features/analytics/models"
	"videobot-backend/internal/features/analytics/repository"
	rewardmodels "videobot-backend/internal/features/rewards/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
)

const (
	DefaultTopRewards = 5
	maxTopRewards     = 50
	trendDays         = 7
	activeUserWindow  = 7 * 24 * time.Hour
)

type Options struct {
	Timeout  time.Duration
	Retries  int
	CacheTTL time.Duration
}

// Service answers read-only rollups over the download log, claims and
// system log. Every query runs under Options.Timeout and results are
// cached when a cache is configured.
type Service struct {
	repo  repository.AnalyticsRepository
	cache *cache.CacheService
	opts  Options
	now   func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository, c *cache.CacheService, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Service{
		repo:  repo,
		cache: c,
		opts:  opts,
		now:   time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// run executes fn under the analytics timeout. Storage errors are retried
// up to Options.Retries times; a deadline is reported as AnalyticsTimeout
// without retrying.
func run[T any](ctx context.Context, s *Service, name string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= s.opts.Retries; attempt++ {
		qctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		v, err := fn(qctx)
		expired := errors.Is(qctx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			return v, nil
		}
		if expired || errors.Is(err, context.DeadlineExceeded) {
			return zero, apperrors.NewAnalyticsTimeoutError(name, err)
		}
		if ctx.Err() != nil {
			return zero, apperrors.NewStorageError("analytics_"+name, err)
		}

		lastErr = err
		logger.Warn().Err(err).Str("query", name).Int("attempt", attempt+1).Msg("Analytics query failed")
	}
	return zero, apperrors.NewStorageError("analytics_"+name, lastErr)
}

func cached[T any](ctx context.Context, s *Service, key, name string, fn func(context.Context) (T, error)) (T, error) {
	return cache.GetOrSet(ctx, s.cache, key, s.opts.CacheTTL, func(ctx context.Context) (T, error) {
		return run(ctx, s, name, fn)
	})
}

func parseWindow(key string) (models.Window, error) {
	if key == "" {
		key = models.DefaultWindow
	}
	w, ok := models.ParseWindow(key)
	if !ok {
		return models.Window{}, apperrors.NewInvalidTimeRangeError(key)
	}
	return w, nil
}

// DownloadStats summarizes downloads in the window: count, size and the
// share of completed attempts.
func (s *Service) DownloadStats(ctx context.Context, window string) (*models.DownloadStats, error) {
	w, err := parseWindow(window)
	if err != nil {
		return nil, err
	}
	since := w.Since(s.now())

	return cached(ctx, s, cache.AnalyticsKey("downloads", w.Key), "download_stats", func(ctx context.Context) (*models.DownloadStats, error) {
		t, err := s.repo.DownloadTotals(ctx, since)
		if err != nil {
			return nil, err
		}

		stats := &models.DownloadStats{
			TimeRange:          w.Key,
			TotalDownloads:     t.Total,
			CompletedDownloads: t.Completed,
			TotalSizeBytes:     t.SizeBytes,
			SuccessRate:        models.Percent(t.Completed, t.Total),
		}
		if t.Total > 0 {
			stats.AverageSizeBytes = models.Round2(float64(t.SizeBytes) / float64(t.Total))
		}
		stats.TotalSize = models.FormatBytes(float64(stats.TotalSizeBytes))
		stats.AverageSize = models.FormatBytes(stats.AverageSizeBytes)
		return stats, nil
	})
}

// PlatformDistribution returns each platform's share of downloads in the
// window, in percent with two decimals.
func (s *Service) PlatformDistribution(ctx context.Context, window string) (*models.PlatformDistribution, error) {
	w, err := parseWindow(window)
	if err != nil {
		return nil, err
	}
	since := w.Since(s.now())

	return cached(ctx, s, cache.AnalyticsKey("platforms", w.Key), "platform_distribution", func(ctx context.Context) (*models.PlatformDistribution, error) {
		counts, err := s.repo.PlatformCounts(ctx, since)
		if err != nil {
			return nil, err
		}

		dist := &models.PlatformDistribution{TimeRange: w.Key, Platforms: []models.PlatformShare{}}
		for _, c := range counts {
			dist.Total += c.Downloads
		}
		for _, c := range counts {
			dist.Platforms = append(dist.Platforms, models.PlatformShare{
				Platform:   c.Platform,
				Downloads:  c.Downloads,
				Percentage: models.Percent(c.Downloads, dist.Total),
			})
		}
		return dist, nil
	})
}

// UserActivity profiles one user: totals, favorite platform, storage and
// a zero-filled daily trend for the last seven days.
func (s *Service) UserActivity(ctx context.Context, userID int64) (*models.UserActivity, error) {
	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(trendDays - 1))

	return cached(ctx, s, cache.AnalyticsKey("user", userID), "user_activity", func(ctx context.Context) (*models.UserActivity, error) {
		var (
			totals   repository.UserTotals
			favorite string
			daily    []models.DailyCount
			last     *time.Time
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			totals, err = s.repo.UserTotals(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			favorite, err = s.repo.FavoritePlatform(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			daily, err = s.repo.DailyCounts(gctx, userID, since)
			return err
		})
		g.Go(func() error {
			var err error
			last, err = s.repo.LastActivity(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		activity := &models.UserActivity{
			UserID:           userID,
			TotalDownloads:   totals.Downloads,
			LastActivity:     last,
			FavoritePlatform: favorite,
			Storage:          models.StorageUsage{TotalBytes: totals.SizeBytes},
			DailyTrend:       fillTrend(daily, since, trendDays),
		}
		if totals.Downloads > 0 {
			activity.Storage.AverageBytes = models.Round2(float64(totals.SizeBytes) / float64(totals.Downloads))
		}
		activity.Storage.Total = models.FormatBytes(float64(activity.Storage.TotalBytes))
		activity.Storage.Average = models.FormatBytes(activity.Storage.AverageBytes)
		return activity, nil
	})
}

func fillTrend(counts []models.DailyCount, since time.Time, days int) []models.DailyCount {
	byDate := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Downloads
	}

	trend := make([]models.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, models.DailyCount{Date: day, Downloads: byDate[day]})
	}
	return trend
}

// RewardAnalytics reports the topN most claimed rewards, the quartiles of
// current balances and the share of earned points that were redeemed.
func (s *Service) RewardAnalytics(ctx context.Context, topN int) (*models.RewardAnalytics, error) {
	if topN <= 0 {
		topN = DefaultTopRewards
	}
	if topN > maxTopRewards {
		topN = maxTopRewards
	}

	return cached(ctx, s, cache.AnalyticsKey("rewards", topN), "reward_analytics", func(ctx context.Context) (*models.RewardAnalytics, error) {
		var (
			top                   []models.RewardPopularity
			quartiles             []models.PointsQuartile
			outstanding, redeemed int64
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			top, err = s.repo.TopRewards(gctx, topN)
			return err
		})
		g.Go(func() error {
			var err error
			quartiles, err = s.repo.PointsQuartiles(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			outstanding, redeemed, err = s.repo.PointsTotals(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i := range top {
			if r, ok := rewardmodels.Lookup(top[i].RewardID); ok {
				top[i].Name = r.Name
			}
		}
		for i := range quartiles {
			quartiles[i].Average = models.Round2(quartiles[i].Average)
		}
		if top == nil {
			top = []models.RewardPopularity{}
		}
		if quartiles == nil {
			quartiles = []models.PointsQuartile{}
		}

		return &models.RewardAnalytics{
			TopRewards:        top,
			Quartiles:         quartiles,
			RedeemedPoints:    redeemed,
			OutstandingPoints: outstanding,
			RedemptionRate:    models.Percent(redeemed, redeemed+outstanding),
		}, nil
	})
}

// SystemHealth reports active users over the last week, the share of
// error events in the system log and total stored bytes.
func (s *Service) SystemHealth(ctx context.Context) (*models.SystemHealth, error) {
	since := s.now().Add(-activeUserWindow)

	return cached(ctx, s, cache.AnalyticsKey("health"), "system_health", func(ctx context.Context) (*models.SystemHealth, error) {
		h := &models.SystemHealth{}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			h.ActiveUsers, h.TotalUsers, err = s.repo.ActiveUsers(gctx, since)
			return err
		})
		g.Go(func() error {
			var err error
			h.LogEvents, h.ErrorEvents, err = s.repo.LogCounts(gctx, since, string(syslogmodels.EventError))
			return err
		})
		g.Go(func() error {
			var err error
			h.TotalStorageBytes, err = s.repo.StorageTotal(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		h.ErrorRate = models.Percent(h.ErrorEvents, h.LogEvents)
		h.TotalStorage = models.FormatBytes(float64(h.TotalStorageBytes))
		h.DailyAverage = models.FormatBytes(float64(h.TotalStorageBytes) / 30)
		return h, nil
	})
}

// Invalidate drops every cached rollup.
func (s *Service) Invalidate(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.InvalidateAnalytics(ctx)
	if err != nil {
		return 0, apperrors.NewCacheError("invalidate_analytics", err)
	}
	return n, nil
}

// InvalidateUser drops the cached activity of one user after new downloads.
func (s *Service) InvalidateUser(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		return apperrors.NewCacheError("invalidate_user", err)
	}
	return nil
}
