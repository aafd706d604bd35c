package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videobot-backend/internal/common/cache"
	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/features/analytics/models"
	"videobot-backend/internal/features/analytics/repository"
)

type fakeRepo struct {
	totals      repository.DownloadTotals
	platforms   []models.PlatformCount
	userTotals  repository.UserTotals
	favorite    string
	daily       []models.DailyCount
	top         []models.RewardPopularity
	quartiles   []models.PointsQuartile
	outstanding int64
	redeemed    int64

	// failures makes the first n DownloadTotals calls fail.
	failures int32
	block    bool
	calls    int32
}

func (f *fakeRepo) DownloadTotals(ctx context.Context, _ time.Time) (repository.DownloadTotals, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.block {
		<-ctx.Done()
		return repository.DownloadTotals{}, ctx.Err()
	}
	if n <= atomic.LoadInt32(&f.failures) {
		return repository.DownloadTotals{}, errors.New("connection reset by peer")
	}
	return f.totals, nil
}

func (f *fakeRepo) PlatformCounts(context.Context, time.Time) ([]models.PlatformCount, error) {
	return f.platforms, nil
}

func (f *fakeRepo) UserTotals(context.Context, int64) (repository.UserTotals, error) {
	return f.userTotals, nil
}

func (f *fakeRepo) FavoritePlatform(context.Context, int64) (string, error) {
	return f.favorite, nil
}

func (f *fakeRepo) DailyCounts(context.Context, int64, time.Time) ([]models.DailyCount, error) {
	return f.daily, nil
}

func (f *fakeRepo) LastActivity(context.Context, int64) (*time.Time, error) {
	return nil, nil
}

func (f *fakeRepo) TopRewards(context.Context, int) ([]models.RewardPopularity, error) {
	return f.top, nil
}

func (f *fakeRepo) PointsQuartiles(context.Context) ([]models.PointsQuartile, error) {
	return f.quartiles, nil
}

func (f *fakeRepo) PointsTotals(context.Context) (int64, int64, error) {
	return f.outstanding, f.redeemed, nil
}

func (f *fakeRepo) ActiveUsers(context.Context, time.Time) (int64, int64, error) {
	return 3, 10, nil
}

func (f *fakeRepo) LogCounts(context.Context, time.Time, string) (int64, int64, error) {
	return 8, 2, nil
}

func (f *fakeRepo) StorageTotal(context.Context) (int64, error) {
	return 0, nil
}

var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func newService(repo repository.AnalyticsRepository, opts Options) *Service {
	return NewAnalyticsService(repo, nil, opts).WithClock(func() time.Time { return fixedNow })
}

func TestDownloadStats(t *testing.T) {
	repo := &fakeRepo{totals: repository.DownloadTotals{Total: 4, Completed: 3, SizeBytes: 4096}}
	svc := newService(repo, Options{Timeout: time.Second})

	stats, err := svc.DownloadStats(context.Background(), "7d")
	require.NoError(t, err)
	assert.Equal(t, "7d", stats.TimeRange)
	assert.Equal(t, int64(4), stats.TotalDownloads)
	assert.Equal(t, 75.0, stats.SuccessRate)
	assert.Equal(t, 1024.0, stats.AverageSizeBytes)
}

func TestDownloadStats_EmptyIsZeroed(t *testing.T) {
	svc := newService(&fakeRepo{}, Options{Timeout: time.Second})

	stats, err := svc.DownloadStats(context.Background(), "24h")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDownloads)
	assert.Zero(t, stats.SuccessRate)
	assert.Equal(t, "0 MB", stats.TotalSize)
}

func TestInvalidTimeRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, Options{Timeout: time.Second})

	_, err := svc.DownloadStats(context.Background(), "1y")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)

	_, err = svc.PlatformDistribution(context.Background(), "90d")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeRange)
	assert.Zero(t, repo.calls)
}

func TestTimeoutIsReported(t *testing.T) {
	repo := &fakeRepo{block: true}
	svc := newService(repo, Options{Timeout: 20 * time.Millisecond, Retries: 2})

	_, err := svc.DownloadStats(context.Background(), "7d")
	assert.ErrorIs(t, err, apperrors.ErrAnalyticsTimeout)
	assert.Equal(t, int32(1), repo.calls, "timeouts are not retried")
}

func TestStorageErrorsAreRetried(t *testing.T) {
	repo := &fakeRepo{failures: 2, totals: repository.DownloadTotals{Total: 1, Completed: 1}}
	svc := newService(repo, Options{Timeout: time.Second, Retries: 2})

	stats, err := svc.DownloadStats(context.Background(), "7d")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	assert.Equal(t, int32(3), repo.calls)

	repo = &fakeRepo{failures: 5}
	svc = newService(repo, Options{Timeout: time.Second, Retries: 1})
	_, err = svc.DownloadStats(context.Background(), "7d")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Equal(t, int32(2), repo.calls)
}

func TestPlatformDistribution(t *testing.T) {
	repo := &fakeRepo{platforms: []models.PlatformCount{
		{Platform: "YouTube", Downloads: 2},
		{Platform: "TikTok", Downloads: 1},
	}}
	svc := newService(repo, Options{Timeout: time.Second})

	dist, err := svc.PlatformDistribution(context.Background(), "30d")
	require.NoError(t, err)
	assert.Equal(t, int64(3), dist.Total)
	require.Len(t, dist.Platforms, 2)
	assert.Equal(t, 66.67, dist.Platforms[0].Percentage)
	assert.Equal(t, 33.33, dist.Platforms[1].Percentage)

	empty, err := newService(&fakeRepo{}, Options{Timeout: time.Second}).PlatformDistribution(context.Background(), "30d")
	require.NoError(t, err)
	assert.NotNil(t, empty.Platforms)
	assert.Empty(t, empty.Platforms)
}

func TestUserActivity_FillsTrend(t *testing.T) {
	repo := &fakeRepo{
		userTotals: repository.UserTotals{Downloads: 4, SizeBytes: 2048},
		favorite:   "TikTok",
		daily:      []models.DailyCount{{Date: "2026-10-15", Downloads: 3}, {Date: "2026-10-17", Downloads: 1}},
	}
	svc := newService(repo, Options{Timeout: time.Second})

	a, err := svc.UserActivity(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "TikTok", a.FavoritePlatform)
	assert.Equal(t, 512.0, a.Storage.AverageBytes)
	require.Len(t, a.DailyTrend, 7)
	assert.Equal(t, "2026-10-11", a.DailyTrend[0].Date)
	assert.Equal(t, models.DailyCount{Date: "2026-10-15", Downloads: 3}, a.DailyTrend[4])
	assert.Equal(t, models.DailyCount{Date: "2026-10-16", Downloads: 0}, a.DailyTrend[5])
	assert.Equal(t, int64(1), a.DailyTrend[6].Downloads)
}

func TestRewardAnalytics(t *testing.T) {
	repo := &fakeRepo{
		top:         []models.RewardPopularity{{RewardID: 50, Claims: 4}, {RewardID: 200, Claims: 1}},
		quartiles:   []models.PointsQuartile{{Quartile: 1, Users: 2, Min: 0, Max: 5, Average: 2.5}},
		outstanding: 300,
		redeemed:    100,
	}
	svc := newService(repo, Options{Timeout: time.Second})

	ra, err := svc.RewardAnalytics(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "No conversion queue", ra.TopRewards[0].Name)
	assert.Equal(t, 25.0, ra.RedemptionRate)
	assert.Len(t, ra.Quartiles, 1)

	empty, err := newService(&fakeRepo{}, Options{Timeout: time.Second}).RewardAnalytics(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, empty.TopRewards)
	assert.Zero(t, empty.RedemptionRate)
}

func TestSystemHealth(t *testing.T) {
	svc := newService(&fakeRepo{}, Options{Timeout: time.Second})

	h, err := svc.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.ActiveUsers)
	assert.Equal(t, 25.0, h.ErrorRate)
}

func TestResultsAreCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &fakeRepo{totals: repository.DownloadTotals{Total: 2, Completed: 1}}
	svc := NewAnalyticsService(repo, cache.NewCacheService(client), Options{Timeout: time.Second, CacheTTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats, err := svc.DownloadStats(ctx, "7d")
		require.NoError(t, err)
		assert.Equal(t, 50.0, stats.SuccessRate)
	}
	assert.Equal(t, int32(1), repo.calls)

	n, err := svc.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.DownloadStats(ctx, "7d")
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls)
}
