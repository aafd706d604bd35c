package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "videobot-backend/internal/common/errors"
	"videobot-backend/internal/features/downloads/models"
	syslogmodels "videobot-backend/internal/features/syslog/models"
)

type memoryRepo struct {
	mu        sync.Mutex
	downloads []*models.Download
	stats     map[int64]*models.UserStats
	insertErr error
	statsErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stats: make(map[int64]*models.UserStats)}
}

func (m *memoryRepo) Insert(_ context.Context, d *models.Download) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if d.JobID != "" {
		for _, existing := range m.downloads {
			if existing.JobID == d.JobID {
				return false, nil
			}
		}
	}
	d.ID = int64(len(m.downloads) + 1)
	d.CreatedAt = time.Date(2026, 10, 17, 0, 0, len(m.downloads), 0, time.UTC)
	m.downloads = append(m.downloads, d)
	return true, nil
}

func (m *memoryRepo) History(_ context.Context, userID int64, limit int) ([]*models.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Download
	for i := len(m.downloads) - 1; i >= 0 && len(out) < limit; i-- {
		if m.downloads[i].UserID == userID {
			out = append(out, m.downloads[i])
		}
	}
	return out, nil
}

func (m *memoryRepo) AddToStats(_ context.Context, userID, sizeBytes int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statsErr != nil {
		return m.statsErr
	}
	s, ok := m.stats[userID]
	if !ok {
		s = &models.UserStats{UserID: userID}
		m.stats[userID] = s
	}
	s.TotalDownloads++
	s.TotalStorageBytes += sizeBytes
	s.LastDownloadAt = &at
	return nil
}

func (m *memoryRepo) GetStats(_ context.Context, userID int64) (*models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stats[userID]; ok {
		return s, nil
	}
	return &models.UserStats{UserID: userID}, nil
}

type fakeLedger struct {
	balance int64
	err     error
}

func (f *fakeLedger) Credit(_ context.Context, _ int64, amount int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.balance += amount
	return f.balance, nil
}

type fakeQueue struct {
	jobs []*models.Job
	err  error
}

func (f *fakeQueue) Publish(_ context.Context, job *models.Job) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.jobs = append(f.jobs, job)
	return "1-0", nil
}

type fakeEvents struct {
	events []syslogmodels.EventType
}

func (f *fakeEvents) RecordUser(_ context.Context, event syslogmodels.EventType, _ int64, _ string) {
	f.events = append(f.events, event)
}

func TestRecord_CompletedAwardsPointsAndStats(t *testing.T) {
	repo := newMemoryRepo()
	ledger := &fakeLedger{}
	events := &fakeEvents{}
	svc := NewDownloadService(repo, &fakeQueue{}, ledger, events, Options{PointsPerDownload: 10})

	res, err := svc.Record(context.Background(), 7, "https://youtu.be/abc", "", 2048, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Download.ID)
	assert.Equal(t, "YouTube", res.Download.Platform)
	assert.Equal(t, int64(10), res.PointsAwarded)
	assert.Equal(t, int64(10), ledger.balance)

	stats, err := svc.Stats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	assert.Equal(t, int64(2048), stats.TotalStorageBytes)
	assert.Equal(t, []syslogmodels.EventType{syslogmodels.EventDownloadCompleted}, events.events)
}

func TestRecord_FailedEarnsNothing(t *testing.T) {
	repo := newMemoryRepo()
	ledger := &fakeLedger{}
	svc := NewDownloadService(repo, &fakeQueue{}, ledger, nil, Options{PointsPerDownload: 10})

	res, err := svc.Record(context.Background(), 7, "https://vimeo.com/1", "Other", 0, models.StatusFailed)
	require.NoError(t, err)
	assert.Zero(t, res.PointsAwarded)
	assert.Zero(t, ledger.balance)
	assert.Empty(t, repo.stats)
}

func TestRecord_BookkeepingFailuresKeepLogEntry(t *testing.T) {
	repo := newMemoryRepo()
	repo.statsErr = errors.New("stats table locked")
	ledger := &fakeLedger{err: errors.New("ledger down")}
	svc := NewDownloadService(repo, &fakeQueue{}, ledger, nil, Options{PointsPerDownload: 10})

	res, err := svc.Record(context.Background(), 7, "https://youtu.be/abc", "YouTube", 10, models.StatusCompleted)
	require.NoError(t, err)
	assert.Zero(t, res.PointsAwarded)
	assert.Len(t, repo.downloads, 1)
}

func TestRecord_StorageFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.insertErr = errors.New("connection refused")
	svc := NewDownloadService(repo, &fakeQueue{}, &fakeLedger{}, nil, Options{PointsPerDownload: 10})

	_, err := svc.Record(context.Background(), 7, "https://youtu.be/abc", "YouTube", 10, models.StatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestRecord_Validation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewDownloadService(repo, &fakeQueue{}, &fakeLedger{}, nil, Options{})

	_, err := svc.Record(context.Background(), 7, "", "", 0, models.StatusCompleted)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	_, err = svc.Record(context.Background(), 7, "https://youtu.be/a", "", 0, models.Status("done"))
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	assert.Empty(t, repo.downloads)
}

func TestHistoryNewestFirst(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewDownloadService(repo, &fakeQueue{}, nil, nil, Options{})
	ctx := context.Background()

	for _, u := range []string{"https://youtu.be/1", "https://youtu.be/2", "https://youtu.be/3"} {
		_, err := svc.Record(ctx, 7, u, "", 1, models.StatusCompleted)
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "https://youtu.be/3", history[0].URL)
	assert.Equal(t, "https://youtu.be/2", history[1].URL)
}

func TestRequestDownload(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewDownloadService(newMemoryRepo(), queue, nil, nil, Options{})

	job, err := svc.RequestDownload(context.Background(), DownloadRequest{
		UserID:  7,
		ChatID:  7,
		URL:     "https://www.youtube.com/watch?v=abc&feature=share",
		Quality: "Medium",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", job.URL)
	assert.Equal(t, "YouTube", job.Platform)
	assert.Equal(t, "medium", job.Quality)
	assert.NotEmpty(t, job.ID)
	assert.Len(t, queue.jobs, 1)

	_, err = svc.RequestDownload(context.Background(), DownloadRequest{UserID: 7, URL: "https://example.com/x.mp4"})
	assert.Equal(t, apperrors.ErrCodeUnsupportedLink, apperrors.CodeOf(err))
	assert.Len(t, queue.jobs, 1)
}

func TestRecordJob_RedeliveredResultIsNotCreditedTwice(t *testing.T) {
	repo := newMemoryRepo()
	ledger := &fakeLedger{balance: 30}
	events := &fakeEvents{}
	svc := NewDownloadService(repo, &fakeQueue{}, ledger, events, Options{PointsPerDownload: 10})
	ctx := context.Background()

	first, err := svc.RecordJob(ctx, "job-1", 7, "https://youtu.be/abc", "YouTube", 2048, models.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, int64(10), first.PointsAwarded)
	assert.Equal(t, int64(40), first.Balance)

	again, err := svc.RecordJob(ctx, "job-1", 7, "https://youtu.be/abc", "YouTube", 2048, models.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	assert.Zero(t, again.PointsAwarded)

	assert.Equal(t, int64(40), ledger.balance)
	assert.Len(t, repo.downloads, 1)
	stats, err := svc.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDownloads)
	assert.Equal(t, []syslogmodels.EventType{syslogmodels.EventDownloadCompleted}, events.events)

	// results without a job id are never deduplicated
	_, err = svc.Record(ctx, 7, "https://youtu.be/abc", "YouTube", 2048, models.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, repo.downloads, 2)
	assert.Equal(t, int64(50), ledger.balance)
}
