package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"videobot-backend/internal/features/downloads/models"
	"videobot-backend/internal/features/downloads/repository"
)

// maxStreamLen caps the request stream; older entries are trimmed.
const maxStreamLen = 10000

type streamQueue struct {
	client redis.Cmdable
	stream string
}

// NewJobQueue publishes jobs to a Redis stream read by the fetcher.
func NewJobQueue(client redis.Cmdable, stream string) repository.JobQueue {
	return &streamQueue{client: client, stream: stream}
}

func (q *streamQueue) Publish(ctx context.Context, job *models.Job) (string, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":    "download_request",
			"job_id":  job.ID,
			"user_id": job.UserID,
			"payload": string(payload),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish job: %w", err)
	}
	return id, nil
}
