package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix + queue is where a queue's dead jobs are kept for inspection.
const DLQPrefix = "dlq:"

// DLQEntry is a dead job as stored in the list.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// deadLetter parks job under DLQPrefix+queue. Push failures are only logged:
// the job is already off its queue and nothing upstream can retry it.
func deadLetter(ctx context.Context, rdb listStore, queue string, job Job, reason string) {
	key := DLQPrefix + queue
	logger := log.With().Str("queue", queue).Str("job_type", job.Type).Logger()

	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      job.Attempts,
	})
	if err == nil {
		err = rdb.LPush(ctx, key, data).Err()
	}
	if err != nil {
		logger.Error().Err(err).Str("reason", reason).Msg("job lost: dead letter push failed")
		return
	}
	logger.Warn().Str("reason", reason).Int("attempts", job.Attempts).Msg("job dead-lettered")
}

// DLQLength is the backlog of dead jobs for queue, reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
