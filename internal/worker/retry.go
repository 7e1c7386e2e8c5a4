package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// RetryPrefix + queue is a sorted set of failed jobs scored by the unix
	// millisecond at which they go back onto the queue.
	RetryPrefix = "retry:"

	retryTickInterval = time.Second
	retryBatchSize    = 50

	// circuitRetryDelay matches the SMTP breaker's open timeout, so a parked
	// job comes back when the breaker is ready to probe again.
	circuitRetryDelay = 30 * time.Second
)

// retryBackoff is the delay before attempt+1: 10s, 20s, 40s...
func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return 10 * time.Second << (attempt - 1)
}

// retryLater parks job until delay has passed. If the retry set cannot be
// written the job goes straight back onto its queue rather than being lost.
func (p *Pool) retryLater(ctx context.Context, queue string, job Job, delay time.Duration) {
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-encode job")
		return
	}
	due := p.now().Add(delay)
	err = p.rdb.ZAdd(ctx, RetryPrefix+queue, redis.Z{Score: float64(due.UnixMilli()), Member: encoded}).Err()
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("queue", queue).Msg("retry set unavailable, re-queueing now")
	if pErr := p.rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Str("job_type", job.Type).Msg("job lost: re-queue failed")
	}
}

// promoteDue moves every due job from the retry sets back onto their queues
// and returns how many were moved. ZREM decides ownership, so several
// servers can run it against the same Redis.
func (p *Pool) promoteDue(ctx context.Context) int {
	upTo := strconv.FormatInt(p.now().UnixMilli(), 10)
	moved := 0
	for _, queue := range p.queueNames() {
		key := RetryPrefix + queue
		due, err := p.rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: "-inf", Max: upTo, Count: retryBatchSize}).Result()
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("queue", queue).Msg("retry: scan failed")
			}
			continue
		}
		for _, member := range due {
			n, err := p.rdb.ZRem(ctx, key, member).Result()
			if err != nil || n == 0 {
				continue
			}
			if err := p.rdb.LPush(ctx, queue, member).Err(); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("job lost: promote failed")
				continue
			}
			moved++
		}
	}
	return moved
}

func (p *Pool) runRetries(ctx context.Context) {
	ticker := time.NewTicker(p.retryTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.promoteDue(ctx); n > 0 {
				log.Debug().Int("jobs", n).Msg("retry: jobs re-queued")
			}
		}
	}
}
