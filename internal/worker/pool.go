package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"workforce/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobTypeEmail = "email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// listStore is the subset of *redis.Client the queue needs.
type listStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

// JobHandler runs one job. A returned error schedules a retry.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb listStore
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes a notification email to QueueEmail.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	return d.enqueue(ctx, QueueEmail, JobTypeEmail, EmailJobPayload{ToEmail: to, Subject: subject, Body: body})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{ID: uuid.NewString(), Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb       listStore
	size      int
	handlers  map[string]JobHandler
	queues    map[string]string // job type → queue
	retryTick time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	return newPool(rdb, size)
}

func newPool(rdb listStore, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		handlers:  make(map[string]JobHandler),
		queues:    make(map[string]string),
		retryTick: retryTickInterval,
		now:       time.Now,
	}
}

// Register binds a job type read from queue to its handler.
// Must be called before Start.
func (p *Pool) Register(queue, jobType string, h JobHandler) {
	p.handlers[jobType] = h
	p.queues[jobType] = queue
}

// Start launches the workers. Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context) {
	queues := p.queueNames()
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id, queues)
		}(i)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runRetries(ctx)
	}()
	log.Info().Int("workers", p.size).Strs("queues", queues).Msg("worker pool started")
}

// Wait blocks until every worker returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) queueNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range p.queues {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: dequeue failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

// process runs one raw job. A failed job is parked in the retry set with
// backoff and dead-lettered after MaxAttempts. An open circuit is not the
// job's fault: it is parked until the breaker probes again without using up
// an attempt.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		deadLetter(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(`null`)}, "malformed job: "+err.Error())
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		deadLetter(ctx, p.rdb, queue, job, "no handler for job type")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if errors.Is(err, infra.ErrCircuitOpen) {
		log.Debug().Str("queue", queue).Str("type", job.Type).Msg("circuit open, job parked")
		p.retryLater(ctx, queue, job, circuitRetryDelay)
		return
	}
	job.Attempts++
	if job.Attempts >= MaxAttempts {
		deadLetter(ctx, p.rdb, queue, job, err.Error())
		return
	}
	delay := retryBackoff(job.Attempts)
	log.Warn().Err(err).Str("queue", queue).Str("type", job.Type).Int("attempt", job.Attempts).
		Dur("retry_in", delay).Msg("job failed, retry scheduled")
	p.retryLater(ctx, queue, job, delay)
}
