package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ElapsedAdder adds seconds to every running task's elapsed time and every
// blocked task's wait time. Implemented by repository.TaskRepository.
type ElapsedAdder interface {
	AddElapsed(ctx context.Context, seconds int64) (int64, error)
}

// TaskTimer advances the cockpit clocks of open tasks on a ticker.
type TaskTimer struct {
	tasks    ElapsedAdder
	interval time.Duration

	last  time.Time
	carry time.Duration
}

func NewTaskTimer(tasks ElapsedAdder, interval time.Duration) *TaskTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &TaskTimer{tasks: tasks, interval: interval}
}

// Run ticks until ctx is cancelled.
func (t *TaskTimer) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.last = time.Now()

	log.Info().Dur("interval", t.interval).Msg("task_timer: started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("task_timer: shutting down")
			return
		case now := <-ticker.C:
			t.tick(ctx, now)
		}
	}
}

// tick credits whole seconds elapsed since the previous tick; the
// sub-second remainder carries over so slow ticks don't lose time.
func (t *TaskTimer) tick(ctx context.Context, now time.Time) {
	elapsed := now.Sub(t.last) + t.carry
	t.last = now
	if elapsed < time.Second {
		t.carry = elapsed
		return
	}
	secs := int64(elapsed / time.Second)
	t.carry = elapsed - time.Duration(secs)*time.Second

	n, err := t.tasks.AddElapsed(ctx, secs)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("task_timer: update failed")
		}
		return
	}
	if n > 0 {
		log.Debug().Int64("tasks", n).Int64("seconds", secs).Msg("task_timer: advanced")
	}
}
