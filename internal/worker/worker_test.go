package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"workforce/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLists is an in-memory listStore. BRPop never blocks.
type fakeLists struct {
	mu    sync.Mutex
	lists map[string][]string
	sets  map[string]map[string]float64
}

func newFakeLists() *fakeLists {
	return &fakeLists{lists: make(map[string][]string), sets: make(map[string]map[string]float64)}
}

func (f *fakeLists) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]float64)
	}
	for _, m := range members {
		var s string
		switch x := m.Member.(type) {
		case []byte:
			s = string(x)
		case string:
			s = x
		}
		f.sets[key][s] = m.Score
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(members)))
	return cmd
}

func (f *fakeLists) ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	upTo, _ := strconv.ParseFloat(opt.Max, 64)
	var out []string
	for m, score := range f.sets[key] {
		if score <= upTo {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return f.sets[key][out[i]] < f.sets[key][out[j]] })
	if opt.Count > 0 && int64(len(out)) > opt.Count {
		out = out[:opt.Count]
	}
	cmd := redis.NewStringSliceCmd(ctx)
	cmd.SetVal(out)
	return cmd
}

func (f *fakeLists) ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range members {
		s, _ := m.(string)
		if _, ok := f.sets[key][s]; ok {
			delete(f.sets[key], s)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func (f *fakeLists) scheduled(key string) map[string]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]float64, len(f.sets[key]))
	for m, s := range f.sets[key] {
		out[m] = s
	}
	return out
}

func (f *fakeLists) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range values {
		var s string
		switch x := v.(type) {
		case []byte:
			s = string(x)
		case string:
			s = x
		}
		f.lists[key] = append([]string{s}, f.lists[key]...)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(f.lists[key])))
	return cmd
}

func (f *fakeLists) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringSliceCmd(ctx)
	for _, k := range keys {
		l := f.lists[k]
		if len(l) == 0 {
			continue
		}
		f.lists[k] = l[:len(l)-1]
		cmd.SetVal([]string{k, l[len(l)-1]})
		return cmd
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func (f *fakeLists) pop(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.lists[key]
	if len(l) == 0 {
		return ""
	}
	f.lists[key] = l[:len(l)-1]
	return l[len(l)-1]
}

func (f *fakeLists) size(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists[key])
}

type countingHandler struct {
	calls int
	err   error
	last  json.RawMessage
}

func (h *countingHandler) Process(_ context.Context, payload json.RawMessage) error {
	h.calls++
	h.last = payload
	return h.err
}

func TestDispatcher_EnqueueEmail(t *testing.T) {
	lists := newFakeLists()
	d := &Dispatcher{rdb: lists}
	require.NoError(t, d.EnqueueEmail(context.Background(), "a@b.test", "hi", "body"))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(lists.pop(QueueEmail)), &job))
	assert.Equal(t, JobTypeEmail, job.Type)
	assert.Zero(t, job.Attempts)

	var p EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, EmailJobPayload{ToEmail: "a@b.test", Subject: "hi", Body: "body"}, p)
}

func TestPool_ProcessSuccess(t *testing.T) {
	lists := newFakeLists()
	p := newPool(lists, 1)
	h := &countingHandler{}
	p.Register(QueueEmail, JobTypeEmail, h)

	p.process(context.Background(), QueueEmail, `{"type":"email","payload":{"to_email":"x"}}`)
	assert.Equal(t, 1, h.calls)
	assert.JSONEq(t, `{"to_email":"x"}`, string(h.last))
	assert.Zero(t, lists.size(QueueEmail))
	assert.Zero(t, lists.size(DLQPrefix+QueueEmail))
}

// fixedClock pins the pool's clock and returns a way to move it forward.
func fixedClock(p *Pool) func(time.Duration) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func TestPool_RetriesWithBackoffThenDeadLetters(t *testing.T) {
	lists := newFakeLists()
	p := newPool(lists, 1)
	advance := fixedClock(p)
	h := &countingHandler{err: errors.New("smtp 451")}
	p.Register(QueueEmail, JobTypeEmail, h)
	ctx := context.Background()

	raw := `{"id":"j1","type":"email","payload":{"to_email":"x"}}`
	for i := 1; i < MaxAttempts; i++ {
		p.process(ctx, QueueEmail, raw)
		require.Zero(t, lists.size(QueueEmail), "attempt %d is not re-queued immediately", i)
		require.Len(t, lists.scheduled(RetryPrefix+QueueEmail), 1)

		assert.Zero(t, p.promoteDue(ctx), "not due before the backoff")
		advance(retryBackoff(i))
		require.Equal(t, 1, p.promoteDue(ctx))
		assert.Empty(t, lists.scheduled(RetryPrefix+QueueEmail))

		raw = lists.pop(QueueEmail)
		var job Job
		require.NoError(t, json.Unmarshal([]byte(raw), &job))
		assert.Equal(t, i, job.Attempts)
		assert.Equal(t, "j1", job.ID)
	}

	p.process(ctx, QueueEmail, raw)
	assert.Equal(t, MaxAttempts, h.calls)
	assert.Zero(t, lists.size(QueueEmail))
	assert.Empty(t, lists.scheduled(RetryPrefix+QueueEmail))

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(lists.pop(DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, MaxAttempts, entry.Attempts)
	assert.Equal(t, "smtp 451", entry.Reason)
}

func TestPool_OpenCircuitDoesNotUseAttempts(t *testing.T) {
	lists := newFakeLists()
	p := newPool(lists, 1)
	advance := fixedClock(p)
	h := &countingHandler{err: fmt.Errorf("email_worker: smtp unavailable: %w", infra.ErrCircuitOpen)}
	p.Register(QueueEmail, JobTypeEmail, h)
	ctx := context.Background()

	raw := `{"id":"j2","type":"email","payload":{"to_email":"x"}}`
	for i := 0; i < MaxAttempts*3; i++ {
		p.process(ctx, QueueEmail, raw)
		assert.Zero(t, p.promoteDue(ctx), "parked for the breaker's open timeout")
		advance(circuitRetryDelay)
		require.Equal(t, 1, p.promoteDue(ctx))
		raw = lists.pop(QueueEmail)
	}
	assert.Zero(t, lists.size(DLQPrefix+QueueEmail), "an outage never dead-letters")

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Zero(t, job.Attempts)

	// once the relay is back the job goes through
	h.err = nil
	p.process(ctx, QueueEmail, raw)
	assert.Equal(t, MaxAttempts*3+1, h.calls)
	assert.Empty(t, lists.scheduled(RetryPrefix+QueueEmail))
}

func TestRetryBackoff(t *testing.T) {
	assert.Equal(t, 10*time.Second, retryBackoff(0))
	assert.Equal(t, 10*time.Second, retryBackoff(1))
	assert.Equal(t, 20*time.Second, retryBackoff(2))
	assert.Equal(t, 40*time.Second, retryBackoff(3))
}

func TestPool_MalformedAndUnknownJobs(t *testing.T) {
	lists := newFakeLists()
	p := newPool(lists, 1)

	p.process(context.Background(), QueueEmail, "{not json")
	p.process(context.Background(), QueueEmail, `{"type":"sms","payload":{}}`)
	assert.Equal(t, 2, lists.size(DLQPrefix+QueueEmail))
}

func TestPool_StartDrainsQueue(t *testing.T) {
	lists := newFakeLists()
	p := newPool(lists, 2)
	done := make(chan struct{}, 4)
	p.Register(QueueEmail, JobTypeEmail, handlerFunc(func(context.Context, json.RawMessage) error {
		done <- struct{}{}
		return nil
	}))
	d := &Dispatcher{rdb: lists}
	for i := 0; i < 3; i++ {
		require.NoError(t, d.EnqueueEmail(context.Background(), "x@y.test", "s", "b"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("job not processed")
		}
	}
	cancel()
	p.Wait()
}

type handlerFunc func(context.Context, json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, p json.RawMessage) error { return f(ctx, p) }

type fakeSender struct {
	err  error
	sent []string
}

func (s *fakeSender) Send(to, subject, body string) error {
	s.sent = append(s.sent, to+"|"+subject)
	return s.err
}

func TestEmailWorker(t *testing.T) {
	s := &fakeSender{}
	w := &EmailWorker{mailer: s}

	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":"a@b.test","subject":"hi"}`)))
	assert.Equal(t, []string{"a@b.test|hi"}, s.sent)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)), "bad payload is dropped")
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"subject":"x"}`)), "no recipient is dropped")
	assert.Len(t, s.sent, 1)

	s.err = errors.New("421 try later")
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"to_email":"a@b.test"}`)))

	disabled := NewEmailWorker(nil)
	assert.NoError(t, disabled.Process(context.Background(), json.RawMessage(`{"to_email":"a@b.test"}`)))
}

type recordingAdder struct{ added []int64 }

func (r *recordingAdder) AddElapsed(_ context.Context, seconds int64) (int64, error) {
	r.added = append(r.added, seconds)
	return 1, nil
}

func TestTaskTimer_CarriesRemainder(t *testing.T) {
	adder := &recordingAdder{}
	timer := NewTaskTimer(adder, time.Second)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	timer.last = start

	timer.tick(context.Background(), start.Add(700*time.Millisecond))
	assert.Empty(t, adder.added)

	timer.tick(context.Background(), start.Add(1400*time.Millisecond))
	assert.Equal(t, []int64{1}, adder.added)

	timer.tick(context.Background(), start.Add(3900*time.Millisecond))
	assert.Equal(t, []int64{1, 2}, adder.added)
	assert.Equal(t, 900*time.Millisecond, timer.carry)
}
