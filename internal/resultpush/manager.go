package resultpush

import (
	"context"
	"errors"
	"sync"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/metrics"
	"roundhouse/internal/resultpush/platforms"

	"github.com/rs/zerolog/log"
)

var (
	errCircuitOpen = errors.New("circuit_open")
	ErrQueueFull   = errors.New("push_queue_full")
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

type Manager struct {
	cfg      Config
	adapters map[string]platforms.Adapter

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}
	closeOnce  sync.Once

	mu           sync.Mutex
	breakerByKey map[string]breakerState
}

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	return newManager(cfg, map[string]platforms.Adapter{
		"discord": platforms.NewDiscordAdapter(client),
		"feishu":  platforms.NewFeishuAdapter(client),
	})
}

func newManager(cfg Config, adapters map[string]platforms.Adapter) *Manager {
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}
	m := &Manager{
		cfg:          cfg,
		adapters:     adapters,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done)
	return m
}

// Enabled reports whether any target is configured.
func (m *Manager) Enabled() bool {
	return len(m.cfg.Targets) > 0
}

// Start runs the workers until ctx ends or Close is called.
func (m *Manager) Start(ctx context.Context) {
	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	log.Info().Int("targets", len(m.cfg.Targets)).Int("workers", m.cfg.Workers).Msg("result push started")
}

func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// Publish queues ev for every matching target without waiting for delivery.
func (m *Manager) Publish(_ context.Context, ev events.Event) error {
	targets := matchTargets(m.cfg.Targets, ev)
	if len(targets) == 0 {
		return nil
	}
	msg, ok := format(ev)
	if !ok {
		return nil
	}
	var dropped bool
	for _, target := range targets {
		select {
		case m.dispatchCh <- pushJob{Target: target, Event: ev, Message: msg}:
			metrics.PushQueueLen.Set(float64(len(m.dispatchCh)))
		default:
			metrics.PushDropped.WithLabelValues("queue_full").Inc()
			dropped = true
		}
	}
	if dropped {
		return ErrQueueFull
	}
	return nil
}

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case job := <-m.dispatchCh:
			metrics.PushQueueLen.Set(float64(len(m.dispatchCh)))
			m.processJob(ctx, job)
		}
	}
}

func (m *Manager) processJob(ctx context.Context, job pushJob) {
	adapter := m.adapters[job.Target.Platform]
	if adapter == nil {
		metrics.PushDropped.WithLabelValues("no_adapter").Inc()
		return
	}
	if err := m.beforeSend(job.key(), time.Now()); err != nil {
		m.retryOrDrop(job, err)
		return
	}
	if err := adapter.Send(ctx, job.Target.Endpoint, job.Target.Secret, job.Message); err != nil {
		metrics.PushFailed.WithLabelValues(adapter.Name()).Inc()
		m.afterFailure(job.key(), time.Now())
		m.retryOrDrop(job, err)
		return
	}
	metrics.PushSent.WithLabelValues(adapter.Name()).Inc()
	m.afterSuccess(job.key())
}

func (m *Manager) retryOrDrop(job pushJob, err error) {
	if job.Attempt >= m.cfg.RetryMax {
		metrics.PushDropped.WithLabelValues("retries_exhausted").Inc()
		log.Warn().Err(err).
			Str("platform", job.Target.Platform).
			Str("room_id", job.Event.RoomID).
			Str("event", job.Event.Event).
			Int("attempts", job.Attempt+1).
			Msg("result push dropped")
		return
	}
	job.Attempt++
	metrics.PushRetries.Inc()
	m.retryQ.Enqueue(job, m.cfg.RetryBase*time.Duration(1<<(job.Attempt-1)))
}

func (m *Manager) beforeSend(key string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	if !state.openUntil.IsZero() && now.Before(state.openUntil) {
		return errCircuitOpen
	}
	return nil
}

func (m *Manager) afterFailure(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	state.consecutiveFailures++
	if state.consecutiveFailures >= m.cfg.FailureThreshold {
		state.openUntil = now.Add(m.cfg.CircuitOpenDuration)
		state.consecutiveFailures = 0
	}
	m.breakerByKey[key] = state
}

func (m *Manager) afterSuccess(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakerByKey[key] = breakerState{}
}
