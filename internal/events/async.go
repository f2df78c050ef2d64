package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"roundhouse/internal/metrics"

	"github.com/rs/zerolog/log"
)

var ErrDropped = errors.New("event_dropped")

// Async delivers to next from a single goroutine, in publish order. Publish
// only enqueues: a full queue drops the event, and every delivery runs under
// its own timeout instead of the caller's context.
type Async struct {
	name    string
	next    Publisher
	timeout time.Duration
	queue   chan Event

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewAsync(name string, next Publisher, size int, timeout time.Duration) *Async {
	if size <= 0 {
		size = 1024
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	a := &Async{
		name:    name,
		next:    next,
		timeout: timeout,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(_ context.Context, ev Event) error {
	select {
	case <-a.done:
		return ErrDropped
	default:
	}
	select {
	case a.queue <- ev:
		return nil
	default:
		metrics.EventsDropped.WithLabelValues(a.name).Inc()
		return ErrDropped
	}
}

// Close stops the dispatcher once the delivery in flight returns. Queued
// events are discarded.
func (a *Async) Close() {
	a.closeOnce.Do(func() { close(a.done) })
	<-a.stopped
}

func (a *Async) run() {
	defer close(a.stopped)
	for {
		select {
		case <-a.done:
			return
		case ev := <-a.queue:
			a.deliver(ev)
		}
	}
}

func (a *Async) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.next.Publish(ctx, ev); err != nil {
		metrics.EventPublishErrors.Inc()
		log.Warn().Err(err).Str("publisher", a.name).Str("event", ev.Event).
			Str("room_id", ev.RoomID).Msg("publish event failed")
	}
}
