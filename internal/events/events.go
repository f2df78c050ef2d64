// Package events carries round lifecycle notifications to in-process SSE
// subscribers and, when configured, to Redis and Kafka.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	RoundOpened  = "round_opened"
	RoundLocked  = "round_locked"
	BetPlaced    = "bet_placed"
	RoundSettled = "round_settled"
	Ping         = "ping"
)

type Event struct {
	EventID  string `json:"event_id,omitempty"`
	Event    string `json:"event"`
	RoomID   string `json:"room_id"`
	RoundID  string `json:"round_id,omitempty"`
	Seq      int    `json:"seq,omitempty"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data,omitempty"`
}

func New(kind, roomID, roundID string, seq int, data any) Event {
	return Event{
		Event:    kind,
		RoomID:   roomID,
		RoundID:  roundID,
		Seq:      seq,
		ServerTS: time.Now().UnixMilli(),
		Data:     data,
	}
}

// Publisher delivers an event. Publishing is best effort: callers log the
// error and carry on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
