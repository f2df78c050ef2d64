// Package resultpush posts round events to chat webhooks. It is an
// events.Publisher: matching events are formatted and queued, and a small
// worker pool delivers them with retries and a per-target circuit breaker.
package resultpush

import (
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/resultpush/platforms"
)

type PushTarget struct {
	Platform string `json:"platform"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
	// RoomID limits the target to one room; empty means every room.
	RoomID string `json:"room_id"`
	// Events lists the event kinds to push; empty means round_settled only.
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}

type Config struct {
	Targets             []PushTarget
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type pushJob struct {
	Target  PushTarget
	Event   events.Event
	Message platforms.Message
	Attempt int
}

func (j pushJob) key() string {
	return targetKey(j.Target)
}

func targetKey(t PushTarget) string {
	return t.Platform + "|" + t.Endpoint + "|" + t.RoomID
}
