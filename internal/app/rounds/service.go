// Package rounds drives every room's rounds through betting, reveal and
// settlement. It keeps no per-room state in memory: each call derives the
// phase from the stored round and races other callers through conditional
// writes, so any number of processes may serve the same rooms.
package rounds

import (
	"context"
	"encoding/json"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/game/catalog"
	"roundhouse/internal/ledger"
	"roundhouse/internal/metrics"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	defaultClaimLease     = 30 * time.Second
	defaultRecentOutcomes = 20
)

type Service struct {
	store   *store.Store
	ledger  *ledger.Ledger
	catalog *catalog.Catalog

	loc    *time.Location
	lease  time.Duration
	recent int
	random game.RandomSource
	clock  func() time.Time
	pub    events.Publisher
}

func NewService(st *store.Store, led *ledger.Ledger, cat *catalog.Catalog, opts Options) *Service {
	s := &Service{
		store:   st,
		ledger:  led,
		catalog: cat,
		loc:     opts.Location,
		lease:   opts.ClaimLease,
		recent:  opts.RecentOutcomes,
		random:  opts.Random,
		clock:   opts.Now,
		pub:     opts.Publisher,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.lease <= 0 {
		s.lease = defaultClaimLease
	}
	if s.recent <= 0 {
		s.recent = defaultRecentOutcomes
	}
	if s.random == nil {
		s.random = game.NewCryptoSource()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.pub == nil {
		s.pub = events.Nop{}
	}
	return s
}

// now is truncated to what timestamptz keeps, so values read back compare
// equal to the ones written.
func (s *Service) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// day is the calendar bucket of t in the configured zone.
func (s *Service) day(t time.Time) time.Time {
	d := t.In(s.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) rules(kind game.Kind) (catalog.Rules, error) {
	return s.catalog.Get(kind)
}

func (s *Service) summary(kind game.Kind, raw json.RawMessage) string {
	r, err := s.rules(kind)
	if err != nil {
		return ""
	}
	out, err := r.Summary(raw)
	if err != nil {
		log.Warn().Err(err).Str("game", string(kind)).Msg("outcome summary failed")
		return ""
	}
	return out
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		metrics.EventPublishErrors.Inc()
		log.Warn().Err(err).Str("event", ev.Event).Str("room_id", ev.RoomID).Msg("publish event failed")
	}
}
