package rounds

import (
	"context"
	"time"

	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// pollerParallelism caps how many rooms one sweep advances at once.
const pollerParallelism = 8

// StartPoller advances every room each interval, so rounds lock and settle
// on time even when nobody is polling them. It is one more observer racing
// through the same conditional writes, not an owner of any room.
func (s *Service) StartPoller(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.AdvanceAll(ctx)
			}
		}
	}()
}

// AdvanceAll advances each room concurrently; rooms share no locks. One
// room failing does not hold back the others.
func (s *Service) AdvanceAll(ctx context.Context) {
	rooms, err := s.store.ListRooms(ctx, store.RoomFilter{})
	if err != nil {
		log.Error().Err(err).Msg("poller list rooms failed")
		return
	}
	var g errgroup.Group
	g.SetLimit(pollerParallelism)
	for _, room := range rooms {
		g.Go(func() error {
			if _, _, err := s.Advance(ctx, room.ID); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Str("room_id", room.ID).Msg("poller advance failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}
