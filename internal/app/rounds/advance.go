package rounds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/metrics"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

// maxAdvanceSteps bounds one Advance call: lock, settle, then look at the
// round that settlement opened.
const maxAdvanceSteps = 3

// Advance brings the room's current round up to the phase the clock says it
// should be in and returns the round callers should act on. A round that
// fails to settle is logged and left claimed-incomplete for the next caller.
func (s *Service) Advance(ctx context.Context, roomID string) (*store.Room, *store.Round, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	round, err := s.current(ctx, room)
	if err != nil {
		return room, nil, err
	}
	for i := 0; i < maxAdvanceSteps && round != nil && round.Status != store.RoundSettled; i++ {
		phase, _ := game.Derive(s.now(), round.StartedAt, round.Config.Timing())
		switch {
		case round.Status == store.RoundSettling || phase == game.PhaseSettled:
			if _, err := s.settle(ctx, room, round); err != nil {
				if !errors.Is(err, errRaceLost) {
					log.Error().Err(err).Str("room_id", room.ID).Str("round_id", round.ID).Msg("settlement incomplete")
				}
				return room, round, nil
			}
			if round, err = s.current(ctx, room); err != nil {
				return room, nil, err
			}
		case phase == game.PhaseRevealing && round.Phase == game.PhaseBetting:
			if err := s.lock(ctx, room, round); err != nil {
				return room, round, err
			}
			if round, err = s.store.GetRound(ctx, round.ID); err != nil {
				return room, nil, err
			}
		default:
			return room, round, nil
		}
	}
	return room, round, nil
}

// current returns the room's unsettled round, opening one when the room is
// enabled and has none. A disabled room yields its latest round, or nil.
func (s *Service) current(ctx context.Context, room *store.Room) (*store.Round, error) {
	r, err := s.store.GetActiveRound(ctx, room.ID)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	latest, err := s.latest(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	if !room.Enabled {
		return latest, nil
	}
	next, created, err := s.openRound(ctx, room, room.Config, latest, s.now())
	if err != nil {
		return nil, err
	}
	if created {
		s.announceOpened(ctx, room, next)
		return next, nil
	}
	return s.store.GetActiveRound(ctx, room.ID)
}

func (s *Service) latest(ctx context.Context, roomID string) (*store.Round, error) {
	r, err := s.store.GetLatestRound(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

// openRound inserts the round that follows prev. created is false when
// another caller already opened one; the partial unique index on unsettled
// rounds and the (room, day, seq) key make the insert a no-op then.
func (s *Service) openRound(ctx context.Context, room *store.Room, cfg game.RoomConfig, prev *store.Round, now time.Time) (*store.Round, bool, error) {
	day := s.day(now)
	r := &store.Round{
		RoomID:    room.ID,
		Day:       day,
		Seq:       nextSeq(prev, day, cfg.DailyReset),
		Config:    cfg,
		StartedAt: now,
		EndsAt:    now.Add(cfg.Timing().Total()),
	}
	if prev != nil {
		r.PoolCC = prev.Carry()
	}
	created, err := s.store.InsertRound(ctx, r)
	if err != nil {
		return nil, false, fmt.Errorf("open round for %s: %w", room.ID, err)
	}
	if created {
		metrics.RoundsOpened.WithLabelValues(string(room.Game)).Inc()
	}
	return r, created, nil
}

// nextSeq numbers rounds gaplessly per room and day. Daily-reset rooms
// restart at 1 on a new day; the others keep counting.
func nextSeq(prev *store.Round, day time.Time, dailyReset bool) int {
	if prev == nil {
		return 1
	}
	if dailyReset && !prev.Day.Equal(day) {
		return 1
	}
	return prev.Seq + 1
}

func (s *Service) announceOpened(ctx context.Context, room *store.Room, r *store.Round) {
	log.Info().Str("room_id", room.ID).Str("round_id", r.ID).Int("seq", r.Seq).
		Str("day", dayString(r.Day)).Int64("pool_cc", r.PoolCC).Msg("round opened")
	s.publish(ctx, events.New(events.RoundOpened, room.ID, r.ID, r.Seq, map[string]any{
		"day":            dayString(r.Day),
		"started_at":     r.StartedAt,
		"bet_seconds":    r.Config.BetSeconds,
		"reveal_seconds": r.Config.RevealSeconds,
		"pool_cc":        r.PoolCC,
	}))
}

// lock resolves the outcome and moves the round into REVEALING. The first
// stored outcome is kept, so a round is never re-rolled.
func (s *Service) lock(ctx context.Context, room *store.Room, r *store.Round) error {
	raw := r.Outcome
	if len(raw) == 0 {
		rules, err := s.rules(room.Game)
		if err != nil {
			return err
		}
		if raw, err = rules.Resolve(s.random); err != nil {
			return fmt.Errorf("resolve outcome for round %s: %w", r.ID, err)
		}
	}
	ok, err := s.store.LockRound(ctx, r.ID, raw)
	if err != nil {
		return fmt.Errorf("lock round %s: %w", r.ID, err)
	}
	if !ok {
		metrics.RacesLost.WithLabelValues("lock").Inc()
		log.Debug().Str("round_id", r.ID).Msg("lock already taken")
		return nil
	}
	locked, err := s.store.GetRound(ctx, r.ID)
	if err != nil {
		return err
	}
	log.Info().Str("room_id", room.ID).Str("round_id", r.ID).Int("seq", r.Seq).Msg("round locked")
	s.publish(ctx, events.New(events.RoundLocked, room.ID, r.ID, r.Seq, map[string]any{
		"outcome": locked.Outcome,
		"summary": s.summary(room.Game, locked.Outcome),
	}))
	return nil
}
