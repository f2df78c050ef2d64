package rounds

import (
	"context"
	"errors"
	"fmt"

	"roundhouse/internal/config"
	"roundhouse/internal/game"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// StartRound opens a round in a room that has none active. betSeconds, when
// positive, overrides the betting window of this round only. It also works
// on a disabled room, which then runs that single round.
func (s *Service) StartRound(ctx context.Context, roomID string, betSeconds int) (*RoundView, error) {
	if betSeconds < 0 {
		return nil, validationf("duration_seconds must not be negative")
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetActiveRound(ctx, room.ID); err == nil {
		return nil, conflictf("room %s already has an active round", room.ID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	prev, err := s.latest(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	cfg := room.Config
	if betSeconds > 0 {
		cfg.BetSeconds = betSeconds
	}
	r, created, err := s.openRound(ctx, room, cfg, prev, s.now())
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, conflictf("room %s already has an active round", room.ID)
	}
	s.announceOpened(ctx, room, r)
	v := s.view(room, r)
	return &v, nil
}

// Settle settles the room's active round now, whatever the clock says. If
// another caller is already settling it, the round as it stands is returned.
func (s *Service) Settle(ctx context.Context, roomID string) (*SettleReport, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	r, err := s.store.GetActiveRound(ctx, room.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, conflictf("room %s has no active round", room.ID)
	}
	if err != nil {
		return nil, err
	}
	report, err := s.settle(ctx, room, r)
	if errors.Is(err, errRaceLost) {
		latest, err := s.store.GetRound(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return &SettleReport{Round: s.view(room, latest)}, nil
	}
	return report, err
}

// Configure applies upd to the room. Rounds snapshot the config when they
// open, so the change takes effect from the next round.
func (s *Service) Configure(ctx context.Context, roomID string, upd ConfigUpdate) (*store.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	cfg := room.Config
	if upd.BetSeconds != nil {
		cfg.BetSeconds = *upd.BetSeconds
	}
	if upd.RevealSeconds != nil {
		cfg.RevealSeconds = *upd.RevealSeconds
	}
	if upd.MinBetCC != nil {
		cfg.MinBetCC = *upd.MinBetCC
	}
	if upd.MaxBetCC != nil {
		cfg.MaxBetCC = *upd.MaxBetCC
	}
	if upd.DailyReset != nil {
		cfg.DailyReset = *upd.DailyReset
	}
	if upd.PoolRate != nil {
		cfg.PoolRate = *upd.PoolRate
	}
	cfg.Odds = cfg.Odds.Overlay(upd.Odds)
	cfg, err = s.catalog.Normalize(room.Game, cfg)
	if err != nil {
		return nil, asValidation(err)
	}
	updated, err := s.store.UpdateRoom(ctx, room.ID, store.RoomUpdate{Config: &cfg, Enabled: upd.Enabled})
	if err != nil {
		return nil, err
	}
	log.Info().Str("room_id", room.ID).Bool("enabled", updated.Enabled).Msg("room configured")
	return updated, nil
}

// SeedRooms inserts the configured rooms that do not exist yet. Existing
// rooms keep whatever admins changed.
func (s *Service) SeedRooms(ctx context.Context, seeds []config.RoomSeed) error {
	for _, seed := range seeds {
		room, err := s.roomFromSeed(seed)
		if err != nil {
			return fmt.Errorf("room %s: %w", seed.ID, err)
		}
		created, err := s.store.EnsureRoom(ctx, room)
		if err != nil {
			return fmt.Errorf("room %s: %w", seed.ID, err)
		}
		if created {
			log.Info().Str("room_id", room.ID).Str("game", string(room.Game)).Str("code", room.Code).Msg("room seeded")
		}
	}
	return nil
}

func (s *Service) roomFromSeed(seed config.RoomSeed) (store.Room, error) {
	kind, err := game.ParseKind(seed.Game)
	if err != nil {
		return store.Room{}, err
	}
	cfg := game.DefaultRoomConfig()
	if seed.BetSeconds > 0 {
		cfg.BetSeconds = seed.BetSeconds
	}
	if seed.RevealSeconds > 0 {
		cfg.RevealSeconds = seed.RevealSeconds
	}
	if seed.MinBetCC > 0 {
		cfg.MinBetCC = seed.MinBetCC
	}
	if seed.MaxBetCC > 0 {
		cfg.MaxBetCC = seed.MaxBetCC
	}
	cfg.DailyReset = seed.DailyReset
	if seed.PoolRate != "" {
		if cfg.PoolRate, err = decimal.NewFromString(seed.PoolRate); err != nil {
			return store.Room{}, fmt.Errorf("pool_rate: %w", err)
		}
	}
	if cfg.Odds, err = game.ParseOdds(seed.Odds); err != nil {
		return store.Room{}, err
	}
	if cfg, err = s.catalog.Normalize(kind, cfg); err != nil {
		return store.Room{}, err
	}
	return store.Room{
		ID:      seed.ID,
		Game:    kind,
		Code:    seed.Code,
		Name:    seed.Name,
		Enabled: seed.IsEnabled(),
		Config:  cfg,
	}, nil
}
