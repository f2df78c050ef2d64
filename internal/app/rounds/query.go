package rounds

import (
	"context"

	"roundhouse/internal/game"
	"roundhouse/internal/store"
)

// State advances the room and reports the round as of now. The phase is
// recomputed on every call; a round already moved further by a lock or an
// early settlement reports the persisted phase instead.
func (s *Service) State(ctx context.Context, roomID string) (*RoomState, error) {
	room, round, err := s.Advance(ctx, roomID)
	if err != nil {
		return nil, err
	}
	st := &RoomState{
		RoomID:   room.ID,
		Game:     room.Game,
		Code:     room.Code,
		Enabled:  room.Enabled,
		MinBetCC: room.Config.MinBetCC,
		MaxBetCC: room.Config.MaxBetCC,
	}
	if round != nil {
		phase, left := s.phaseOf(round)
		started := round.StartedAt
		st.Phase, st.SecondsLeft = phase, left
		st.RoundID, st.Day, st.Seq, st.StartedAt = round.ID, dayString(round.Day), round.Seq, &started
		st.PoolCC = round.PoolCC
		st.MinBetCC, st.MaxBetCC = round.Config.MinBetCC, round.Config.MaxBetCC
		if phase != game.PhaseBetting && len(round.Outcome) > 0 {
			st.Outcome = round.Outcome
			st.Summary = s.summary(room.Game, round.Outcome)
		}
	}
	if st.RecentOutcomes, err = s.recentOutcomes(ctx, room); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) phaseOf(r *store.Round) (game.Phase, int) {
	if r.Status == store.RoundSettled {
		return game.PhaseSettled, 0
	}
	phase, left := game.Derive(s.now(), r.StartedAt, r.Config.Timing())
	if r.Phase.Rank() > phase.Rank() {
		return r.Phase, 0
	}
	if r.Status == store.RoundSettling && phase == game.PhaseBetting {
		return game.PhaseRevealing, 0
	}
	return phase, left
}

func (s *Service) recentOutcomes(ctx context.Context, room *store.Room) ([]OutcomeSummary, error) {
	rounds, err := s.store.ListSettledRounds(ctx, room.ID, s.recent, 0)
	if err != nil {
		return nil, err
	}
	out := make([]OutcomeSummary, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, OutcomeSummary{
			RoundID: r.ID,
			Day:     dayString(r.Day),
			Seq:     r.Seq,
			Summary: s.summary(room.Game, r.Outcome),
			Outcome: r.Outcome,
		})
	}
	return out, nil
}

// History lists the room's settled rounds, newest first.
func (s *Service) History(ctx context.Context, roomID string, limit, offset int) ([]RoundView, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.store.ListSettledRounds(ctx, room.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]RoundView, 0, len(rounds))
	for i := range rounds {
		out = append(out, s.view(room, &rounds[i]))
	}
	return out, nil
}

// Rooms lists enabled rooms, optionally of one game.
func (s *Service) Rooms(ctx context.Context, gameName string) ([]store.Room, error) {
	f := store.RoomFilter{EnabledOnly: true}
	if gameName != "" {
		kind, err := game.ParseKind(gameName)
		if err != nil {
			return nil, asValidation(err)
		}
		f.Game = kind
	}
	return s.store.ListRooms(ctx, f)
}

// Games lists the game kinds the engine can run.
func (s *Service) Games() []game.Kind {
	return s.catalog.Games()
}
