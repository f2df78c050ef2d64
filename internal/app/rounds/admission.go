package rounds

import (
	"context"
	"strings"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/metrics"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

// PlaceBets admits every bet of req or none. The round, its phase and the
// wallet are re-checked inside the transaction, under a share lock that
// keeps the lock and settlement claims out until it commits.
func (s *Service) PlaceBets(ctx context.Context, req PlaceBetsRequest) (res *PlaceBetsResult, err error) {
	gameLabel := "unknown"
	defer func() {
		if err != nil {
			metrics.BetsRejected.WithLabelValues(gameLabel, Code(err)).Inc()
		}
	}()

	if req.RoundID == "" || req.UserID == "" {
		return nil, validationf("round_id and user_id are required")
	}
	if len(req.Bets) == 0 {
		return nil, validationf("no bets")
	}
	room, _, err := s.Advance(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	gameLabel = string(room.Game)
	rules, err := s.rules(room.Game)
	if err != nil {
		return nil, err
	}
	bets := make([]store.Bet, len(req.Bets))
	for i, in := range req.Bets {
		spec := game.BetSpec{Kind: strings.ToUpper(strings.TrimSpace(in.Kind)), Numbers: in.Numbers}
		if err := rules.ValidateBet(spec); err != nil {
			return nil, asValidation(err)
		}
		bets[i] = store.Bet{
			ID:       store.NewID(),
			RoundID:  req.RoundID,
			RoomID:   room.ID,
			UserID:   req.UserID,
			Kind:     spec.Kind,
			Numbers:  spec.Numbers,
			AmountCC: in.AmountCC,
		}
	}

	var round *store.Round
	res = &PlaceBetsResult{RoundID: req.RoundID}
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		round, err = s.store.GetRoundForShare(ctx, req.RoundID)
		if err != nil {
			return err
		}
		if round.RoomID != room.ID {
			return conflictf("round %s is not in room %s", round.ID, room.ID)
		}
		if round.Status != store.RoundOpen || round.Phase != game.PhaseBetting {
			return conflictf("betting closed for round %s", round.ID)
		}
		if phase, _ := game.Derive(s.now(), round.StartedAt, round.Config.Timing()); phase != game.PhaseBetting {
			return conflictf("betting closed for round %s", round.ID)
		}
		for i := range bets {
			if err := round.Config.CheckAmount(bets[i].AmountCC); err != nil {
				return asValidation(err)
			}
		}
		for i := range bets {
			bal, err := s.ledger.DebitBet(ctx, req.UserID, bets[i].ID, bets[i].AmountCC)
			if err != nil {
				return err
			}
			if err := s.store.InsertBet(ctx, &bets[i]); err != nil {
				return err
			}
			res.BalanceAfterCC = bal
			res.BetIDs = append(res.BetIDs, bets[i].ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var staked int64
	placed := make([]map[string]any, 0, len(bets))
	for _, b := range bets {
		staked += b.AmountCC
		placed = append(placed, map[string]any{"bet_id": b.ID, "kind": b.Kind, "numbers": b.Numbers, "amount_cc": b.AmountCC})
	}
	metrics.BetsAdmitted.WithLabelValues(gameLabel).Add(float64(len(bets)))
	metrics.StakedCC.WithLabelValues(gameLabel).Add(float64(staked))
	log.Info().Str("room_id", room.ID).Str("round_id", round.ID).Str("user_id", req.UserID).
		Int("bets", len(bets)).Int64("staked_cc", staked).Msg("bets admitted")
	s.publish(ctx, events.New(events.BetPlaced, room.ID, round.ID, round.Seq, map[string]any{
		"user_id": req.UserID,
		"bets":    placed,
	}))
	return res, nil
}
