package rounds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/metrics"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

// settle runs the claim-and-complete protocol on r:
//
//  1. claim: open -> settling under a fresh token (or take over a claim
//     older than the lease);
//  2. resolve the outcome unless one is stored;
//  3. settle each pending bet, crediting its payout in the same transaction;
//  4. complete: settling -> settled for the token holder, and open the next
//     round in the same transaction.
//
// A failure after step 1 leaves the round settling; the next caller past
// the lease resumes it and the per-bet CAS keeps credits exactly-once.
func (s *Service) settle(ctx context.Context, room *store.Room, r *store.Round) (*SettleReport, error) {
	started := time.Now()
	kind := string(room.Game)
	rules, err := s.rules(room.Game)
	if err != nil {
		return nil, err
	}

	token := store.NewID()
	now := s.now()
	ok, err := s.store.ClaimRound(ctx, r.ID, token, now, now.Add(-s.lease))
	if err != nil {
		return nil, fmt.Errorf("claim round %s: %w", r.ID, err)
	}
	if !ok {
		metrics.RacesLost.WithLabelValues("claim").Inc()
		log.Debug().Str("round_id", r.ID).Msg("settlement claimed elsewhere")
		return nil, errRaceLost
	}
	resumed := r.Status == store.RoundSettling

	fail := func(step string, err error) error {
		metrics.SettlementErrors.WithLabelValues(kind).Inc()
		return fmt.Errorf("settle round %s: %s: %w", r.ID, step, err)
	}

	fresh, err := rules.Resolve(s.random)
	if err != nil {
		return nil, fail("resolve", err)
	}
	outcome, err := s.store.ResolveOutcome(ctx, r.ID, fresh)
	if err != nil {
		return nil, fail("store outcome", err)
	}

	pending, err := s.store.ListBets(ctx, store.BetFilter{RoundID: r.ID, Status: store.BetPending})
	if err != nil {
		return nil, fail("load bets", err)
	}
	var credited int64
	for i := range pending {
		b := &pending[i]
		res, err := rules.Settle(outcome, b.Spec(), b.AmountCC, r.Config.Odds)
		if err != nil {
			return nil, fail("price bet "+b.ID, err)
		}
		paid, err := s.settleBet(ctx, b, res, now)
		if err != nil {
			return nil, fail("settle bet "+b.ID, err)
		}
		credited += paid
	}

	var next *store.Round
	var opened bool
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		stakes, jackpot, err := s.store.RoundTotals(ctx, r.ID)
		if err != nil {
			return err
		}
		pool := r.PoolCC + r.Config.PoolContribution(stakes)
		done, err := s.store.CompleteRound(ctx, r.ID, token, pool, jackpot, now)
		if err != nil {
			return err
		}
		if !done {
			return errRaceLost
		}
		r.Status, r.Phase, r.Outcome = store.RoundSettled, game.PhaseSettled, outcome
		r.PoolCC, r.JackpotPaidCC, r.SettledAt = pool, jackpot, &now

		// Config and enabled flag are re-read so admin changes apply from
		// the very next round.
		current, err := s.store.GetRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if !current.Enabled {
			return nil
		}
		next, opened, err = s.openRound(ctx, current, current.Config, r, now)
		return err
	})
	if errors.Is(err, errRaceLost) {
		metrics.RacesLost.WithLabelValues("complete").Inc()
		log.Debug().Str("round_id", r.ID).Msg("settlement completed elsewhere")
		return nil, errRaceLost
	}
	if err != nil {
		return nil, fail("complete", err)
	}

	metrics.RoundsSettled.WithLabelValues(kind).Inc()
	metrics.PaidCC.WithLabelValues(kind).Add(float64(credited))
	metrics.SettlementSeconds.WithLabelValues(kind).Observe(time.Since(started).Seconds())

	report := &SettleReport{Round: s.view(room, r), Bets: len(pending), CreditedCC: credited}
	log.Info().Str("room_id", room.ID).Str("round_id", r.ID).Int("seq", r.Seq).
		Int("bets", len(pending)).Int64("credited_cc", credited).Int64("pool_cc", r.PoolCC).
		Bool("resumed", resumed).Str("outcome", report.Round.Summary).Msg("round settled")
	s.publish(ctx, events.New(events.RoundSettled, room.ID, r.ID, r.Seq, map[string]any{
		"outcome":         json.RawMessage(outcome),
		"summary":         report.Round.Summary,
		"bets":            len(pending),
		"credited_cc":     credited,
		"pool_cc":         r.PoolCC,
		"jackpot_paid_cc": r.JackpotPaidCC,
	}))
	if next != nil && opened {
		v := s.view(room, next)
		report.Next = &v
		s.announceOpened(ctx, room, next)
	}
	return report, nil
}

// settleBet records the bet's result and credits its payout atomically. A
// bet already settled by an earlier attempt credits nothing.
func (s *Service) settleBet(ctx context.Context, b *store.Bet, res game.Settlement, now time.Time) (int64, error) {
	var paid int64
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.store.SettleBet(ctx, b.ID, betStatus(res.Result), res.PayoutCC, res.Jackpot, now)
		if err != nil || !ok {
			return err
		}
		if res.PayoutCC > 0 {
			if _, err := s.ledger.CreditPayout(ctx, b.UserID, b.ID, res.PayoutCC); err != nil {
				return err
			}
		}
		paid = res.PayoutCC
		return nil
	})
	return paid, err
}

func betStatus(r game.Result) string {
	switch r {
	case game.ResultWon:
		return store.BetWon
	case game.ResultPush:
		return store.BetPush
	default:
		return store.BetLost
	}
}
