package store

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var betColumns = []string{
	"id", "round_id", "room_id", "user_id", "kind", "numbers", "amount_cc", "payout_cc", "status", "jackpot", "created_at", "settled_at",
}

func scanBet(row pgx.Row) (*Bet, error) {
	var b Bet
	var numbers []byte
	err := row.Scan(&b.ID, &b.RoundID, &b.RoomID, &b.UserID, &b.Kind, &numbers, &b.AmountCC, &b.PayoutCC, &b.Status, &b.Jackpot, &b.CreatedAt, &b.SettledAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if len(numbers) > 0 {
		var nums []int
		if err := json.Unmarshal(numbers, &nums); err != nil {
			return nil, err
		}
		if len(nums) > 0 {
			b.Numbers = nums
		}
	}
	return &b, nil
}

func (s *Store) InsertBet(ctx context.Context, b *Bet) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	numbers := b.Numbers
	if numbers == nil {
		numbers = []int{}
	}
	raw, err := jsonParam(numbers)
	if err != nil {
		return err
	}
	b.Status = BetPending
	return s.queryRow(ctx, psql.Insert("bets").
		Columns("id", "round_id", "room_id", "user_id", "kind", "numbers", "amount_cc").
		Values(b.ID, b.RoundID, b.RoomID, b.UserID, b.Kind, raw, b.AmountCC).
		Suffix("RETURNING created_at"), &b.CreatedAt)
}

type BetFilter struct {
	RoundID string
	UserID  string
	Status  string
	Limit   int
	Offset  int
}

func (s *Store) ListBets(ctx context.Context, f BetFilter) ([]Bet, error) {
	q := psql.Select(betColumns...).From("bets")
	if f.RoundID != "" {
		q = q.Where(sq.Eq{"round_id": f.RoundID})
	}
	if f.UserID != "" {
		q = q.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": f.Status})
	}
	q = q.OrderBy("id")
	if f.Limit > 0 {
		l, o := clampPage(f.Limit, f.Offset)
		q = q.Limit(l).Offset(o)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Bet{}
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SettleBet records the result of a pending bet. False means it was
// already settled by someone else.
func (s *Store) SettleBet(ctx context.Context, id, status string, payoutCC int64, jackpot bool, now time.Time) (bool, error) {
	n, err := s.exec(ctx, psql.Update("bets").
		Set("status", status).
		Set("payout_cc", payoutCC).
		Set("jackpot", jackpot).
		Set("settled_at", now).
		Where(sq.Eq{"id": id, "status": BetPending}))
	return n == 1, err
}

// RoundTotals sums the stakes on a round and the payouts flagged as jackpot.
func (s *Store) RoundTotals(ctx context.Context, roundID string) (stakesCC, jackpotCC int64, err error) {
	err = s.queryRow(ctx, psql.Select(
		"COALESCE(SUM(amount_cc), 0)::BIGINT",
		"COALESCE(SUM(payout_cc) FILTER (WHERE jackpot), 0)::BIGINT",
	).From("bets").Where(sq.Eq{"round_id": roundID}), &stakesCC, &jackpotCC)
	return stakesCC, jackpotCC, err
}
