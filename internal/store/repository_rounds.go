package store

import (
	"context"
	"encoding/json"
	"time"

	"roundhouse/internal/game"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var roundColumns = []string{
	"id", "room_id", "day", "seq", "phase", "status", "config", "started_at", "ends_at",
	"outcome", "pool_cc", "jackpot_paid_cc", "claim_token", "claimed_at", "settled_at", "created_at",
}

func scanRound(row pgx.Row) (*Round, error) {
	var r Round
	var phase string
	var cfg, outcome []byte
	var token *string
	err := row.Scan(&r.ID, &r.RoomID, &r.Day, &r.Seq, &phase, &r.Status, &cfg, &r.StartedAt, &r.EndsAt,
		&outcome, &r.PoolCC, &r.JackpotPaidCC, &token, &r.ClaimedAt, &r.SettledAt, &r.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	r.Phase = game.Phase(phase)
	if token != nil {
		r.ClaimToken = *token
	}
	if len(outcome) > 0 {
		r.Outcome = json.RawMessage(outcome)
	}
	if err := json.Unmarshal(cfg, &r.Config); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) getRound(ctx context.Context, q sq.SelectBuilder) (*Round, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return scanRound(s.conn(ctx).QueryRow(ctx, query, args...))
}

func (s *Store) listRounds(ctx context.Context, q sq.SelectBuilder) ([]Round, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// InsertRound creates r unless it would break a uniqueness rule: a second
// unsettled round for the room, or a reused (room, day, seq). It reports
// whether this call created the row.
func (s *Store) InsertRound(ctx context.Context, r *Round) (bool, error) {
	cfg, err := jsonParam(r.Config)
	if err != nil {
		return false, err
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.Phase == "" {
		r.Phase = game.PhaseBetting
	}
	if r.Status == "" {
		r.Status = RoundOpen
	}
	n, err := s.exec(ctx, psql.Insert("rounds").
		Columns("id", "room_id", "day", "seq", "phase", "status", "config", "started_at", "ends_at", "pool_cc").
		Values(r.ID, r.RoomID, r.Day, r.Seq, string(r.Phase), r.Status, cfg, r.StartedAt, r.EndsAt, r.PoolCC).
		Suffix("ON CONFLICT DO NOTHING"))
	return n == 1, err
}

func (s *Store) GetRound(ctx context.Context, id string) (*Round, error) {
	return s.getRound(ctx, psql.Select(roundColumns...).From("rounds").Where(sq.Eq{"id": id}))
}

// GetRoundForShare reads a round and holds a share lock until the
// transaction ends, so a settlement claim cannot slip in underneath.
func (s *Store) GetRoundForShare(ctx context.Context, id string) (*Round, error) {
	return s.getRound(ctx, psql.Select(roundColumns...).From("rounds").Where(sq.Eq{"id": id}).Suffix("FOR SHARE"))
}

// GetActiveRound returns the room's one round that is not settled.
func (s *Store) GetActiveRound(ctx context.Context, roomID string) (*Round, error) {
	return s.getRound(ctx, psql.Select(roundColumns...).From("rounds").
		Where(sq.Eq{"room_id": roomID}).Where(sq.NotEq{"status": RoundSettled}))
}

func (s *Store) GetLatestRound(ctx context.Context, roomID string) (*Round, error) {
	return s.getRound(ctx, psql.Select(roundColumns...).From("rounds").
		Where(sq.Eq{"room_id": roomID}).OrderBy("started_at DESC", "seq DESC").Limit(1))
}

// ListSettledRounds is the room's history, newest first.
func (s *Store) ListSettledRounds(ctx context.Context, roomID string, limit, offset int) ([]Round, error) {
	l, o := clampPage(limit, offset)
	return s.listRounds(ctx, psql.Select(roundColumns...).From("rounds").
		Where(sq.Eq{"room_id": roomID, "status": RoundSettled}).
		OrderBy("started_at DESC", "seq DESC").Limit(l).Offset(o))
}

// LockRound moves an open round from BETTING to REVEALING and records
// outcome unless one is already stored. False means another caller did it.
func (s *Store) LockRound(ctx context.Context, id string, outcome json.RawMessage) (bool, error) {
	n, err := s.exec(ctx, psql.Update("rounds").
		Set("phase", string(game.PhaseRevealing)).
		Set("outcome", sq.Expr("COALESCE(outcome, ?)", nullableJSON(outcome))).
		Where(sq.Eq{"id": id, "phase": string(game.PhaseBetting), "status": RoundOpen}))
	return n == 1, err
}

// ClaimRound marks a round as being settled by token. It succeeds on an
// open round, or on a settling round whose previous claim is older than
// staleBefore; for everyone else it returns false.
func (s *Store) ClaimRound(ctx context.Context, id, token string, now, staleBefore time.Time) (bool, error) {
	n, err := s.exec(ctx, psql.Update("rounds").
		Set("status", RoundSettling).
		Set("claim_token", token).
		Set("claimed_at", now).
		Where(sq.Eq{"id": id}).
		Where(sq.Or{
			sq.Eq{"status": RoundOpen},
			sq.And{sq.Eq{"status": RoundSettling}, sq.Lt{"claimed_at": staleBefore}},
		}))
	return n == 1, err
}

// ResolveOutcome stores outcome if the round has none yet and returns the
// outcome that is stored afterwards, which is the first one ever written.
func (s *Store) ResolveOutcome(ctx context.Context, id string, outcome json.RawMessage) (json.RawMessage, error) {
	var stored []byte
	err := s.queryRow(ctx, psql.Update("rounds").
		Set("outcome", sq.Expr("COALESCE(outcome, ?)", nullableJSON(outcome))).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING outcome"), &stored)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(stored), nil
}

// CompleteRound flips a settling round to settled, only for the holder of
// the current claim.
func (s *Store) CompleteRound(ctx context.Context, id, token string, poolCC, jackpotPaidCC int64, now time.Time) (bool, error) {
	n, err := s.exec(ctx, psql.Update("rounds").
		Set("status", RoundSettled).
		Set("phase", string(game.PhaseSettled)).
		Set("pool_cc", poolCC).
		Set("jackpot_paid_cc", jackpotPaidCC).
		Set("settled_at", now).
		Where(sq.Eq{"id": id, "status": RoundSettling, "claim_token": token}))
	return n == 1, err
}
