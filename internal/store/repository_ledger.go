package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type LedgerFilter struct {
	UserID  string
	RefType string
	RefID   string
	// RoundID keeps the entries of bets placed in that round.
	RoundID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter) ([]LedgerEntry, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	q := psql.Select("id", "user_id", "type", "account", "amount_cc", "balance_after_cc", "ref_type", "ref_id", "created_at").
		From("ledger_entries")
	if f.UserID != "" {
		q = q.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.RefType != "" {
		q = q.Where(sq.Eq{"ref_type": f.RefType})
	}
	if f.RefID != "" {
		q = q.Where(sq.Eq{"ref_id": f.RefID})
	}
	if f.RoundID != "" {
		q = q.Where(sq.Eq{"ref_type": "bet"}).
			Where(sq.Expr("ref_id IN (SELECT id FROM bets WHERE round_id = ?)", f.RoundID))
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.Lt{"created_at": *f.To})
	}
	query, args, err := q.OrderBy("created_at DESC", "id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		var account string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &account, &e.AmountCC, &e.BalanceAfterCC, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Account = Account(account)
		out = append(out, e)
	}
	return out, rows.Err()
}

// LedgerSums totals a user's ledger entries per account.
func (s *Store) LedgerSums(ctx context.Context, userID string) (map[Account]int64, error) {
	query, args, err := psql.Select("account", "COALESCE(SUM(amount_cc), 0)::BIGINT").
		From("ledger_entries").Where(sq.Eq{"user_id": userID}).GroupBy("account").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[Account]int64{AccountWallet: 0, AccountBank: 0}
	for rows.Next() {
		var account string
		var sum int64
		if err := rows.Scan(&account, &sum); err != nil {
			return nil, err
		}
		out[Account(account)] = sum
	}
	return out, rows.Err()
}

// CountLedgerEntries counts entries pointing at one reference.
func (s *Store) CountLedgerEntries(ctx context.Context, refType, refID string) (int, error) {
	var n int
	err := s.queryRow(ctx,
		psql.Select("COUNT(*)").From("ledger_entries").Where(sq.Eq{"ref_type": refType, "ref_id": refID}),
		&n,
	)
	return n, err
}
