package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// CreateUser inserts a user with empty wallet and bank accounts.
func (s *Store) CreateUser(ctx context.Context, name string) (*User, error) {
	u := &User{ID: NewID(), Name: name}
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.queryRow(ctx,
			psql.Insert("users").Columns("id", "name").Values(u.ID, u.Name).Suffix("RETURNING created_at"),
			&u.CreatedAt,
		); err != nil {
			return err
		}
		_, err := s.exec(ctx, psql.Insert("accounts").Columns("user_id").Values(u.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.queryRow(ctx,
		psql.Select("id", "name", "created_at").From("users").Where(sq.Eq{"id": id}),
		&u.ID, &u.Name, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	var b Balance
	err := s.queryRow(ctx,
		psql.Select("user_id", "wallet_cc", "bank_cc", "updated_at").From("accounts").Where(sq.Eq{"user_id": userID}),
		&b.UserID, &b.WalletCC, &b.BankCC, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Apply moves m.AmountCC (negative for debits) on one account and appends
// the matching ledger entry, both in one transaction. The update is
// conditional on the result staying non-negative, so concurrent debits
// cannot overdraw. Returns the balance after the move.
func (s *Store) Apply(ctx context.Context, m Movement) (int64, error) {
	if m.AmountCC == 0 {
		return 0, fmt.Errorf("apply %s: zero amount", m.Type)
	}
	if m.Account == "" {
		m.Account = AccountWallet
	}
	col := m.Account.column()
	var after int64
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		err := s.queryRow(ctx,
			psql.Update("accounts").
				Set(col, sq.Expr(col+" + ?", m.AmountCC)).
				Set("updated_at", sq.Expr("now()")).
				Where(sq.Eq{"user_id": m.UserID}).
				Where(col+" + ? >= 0", m.AmountCC).
				Suffix("RETURNING "+col),
			&after,
		)
		if errors.Is(err, ErrNotFound) {
			if _, getErr := s.GetBalance(ctx, m.UserID); getErr != nil {
				return getErr
			}
			return ErrInsufficientFunds
		}
		if err != nil {
			return err
		}
		_, err = s.exec(ctx, psql.Insert("ledger_entries").
			Columns("id", "user_id", "type", "account", "amount_cc", "balance_after_cc", "ref_type", "ref_id").
			Values(NewID(), m.UserID, m.Type, string(m.Account), m.AmountCC, after, m.RefType, m.RefID))
		return err
	})
	if err != nil {
		return 0, err
	}
	return after, nil
}

type UserFilter struct {
	Limit  int
	Offset int
}

func (s *Store) ListBalances(ctx context.Context, f UserFilter) ([]Balance, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	query, args, err := psql.Select("user_id", "wallet_cc", "bank_cc", "updated_at").
		From("accounts").OrderBy("updated_at DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Balance{}
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.UserID, &b.WalletCC, &b.BankCC, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
