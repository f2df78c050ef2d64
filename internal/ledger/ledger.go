package ledger

import (
	"context"
	"errors"
	"fmt"

	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	TypeOpening   = "OPENING"
	TypeBetPlaced = "BET_PLACED"
	TypePayout    = "PAYOUT"

	RefBet  = "bet"
	RefUser = "user"
)

// ErrInconsistentState means a balance no longer equals the sum of its
// ledger entries. It is never corrected automatically.
var ErrInconsistentState = errors.New("inconsistent_state")

type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

func (l *Ledger) DebitBet(ctx context.Context, userID, betID string, amount int64) (int64, error) {
	return l.Store.Apply(ctx, store.Movement{
		UserID: userID, Account: store.AccountWallet, AmountCC: -amount,
		Type: TypeBetPlaced, RefType: RefBet, RefID: betID,
	})
}

func (l *Ledger) CreditPayout(ctx context.Context, userID, betID string, amount int64) (int64, error) {
	return l.Store.Apply(ctx, store.Movement{
		UserID: userID, Account: store.AccountWallet, AmountCC: amount,
		Type: TypePayout, RefType: RefBet, RefID: betID,
	})
}

// OpenAccount creates a user and books the opening wallet balance.
func (l *Ledger) OpenAccount(ctx context.Context, name string, openingCC int64) (*store.User, error) {
	if openingCC < 0 {
		return nil, fmt.Errorf("opening balance %d is negative", openingCC)
	}
	var user *store.User
	err := l.Store.WithinTx(ctx, func(ctx context.Context) error {
		u, err := l.Store.CreateUser(ctx, name)
		if err != nil {
			return err
		}
		user = u
		if openingCC == 0 {
			return nil
		}
		_, err = l.Store.Apply(ctx, store.Movement{
			UserID: u.ID, Account: store.AccountWallet, AmountCC: openingCC,
			Type: TypeOpening, RefType: RefUser, RefID: u.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

type AccountCheck struct {
	Account   store.Account `json:"account"`
	BalanceCC int64         `json:"balance_cc"`
	LedgerCC  int64         `json:"ledger_cc"`
}

type Report struct {
	UserID     string         `json:"user_id"`
	Consistent bool           `json:"consistent"`
	Accounts   []AccountCheck `json:"accounts"`
}

// Reconcile compares each balance with the sum of its ledger entries. On a
// mismatch it returns the report together with ErrInconsistentState.
func (l *Ledger) Reconcile(ctx context.Context, userID string) (*Report, error) {
	rep := &Report{UserID: userID, Consistent: true}
	err := l.Store.WithinTx(ctx, func(ctx context.Context) error {
		bal, err := l.Store.GetBalance(ctx, userID)
		if err != nil {
			return err
		}
		sums, err := l.Store.LedgerSums(ctx, userID)
		if err != nil {
			return err
		}
		rep.Accounts = []AccountCheck{
			{Account: store.AccountWallet, BalanceCC: bal.WalletCC, LedgerCC: sums[store.AccountWallet]},
			{Account: store.AccountBank, BalanceCC: bal.BankCC, LedgerCC: sums[store.AccountBank]},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, a := range rep.Accounts {
		if a.BalanceCC != a.LedgerCC {
			rep.Consistent = false
			log.Error().Str("user_id", userID).Str("account", string(a.Account)).
				Int64("balance_cc", a.BalanceCC).Int64("ledger_cc", a.LedgerCC).Msg("ledger reconciliation mismatch")
		}
	}
	if !rep.Consistent {
		return rep, fmt.Errorf("%w: user %s", ErrInconsistentState, userID)
	}
	return rep, nil
}
