// Package accounts opens user wallets and answers balance, ledger and
// reconciliation queries.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roundhouse/internal/ledger"
	"roundhouse/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store          *store.Store
	ledger         *ledger.Ledger
	openingDefault int64
}

func NewService(st *store.Store, led *ledger.Ledger, openingDefault int64) *Service {
	return &Service{store: st, ledger: led, openingDefault: openingDefault}
}

type CreateUserRequest struct {
	Name      string `json:"name"`
	OpeningCC *int64 `json:"opening_cc,omitempty"`
}

type UserResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	WalletCC  int64     `json:"wallet_cc"`
	BankCC    int64     `json:"bank_cc"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser opens a user with the requested opening balance, or the
// configured default when none is given.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	opening := s.openingDefault
	if req.OpeningCC != nil {
		opening = *req.OpeningCC
	}
	if opening < 0 {
		return nil, fmt.Errorf("%w: opening_cc must not be negative", ErrInvalidRequest)
	}
	u, err := s.ledger.OpenAccount(ctx, name, opening)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Int64("opening_cc", opening).Msg("user created")
	return &UserResponse{UserID: u.ID, Name: u.Name, WalletCC: opening, CreatedAt: u.CreatedAt}, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (*store.Balance, error) {
	return s.store.GetBalance(ctx, userID)
}

// Reconcile returns the report together with ledger.ErrInconsistentState
// when a balance disagrees with its entries.
func (s *Service) Reconcile(ctx context.Context, userID string) (*ledger.Report, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.Reconcile(ctx, userID)
}

type LedgerResponse struct {
	Items  []store.LedgerEntry `json:"items"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

func (s *Service) Ledger(ctx context.Context, f store.LedgerFilter) (*LedgerResponse, error) {
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidRequest)
	}
	items, err := s.store.ListLedgerEntries(ctx, f)
	if err != nil {
		return nil, err
	}
	return &LedgerResponse{Items: items, Limit: f.Limit, Offset: f.Offset}, nil
}
