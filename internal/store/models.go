package store

import (
	"encoding/json"
	"time"

	"roundhouse/internal/game"
)

type Account string

const (
	AccountWallet Account = "wallet"
	AccountBank   Account = "bank"
)

func (a Account) column() string {
	if a == AccountBank {
		return "bank_cc"
	}
	return "wallet_cc"
}

type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Balance struct {
	UserID    string    `json:"user_id"`
	WalletCC  int64     `json:"wallet_cc"`
	BankCC    int64     `json:"bank_cc"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LedgerEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Account        Account   `json:"account"`
	AmountCC       int64     `json:"amount_cc"`
	BalanceAfterCC int64     `json:"balance_after_cc"`
	RefType        string    `json:"ref_type"`
	RefID          string    `json:"ref_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Movement is one balance change together with what caused it.
type Movement struct {
	UserID   string
	Account  Account
	AmountCC int64
	Type     string
	RefType  string
	RefID    string
}

type Room struct {
	ID        string          `json:"id"`
	Game      game.Kind       `json:"game"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Enabled   bool            `json:"enabled"`
	Config    game.RoomConfig `json:"config"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	RoundOpen     = "open"
	RoundSettling = "settling"
	RoundSettled  = "settled"
)

type Round struct {
	ID            string
	RoomID        string
	Day           time.Time
	Seq           int
	Phase         game.Phase
	Status        string
	Config        game.RoomConfig
	StartedAt     time.Time
	EndsAt        time.Time
	Outcome       json.RawMessage
	PoolCC        int64
	JackpotPaidCC int64
	ClaimToken    string
	ClaimedAt     *time.Time
	SettledAt     *time.Time
	CreatedAt     time.Time
}

// Carry is the pool handed to the round that follows this one.
func (r *Round) Carry() int64 {
	if c := r.PoolCC - r.JackpotPaidCC; c > 0 {
		return c
	}
	return 0
}

const (
	BetPending = "pending"
	BetWon     = "won"
	BetPush    = "push"
	BetLost    = "lost"
)

type Bet struct {
	ID        string
	RoundID   string
	RoomID    string
	UserID    string
	Kind      string
	Numbers   []int
	AmountCC  int64
	PayoutCC  int64
	Status    string
	Jackpot   bool
	CreatedAt time.Time
	SettledAt *time.Time
}

func (b *Bet) Spec() game.BetSpec {
	return game.BetSpec{Kind: b.Kind, Numbers: b.Numbers}
}
