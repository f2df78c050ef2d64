package rounds

import (
	"encoding/json"
	"time"

	"roundhouse/internal/events"
	"roundhouse/internal/game"
	"roundhouse/internal/store"

	"github.com/shopspring/decimal"
)

type Options struct {
	// Location buckets rounds into calendar days.
	Location *time.Location
	// ClaimLease is how long a settlement claim blocks other settlers.
	ClaimLease     time.Duration
	RecentOutcomes int
	Random         game.RandomSource
	Now            func() time.Time
	Publisher      events.Publisher
}

type RoundView struct {
	ID            string          `json:"round_id"`
	RoomID        string          `json:"room_id"`
	Day           string          `json:"day"`
	Seq           int             `json:"seq"`
	Phase         game.Phase      `json:"phase"`
	Status        string          `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
	EndsAt        time.Time       `json:"ends_at"`
	Outcome       json.RawMessage `json:"outcome,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	PoolCC        int64           `json:"pool_cc"`
	JackpotPaidCC int64           `json:"jackpot_paid_cc"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}

type OutcomeSummary struct {
	RoundID string          `json:"round_id"`
	Day     string          `json:"day"`
	Seq     int             `json:"seq"`
	Summary string          `json:"summary"`
	Outcome json.RawMessage `json:"outcome"`
}

type RoomState struct {
	RoomID         string           `json:"room_id"`
	Game           game.Kind        `json:"game"`
	Code           string           `json:"code"`
	Enabled        bool             `json:"enabled"`
	Phase          game.Phase       `json:"phase,omitempty"`
	SecondsLeft    int              `json:"seconds_left"`
	RoundID        string           `json:"round_id,omitempty"`
	Day            string           `json:"day,omitempty"`
	Seq            int              `json:"seq,omitempty"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	PoolCC         int64            `json:"pool_cc"`
	MinBetCC       int64            `json:"min_bet_cc"`
	MaxBetCC       int64            `json:"max_bet_cc"`
	Outcome        json.RawMessage  `json:"resolved_outcome"`
	Summary        string           `json:"summary,omitempty"`
	RecentOutcomes []OutcomeSummary `json:"recent_outcomes"`
}

type BetInput struct {
	Kind     string `json:"kind"`
	Numbers  []int  `json:"numbers,omitempty"`
	AmountCC int64  `json:"amount_cc"`
}

type PlaceBetsRequest struct {
	RoomID  string     `json:"room_id"`
	RoundID string     `json:"round_id"`
	UserID  string     `json:"user_id"`
	Bets    []BetInput `json:"bets"`
}

type PlaceBetsResult struct {
	RoundID        string   `json:"round_id"`
	BetIDs         []string `json:"bet_ids"`
	BalanceAfterCC int64    `json:"balance_after_cc"`
}

// ConfigUpdate carries the fields an admin wants to change. Nil fields are
// left as they are; Odds entries are merged over the current table.
type ConfigUpdate struct {
	BetSeconds    *int             `json:"bet_seconds,omitempty"`
	RevealSeconds *int             `json:"reveal_seconds,omitempty"`
	MinBetCC      *int64           `json:"min_bet_cc,omitempty"`
	MaxBetCC      *int64           `json:"max_bet_cc,omitempty"`
	DailyReset    *bool            `json:"daily_reset,omitempty"`
	PoolRate      *decimal.Decimal `json:"pool_rate,omitempty"`
	Odds          game.OddsTable   `json:"odds,omitempty"`
	Enabled       *bool            `json:"enabled,omitempty"`
}

// SettleReport describes one completed settlement.
type SettleReport struct {
	Round      RoundView  `json:"round"`
	Bets       int        `json:"bets"`
	CreditedCC int64      `json:"credited_cc"`
	Next       *RoundView `json:"next_round,omitempty"`
}

func dayString(t time.Time) string {
	return t.Format(time.DateOnly)
}

func (s *Service) view(room *store.Room, r *store.Round) RoundView {
	v := RoundView{
		ID:            r.ID,
		RoomID:        r.RoomID,
		Day:           dayString(r.Day),
		Seq:           r.Seq,
		Phase:         r.Phase,
		Status:        r.Status,
		StartedAt:     r.StartedAt,
		EndsAt:        r.EndsAt,
		Outcome:       r.Outcome,
		PoolCC:        r.PoolCC,
		JackpotPaidCC: r.JackpotPaidCC,
		SettledAt:     r.SettledAt,
	}
	if len(r.Outcome) > 0 {
		v.Summary = s.summary(room.Game, r.Outcome)
	}
	return v
}
