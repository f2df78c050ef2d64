package game

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = errors.New("invalid_config")

// RoomConfig is the per-room configuration snapshotted into every round at
// creation, so changes only take effect on the next round.
type RoomConfig struct {
	BetSeconds    int             `json:"bet_seconds"`
	RevealSeconds int             `json:"reveal_seconds"`
	MinBetCC      int64           `json:"min_bet_cc"`
	MaxBetCC      int64           `json:"max_bet_cc"`
	DailyReset    bool            `json:"daily_reset"`
	PoolRate      decimal.Decimal `json:"pool_rate"`
	Odds          OddsTable       `json:"odds"`
}

func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		BetSeconds:    60,
		RevealSeconds: 15,
		MinBetCC:      1,
		MaxBetCC:      100000,
		PoolRate:      decimal.Zero,
		Odds:          OddsTable{},
	}
}

func (c RoomConfig) Timing() Timing {
	return Timing{BetSeconds: c.BetSeconds, RevealSeconds: c.RevealSeconds}
}

func (c RoomConfig) Validate() error {
	switch {
	case c.BetSeconds <= 0:
		return fmt.Errorf("%w: bet_seconds must be positive", ErrInvalidConfig)
	case c.RevealSeconds < 0:
		return fmt.Errorf("%w: reveal_seconds must not be negative", ErrInvalidConfig)
	case c.MinBetCC <= 0:
		return fmt.Errorf("%w: min_bet_cc must be positive", ErrInvalidConfig)
	case c.MaxBetCC < c.MinBetCC:
		return fmt.Errorf("%w: max_bet_cc below min_bet_cc", ErrInvalidConfig)
	case c.PoolRate.IsNegative() || c.PoolRate.GreaterThan(one):
		return fmt.Errorf("%w: pool_rate must be within [0, 1]", ErrInvalidConfig)
	}
	for k, v := range c.Odds {
		if v.IsNegative() {
			return fmt.Errorf("%w: odds %s negative", ErrInvalidConfig, k)
		}
	}
	return nil
}

// CheckAmount enforces the bet limits.
func (c RoomConfig) CheckAmount(amount int64) error {
	if amount < c.MinBetCC || amount > c.MaxBetCC {
		return InvalidBet("amount %d outside [%d, %d]", amount, c.MinBetCC, c.MaxBetCC)
	}
	return nil
}

// PoolContribution is floor(stakes * PoolRate).
func (c RoomConfig) PoolContribution(stakes int64) int64 {
	if c.PoolRate.IsZero() || stakes <= 0 {
		return 0
	}
	return decimal.NewFromInt(stakes).Mul(c.PoolRate).Floor().IntPart()
}
