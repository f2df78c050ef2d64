// Package roulette spins a single-zero wheel and prices bets on it.
package roulette

import (
	"fmt"

	"roundhouse/internal/game"
)

const (
	BetStraight = "STRAIGHT"
	BetRed      = "RED"
	BetBlack    = "BLACK"
	BetOdd      = "ODD"
	BetEven     = "EVEN"
	BetLow      = "LOW"
	BetHigh     = "HIGH"
	BetDozen    = "DOZEN"
	BetColumn   = "COLUMN"
)

const (
	Red   = "RED"
	Black = "BLACK"
	Green = "GREEN"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func DefaultOdds() game.OddsTable {
	return game.MustOdds(map[string]string{
		BetStraight: "35",
		BetRed:      "1",
		BetBlack:    "1",
		BetOdd:      "1",
		BetEven:     "1",
		BetLow:      "1",
		BetHigh:     "1",
		BetDozen:    "2",
		BetColumn:   "2",
	})
}

type Outcome struct {
	Number int    `json:"number"`
	Color  string `json:"color"`
}

func NewOutcome(n int) Outcome {
	return Outcome{Number: n, Color: ColorOf(n)}
}

func Spin(src game.RandomSource) Outcome {
	return NewOutcome(src.IntN(37))
}

func ColorOf(n int) string {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

func (o Outcome) Summary() string {
	return fmt.Sprintf("%d %s", o.Number, o.Color)
}

func Validate(bet game.BetSpec) error {
	switch bet.Kind {
	case BetRed, BetBlack, BetOdd, BetEven, BetLow, BetHigh:
		if len(bet.Numbers) != 0 {
			return game.InvalidBet("%s takes no numbers", bet.Kind)
		}
	case BetStraight:
		if len(bet.Numbers) != 1 || bet.Numbers[0] < 0 || bet.Numbers[0] > 36 {
			return game.InvalidBet("STRAIGHT takes one number in 0..36")
		}
	case BetDozen, BetColumn:
		if len(bet.Numbers) != 1 || bet.Numbers[0] < 1 || bet.Numbers[0] > 3 {
			return game.InvalidBet("%s takes one of 1, 2, 3", bet.Kind)
		}
	default:
		return game.InvalidBet("unknown roulette bet %q", bet.Kind)
	}
	return nil
}

// Settle prices bet against o. Zero only pays a STRAIGHT on zero.
func Settle(o Outcome, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error) {
	if err := Validate(bet); err != nil {
		return game.Settlement{}, err
	}
	n := o.Number
	var won bool
	switch bet.Kind {
	case BetStraight:
		won = n == bet.Numbers[0]
	case BetRed:
		won = o.Color == Red
	case BetBlack:
		won = o.Color == Black
	case BetOdd:
		won = n != 0 && n%2 == 1
	case BetEven:
		won = n != 0 && n%2 == 0
	case BetLow:
		won = n >= 1 && n <= 18
	case BetHigh:
		won = n >= 19
	case BetDozen:
		won = n != 0 && (n-1)/12+1 == bet.Numbers[0]
	case BetColumn:
		won = n != 0 && (n-1)%3+1 == bet.Numbers[0]
	}
	if !won {
		return game.Lost(), nil
	}
	return game.Win(odds, bet.Kind, amount)
}
