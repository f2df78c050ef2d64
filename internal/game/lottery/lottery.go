// Package lottery draws 6 numbers plus a special from 1..49.
package lottery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"roundhouse/internal/game"
)

const (
	MaxNumber = 49
	PickCount = 6
)

const (
	BetPicks        = "PICKS"
	BetSpecial      = "SPECIAL"
	BetSpecialOdd   = "SPECIAL_ODD"
	BetSpecialEven  = "SPECIAL_EVEN"
	BetSpecialBig   = "SPECIAL_BIG"
	BetSpecialSmall = "SPECIAL_SMALL"
)

// OddsJackpot prices a PICKS bet that matches every drawn number.
const OddsJackpot = "PICKS_6"

const bigFrom = 25

func DefaultOdds() game.OddsTable {
	return game.MustOdds(map[string]string{
		"PICKS_3":       "5",
		"PICKS_4":       "50",
		"PICKS_5":       "1000",
		OddsJackpot:     "50000",
		BetSpecial:      "40",
		BetSpecialOdd:   "0.95",
		BetSpecialEven:  "0.95",
		BetSpecialBig:   "0.95",
		BetSpecialSmall: "0.95",
	})
}

type Outcome struct {
	Numbers []int `json:"numbers"`
	Special int   `json:"special"`
}

// Draw takes seven distinct numbers: six sorted winners and the special.
func Draw(src game.RandomSource) Outcome {
	drawn := game.SampleDistinct(src, PickCount+1, 1, MaxNumber)
	nums := append([]int(nil), drawn[:PickCount]...)
	sort.Ints(nums)
	return Outcome{Numbers: nums, Special: drawn[PickCount]}
}

func (o Outcome) Summary() string {
	parts := make([]string, 0, len(o.Numbers))
	for _, n := range o.Numbers {
		parts = append(parts, fmt.Sprintf("%02d", n))
	}
	return fmt.Sprintf("%s + %02d", strings.Join(parts, " "), o.Special)
}

func (o Outcome) matches(picks []int) int {
	drawn := make(map[int]bool, len(o.Numbers))
	for _, n := range o.Numbers {
		drawn[n] = true
	}
	m := 0
	for _, p := range picks {
		if drawn[p] {
			m++
		}
	}
	return m
}

func Validate(bet game.BetSpec) error {
	switch bet.Kind {
	case BetPicks:
		if len(bet.Numbers) != PickCount {
			return game.InvalidBet("PICKS takes %d numbers, got %d", PickCount, len(bet.Numbers))
		}
		seen := make(map[int]bool, PickCount)
		for _, n := range bet.Numbers {
			if err := checkNumber(n); err != nil {
				return err
			}
			if seen[n] {
				return game.InvalidBet("duplicate pick %d", n)
			}
			seen[n] = true
		}
	case BetSpecial:
		if len(bet.Numbers) != 1 {
			return game.InvalidBet("SPECIAL takes one number")
		}
		return checkNumber(bet.Numbers[0])
	case BetSpecialOdd, BetSpecialEven, BetSpecialBig, BetSpecialSmall:
		if len(bet.Numbers) != 0 {
			return game.InvalidBet("%s takes no numbers", bet.Kind)
		}
	default:
		return game.InvalidBet("unknown lottery bet %q", bet.Kind)
	}
	return nil
}

func checkNumber(n int) error {
	if n < 1 || n > MaxNumber {
		return game.InvalidBet("number %d outside 1..%d", n, MaxNumber)
	}
	return nil
}

// Settle prices bet against o. PICKS pays by match count from three up; a
// full match is flagged as a jackpot so the round can charge it to the pool.
func Settle(o Outcome, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error) {
	if err := Validate(bet); err != nil {
		return game.Settlement{}, err
	}
	var won bool
	switch bet.Kind {
	case BetPicks:
		m := o.matches(bet.Numbers)
		if m < 3 {
			return game.Lost(), nil
		}
		s, err := game.Win(odds, BetPicks+"_"+strconv.Itoa(m), amount)
		s.Jackpot = m == PickCount
		return s, err
	case BetSpecial:
		won = o.Special == bet.Numbers[0]
	case BetSpecialOdd:
		won = o.Special%2 == 1
	case BetSpecialEven:
		won = o.Special%2 == 0
	case BetSpecialBig:
		won = o.Special >= bigFrom
	case BetSpecialSmall:
		won = o.Special < bigFrom
	}
	if !won {
		return game.Lost(), nil
	}
	return game.Win(odds, bet.Kind, amount)
}
