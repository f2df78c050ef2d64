// Package sicbo rolls three dice and prices bets on them.
package sicbo

import (
	"fmt"
	"strconv"

	"roundhouse/internal/game"
)

const (
	BetBig            = "BIG"
	BetSmall          = "SMALL"
	BetOdd            = "ODD"
	BetEven           = "EVEN"
	BetTotal          = "TOTAL"
	BetSingle         = "SINGLE"
	BetDouble         = "DOUBLE"
	BetAnyTriple      = "ANY_TRIPLE"
	BetSpecificTriple = "SPECIFIC_TRIPLE"
	BetCombo          = "COMBO"
)

func DefaultOdds() game.OddsTable {
	raw := map[string]string{
		BetBig:            "1",
		BetSmall:          "1",
		BetOdd:            "1",
		BetEven:           "1",
		BetDouble:         "10",
		BetAnyTriple:      "30",
		BetSpecificTriple: "180",
		BetCombo:          "5",
		"SINGLE_1":        "1",
		"SINGLE_2":        "2",
		"SINGLE_3":        "3",
	}
	totals := map[int]string{4: "50", 5: "18", 6: "14", 7: "12", 8: "8", 9: "6", 10: "6"}
	for n, odds := range totals {
		raw[totalKey(n)] = odds
		raw[totalKey(21-n)] = odds
	}
	return game.MustOdds(raw)
}

func totalKey(n int) string {
	return BetTotal + "_" + strconv.Itoa(n)
}

type Outcome struct {
	Dice   [3]int `json:"dice"`
	Total  int    `json:"total"`
	Triple bool   `json:"triple"`
}

func NewOutcome(a, b, c int) Outcome {
	return Outcome{
		Dice:   [3]int{a, b, c},
		Total:  a + b + c,
		Triple: a == b && b == c,
	}
}

func Roll(src game.RandomSource) Outcome {
	return NewOutcome(src.IntN(6)+1, src.IntN(6)+1, src.IntN(6)+1)
}

func (o Outcome) Summary() string {
	switch {
	case o.Triple:
		return fmt.Sprintf("%d-%d-%d TRIPLE", o.Dice[0], o.Dice[1], o.Dice[2])
	case o.Total >= 11:
		return fmt.Sprintf("%d-%d-%d %d BIG", o.Dice[0], o.Dice[1], o.Dice[2], o.Total)
	default:
		return fmt.Sprintf("%d-%d-%d %d SMALL", o.Dice[0], o.Dice[1], o.Dice[2], o.Total)
	}
}

func (o Outcome) count(face int) int {
	n := 0
	for _, d := range o.Dice {
		if d == face {
			n++
		}
	}
	return n
}

func Validate(bet game.BetSpec) error {
	switch bet.Kind {
	case BetBig, BetSmall, BetOdd, BetEven, BetAnyTriple:
		return wantNumbers(bet, 0)
	case BetTotal:
		if err := wantNumbers(bet, 1); err != nil {
			return err
		}
		if n := bet.Numbers[0]; n < 4 || n > 17 {
			return game.InvalidBet("total %d outside 4..17", n)
		}
	case BetSingle, BetDouble, BetSpecificTriple:
		if err := wantNumbers(bet, 1); err != nil {
			return err
		}
		return checkFace(bet.Numbers[0])
	case BetCombo:
		if err := wantNumbers(bet, 2); err != nil {
			return err
		}
		if err := checkFace(bet.Numbers[0]); err != nil {
			return err
		}
		if err := checkFace(bet.Numbers[1]); err != nil {
			return err
		}
		if bet.Numbers[0] == bet.Numbers[1] {
			return game.InvalidBet("combo faces must differ")
		}
	default:
		return game.InvalidBet("unknown sicbo bet %q", bet.Kind)
	}
	return nil
}

func wantNumbers(bet game.BetSpec, n int) error {
	if len(bet.Numbers) != n {
		return game.InvalidBet("%s takes %d numbers, got %d", bet.Kind, n, len(bet.Numbers))
	}
	return nil
}

func checkFace(f int) error {
	if f < 1 || f > 6 {
		return game.InvalidBet("die face %d outside 1..6", f)
	}
	return nil
}

// Settle prices bet against o. Triples lose every BIG, SMALL, ODD and EVEN bet.
func Settle(o Outcome, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error) {
	if err := Validate(bet); err != nil {
		return game.Settlement{}, err
	}
	var won bool
	key := bet.Kind
	switch bet.Kind {
	case BetBig:
		won = !o.Triple && o.Total >= 11
	case BetSmall:
		won = !o.Triple && o.Total <= 10
	case BetOdd:
		won = !o.Triple && o.Total%2 == 1
	case BetEven:
		won = !o.Triple && o.Total%2 == 0
	case BetTotal:
		won = o.Total == bet.Numbers[0]
		key = totalKey(bet.Numbers[0])
	case BetSingle:
		n := o.count(bet.Numbers[0])
		won = n > 0
		key = BetSingle + "_" + strconv.Itoa(n)
	case BetDouble:
		won = o.count(bet.Numbers[0]) >= 2
	case BetAnyTriple:
		won = o.Triple
	case BetSpecificTriple:
		won = o.Triple && o.Dice[0] == bet.Numbers[0]
	case BetCombo:
		won = o.count(bet.Numbers[0]) > 0 && o.count(bet.Numbers[1]) > 0
	}
	if !won {
		return game.Lost(), nil
	}
	return game.Win(odds, key, amount)
}
