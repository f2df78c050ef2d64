package game

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	Baccarat Kind = "baccarat"
	SicBo    Kind = "sicbo"
	Roulette Kind = "roulette"
	Lottery  Kind = "lottery"
)

var (
	ErrUnknownGame = errors.New("unknown_game")
	ErrInvalidBet  = errors.New("invalid_bet")
	ErrMissingOdds = errors.New("missing_odds")
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Baccarat, SicBo, Roulette, Lottery:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
	}
}

// BetSpec is a bet kind plus its game-specific selection, e.g. a roulette
// STRAIGHT on [17] or a sic-bo COMBO on [2, 5].
type BetSpec struct {
	Kind    string `json:"kind"`
	Numbers []int  `json:"numbers,omitempty"`
}

func (b BetSpec) String() string {
	if len(b.Numbers) == 0 {
		return b.Kind
	}
	return fmt.Sprintf("%s%v", b.Kind, b.Numbers)
}

// InvalidBet wraps ErrInvalidBet with a reason.
func InvalidBet(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBet, fmt.Sprintf(format, args...))
}

type Result string

const (
	ResultWon  Result = "won"
	ResultPush Result = "push"
	ResultLost Result = "lost"
)

// Settlement is what one bet is worth once the outcome is known. PayoutCC is
// the total credit, stake included.
type Settlement struct {
	Result   Result
	PayoutCC int64
	Jackpot  bool
}

func Lost() Settlement {
	return Settlement{Result: ResultLost}
}

func Push(amount int64) Settlement {
	return Settlement{Result: ResultPush, PayoutCC: amount}
}

// Win credits amount at the odds stored under key.
func Win(odds OddsTable, key string, amount int64) (Settlement, error) {
	o, err := odds.Get(key)
	if err != nil {
		return Settlement{}, err
	}
	return Settlement{Result: ResultWon, PayoutCC: Credit(amount, o)}, nil
}
