// Package baccarat deals punto banco hands and prices bets on them.
package baccarat

import (
	"fmt"

	"roundhouse/internal/game"
)

const ShoeDecks = 8

type Side string

const (
	Player Side = "PLAYER"
	Banker Side = "BANKER"
	Tie    Side = "TIE"
)

// Bet kinds.
const (
	BetPlayer      = "PLAYER"
	BetBanker      = "BANKER"
	BetTie         = "TIE"
	BetPlayerPair  = "PLAYER_PAIR"
	BetBankerPair  = "BANKER_PAIR"
	BetAnyPair     = "ANY_PAIR"
	BetPerfectPair = "PERFECT_PAIR"
	BetSuperSix    = "SUPER_SIX"
)

// OddsBankerSix prices a BANKER bet when the banker wins on a total of six.
const OddsBankerSix = "BANKER_SIX"

func DefaultOdds() game.OddsTable {
	return game.MustOdds(map[string]string{
		BetPlayer:      "1",
		BetBanker:      "1",
		OddsBankerSix:  "0.5",
		BetTie:         "8",
		BetPlayerPair:  "11",
		BetBankerPair:  "11",
		BetAnyPair:     "5",
		BetPerfectPair: "25",
		BetSuperSix:    "12",
	})
}

type Outcome struct {
	Player      []Card `json:"player"`
	Banker      []Card `json:"banker"`
	PlayerTotal int    `json:"player_total"`
	BankerTotal int    `json:"banker_total"`
	Winner      Side   `json:"winner"`
	PlayerPair  bool   `json:"player_pair"`
	BankerPair  bool   `json:"banker_pair"`
	PerfectPair bool   `json:"perfect_pair"`
	BankerSix   bool   `json:"banker_six"`
}

func (o Outcome) Summary() string {
	return fmt.Sprintf("%s %d-%d", o.Winner, o.PlayerTotal, o.BankerTotal)
}

// Deal shuffles a fresh shoe and plays one coup.
func Deal(src game.RandomSource) Outcome {
	shoe := NewShoe(ShoeDecks)
	shoe.Shuffle(src)
	return Play(shoe)
}

// Play deals P, B, P, B from the shoe and applies the third-card table.
func Play(shoe *Shoe) Outcome {
	player := []Card{shoe.Deal()}
	banker := []Card{shoe.Deal()}
	player = append(player, shoe.Deal())
	banker = append(banker, shoe.Deal())

	pt, bt := total(player), total(banker)
	if pt < 8 && bt < 8 {
		playerThird := -1
		if pt <= 5 {
			c := shoe.Deal()
			player = append(player, c)
			playerThird = c.Value()
			pt = total(player)
		}
		if bankerDraws(bt, playerThird) {
			banker = append(banker, shoe.Deal())
			bt = total(banker)
		}
	}

	o := Outcome{
		Player:      player,
		Banker:      banker,
		PlayerTotal: pt,
		BankerTotal: bt,
		PlayerPair:  player[0].Rank == player[1].Rank,
		BankerPair:  banker[0].Rank == banker[1].Rank,
		PerfectPair: player[0] == player[1] || banker[0] == banker[1],
	}
	switch {
	case pt > bt:
		o.Winner = Player
	case bt > pt:
		o.Winner = Banker
		o.BankerSix = bt == 6
	default:
		o.Winner = Tie
	}
	return o
}

// bankerDraws applies the banker rule. playerThird is -1 when the player stood.
func bankerDraws(bankerTotal, playerThird int) bool {
	if playerThird < 0 {
		return bankerTotal <= 5
	}
	switch bankerTotal {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default:
		return false
	}
}

func total(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	return sum % 10
}

func Validate(bet game.BetSpec) error {
	switch bet.Kind {
	case BetPlayer, BetBanker, BetTie, BetPlayerPair, BetBankerPair, BetAnyPair, BetPerfectPair, BetSuperSix:
	default:
		return game.InvalidBet("unknown baccarat bet %q", bet.Kind)
	}
	if len(bet.Numbers) != 0 {
		return game.InvalidBet("%s takes no numbers", bet.Kind)
	}
	return nil
}

// Settle prices bet against o. A tie pushes PLAYER and BANKER bets, and a
// banker win on six pays BANKER bets at the BANKER_SIX odds.
func Settle(o Outcome, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error) {
	if err := Validate(bet); err != nil {
		return game.Settlement{}, err
	}
	switch bet.Kind {
	case BetPlayer:
		return sideBet(o, Player, amount, odds, BetPlayer)
	case BetBanker:
		key := BetBanker
		if o.BankerSix {
			key = OddsBankerSix
		}
		return sideBet(o, Banker, amount, odds, key)
	case BetTie:
		return winIf(o.Winner == Tie, odds, BetTie, amount)
	case BetPlayerPair:
		return winIf(o.PlayerPair, odds, BetPlayerPair, amount)
	case BetBankerPair:
		return winIf(o.BankerPair, odds, BetBankerPair, amount)
	case BetAnyPair:
		return winIf(o.PlayerPair || o.BankerPair, odds, BetAnyPair, amount)
	case BetPerfectPair:
		return winIf(o.PerfectPair, odds, BetPerfectPair, amount)
	default:
		return winIf(o.BankerSix, odds, BetSuperSix, amount)
	}
}

func sideBet(o Outcome, side Side, amount int64, odds game.OddsTable, key string) (game.Settlement, error) {
	switch o.Winner {
	case side:
		return game.Win(odds, key, amount)
	case Tie:
		return game.Push(amount), nil
	default:
		return game.Lost(), nil
	}
}

func winIf(won bool, odds game.OddsTable, key string, amount int64) (game.Settlement, error) {
	if !won {
		return game.Lost(), nil
	}
	return game.Win(odds, key, amount)
}
