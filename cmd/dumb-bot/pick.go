package main

import "math/rand/v2"

type betInput struct {
	Kind     string `json:"kind"`
	Numbers  []int  `json:"numbers,omitempty"`
	AmountCC int64  `json:"amount_cc"`
}

var simpleBets = map[string][]string{
	"baccarat": {"PLAYER", "BANKER", "TIE"},
	"sicbo":    {"BIG", "SMALL", "ODD", "EVEN"},
	"roulette": {"RED", "BLACK", "ODD", "EVEN", "LOW", "HIGH"},
	"lottery":  {"SPECIAL_ODD", "SPECIAL_EVEN", "SPECIAL_BIG", "SPECIAL_SMALL"},
}

// pickBet returns a random legal bet for game, without an amount. One time
// in four it takes a numbered bet instead of an even-money one.
func pickBet(rnd *rand.Rand, game string) betInput {
	if rnd.IntN(4) == 0 {
		switch game {
		case "roulette":
			return betInput{Kind: "STRAIGHT", Numbers: []int{rnd.IntN(37)}}
		case "lottery":
			perm := rnd.Perm(49)[:6]
			nums := make([]int, len(perm))
			for i, p := range perm {
				nums[i] = p + 1
			}
			return betInput{Kind: "PICKS", Numbers: nums}
		case "sicbo":
			return betInput{Kind: "TOTAL", Numbers: []int{4 + rnd.IntN(14)}}
		}
	}
	kinds, ok := simpleBets[game]
	if !ok {
		kinds = simpleBets["baccarat"]
	}
	return betInput{Kind: kinds[rnd.IntN(len(kinds))]}
}
