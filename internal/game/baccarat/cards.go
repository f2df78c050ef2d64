package baccarat

import "roundhouse/internal/game"

type Suit string

const (
	Spades   Suit = "s"
	Hearts   Suit = "h"
	Diamonds Suit = "d"
	Clubs    Suit = "c"
)

var suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

type Rank int

const (
	Ace   Rank = 1
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value is the baccarat point value: tens and faces count zero.
func (c Card) Value() int {
	if c.Rank >= Ten {
		return 0
	}
	return int(c.Rank)
}

func (c Card) String() string {
	r := map[Rank]string{Ace: "A", Ten: "T", Jack: "J", Queen: "Q", King: "K"}[c.Rank]
	if r == "" {
		r = string(rune('0' + c.Rank))
	}
	return r + string(c.Suit)
}

// Shoe is a multi-deck stack dealt from the top.
type Shoe struct {
	cards []Card
}

func NewShoe(decks int) *Shoe {
	if decks < 1 {
		decks = 1
	}
	cards := make([]Card, 0, 52*decks)
	for d := 0; d < decks; d++ {
		for _, s := range suits {
			for r := Ace; r <= King; r++ {
				cards = append(cards, Card{Rank: r, Suit: s})
			}
		}
	}
	return &Shoe{cards: cards}
}

// StackedShoe deals cards in the given order.
func StackedShoe(cards ...Card) *Shoe {
	return &Shoe{cards: append([]Card(nil), cards...)}
}

func (s *Shoe) Shuffle(src game.RandomSource) {
	game.Shuffle(src, len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

func (s *Shoe) Len() int {
	return len(s.cards)
}

func (s *Shoe) Deal() Card {
	c := s.cards[0]
	s.cards = s.cards[1:]
	return c
}
