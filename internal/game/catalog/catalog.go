// Package catalog exposes every game behind one Rules interface whose
// outcomes travel as JSON, the form the round store keeps them in.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"roundhouse/internal/game"
	"roundhouse/internal/game/baccarat"
	"roundhouse/internal/game/lottery"
	"roundhouse/internal/game/roulette"
	"roundhouse/internal/game/sicbo"
)

type Rules interface {
	Game() game.Kind
	DefaultOdds() game.OddsTable
	ValidateBet(bet game.BetSpec) error
	Resolve(src game.RandomSource) (json.RawMessage, error)
	Settle(outcome json.RawMessage, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error)
	Summary(outcome json.RawMessage) (string, error)
}

type rules[O interface{ Summary() string }] struct {
	kind     game.Kind
	defaults func() game.OddsTable
	validate func(game.BetSpec) error
	resolve  func(game.RandomSource) O
	settle   func(O, game.BetSpec, int64, game.OddsTable) (game.Settlement, error)
}

func (r rules[O]) Game() game.Kind                   { return r.kind }
func (r rules[O]) DefaultOdds() game.OddsTable       { return r.defaults() }
func (r rules[O]) ValidateBet(bet game.BetSpec) error { return r.validate(bet) }

func (r rules[O]) Resolve(src game.RandomSource) (json.RawMessage, error) {
	return json.Marshal(r.resolve(src))
}

func (r rules[O]) decode(raw json.RawMessage) (O, error) {
	var o O
	if len(raw) == 0 {
		return o, fmt.Errorf("%s: empty outcome", r.kind)
	}
	if err := json.Unmarshal(raw, &o); err != nil {
		return o, fmt.Errorf("%s: decode outcome: %w", r.kind, err)
	}
	return o, nil
}

func (r rules[O]) Settle(raw json.RawMessage, bet game.BetSpec, amount int64, odds game.OddsTable) (game.Settlement, error) {
	o, err := r.decode(raw)
	if err != nil {
		return game.Settlement{}, err
	}
	return r.settle(o, bet, amount, odds)
}

func (r rules[O]) Summary(raw json.RawMessage) (string, error) {
	o, err := r.decode(raw)
	if err != nil {
		return "", err
	}
	return o.Summary(), nil
}

type Catalog struct {
	rules map[game.Kind]Rules
}

// New registers the four built-in games.
func New() *Catalog {
	c := &Catalog{rules: make(map[game.Kind]Rules, 4)}
	c.Register(rules[baccarat.Outcome]{
		kind: game.Baccarat, defaults: baccarat.DefaultOdds, validate: baccarat.Validate,
		resolve: baccarat.Deal, settle: baccarat.Settle,
	})
	c.Register(rules[sicbo.Outcome]{
		kind: game.SicBo, defaults: sicbo.DefaultOdds, validate: sicbo.Validate,
		resolve: sicbo.Roll, settle: sicbo.Settle,
	})
	c.Register(rules[roulette.Outcome]{
		kind: game.Roulette, defaults: roulette.DefaultOdds, validate: roulette.Validate,
		resolve: roulette.Spin, settle: roulette.Settle,
	})
	c.Register(rules[lottery.Outcome]{
		kind: game.Lottery, defaults: lottery.DefaultOdds, validate: lottery.Validate,
		resolve: lottery.Draw, settle: lottery.Settle,
	})
	return c
}

func (c *Catalog) Register(r Rules) {
	c.rules[r.Game()] = r
}

func (c *Catalog) Get(kind game.Kind) (Rules, error) {
	r, ok := c.rules[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownGame, kind)
	}
	return r, nil
}

func (c *Catalog) Games() []game.Kind {
	out := make([]game.Kind, 0, len(c.rules))
	for k := range c.rules {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Normalize fills odds missing from cfg with the game defaults and rejects
// keys the game does not price.
func (c *Catalog) Normalize(kind game.Kind, cfg game.RoomConfig) (game.RoomConfig, error) {
	r, err := c.Get(kind)
	if err != nil {
		return cfg, err
	}
	defaults := r.DefaultOdds()
	for k := range cfg.Odds {
		if _, ok := defaults[k]; !ok {
			return cfg, fmt.Errorf("%w: %s does not price %q", game.ErrInvalidConfig, kind, k)
		}
	}
	cfg.Odds = defaults.Overlay(cfg.Odds)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
