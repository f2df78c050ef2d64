package game

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// OddsTable maps a payout key to its net odds: 1 is even money, 0.5 pays
// half the stake on top of returning it.
type OddsTable map[string]decimal.Decimal

var one = decimal.NewFromInt(1)

// Credit is floor(amount * (1 + odds)).
func Credit(amount int64, odds decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(one.Add(odds)).Floor().IntPart()
}

func (t OddsTable) Get(key string) (decimal.Decimal, error) {
	v, ok := t[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingOdds, key)
	}
	return v, nil
}

func (t OddsTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t OddsTable) Clone() OddsTable {
	out := make(OddsTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Overlay returns a copy of t with every entry of over applied on top.
func (t OddsTable) Overlay(over OddsTable) OddsTable {
	out := t.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ParseOdds converts textual odds, as found in YAML or admin requests.
func ParseOdds(raw map[string]string) (OddsTable, error) {
	out := make(OddsTable, len(raw))
	for k, v := range raw {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("odds %s: %w", k, err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("odds %s: negative value %s", k, v)
		}
		out[k] = d
	}
	return out, nil
}

// MustOdds parses a package-level default table.
func MustOdds(raw map[string]string) OddsTable {
	t, err := ParseOdds(raw)
	if err != nil {
		panic(err)
	}
	return t
}
