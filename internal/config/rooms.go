package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type RoomSeed struct {
	ID            string            `yaml:"id"`
	Game          string            `yaml:"game"`
	Code          string            `yaml:"code"`
	Name          string            `yaml:"name"`
	Enabled       *bool             `yaml:"enabled"`
	BetSeconds    int               `yaml:"bet_seconds"`
	RevealSeconds int               `yaml:"reveal_seconds"`
	MinBetCC      int64             `yaml:"min_bet_cc"`
	MaxBetCC      int64             `yaml:"max_bet_cc"`
	DailyReset    bool              `yaml:"daily_reset"`
	PoolRate      string            `yaml:"pool_rate"`
	Odds          map[string]string `yaml:"odds"`
}

type roomsFile struct {
	Rooms []RoomSeed `yaml:"rooms"`
}

// IsEnabled defaults to true when the seed omits the flag.
func (r RoomSeed) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// LoadRooms reads the room catalogue. A missing file yields no seeds.
func LoadRooms(path string) ([]RoomSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return ParseRooms(raw)
}

func ParseRooms(raw []byte) ([]RoomSeed, error) {
	var f roomsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse rooms: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Rooms))
	for i := range f.Rooms {
		r := &f.Rooms[i]
		r.Game = strings.ToLower(strings.TrimSpace(r.Game))
		r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
		if r.Game == "" || r.Code == "" {
			return nil, fmt.Errorf("rooms[%d]: game and code are required", i)
		}
		if r.ID == "" {
			r.ID = r.Game + "-" + strings.ToLower(r.Code)
		}
		if r.Name == "" {
			r.Name = r.Game + " " + r.Code
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("rooms[%d]: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return f.Rooms, nil
}
