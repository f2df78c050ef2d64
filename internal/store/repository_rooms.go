package store

import (
	"context"
	"encoding/json"
	"strings"

	"roundhouse/internal/game"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var roomColumns = []string{"id", "game", "code", "name", "enabled", "config", "created_at", "updated_at"}

func scanRoom(row pgx.Row) (*Room, error) {
	var r Room
	var kind string
	var cfg []byte
	if err := row.Scan(&r.ID, &kind, &r.Code, &r.Name, &r.Enabled, &cfg, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	r.Game = game.Kind(kind)
	if err := json.Unmarshal(cfg, &r.Config); err != nil {
		return nil, err
	}
	return &r, nil
}

// EnsureRoom inserts r unless a room with the same id exists. Existing rows
// are left alone so admin changes survive restarts.
func (s *Store) EnsureRoom(ctx context.Context, r Room) (bool, error) {
	cfg, err := jsonParam(r.Config)
	if err != nil {
		return false, err
	}
	n, err := s.exec(ctx, psql.Insert("rooms").
		Columns("id", "game", "code", "name", "enabled", "config").
		Values(r.ID, string(r.Game), r.Code, r.Name, r.Enabled, cfg).
		Suffix("ON CONFLICT DO NOTHING"))
	return n == 1, err
}

func (s *Store) GetRoom(ctx context.Context, id string) (*Room, error) {
	query, args, err := psql.Select(roomColumns...).From("rooms").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRoom(s.conn(ctx).QueryRow(ctx, query, args...))
}

type RoomFilter struct {
	Game        game.Kind
	EnabledOnly bool
}

func (s *Store) ListRooms(ctx context.Context, f RoomFilter) ([]Room, error) {
	q := psql.Select(roomColumns...).From("rooms")
	if f.Game != "" {
		q = q.Where(sq.Eq{"game": string(f.Game)})
	}
	if f.EnabledOnly {
		q = q.Where(sq.Eq{"enabled": true})
	}
	query, args, err := q.OrderBy("game", "code").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type RoomUpdate struct {
	Config  *game.RoomConfig
	Enabled *bool
}

func (s *Store) UpdateRoom(ctx context.Context, id string, u RoomUpdate) (*Room, error) {
	q := psql.Update("rooms").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})
	if u.Config != nil {
		cfg, err := jsonParam(u.Config)
		if err != nil {
			return nil, err
		}
		q = q.Set("config", cfg)
	}
	if u.Enabled != nil {
		q = q.Set("enabled", *u.Enabled)
	}
	query, args, err := q.Suffix("RETURNING " + joinColumns(roomColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRoom(s.conn(ctx).QueryRow(ctx, query, args...))
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
