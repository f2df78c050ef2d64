package store

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func clampPage(limit, offset int) (uint64, uint64) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}

func jsonParam(v any) ([]byte, error) {
	return json.Marshal(v)
}

// nullableJSON keeps a missing document NULL instead of the JSON literal null.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
