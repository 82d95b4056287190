package repositories

import (
	"context"
	"errors"
	"fmt"
)

// Reads the settings key/value table.
type PgSettingsStore struct{ DB PgxQuerier }

func NewPgSettingsStore(db PgxQuerier) *PgSettingsStore {
	return &PgSettingsStore{DB: db}
}

func (s *PgSettingsStore) All(ctx context.Context) (map[string]string, error) {
	if s.DB == nil {
		return nil, errors.New("pg settings store: DB is nil")
	}

	rows, err := s.DB.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("load settings: scan row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load settings: row iteration: %w", err)
	}

	return out, nil
}
