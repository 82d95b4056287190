package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// SQLite-backed implementation of the PlaceCatalog port.
type SqlitePlaceCatalog struct{ DB *sql.DB }

func NewSqlitePlaceCatalog(db *sql.DB) *SqlitePlaceCatalog {
	return &SqlitePlaceCatalog{DB: db}
}

// Return the requested places keyed by id.
func (s *SqlitePlaceCatalog) GetPlaces(ctx context.Context, ids []string) (map[string]*domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite place catalog: DB is nil")
	}

	uniq, args, placeholders := inClause(ids)
	if len(uniq) == 0 {
		return map[string]*domain.Place{}, nil
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	query := fmt.Sprintf(`
	SELECT
		place_id,
		name,
		lon,
		lat,
		avg_duration_min,
		opens_at,
		closes_at,
		closed_days
	FROM places
	WHERE place_id IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get places: query places table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Place, len(uniq))
	for rows.Next() {
		var (
			p          domain.Place
			lon, lat   sql.NullFloat64
			closedDays string
		)
		if err := rows.Scan(&p.ID, &p.Name, &lon, &lat, &p.AvgDurationMin, &p.OpensAt, &p.ClosesAt, &closedDays); err != nil {
			return nil, fmt.Errorf("get places: scan row: %w", err)
		}
		if lon.Valid && lat.Valid {
			p.Coordinates = []float64{lon.Float64, lat.Float64}
		}
		if closedDays != "" {
			p.ClosedDays = strings.Split(closedDays, ",")
		}
		out[p.ID] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get places: row iteration: %w", err)
	}

	return out, nil
}

// Return closures on date for the requested places keyed by place id.
func (s *SqlitePlaceCatalog) GetClosures(ctx context.Context, placeIDs []string, date string) (map[string]*domain.Closure, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite place catalog: DB is nil")
	}

	uniq, args, placeholders := inClause(placeIDs)
	if len(uniq) == 0 {
		return map[string]*domain.Closure{}, nil
	}

	query := fmt.Sprintf(`
	SELECT
		place_id,
		closed_full_day,
		closed_ranges
	FROM closures
	WHERE date = ?
		AND place_id IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, query, append([]any{date}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("get closures: query closures table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Closure, len(uniq))
	for rows.Next() {
		c := domain.Closure{Date: date}
		var ranges string
		if err := rows.Scan(&c.PlaceID, &c.IsClosedFullDay, &ranges); err != nil {
			return nil, fmt.Errorf("get closures: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(ranges), &c.ClosedRanges); err != nil {
			return nil, fmt.Errorf("get closures: decode ranges for %q: %w", c.PlaceID, err)
		}
		out[c.PlaceID] = &c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get closures: row iteration: %w", err)
	}

	return out, nil
}

// SQLite does not support binding slices directly in an IN (...) clause.
func inClause(ids []string) ([]string, []any, string) {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	ph := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		args = append(args, id)
		ph = append(ph, "?")
	}
	return uniq, args, strings.Join(ph, ",")
}
