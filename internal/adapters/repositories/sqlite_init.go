package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/timeofday"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		place_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lon REAL,
		lat REAL,
		avg_duration_min REAL NOT NULL DEFAULT 0,
		opens_at TEXT NOT NULL,
		closes_at TEXT NOT NULL,
		closed_days TEXT NOT NULL DEFAULT ''
	);
	`

	createClosuresQuery := `
	CREATE TABLE IF NOT EXISTS closures (
		place_id TEXT NOT NULL,
		date TEXT NOT NULL,
		closed_full_day INTEGER NOT NULL DEFAULT 0,
		closed_ranges TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (place_id, date)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        origin_hash TEXT NOT NULL,
        destination_hash TEXT NOT NULL,
        distance_km REAL NOT NULL,
        travel_time_min INTEGER NOT NULL,
        provider TEXT NOT NULL,
        fallback_reason TEXT NOT NULL DEFAULT '',
        computed_at_ms INTEGER NOT NULL,
        expires_at_ms INTEGER NOT NULL,
        PRIMARY KEY (origin_hash, destination_hash)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_closures_date
    ON closures(date, place_id);
	`

	statements := []string{
		createPlacesQuery,
		createClosuresQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	// Catalogs created before route_cache carried a fallback reason.
	if err := addColumnIfMissing(tx, "route_cache", "fallback_reason", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func addColumnIfMissing(tx *sql.Tx, table, column, decl string) error {
	rows, err := tx.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	rows.Close()

	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

type CatalogSeed struct {
	Places   []domain.Place   `json:"places"`
	Closures []domain.Closure `json:"closures"`
}

// Populate the catalog with places and closures from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed catalog: read %q: %w", jsonPath, err)
	}

	var data CatalogSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed catalog: parse json: %w", err)
	}

	return Seed(db, data)
}

// Seed validates and upserts catalog rows in a single transaction.
func Seed(db *sql.DB, data CatalogSeed) error {
	for i, p := range data.Places {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("seed catalog: place at index %d: id cannot be empty", i+1)
		}
		if p.HasCoordinates() {
			if _, err := p.Location(); err != nil {
				return fmt.Errorf("seed catalog: place %q: %w", p.ID, err)
			}
		}
	}
	for i, c := range data.Closures {
		if strings.TrimSpace(c.PlaceID) == "" {
			return fmt.Errorf("seed catalog: closure at index %d: place id cannot be empty", i+1)
		}
		if _, _, err := timeofday.ParseDate(c.Date); err != nil {
			return fmt.Errorf("seed catalog: closure for %q: %w", c.PlaceID, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer tx.Rollback()

	placeStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO places (
		place_id,
		name,
		lon,
		lat,
		avg_duration_min,
		opens_at,
		closes_at,
		closed_days
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare place insert: %w", err)
	}
	defer placeStmt.Close()

	for _, p := range data.Places {
		var lon, lat sql.NullFloat64
		if p.HasCoordinates() {
			lon = sql.NullFloat64{Float64: p.Coordinates[0], Valid: true}
			lat = sql.NullFloat64{Float64: p.Coordinates[1], Valid: true}
		}

		closedDays := make([]string, 0, len(p.ClosedDays))
		for _, d := range p.ClosedDays {
			closedDays = append(closedDays, strings.ToUpper(strings.TrimSpace(d)))
		}

		if _, err := placeStmt.Exec(p.ID, p.Name, lon, lat, p.AvgDurationMin, p.OpensAt, p.ClosesAt, strings.Join(closedDays, ",")); err != nil {
			return fmt.Errorf("seed catalog: insert place_id=%s: %w", p.ID, err)
		}
	}

	closureStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO closures (
		place_id,
		date,
		closed_full_day,
		closed_ranges
	)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare closure insert: %w", err)
	}
	defer closureStmt.Close()

	for _, c := range data.Closures {
		ranges, err := json.Marshal(c.ClosedRanges)
		if err != nil {
			return fmt.Errorf("seed catalog: encode closure ranges for %q: %w", c.PlaceID, err)
		}
		if _, err := closureStmt.Exec(c.PlaceID, c.Date, c.IsClosedFullDay, string(ranges)); err != nil {
			return fmt.Errorf("seed catalog: insert closure place_id=%s date=%s: %w", c.PlaceID, c.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
