package ports

import "context"

// Key/value settings lookup (day_start_time, logic_timezone, ...).
type SettingsStore interface {
	All(ctx context.Context) (map[string]string, error)
}
