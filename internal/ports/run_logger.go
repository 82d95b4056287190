package ports

import (
	"context"
	"time"
)

// Metadata describing one scheduling or pricing run.
type RunMetadata struct {
	RunID        string                   `json:"runId"`
	Operation    string                   `json:"operation"`
	Trigger      string                   `json:"trigger"`
	ItineraryID  string                   `json:"itineraryId,omitempty"`
	DayNumber    int                      `json:"dayNumber,omitempty"`
	InputCount   int                      `json:"inputCount"`
	OutputCount  int                      `json:"outputCount"`
	Warnings     []string                 `json:"warnings,omitempty"`
	Error        string                   `json:"error,omitempty"`
	PhaseTimings map[string]time.Duration `json:"phaseTimings"`
	StartedAt    time.Time                `json:"startedAt"`
}

// Fire-and-forget audit sink. Implementations must not block on delivery
// and must never surface errors to the caller.
type RunLogger interface {
	LogRun(ctx context.Context, meta RunMetadata)
}
