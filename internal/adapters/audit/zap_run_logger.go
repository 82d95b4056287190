package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

// ZapRunLogger writes run metadata as a structured log line.
type ZapRunLogger struct {
	logger *zap.Logger
}

func NewZapRunLogger(logger *zap.Logger) *ZapRunLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapRunLogger{logger: logger}
}

func (z *ZapRunLogger) LogRun(ctx context.Context, meta ports.RunMetadata) {
	fields := []zap.Field{
		zap.String("req_id", obs.RequestID(ctx)),
		zap.String("run_id", meta.RunID),
		zap.String("operation", meta.Operation),
		zap.String("trigger", meta.Trigger),
		zap.Int("input_count", meta.InputCount),
		zap.Int("output_count", meta.OutputCount),
		zap.Strings("warnings", meta.Warnings),
		zap.Time("started_at", meta.StartedAt),
	}
	if meta.ItineraryID != "" {
		fields = append(fields, zap.String("itinerary_id", meta.ItineraryID))
	}
	if meta.DayNumber != 0 {
		fields = append(fields, zap.Int("day_number", meta.DayNumber))
	}
	for phase, d := range meta.PhaseTimings {
		fields = append(fields, zap.Duration("phase_"+phase, d))
	}

	if meta.Error != "" {
		z.logger.Warn("run failed", append(fields, zap.String("error", meta.Error))...)
		return
	}
	z.logger.Info("run completed", fields...)
}
