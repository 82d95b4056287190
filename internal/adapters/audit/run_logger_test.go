package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

func sampleRun() ports.RunMetadata {
	return ports.RunMetadata{
		RunID:        "run-1",
		Operation:    "schedule_day",
		Trigger:      "api",
		ItineraryID:  "it-1",
		DayNumber:    2,
		InputCount:   3,
		OutputCount:  3,
		Warnings:     []string{"ROUTE_FALLBACK"},
		PhaseTimings: map[string]time.Duration{"schedule": 12 * time.Millisecond},
		StartedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestZapRunLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rl := NewZapRunLogger(zap.New(core))

	rl.LogRun(context.Background(), sampleRun())

	failed := sampleRun()
	failed.Error = "boom"
	rl.LogRun(context.Background(), failed)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "run completed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "it-1", fields["itinerary_id"])
	assert.Equal(t, int64(2), fields["day_number"])
	assert.Contains(t, fields, "phase_schedule")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaRunLogger_Publishes(t *testing.T) {
	w := &fakeWriter{}
	rl := &KafkaRunLogger{writer: w, logger: zap.NewNop()}

	rl.LogRun(context.Background(), sampleRun())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("run-1"), w.msgs[0].Key)

	var evt RunEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &evt))
	assert.Equal(t, eventTypeRun, evt.Type)
	assert.Equal(t, eventSource, evt.Source)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "schedule_day", evt.Data.Operation)
	assert.Equal(t, 3, evt.Data.OutputCount)
	assert.Equal(t, 12*time.Millisecond, evt.Data.PhaseTimings["schedule"])
}

func TestKafkaRunLogger_FailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rl := &KafkaRunLogger{writer: &fakeWriter{err: errors.New("broker unreachable")}, logger: zap.New(core)}

	assert.NotPanics(t, func() { rl.LogRun(context.Background(), sampleRun()) })
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "publish run metadata", logs.All()[0].Message)
}

func TestNewKafkaRunLogger(t *testing.T) {
	rl := NewKafkaRunLogger([]string{"localhost:9092"}, "voya.schedule.runs", nil)

	w, ok := rl.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "voya.schedule.runs", w.Topic)
	assert.True(t, w.Async)
	require.NoError(t, rl.Close())
}
