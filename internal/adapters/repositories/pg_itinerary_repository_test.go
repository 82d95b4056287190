package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPgItineraryRepository_GetItinerary(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgItineraryRepository(mock)

	doc, err := json.Marshal(domain.Itinerary{
		Status:   "ignored",
		Pax:      domain.Pax{Adults: 2, Total: 2},
		Currency: "INR",
		Days:     []domain.ItineraryDay{{DayNumber: 1, Date: "2026-03-01"}},
	})
	require.NoError(t, err)

	pricing, err := json.Marshal(domain.PricingSnapshot{Subtotal: 3000, Total: 3600, CalculationVersion: 4})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT status, locked_at, document, pricing").
		WithArgs("it-1").
		WillReturnRows(pgxmock.NewRows([]string{"status", "locked_at", "document", "pricing"}).
			AddRow("draft", (*time.Time)(nil), doc, pricing))

	it, err := repo.GetItinerary(context.Background(), "it-1")
	require.NoError(t, err)

	assert.Equal(t, "it-1", it.ID)
	assert.Equal(t, "draft", it.Status)
	assert.Nil(t, it.LockedAt)
	assert.Equal(t, 2, it.Pax.Total)
	require.Len(t, it.Days, 1)
	require.NotNil(t, it.Pricing)
	assert.Equal(t, 4, it.PricingVersion())
	assert.False(t, it.Locked())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgItineraryRepository_GetItinerary_LockedColumnWins(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgItineraryRepository(mock)

	lockedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT status, locked_at, document, pricing").
		WithArgs("it-2").
		WillReturnRows(pgxmock.NewRows([]string{"status", "locked_at", "document", "pricing"}).
			AddRow("draft", &lockedAt, []byte(`{"id":"other","status":"draft"}`), []byte(nil)))

	it, err := repo.GetItinerary(context.Background(), "it-2")
	require.NoError(t, err)

	assert.Equal(t, "it-2", it.ID)
	require.NotNil(t, it.LockedAt)
	assert.True(t, it.Locked())
	assert.Nil(t, it.Pricing)
	assert.Equal(t, 0, it.PricingVersion())
}

func TestPgItineraryRepository_GetItinerary_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgItineraryRepository(mock)

	mock.ExpectQuery("SELECT status, locked_at, document, pricing").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetItinerary(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPgItineraryRepository_SavePricing(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "guard matched", affected: 1, want: true},
		{name: "locked or stale version", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewPgItineraryRepository(mock)

			snap := &domain.PricingSnapshot{Subtotal: 3000, Total: 3600, Currency: "INR", CalculationVersion: 3}

			mock.ExpectExec("UPDATE itineraries").
				WithArgs("it-1", pgxmock.AnyArg(), 3, 2).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := repo.SavePricing(context.Background(), "it-1", snap, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgItineraryRepository_SavePricing_ExecError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPgItineraryRepository(mock)

	mock.ExpectExec("UPDATE itineraries").
		WithArgs("it-1", pgxmock.AnyArg(), 1, 0).
		WillReturnError(errors.New("connection reset"))

	ok, err := repo.SavePricing(context.Background(), "it-1", &domain.PricingSnapshot{CalculationVersion: 1}, 0)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestPgSettingsStore_All(t *testing.T) {
	mock := newMockPool(t)
	store := NewPgSettingsStore(mock)

	mock.ExpectQuery("SELECT key, value FROM settings").
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}).
			AddRow("day_start_time", "08:30").
			AddRow("default_markup_percentage", "15"))

	got, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"day_start_time":            "08:30",
		"default_markup_percentage": "15",
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
