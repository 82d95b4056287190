package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

// PricingService recalculates and persists itinerary pricing.
type PricingService struct {
	repo          ports.ItineraryRepository
	runs          ports.RunLogger
	defaultMarkup float64
	logger        *zap.Logger

	Now   func() time.Time
	NewID func() string
}

func NewPricingService(repo ports.ItineraryRepository, runs ports.RunLogger, defaultMarkup float64, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		repo:          repo,
		runs:          runs,
		defaultMarkup: defaultMarkup,
		logger:        logger,
		Now:           time.Now,
		NewID:         newRunID,
	}
}

// Recalculate prices the itinerary and stores the snapshot. The write only
// lands if the itinerary is still unlocked and nobody else bumped the version.
func (s *PricingService) Recalculate(ctx context.Context, id string, override *float64) (snap *domain.PricingSnapshot, err error) {
	defer obs.Time(ctx, s.logger, "services.Recalculate")(&err)

	started := s.Now()
	meta := ports.RunMetadata{
		RunID:        s.NewID(),
		Operation:    "price_itinerary",
		Trigger:      "api",
		ItineraryID:  id,
		PhaseTimings: map[string]time.Duration{},
		StartedAt:    started,
	}
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, domain.ErrItineraryLocked):
			outcome = "locked"
		case errors.Is(err, domain.ErrPricingConflict):
			outcome = "conflict"
		case err != nil:
			outcome = "error"
		}
		obs.Count(ctx, obs.M().PricingCalculations, "outcome", outcome)
		if err != nil {
			meta.Error = err.Error()
		}
		if snap != nil {
			meta.OutputCount = len(snap.Breakdown.ByDay)
		}
		logRun(ctx, s.runs, meta)
	}()

	it, err := s.repo.GetItinerary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recalculate pricing: %w", err)
	}
	meta.InputCount = len(it.Days)
	meta.PhaseTimings["load"] = s.Now().Sub(started)

	computeStart := s.Now()
	snap, err = PriceItinerary(it, override, s.defaultMarkup, s.Now())
	if err != nil {
		return nil, fmt.Errorf("recalculate pricing: %w", err)
	}
	meta.PhaseTimings["compute"] = s.Now().Sub(computeStart)

	saveStart := s.Now()
	ok, err := s.repo.SavePricing(ctx, id, snap, it.PricingVersion())
	if err != nil {
		return nil, fmt.Errorf("recalculate pricing: save: %w", err)
	}
	meta.PhaseTimings["save"] = s.Now().Sub(saveStart)

	if !ok {
		current, err := s.repo.GetItinerary(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recalculate pricing: reload after rejected save: %w", err)
		}
		if current.Locked() {
			return nil, fmt.Errorf("recalculate pricing %q: %w", id, domain.ErrItineraryLocked)
		}
		return nil, fmt.Errorf("recalculate pricing %q: expected version %d, found %d: %w",
			id, it.PricingVersion(), current.PricingVersion(), domain.ErrPricingConflict)
	}

	return snap, nil
}
