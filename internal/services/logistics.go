package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

// RouteEstimator is the terminal strategy of the chain. It must never fail.
type RouteEstimator interface {
	Estimate(origin, destination domain.Coordinates) domain.Route
}

// LogisticsResolver tries each routing provider in order and falls back to
// an estimate when all of them fail.
type LogisticsResolver struct {
	providers []ports.RouteProvider
	fallback  RouteEstimator
	logger    *zap.Logger
}

func NewLogisticsResolver(fallback RouteEstimator, logger *zap.Logger, providers ...ports.RouteProvider) *LogisticsResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogisticsResolver{
		providers: providers,
		fallback:  fallback,
		logger:    logger,
	}
}

// Resolve returns the route between two points. Invalid coordinates are the
// only error; provider failures are absorbed by the fallback.
func (r *LogisticsResolver) Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	if !origin.Valid() || !destination.Valid() {
		return domain.Route{}, fmt.Errorf("resolve route: %w", domain.ErrInvalidCoordinates)
	}

	if origin == destination {
		obs.Count(ctx, obs.M().RouteResolutions, "provider", string(domain.ProviderStatic))
		return domain.StaticRoute(), nil
	}

	var errs []error
	for _, p := range r.providers {
		route, err := p.Resolve(ctx, origin, destination)
		if err == nil {
			obs.Count(ctx, obs.M().RouteResolutions, "provider", string(route.Provider))
			return route, nil
		}
		if errors.Is(err, domain.ErrInvalidCoordinates) {
			return domain.Route{}, fmt.Errorf("resolve route: %w", err)
		}
		errs = append(errs, err)
		r.logger.Warn("route provider failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("origin", origin.Hash()),
			zap.String("destination", destination.Hash()),
			zap.Error(err),
		)
	}

	if r.fallback == nil {
		return domain.Route{}, fmt.Errorf("resolve route: no fallback configured: %w", errors.Join(append(errs, domain.ErrRouteProviderUnavailable)...))
	}

	route := r.fallback.Estimate(origin, destination)
	if len(errs) > 0 {
		route.FallbackReason = errors.Join(errs...).Error()
	}
	obs.Count(ctx, obs.M().RouteResolutions, "provider", string(route.Provider))

	return route, nil
}
