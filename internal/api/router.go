package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/api/handlers"
)

// Services the HTTP layer depends on.
type Deps struct {
	Scheduler handlers.Scheduler
	Pricing   handlers.PricingRecalculator
	Routes    handlers.RouteLookup
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	scheduleHandler := &handlers.ScheduleHandler{Scheduler: deps.Scheduler, Logger: logger}
	pricingHandler := &handlers.PricingHandler{Pricing: deps.Pricing, Logger: logger}
	routeHandler := &handlers.RouteHandler{Routes: deps.Routes, Logger: logger}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/v1/schedule/day", scheduleHandler.Day)
	mux.HandleFunc("/v1/schedule/days", scheduleHandler.Days)
	mux.HandleFunc("/v1/itineraries/{id}/pricing", pricingHandler.Recalculate)
	mux.HandleFunc("/v1/routes", routeHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux, logger))
}
