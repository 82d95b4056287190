package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/api/dto"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

type PricingRecalculator interface {
	Recalculate(ctx context.Context, id string, override *float64) (*domain.PricingSnapshot, error)
}

type PricingHandler struct {
	Pricing PricingRecalculator
	Logger  *zap.Logger
}

// Recalculate reprices an itinerary and returns the stored snapshot.
// The body is optional and may carry a markup override.
func (h *PricingHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "itinerary id is required")
		return
	}

	var req dto.PricingRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	snap, err := h.Pricing.Recalculate(r.Context(), id, req.MarkupPercentage)
	if err != nil {
		writeServiceError(w, r, h.Logger, "recalculate pricing", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPricingResponse(snap))
}
