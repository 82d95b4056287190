package dto

import (
	"time"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

type PricingRequest struct {
	MarkupPercentage *float64 `json:"markup_percentage"`
}

type MarkupResponse struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	IsCustom   bool    `json:"is_custom"`
}

type DayPricingResponse struct {
	DayNumber  int                `json:"day_number"`
	Date       string             `json:"date,omitempty"`
	Total      float64            `json:"total"`
	Categories map[string]float64 `json:"categories"`
}

type PricingResponse struct {
	Subtotal           float64              `json:"subtotal"`
	Markup             MarkupResponse       `json:"markup"`
	Total              float64              `json:"total"`
	Currency           string               `json:"currency"`
	CalculationVersion int                  `json:"calculation_version"`
	CalculatedAt       time.Time            `json:"calculated_at"`
	ByDay              []DayPricingResponse `json:"by_day"`
	ByCategory         map[string]float64   `json:"by_category"`
}

func categoryMap(m map[domain.Category]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func NewPricingResponse(s *domain.PricingSnapshot) PricingResponse {
	res := PricingResponse{
		Subtotal: s.Subtotal,
		Markup: MarkupResponse{
			Percentage: s.Markup.Percentage,
			Amount:     s.Markup.Amount,
			IsCustom:   s.Markup.IsCustom,
		},
		Total:              s.Total,
		Currency:           s.Currency,
		CalculationVersion: s.CalculationVersion,
		CalculatedAt:       s.CalculatedAt,
		ByDay:              make([]DayPricingResponse, 0, len(s.Breakdown.ByDay)),
		ByCategory:         categoryMap(s.Breakdown.ByCategory),
	}
	for _, d := range s.Breakdown.ByDay {
		res.ByDay = append(res.ByDay, DayPricingResponse{
			DayNumber:  d.DayNumber,
			Date:       d.Date,
			Total:      d.Total,
			Categories: categoryMap(d.Categories),
		})
	}
	return res
}
