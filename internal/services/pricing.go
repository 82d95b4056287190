package services

import (
	"fmt"
	"math"
	"time"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

const (
	DefaultMarkupPercentage = 20.0
	DefaultCurrency         = "INR"
)

// Multipliers for cost-typed line items.
type PriceParams struct {
	TotalPax int
	Nights   int
	Rooms    int
}

// Rounded totals for one day.
type DayPricing struct {
	DayNumber  int
	Date       string
	Total      float64
	Categories map[domain.Category]float64
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (p PriceParams) normalized() PriceParams {
	return PriceParams{
		TotalPax: max(1, p.TotalPax),
		Nights:   max(1, p.Nights),
		Rooms:    max(1, p.Rooms),
	}
}

// LineItemCost applies the cost-type formula. Unknown types cost nothing.
func LineItemCost(item domain.LineItem, params PriceParams) float64 {
	switch item.CostType {
	case domain.CostPerPerson:
		return item.BaseCost * float64(params.TotalPax)
	case domain.CostPerNight:
		return item.BaseCost * float64(params.Nights) * float64(params.Rooms)
	case domain.CostPerVehicle:
		trips := item.TripCount
		if trips < 1 {
			trips = 1
		}
		return item.BaseCost * float64(trips)
	case domain.CostFlat:
		return item.BaseCost
	default:
		return 0
	}
}

func dayItems(day domain.ItineraryDay) map[domain.Category][]domain.LineItem {
	items := map[domain.Category][]domain.LineItem{
		domain.CategoryActivities:    day.Activities,
		domain.CategoryTransfers:     day.Transfers,
		domain.CategorySightseeings:  day.Sightseeings,
		domain.CategoryOtherServices: day.OtherServices,
	}
	if day.Hotel != nil {
		items[domain.CategoryHotel] = []domain.LineItem{*day.Hotel}
	}
	return items
}

// Unrounded per-category sums for a day.
func priceDayRaw(day domain.ItineraryDay, params PriceParams) (map[domain.Category]float64, float64) {
	params = params.normalized()
	sums := make(map[domain.Category]float64, len(domain.Categories))
	total := 0.0

	items := dayItems(day)
	for _, c := range domain.Categories {
		sum := 0.0
		for _, it := range items[c] {
			sum += LineItemCost(it, params)
		}
		sums[c] = sum
		total += sum
	}
	return sums, total
}

// PriceDay totals one day. Category subtotals and the day total are each
// rounded once from unrounded sums.
func PriceDay(day domain.ItineraryDay, params PriceParams) DayPricing {
	sums, total := priceDayRaw(day, params)

	cats := make(map[domain.Category]float64, len(sums))
	for c, v := range sums {
		cats[c] = round2(v)
	}

	return DayPricing{
		DayNumber:  day.DayNumber,
		Date:       day.Date,
		Total:      round2(total),
		Categories: cats,
	}
}

// ResolveMarkup picks the markup percentage: explicit override, then the
// itinerary's custom markup, then defaultMarkup.
func ResolveMarkup(it *domain.Itinerary, override *float64, defaultMarkup float64) (pct float64, custom bool, err error) {
	switch {
	case override != nil:
		pct, custom = *override, true
	case it.IsCustomMarkup:
		pct, custom = it.MarkupPercentage, true
	default:
		pct = defaultMarkup
	}

	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
		return 0, false, fmt.Errorf("resolve markup %v: %w", pct, domain.ErrInvalidMarkup)
	}
	return pct, custom, nil
}

// PriceItinerary computes the next pricing snapshot. The itinerary is not modified.
func PriceItinerary(it *domain.Itinerary, override *float64, defaultMarkup float64, now time.Time) (*domain.PricingSnapshot, error) {
	if it == nil {
		return nil, fmt.Errorf("price itinerary: %w", domain.ErrNotFound)
	}
	if it.Locked() {
		return nil, fmt.Errorf("price itinerary %q: %w", it.ID, domain.ErrItineraryLocked)
	}

	pct, custom, err := ResolveMarkup(it, override, defaultMarkup)
	if err != nil {
		return nil, fmt.Errorf("price itinerary %q: %w", it.ID, err)
	}

	pax := it.Pax.Total
	if pax < 1 {
		pax = it.Pax.Adults + it.Pax.Children
	}
	params := PriceParams{TotalPax: pax, Nights: it.Nights, Rooms: it.Rooms}

	byDay := make([]domain.DayBreakdown, 0, len(it.Days))
	catSums := make(map[domain.Category]float64, len(domain.Categories))
	subtotal := 0.0

	for _, day := range it.Days {
		raw, _ := priceDayRaw(day, params)
		for c, v := range raw {
			catSums[c] += v
		}

		dp := PriceDay(day, params)
		subtotal += dp.Total
		byDay = append(byDay, domain.DayBreakdown{
			DayNumber:  dp.DayNumber,
			Date:       dp.Date,
			Total:      dp.Total,
			Categories: dp.Categories,
		})
	}

	byCategory := make(map[domain.Category]float64, len(domain.Categories))
	for _, c := range domain.Categories {
		byCategory[c] = round2(catSums[c])
	}

	subtotal = round2(subtotal)
	markupAmount := round2(subtotal * pct / 100)

	currency := it.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &domain.PricingSnapshot{
		Subtotal: subtotal,
		Markup: domain.Markup{
			Percentage: pct,
			Amount:     markupAmount,
			IsCustom:   custom,
		},
		Total:              round2(subtotal + markupAmount),
		Currency:           currency,
		CalculationVersion: it.PricingVersion() + 1,
		CalculatedAt:       now.UTC(),
		Breakdown: domain.PricingBreakdown{
			ByDay:      byDay,
			ByCategory: byCategory,
		},
	}, nil
}
