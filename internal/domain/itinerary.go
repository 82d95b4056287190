package domain

import "time"

type CostType string

const (
	CostPerPerson  CostType = "per_person"
	CostPerNight   CostType = "per_night"
	CostPerVehicle CostType = "per_vehicle"
	CostFlat       CostType = "flat"
)

type Category string

const (
	CategoryHotel         Category = "hotel"
	CategoryActivities    Category = "activities"
	CategoryTransfers     Category = "transfers"
	CategorySightseeings  Category = "sightseeings"
	CategoryOtherServices Category = "otherServices"
)

// Categories lists every pricing category in breakdown order.
var Categories = []Category{
	CategoryHotel,
	CategoryActivities,
	CategoryTransfers,
	CategorySightseeings,
	CategoryOtherServices,
}

// Cost record owned by the day it belongs to.
type LineItem struct {
	Name      string   `json:"name"`
	CostType  CostType `json:"costType"`
	BaseCost  float64  `json:"baseCost"`
	TripCount int      `json:"tripCount,omitempty"`
}

type ItineraryDay struct {
	DayNumber     int        `json:"dayNumber"`
	Date          string     `json:"date"`
	Hotel         *LineItem  `json:"hotel,omitempty"`
	Activities    []LineItem `json:"activities,omitempty"`
	Transfers     []LineItem `json:"transfers,omitempty"`
	Sightseeings  []LineItem `json:"sightseeings,omitempty"`
	OtherServices []LineItem `json:"otherServices,omitempty"`
	Events        []Event    `json:"events,omitempty"`
}

type Pax struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Total    int `json:"total"`
}

// Itinerary statuses that freeze pricing.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusConfirmed = "confirmed"
)

type Itinerary struct {
	ID               string           `json:"id"`
	Status           string           `json:"status"`
	LockedAt         *time.Time       `json:"lockedAt,omitempty"`
	Pax              Pax              `json:"pax"`
	Nights           int              `json:"nights"`
	Rooms            int              `json:"rooms"`
	Currency         string           `json:"currency"`
	IsCustomMarkup   bool             `json:"isCustomMarkup"`
	MarkupPercentage float64          `json:"markupPercentage"`
	Days             []ItineraryDay   `json:"days"`
	Pricing          *PricingSnapshot `json:"pricing,omitempty"`
}

// Locked reports whether pricing may no longer be recalculated.
func (it *Itinerary) Locked() bool {
	return it.LockedAt != nil || it.Status == StatusSent || it.Status == StatusConfirmed
}

// PricingVersion returns the current calculation version, 0 when never priced.
func (it *Itinerary) PricingVersion() int {
	if it.Pricing == nil {
		return 0
	}
	return it.Pricing.CalculationVersion
}

type Markup struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	IsCustom   bool    `json:"isCustom"`
}

type DayBreakdown struct {
	DayNumber  int                  `json:"dayNumber"`
	Date       string               `json:"date"`
	Total      float64              `json:"total"`
	Categories map[Category]float64 `json:"categories"`
}

type PricingBreakdown struct {
	ByDay      []DayBreakdown       `json:"byDay"`
	ByCategory map[Category]float64 `json:"byCategory"`
}

// Versioned pricing result persisted on the itinerary.
// Total == round2(Subtotal + Markup.Amount); Subtotal == round2(sum of day totals).
type PricingSnapshot struct {
	Subtotal           float64          `json:"subtotal"`
	Markup             Markup           `json:"markup"`
	Total              float64          `json:"total"`
	Currency           string           `json:"currency"`
	CalculationVersion int              `json:"calculationVersion"`
	CalculatedAt       time.Time        `json:"calculatedAt"`
	Breakdown          PricingBreakdown `json:"breakdown"`
}
