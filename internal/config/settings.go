package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/timeofday"
)

// Setting keys understood by the engine.
const (
	KeyDayStartTime         = "day_start_time"
	KeyTransitionBufferMin  = "default_transition_buffer_min"
	KeyRouteCacheTTLHours   = "route_cache_ttl_hours"
	KeyLogicTimezone        = "logic_timezone"
	KeyRoutingBaseURL       = "routing_base_url"
	KeyRoutingTimeoutMs     = "routing_timeout_ms"
	KeyFallbackSpeedKmh     = "fallback_speed_kmh"
	KeyDefaultMarkupPercent = "default_markup_percentage"
)

var SettingKeys = []string{
	KeyDayStartTime,
	KeyTransitionBufferMin,
	KeyRouteCacheTTLHours,
	KeyLogicTimezone,
	KeyRoutingBaseURL,
	KeyRoutingTimeoutMs,
	KeyFallbackSpeedKmh,
	KeyDefaultMarkupPercent,
}

// Typed engine settings.
type Settings struct {
	DayStartTime         string
	TransitionBufferMin  int
	RouteCacheTTLHours   int
	LogicTimezone        string
	RoutingBaseURL       string
	RoutingTimeout       time.Duration
	FallbackSpeedKmh     float64
	DefaultMarkupPercent float64
}

// DefaultSettings are used for every key that is absent or unparseable.
func DefaultSettings() Settings {
	return Settings{
		DayStartTime:         "09:00",
		TransitionBufferMin:  10,
		RouteCacheTTLHours:   168,
		LogicTimezone:        "Asia/Kolkata",
		RoutingBaseURL:       "https://router.project-osrm.org",
		RoutingTimeout:       4500 * time.Millisecond,
		FallbackSpeedKmh:     30,
		DefaultMarkupPercent: 20,
	}
}

// Apply overlays key/value settings on s. Bad values are logged and ignored.
func (s Settings) Apply(kv map[string]string, logger *zap.Logger) Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	invalid := func(key, value string) {
		logger.Warn("ignoring invalid setting", zap.String("key", key), zap.String("value", value))
	}

	for key, raw := range kv {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch key {
		case KeyDayStartTime:
			if _, err := timeofday.ParseClock(value); err != nil {
				invalid(key, value)
				continue
			}
			s.DayStartTime = value
		case KeyTransitionBufferMin:
			n, err := strconv.Atoi(value)
			if err != nil {
				invalid(key, value)
				continue
			}
			s.TransitionBufferMin = max(0, n)
		case KeyRouteCacheTTLHours:
			n, err := strconv.Atoi(value)
			if err != nil {
				invalid(key, value)
				continue
			}
			s.RouteCacheTTLHours = max(1, n)
		case KeyLogicTimezone:
			if _, err := time.LoadLocation(value); err != nil {
				invalid(key, value)
				continue
			}
			s.LogicTimezone = value
		case KeyRoutingBaseURL:
			s.RoutingBaseURL = strings.TrimRight(value, "/")
		case KeyRoutingTimeoutMs:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				invalid(key, value)
				continue
			}
			s.RoutingTimeout = time.Duration(n) * time.Millisecond
		case KeyFallbackSpeedKmh:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(f) || f <= 0 || math.IsInf(f, 0) {
				invalid(key, value)
				continue
			}
			s.FallbackSpeedKmh = f
		case KeyDefaultMarkupPercent:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(f) || f < 0 || math.IsInf(f, 0) {
				invalid(key, value)
				continue
			}
			s.DefaultMarkupPercent = f
		}
	}

	return s
}
