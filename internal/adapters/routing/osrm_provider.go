package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
)

const DefaultOSRMTimeout = 4500 * time.Millisecond

// OSRMProvider implements RouteProvider against an OSRM-compatible HTTP API.
//
// Every Resolve call is bounded by the configured timeout, retries included.
// Any failure is reported as domain.ErrRouteProviderUnavailable.
// The provider is safe for concurrent use.
type OSRMProvider struct {
	session        *http.Client
	baseURL        string
	timeout        time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	logger         *zap.Logger
}

type OSRMOption func(*OSRMProvider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) OSRMOption {
	return func(o *OSRMProvider) { o.session = c }
}

// WithRetry sets the attempt count and initial backoff for transient failures.
func WithRetry(maxAttempts int, initialBackoff time.Duration) OSRMOption {
	return func(o *OSRMProvider) {
		o.maxAttempts = max(1, maxAttempts)
		o.initialBackoff = initialBackoff
	}
}

func NewOSRMProvider(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...OSRMOption) (*OSRMProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if timeout <= 0 {
		timeout = DefaultOSRMTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := &OSRMProvider{
		session:        &http.Client{},
		baseURL:        baseURL,
		timeout:        timeout,
		maxAttempts:    2,
		initialBackoff: 200 * time.Millisecond,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance *float64 `json:"distance"`
		Duration *float64 `json:"duration"`
	} `json:"routes"`
}

// Resolve fetches the driving route between origin and destination.
func (o *OSRMProvider) Resolve(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, o.logger, "osrm.Resolve")(&err)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false",
		o.baseURL,
		formatCoord(origin.Lon), formatCoord(origin.Lat),
		formatCoord(destination.Lon), formatCoord(destination.Lat),
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, endpoint)
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm route request: %v: %w", err, domain.ErrRouteProviderUnavailable)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("decode osrm route response: %v: %w", err, domain.ErrRouteProviderUnavailable)
	}

	if decoded.Code != "Ok" {
		return domain.Route{}, fmt.Errorf("osrm returned code %q: %w", decoded.Code, domain.ErrRouteProviderUnavailable)
	}

	if len(decoded.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("osrm returned no routes: %w", domain.ErrRouteProviderUnavailable)
	}

	first := decoded.Routes[0]
	if first.Distance == nil || first.Duration == nil || !finite(*first.Distance) || !finite(*first.Duration) {
		return domain.Route{}, fmt.Errorf("osrm route missing distance or duration: %w", domain.ErrRouteProviderUnavailable)
	}

	// OSRM reports meters and seconds. Travel time is floored at one minute
	// whenever a route exists, even for zero-length routes.
	return domain.Route{
		DistanceKm:    Round2(*first.Distance / 1000),
		TravelTimeMin: max(1, int(math.Round(*first.Duration/60))),
		Provider:      domain.ProviderOSRM,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
