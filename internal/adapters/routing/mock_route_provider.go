package routing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Route    domain.Route
}

// MockRouteProvider serves fixed routes keyed by coordinate pair and counts calls.
type MockRouteProvider struct {
	m     map[string]domain.Route
	calls atomic.Int64
}

func NewMockRouteProvider(pairs []MockPair) *MockRouteProvider {
	m := make(map[string]domain.Route, len(pairs))
	for _, p := range pairs {
		m[p.From.Hash()+"|"+p.To.Hash()] = p.Route
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	p.calls.Add(1)

	r, ok := p.m[origin.Hash()+"|"+destination.Hash()]
	if !ok {
		return domain.Route{}, fmt.Errorf("missing pair %s -> %s: %w", origin.Hash(), destination.Hash(), domain.ErrRouteProviderUnavailable)
	}

	return r, nil
}

// Calls returns how many times Resolve was invoked.
func (p *MockRouteProvider) Calls() int {
	return int(p.calls.Load())
}
