package cargo

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered carrier drivers.
type Registry struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewRegistry creates a new carrier registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a carrier driver to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a carrier driver by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, name)
}

// All returns all registered carrier drivers.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}

// Names returns the names of all registered carriers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered carriers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// ShipmentRef identifies one outstanding shipment for batch tracking.
type ShipmentRef struct {
	Carrier   string `json:"carrier"`
	Reference string `json:"reference"`
}

// BatchTrackResult pairs a shipment reference with its tracking outcome.
type BatchTrackResult struct {
	Ref    ShipmentRef     `json:"ref"`
	Result *TrackingResult `json:"result"`
}

// trackBatchConcurrency bounds parallel carrier calls during a refresh run.
const trackBatchConcurrency = 8

// TrackBatch tracks many shipments concurrently, one carrier call each.
// It is used by the order-status refresh job. Unknown carriers yield a
// typed failure result for their ref; no error is returned to the caller.
func (r *Registry) TrackBatch(ctx context.Context, refs []ShipmentRef) []BatchTrackResult {
	results := make([]BatchTrackResult, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(trackBatchConcurrency)

	for i, ref := range refs {
		g.Go(func() error {
			p, err := r.Get(ref.Carrier)
			if err != nil {
				results[i] = BatchTrackResult{Ref: ref, Result: TrackingFailure(err.Error())}
				return nil
			}
			results[i] = BatchTrackResult{Ref: ref, Result: p.TrackShipment(ctx, ref.Reference)}
			return nil
		})
	}

	g.Wait()
	return results
}
