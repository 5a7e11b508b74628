// Package provider defines the knowledge-provider interface and the adapters
// that turn external catalog responses into evidence records.
package provider

import (
	"context"
	"sync"

	"github.com/sabitsky/hearitage/internal/model"
)

// Result is one provider's contribution for a subject.
type Result struct {
	Records   []model.EvidenceRecord
	SourceURL string
}

// Provider fetches corroborating evidence for an identified subject.
// Providers are best-effort: an error degrades the bundle, never the request.
type Provider interface {
	Name() string
	Tier() model.ProviderTier
	Fetch(ctx context.Context, subject model.Attribution) (Result, error)
}

// Registry holds the primary source and the secondary catalogs.
type Registry struct {
	mu          sync.RWMutex
	primary     Provider
	secondaries []Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider, slotting it by tier.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Tier() == model.TierPrimary {
		r.primary = p
		return
	}
	r.secondaries = append(r.secondaries, p)
}

// Primary returns the primary provider, or nil if none registered.
func (r *Registry) Primary() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

// Secondaries returns the registered secondary providers.
func (r *Registry) Secondaries() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, len(r.secondaries))
	copy(out, r.secondaries)
	return out
}
