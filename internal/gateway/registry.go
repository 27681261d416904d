package gateway

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/llm"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrRouteNotFound    = errors.New("no provider configured for this category")
)

// Registry holds the live providers and the category routing table.
// It is thread-safe.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]llm.Provider
	routes    map[catalog.Category]string
	fallback  string
}

// NewRegistry takes routes as category name -> provider id. Unknown category
// names are ignored. fallback serves every unrouted category.
func NewRegistry(routes map[string]string, fallback string) *Registry {
	r := &Registry{
		providers: make(map[string]llm.Provider),
		routes:    make(map[catalog.Category]string),
		fallback:  fallback,
	}
	for name, id := range routes {
		if c, ok := catalog.ParseCategory(name); ok {
			r.routes[c] = id
		}
	}
	return r
}

func (r *Registry) Register(p llm.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
	if r.fallback == "" {
		r.fallback = p.Name()
	}
}

func (r *Registry) Get(id string) (llm.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
}

// ForCategory returns the routed provider for c, or the fallback.
func (r *Registry) ForCategory(c catalog.Category) (llm.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.routes[c]; ok {
		if p, ok := r.providers[id]; ok {
			return p, nil
		}
	}
	if p, ok := r.providers[r.fallback]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, c)
}

// Providers lists registered providers sorted by id.
func (r *Registry) Providers() []llm.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]llm.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
