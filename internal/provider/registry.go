// Package provider owns vendor client construction and the per-model client
// cache. A Registry is safe for concurrent use.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/everstacklabs/modelgate/internal/contracts"
	"github.com/everstacklabs/modelgate/internal/httpclient"
)

// Spec names the client to build.
type Spec struct {
	Provider   contracts.Provider
	APIModelID string
}

// Key is the cache key for s.
func (s Spec) Key() string {
	return string(s.Provider) + ":" + s.APIModelID
}

// maxConstructAttempts bounds rebuilds after a concurrent UpdateProvider.
const maxConstructAttempts = 2

// Registry caches one client per (provider, api model id).
type Registry struct {
	mu        sync.RWMutex
	configs   map[contracts.Provider]Config
	factories map[contracts.Provider]Factory
	gens      map[contracts.Provider]uint64
	cache     map[string]Client

	builder          Builder
	overrides        map[contracts.Provider]Builder
	httpClient       *http.Client
	constructTimeout time.Duration
	logger           *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithConstructTimeout bounds client construction on top of the caller's context.
func WithConstructTimeout(d time.Duration) Option {
	return func(r *Registry) { r.constructTimeout = d }
}

// WithHTTPClient sets the HTTP client shared by every vendor client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Registry) { r.httpClient = hc }
}

// WithBuilder replaces DefaultBuilder for every provider.
func WithBuilder(b Builder) Option {
	return func(r *Registry) { r.builder = b }
}

// WithProviderBuilder replaces the builder for a single provider.
func WithProviderBuilder(p contracts.Provider, b Builder) Option {
	return func(r *Registry) { r.overrides[p] = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates a registry. Providers without a credential are kept
// out of the configured set and reported as not configured on use.
func NewRegistry(providers map[contracts.Provider]Config, opts ...Option) (*Registry, error) {
	r := &Registry{
		configs:   make(map[contracts.Provider]Config),
		factories: make(map[contracts.Provider]Factory),
		gens:      make(map[contracts.Provider]uint64),
		cache:     make(map[string]Client),
		builder:   DefaultBuilder,
		overrides: make(map[contracts.Provider]Builder),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.httpClient == nil {
		r.httpClient = httpclient.New(httpclient.WithUserAgent("modelgate"))
	}

	for p, cfg := range providers {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown provider %q", contracts.ErrInvalidInput, p)
		}
		if !cfg.Configured() {
			r.logger.Debug("provider has no credential", "provider", p)
			continue
		}
		if err := r.install(p, cfg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// install must be called with mu held for writing, or before r is shared.
func (r *Registry) install(p contracts.Provider, cfg Config) error {
	build := r.builder
	if b, ok := r.overrides[p]; ok {
		build = b
	}
	hc := r.httpClient
	if cfg.Timeout > 0 {
		scoped := *hc
		scoped.Timeout = cfg.Timeout
		hc = &scoped
	}
	f, err := build(p, cfg, hc)
	if err != nil {
		return fmt.Errorf("initializing %s: %w", p, err)
	}
	r.configs[p] = cfg
	r.factories[p] = f
	r.gens[p]++
	return nil
}

// GetModel returns the cached client for spec, constructing it on a miss.
// A client is cached only after construction succeeds, so a cancelled or
// failed construction leaves no entry behind. A client built by a factory
// that UpdateProvider replaced mid-construction is discarded and rebuilt
// once with the new configuration.
func (r *Registry) GetModel(ctx context.Context, spec Spec) (Client, error) {
	key := spec.Key()
	if spec.APIModelID == "" {
		return nil, fmt.Errorf("%w: empty api model id", contracts.ErrInvalidInput)
	}

	if r.constructTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.constructTimeout)
		defer cancel()
	}

	for attempt := 0; attempt < maxConstructAttempts; attempt++ {
		r.mu.RLock()
		if c, ok := r.cache[key]; ok {
			r.mu.RUnlock()
			return c, nil
		}
		f, ok := r.factories[spec.Provider]
		gen := r.gens[spec.Provider]
		r.mu.RUnlock()

		if !ok {
			return nil, r.notConfigured(spec.Provider)
		}

		c, err := f.NewClient(ctx, spec.APIModelID)
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", key, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("constructing %s: %w", key, err)
		}

		r.mu.Lock()
		if r.gens[spec.Provider] != gen {
			r.mu.Unlock()
			r.logger.Debug("provider reconfigured during construction, rebuilding", "key", key)
			continue
		}
		if existing, ok := r.cache[key]; ok {
			r.mu.Unlock()
			return existing, nil
		}
		r.cache[key] = c
		r.mu.Unlock()
		r.logger.Debug("cached provider client", "key", key)
		return c, nil
	}

	return nil, fmt.Errorf("constructing %s: provider reconfigured during construction", key)
}

// UpdateProvider merges patch into the provider's configuration, drops
// every cached client for that provider and rebuilds its factory.
func (r *Registry) UpdateProvider(p contracts.Provider, patch Config) error {
	if !p.Valid() {
		return fmt.Errorf("%w: unknown provider %q", contracts.ErrInvalidInput, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := r.configs[p].Merge(patch)
	if !cfg.Configured() {
		return r.notConfiguredLocked(p)
	}

	if err := r.install(p, cfg); err != nil {
		return err
	}

	prefix := string(p) + ":"
	dropped := 0
	for key := range r.cache {
		if strings.HasPrefix(key, prefix) {
			delete(r.cache, key)
			dropped++
		}
	}
	r.logger.Info("provider updated", "provider", p, "dropped_clients", dropped)
	return nil
}

// Providers returns the configured providers, sorted.
func (r *Registry) Providers() []contracts.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providersLocked()
}

func (r *Registry) providersLocked() []contracts.Provider {
	out := make([]contracts.Provider, 0, len(r.factories))
	for p := range r.factories {
		out = append(out, p)
	}
	contracts.SortProviders(out)
	return out
}

// CacheLen returns the number of cached clients.
func (r *Registry) CacheLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Registry) notConfigured(p contracts.Provider) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notConfiguredLocked(p)
}

func (r *Registry) notConfiguredLocked(p contracts.Provider) error {
	reason := "no credential"
	if !p.Valid() {
		reason = "unknown provider"
	}
	return &contracts.ProviderNotConfiguredError{
		Requested:  p,
		Configured: r.providersLocked(),
		Reason:     reason,
	}
}
