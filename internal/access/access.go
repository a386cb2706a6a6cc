// Package access enforces a caller's model allow-list and resolves tier or
// model references to a single catalog entry.
//
// BYOK callers are matched exactly and are served only from a registry built
// from their own credentials. Shared callers get lenient matching and the
// process-wide registry.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
	"github.com/everstacklabs/modelgate/internal/provider"
	"github.com/everstacklabs/modelgate/internal/selector"
)

// CallerConfig is what the session layer knows about a caller.
type CallerConfig struct {
	CallerID      string                                 `mapstructure:"caller_id" yaml:"caller_id"`
	Mode          contracts.AccessMode                   `mapstructure:"mode" yaml:"mode"`
	AllowedModels []string                               `mapstructure:"allowed_models" yaml:"allowed_models"`
	Credentials   map[contracts.Provider]provider.Config `mapstructure:"credentials" yaml:"credentials,omitempty"`
}

// ResolvedModel is the outcome of a resolution, ready to hand to a registry.
type ResolvedModel struct {
	CatalogID    string               `json:"catalog_id" yaml:"catalog_id"`
	Provider     contracts.Provider   `json:"provider" yaml:"provider"`
	APIModelID   string               `json:"api_model_id" yaml:"api_model_id"`
	DisplayName  string               `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Tier         contracts.Tier       `json:"tier,omitempty" yaml:"tier,omitempty"`
	Mode         contracts.AccessMode `json:"mode" yaml:"mode"`
	Pricing      catalog.Pricing      `json:"pricing" yaml:"pricing"`
	Capabilities catalog.Capabilities `json:"capabilities" yaml:"capabilities"`
	Performance  catalog.Performance  `json:"performance" yaml:"performance"`
}

// Spec returns the registry lookup key for m.
func (m ResolvedModel) Spec() provider.Spec {
	return provider.Spec{Provider: m.Provider, APIModelID: m.APIModelID}
}

// Gate is one caller's view of the catalog. It is immutable after New.
type Gate struct {
	callerID string
	mode     contracts.AccessMode
	allowed  []string
	allowSet map[string]struct{}

	catalog  *catalog.Catalog
	registry *provider.Registry
	logger   *slog.Logger
}

type options struct {
	shared       *provider.Registry
	registryOpts []provider.Option
	logger       *slog.Logger
}

// Option configures a Gate.
type Option func(*options)

// WithSharedRegistry sets the process-wide registry used by shared callers.
func WithSharedRegistry(r *provider.Registry) Option {
	return func(o *options) { o.shared = r }
}

// WithRegistryOptions are applied when building a BYOK caller's registry.
func WithRegistryOptions(opts ...provider.Option) Option {
	return func(o *options) { o.registryOpts = append(o.registryOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a gate for one caller. BYOK callers must carry at least one
// credential; this is checked here rather than on first use.
func New(cat *catalog.Catalog, cfg CallerConfig, opts ...Option) (*Gate, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", contracts.ErrInvalidInput)
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	mode, err := contracts.ParseAccessMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}

	g := &Gate{
		callerID: cfg.CallerID,
		mode:     mode,
		allowSet: make(map[string]struct{}, len(cfg.AllowedModels)),
		catalog:  cat,
		logger:   o.logger.With("caller", cfg.CallerID, "mode", mode),
	}
	for _, id := range cfg.AllowedModels {
		if _, dup := g.allowSet[id]; dup {
			continue
		}
		g.allowSet[id] = struct{}{}
		g.allowed = append(g.allowed, id)
	}

	switch mode {
	case contracts.ModeBYOK:
		creds := make(map[contracts.Provider]provider.Config, len(cfg.Credentials))
		for p, c := range cfg.Credentials {
			if c.Configured() {
				creds[p] = c
			}
		}
		if len(creds) == 0 {
			return nil, fmt.Errorf("%w: byok caller %q has no credentials", contracts.ErrProviderNotConfigured, cfg.CallerID)
		}
		reg, err := provider.NewRegistry(creds, o.registryOpts...)
		if err != nil {
			return nil, fmt.Errorf("building byok registry for %q: %w", cfg.CallerID, err)
		}
		g.registry = reg
	default:
		g.registry = o.shared
	}

	return g, nil
}

// CallerID returns the caller's id.
func (g *Gate) CallerID() string { return g.callerID }

// Mode returns the caller's access mode.
func (g *Gate) Mode() contracts.AccessMode { return g.mode }

// AllowedModels returns the allow-list in configured order.
func (g *Gate) AllowedModels() []string {
	out := make([]string, len(g.allowed))
	copy(out, g.allowed)
	return out
}

// Allows reports whether id is on the allow-list exactly.
func (g *Gate) Allows(id string) bool {
	_, ok := g.allowSet[id]
	return ok
}

// Model resolves name against the allow-list, then checks the catalog.
func (g *Gate) Model(name string) (ResolvedModel, error) {
	var (
		id string
		ok bool
	)
	if g.mode == contracts.ModeBYOK {
		id, ok = g.matchExact(name)
	} else {
		id, ok = g.matchLenient(name)
	}
	if !ok {
		return ResolvedModel{}, &contracts.NotInAllowListError{ID: name, Mode: g.mode, AllowListSize: len(g.allowed)}
	}

	entry, err := g.enabledEntry(id)
	if err != nil {
		return ResolvedModel{}, err
	}
	g.logger.Debug("resolved model", "input", name, "catalog_id", entry.CatalogID)
	return g.resolved(entry, ""), nil
}

// Tier runs the selector over the caller's allowed, runtime-enabled entries
// in catalog order.
func (g *Gate) Tier(name string) (ResolvedModel, error) {
	tier, ok := contracts.ParseTier(name)
	if !ok {
		return ResolvedModel{}, fmt.Errorf("%w: %q", contracts.ErrUnknownTier, name)
	}

	var candidates []catalog.ModelEntry
	for _, e := range g.catalog.ListRuntimeEnabled() {
		if g.Allows(e.CatalogID) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return ResolvedModel{}, &contracts.NoModelsConfiguredError{Tier: tier, AllowListSize: len(g.allowed)}
	}

	entry, err := selector.Select(tier, candidates)
	if err != nil {
		return ResolvedModel{}, err
	}
	g.logger.Debug("resolved tier", "tier", tier, "catalog_id", entry.CatalogID, "candidates", len(candidates))
	return g.resolved(entry, tier), nil
}

// Instantiate returns a client for m from the caller's registry. BYOK
// callers never reach the shared registry.
func (g *Gate) Instantiate(ctx context.Context, m ResolvedModel) (provider.Client, error) {
	if !g.Allows(m.CatalogID) {
		return nil, &contracts.NotInAllowListError{ID: m.CatalogID, Mode: g.mode, AllowListSize: len(g.allowed)}
	}
	if g.registry == nil {
		return nil, &contracts.ProviderNotConfiguredError{Requested: m.Provider, Reason: "no shared registry"}
	}
	return g.registry.GetModel(ctx, m.Spec())
}

// Providers lists the providers the caller can instantiate.
func (g *Gate) Providers() []contracts.Provider {
	if g.registry == nil {
		return nil
	}
	return g.registry.Providers()
}

// matchExact accepts only a byte-for-byte allow-list entry.
func (g *Gate) matchExact(name string) (string, bool) {
	if g.Allows(name) {
		return name, true
	}
	return "", false
}

// matchLenient tries, in order: exact id, case-insensitive id, exact api
// model id, case-insensitive api model id, then a trailing model-name alias.
// Each step walks the allow-list in configured order.
func (g *Gate) matchLenient(name string) (string, bool) {
	if g.Allows(name) {
		return name, true
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	// api model ids are looked up once; a missing entry matches on id only.
	apiIDs := make([]string, len(g.allowed))
	for i, id := range g.allowed {
		if e, ok := g.catalog.LookupByID(id); ok {
			apiIDs[i] = e.APIModelID
		}
	}

	steps := []func(id, apiID string) bool{
		func(id, _ string) bool { return strings.EqualFold(id, name) },
		func(_, apiID string) bool { return apiID != "" && apiID == name },
		func(_, apiID string) bool { return apiID != "" && strings.EqualFold(apiID, name) },
		func(id, _ string) bool { return hasAliasSuffix(id, name) },
	}
	for _, match := range steps {
		for i, id := range g.allowed {
			if match(id, apiIDs[i]) {
				return id, true
			}
		}
	}
	return "", false
}

// hasAliasSuffix reports whether name is the trailing segment of id after a
// '#' or '/' boundary, ignoring case.
func hasAliasSuffix(id, name string) bool {
	id, name = strings.ToLower(id), strings.ToLower(name)
	return strings.HasSuffix(id, "#"+name) || strings.HasSuffix(id, "/"+name)
}

func (g *Gate) enabledEntry(id string) (catalog.ModelEntry, error) {
	entry, ok := g.catalog.LookupByID(id)
	if !ok {
		return catalog.ModelEntry{}, &contracts.ModelNotFoundError{ID: id, Reason: "not in catalog"}
	}
	if !g.catalog.IsRuntimeEnabled(entry.CatalogID) {
		return catalog.ModelEntry{}, &contracts.ModelNotFoundError{ID: id, Reason: "not runtime enabled"}
	}
	return entry, nil
}

func (g *Gate) resolved(e catalog.ModelEntry, tier contracts.Tier) ResolvedModel {
	return ResolvedModel{
		CatalogID:    e.CatalogID,
		Provider:     e.Provider,
		APIModelID:   e.APIModelID,
		DisplayName:  e.DisplayName,
		Tier:         tier,
		Mode:         g.mode,
		Pricing:      e.Pricing,
		Capabilities: e.Capabilities,
		Performance:  e.Performance,
	}
}
