package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/contracts"
)

const tokensPerUnit = 1_000_000

// Service prices catalog entries, holds manual overrides and takes snapshots.
// Construct one per process (or per test) and pass it explicitly.
type Service struct {
	catalog *catalog.Catalog
	now     func() time.Time
	logger  *slog.Logger

	mu        sync.RWMutex
	overrides map[string]Override
	current   *Snapshot
	seq       int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a pricing service over cat.
func NewService(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:   cat,
		now:       time.Now,
		logger:    slog.Default(),
		overrides: make(map[string]Override),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrice returns the entry for id with at most one override applied.
// An expired override is deleted by this call and the base entry returned.
func (s *Service) GetPrice(id string) (catalog.ModelEntry, bool) {
	base, ok := s.catalog.LookupByID(id)
	if !ok {
		return catalog.ModelEntry{}, false
	}

	s.mu.RLock()
	o, has := s.overrides[id]
	s.mu.RUnlock()
	if !has {
		return base, true
	}

	now := s.now()
	if o.Expired(now) {
		s.mu.Lock()
		// Re-check: a concurrent SetOverride may have replaced it.
		if cur, still := s.overrides[id]; still && cur.Expired(now) {
			delete(s.overrides, id)
			s.logger.Info("pricing override expired", "model", id, "expired_at", cur.ExpiresAt)
		}
		s.mu.Unlock()
		return base, true
	}

	if !o.IsActive() {
		return base, true
	}
	return o.apply(base), true
}

// ListModels returns priced entries. With runtimeOnly the catalog's
// runtime-enabled rules apply.
func (s *Service) ListModels(runtimeOnly bool) []catalog.ModelEntry {
	var base []catalog.ModelEntry
	if runtimeOnly {
		base = s.catalog.ListRuntimeEnabled()
	} else {
		base = s.catalog.All()
	}

	out := make([]catalog.ModelEntry, 0, len(base))
	for _, e := range base {
		if priced, ok := s.GetPrice(e.CatalogID); ok {
			out = append(out, priced)
		}
	}
	return out
}

// CreateSnapshot freezes current effective pricing for every model,
// regardless of runtime_enabled, and records it as the current snapshot.
func (s *Service) CreateSnapshot(source string, metadata map[string]string) *Snapshot {
	models := s.ListModels(false)
	now := s.now().UTC()

	s.mu.Lock()
	s.seq++
	snap := &Snapshot{
		ID:             uuid.NewString(),
		Version:        fmt.Sprintf("%s.%04d", now.Format("20060102T150405Z"), s.seq),
		Timestamp:      now,
		CatalogVersion: s.catalog.Version(),
		Source:         source,
		Models:         models,
	}
	if len(metadata) > 0 {
		snap.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			snap.Metadata[k] = v
		}
	}
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("pricing snapshot created", "version", snap.Version, "models", len(models), "source", source)
	return snap.Clone()
}

// CurrentSnapshot returns the most recently created snapshot, or nil.
func (s *Service) CurrentSnapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// SetOverride installs o, replacing any previous override for the model.
func (s *Service) SetOverride(o Override) error {
	if err := o.validate(); err != nil {
		return err
	}
	if _, ok := s.catalog.LookupByID(o.ModelID); !ok {
		return &contracts.ModelNotFoundError{ID: o.ModelID, Reason: "cannot override pricing"}
	}

	s.mu.Lock()
	s.overrides[o.ModelID] = o.clone()
	s.mu.Unlock()

	s.logger.Info("pricing override set", "model", o.ModelID, "reason", o.Reason, "active", o.IsActive())
	return nil
}

// RemoveOverride deletes the override for id and reports whether one existed.
func (s *Service) RemoveOverride(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.overrides[id]
	delete(s.overrides, id)
	return ok
}

// ClearOverrides removes every override.
func (s *Service) ClearOverrides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]Override)
}

// Overrides lists stored overrides sorted by model id. Expired overrides are
// still listed until a GetPrice call for that model drops them.
func (s *Service) Overrides() []Override {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Override, 0, len(s.overrides))
	for _, o := range s.overrides {
		out = append(out, o.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out
}

// CalculateCost prices a request in USD, rounded to 8 decimals. Cached
// tokens are a subset of input tokens and are re-priced at the cached rate
// when the model has one; otherwise they have no effect. Returns false for
// unknown models or negative token counts.
func (s *Service) CalculateCost(id string, inputTokens, outputTokens, cachedTokens int64) (float64, bool) {
	if inputTokens < 0 || outputTokens < 0 || cachedTokens < 0 {
		return 0, false
	}
	e, ok := s.GetPrice(id)
	if !ok {
		return 0, false
	}
	return Cost(e.Pricing, inputTokens, outputTokens, cachedTokens), true
}

// Cost applies the pricing arithmetic to p.
func Cost(p catalog.Pricing, inputTokens, outputTokens, cachedTokens int64) float64 {
	cost := (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / tokensPerUnit

	if cachedTokens > 0 && p.CachedInput != nil {
		if cachedTokens > inputTokens {
			cachedTokens = inputTokens
		}
		cached := float64(cachedTokens)
		cost = cost - cached*p.Input/tokensPerUnit + cached*(*p.CachedInput)/tokensPerUnit
	}

	return round8(cost)
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}

// RefreshDynamicPricing is not implemented; pricing comes from the catalog
// and manual overrides only.
func (s *Service) RefreshDynamicPricing(ctx context.Context) error {
	return fmt.Errorf("dynamic pricing refresh: %w", contracts.ErrNotImplemented)
}
