package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Catalog is the immutable model table. It is built once at startup and
// shared without locking; every accessor returns copies.
type Catalog struct {
	version string
	entries []ModelEntry
	byID    map[string]int
	mode    contracts.ExecutionMode
	logger  *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithExecutionMode sets the process execution mode. In development mode
// ListRuntimeEnabled returns every entry.
func WithExecutionMode(m contracts.ExecutionMode) Option {
	return func(c *Catalog) { c.mode = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithVersion sets the catalog version label.
func WithVersion(v string) Option {
	return func(c *Catalog) { c.version = v }
}

// New validates entries and builds a catalog. Integrity violations return a
// *contracts.CatalogIntegrityError; callers should treat that as fatal.
func New(entries []ModelEntry, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		mode:   contracts.ModeProduction,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	result := CheckEntries(entries)
	for _, w := range result.Warnings() {
		c.logger.Warn("catalog integrity warning", "entry", w.Entry, "field", w.Field, "message", w.Message)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	c.entries = make([]ModelEntry, len(entries))
	c.byID = make(map[string]int, len(entries))
	for i, e := range entries {
		e = e.Clone()
		e.Performance.PricingTier = DerivePricingTier(e.Pricing)
		c.entries[i] = e
		c.byID[e.CatalogID] = i
	}

	if c.mode == contracts.ModeDevelopment {
		c.logger.Warn("catalog built in development mode: runtime_enabled is ignored for selection",
			"entries", len(c.entries))
	}

	return c, nil
}

// Load reads the on-disk catalog layout and builds a validated catalog.
func Load(basePath string, opts ...Option) (*Catalog, error) {
	version, entries, err := LoadEntries(basePath)
	if err != nil {
		return nil, err
	}
	return New(entries, append([]Option{WithVersion(version)}, opts...)...)
}

// LoadEntries reads raw entries from disk without validating them.
//
// Layout:
//
//	<base>/version.txt
//	<base>/providers/<provider>/provider.yaml
//	<base>/providers/<provider>/models/*.yaml
func LoadEntries(basePath string) (string, []ModelEntry, error) {
	versionBytes, err := os.ReadFile(filepath.Join(basePath, "version.txt"))
	if err != nil {
		return "", nil, fmt.Errorf("reading version.txt: %w", err)
	}
	version := strings.TrimSpace(string(versionBytes))

	providersDir := filepath.Join(basePath, "providers")
	dirs, err := os.ReadDir(providersDir)
	if err != nil {
		return "", nil, fmt.Errorf("reading providers dir: %w", err)
	}

	var entries []ModelEntry
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		loaded, err := loadProvider(filepath.Join(providersDir, dir.Name()))
		if err != nil {
			return "", nil, fmt.Errorf("loading provider %s: %w", dir.Name(), err)
		}
		entries = append(entries, loaded...)
	}

	return version, entries, nil
}

func loadProvider(providerDir string) ([]ModelEntry, error) {
	if _, err := os.Stat(filepath.Join(providerDir, "provider.yaml")); err != nil {
		return nil, fmt.Errorf("reading provider.yaml: %w", err)
	}

	modelsDir := filepath.Join(providerDir, "models")
	if _, err := os.Stat(modelsDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := os.ReadDir(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("reading models dir: %w", err)
	}

	var entries []ModelEntry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(modelsDir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
		}

		var e ModelEntry
		if err := yaml.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// Version returns the catalog version label.
func (c *Catalog) Version() string { return c.version }

// Mode returns the execution mode the catalog was built with.
func (c *Catalog) Mode() contracts.ExecutionMode { return c.mode }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// LookupByID returns the entry with the given catalog id.
func (c *Catalog) LookupByID(id string) (ModelEntry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ModelEntry{}, false
	}
	return c.entries[i].Clone(), true
}

// LookupByAPIModelID returns the first entry, in catalog order, whose
// api_model_id equals name exactly.
func (c *Catalog) LookupByAPIModelID(name string) (ModelEntry, bool) {
	for _, e := range c.entries {
		if e.APIModelID == name {
			return e.Clone(), true
		}
	}
	return ModelEntry{}, false
}

// ListByProvider returns all entries for a provider in catalog order.
func (c *Catalog) ListByProvider(p contracts.Provider) []ModelEntry {
	return c.filter(func(e ModelEntry) bool { return e.Provider == p })
}

// ListRuntimeEnabled returns entries eligible for live selection. In
// development mode the runtime_enabled flag is bypassed and every entry is
// returned; the bypass is logged on every call.
func (c *Catalog) ListRuntimeEnabled() []ModelEntry {
	if c.mode == contracts.ModeDevelopment {
		c.logger.Warn("development mode: returning full catalog, runtime_enabled filter bypassed",
			"entries", len(c.entries))
		return c.All()
	}
	return c.filter(func(e ModelEntry) bool { return e.RuntimeEnabled })
}

// IsRuntimeEnabled reports whether id is eligible for selection under the
// same rules as ListRuntimeEnabled.
func (c *Catalog) IsRuntimeEnabled(id string) bool {
	i, ok := c.byID[id]
	if !ok {
		return false
	}
	if c.mode == contracts.ModeDevelopment {
		return true
	}
	return c.entries[i].RuntimeEnabled
}

// ListVisible returns entries shown in discovery UIs (not ui_hidden).
func (c *Catalog) ListVisible() []ModelEntry {
	return c.filter(func(e ModelEntry) bool { return !e.UIHidden })
}

// All returns every entry in catalog order.
func (c *Catalog) All() []ModelEntry {
	return c.filter(func(ModelEntry) bool { return true })
}

// Providers returns the providers that have at least one entry, sorted.
func (c *Catalog) Providers() []contracts.Provider {
	seen := make(map[contracts.Provider]bool)
	var out []contracts.Provider
	for _, e := range c.entries {
		if !seen[e.Provider] {
			seen[e.Provider] = true
			out = append(out, e.Provider)
		}
	}
	contracts.SortProviders(out)
	return out
}

// ValidateIntegrity re-runs the integrity pass over the loaded entries.
func (c *Catalog) ValidateIntegrity() *IntegrityResult {
	return CheckEntries(c.entries)
}

func (c *Catalog) filter(keep func(ModelEntry) bool) []ModelEntry {
	var out []ModelEntry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
