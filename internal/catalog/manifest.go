package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Stats are aggregate counts for operational dashboards.
type Stats struct {
	Total          int                           `yaml:"total" json:"total"`
	RuntimeEnabled int                           `yaml:"runtime_enabled" json:"runtime_enabled"`
	ByProvider     map[contracts.Provider]int    `yaml:"by_provider" json:"by_provider"`
	ByPricingTier  map[contracts.PricingTier]int `yaml:"by_pricing_tier" json:"by_pricing_tier"`
}

// Stats counts entries. RuntimeEnabled counts the flag itself, regardless of
// execution mode.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Total:         len(c.entries),
		ByProvider:    make(map[contracts.Provider]int),
		ByPricingTier: make(map[contracts.PricingTier]int),
	}
	for _, e := range c.entries {
		if e.RuntimeEnabled {
			s.RuntimeEnabled++
		}
		s.ByProvider[e.Provider]++
		s.ByPricingTier[e.Performance.PricingTier]++
	}
	return s
}

// ManifestProvider describes a provider entry in the manifest.
type ManifestProvider struct {
	Name   string   `yaml:"name"`
	Files  []string `yaml:"files"`
	Models []string `yaml:"models,omitempty"`
}

// Manifest represents the manifest.yaml file.
type Manifest struct {
	Version       string             `yaml:"version"`
	GeneratedAt   string             `yaml:"generated_at"`
	SchemaVersion string             `yaml:"schema_version"`
	Providers     []ManifestProvider `yaml:"providers"`
	Stats         Stats              `yaml:"stats"`
}

// GenerateManifest writes manifest.yaml for the on-disk catalog at basePath.
// Counts come from cat, file lists from disk.
func GenerateManifest(basePath string, cat *Catalog) (*Manifest, error) {
	providersDir := filepath.Join(basePath, "providers")
	dirs, err := os.ReadDir(providersDir)
	if err != nil {
		return nil, fmt.Errorf("reading providers dir: %w", err)
	}

	var providers []ManifestProvider
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		name := dir.Name()
		mp := ManifestProvider{Name: name}

		relPath := filepath.Join("providers", name, "provider.yaml")
		if _, err := os.Stat(filepath.Join(basePath, relPath)); err == nil {
			mp.Files = append(mp.Files, relPath)
		}

		modelsDir := filepath.Join(providersDir, name, "models")
		if modelEntries, err := os.ReadDir(modelsDir); err == nil {
			var modelFiles []string
			for _, mf := range modelEntries {
				if !mf.IsDir() && strings.HasSuffix(mf.Name(), ".yaml") {
					modelFiles = append(modelFiles, filepath.Join("providers", name, "models", mf.Name()))
				}
			}
			sort.Strings(modelFiles)
			mp.Models = modelFiles
		}

		providers = append(providers, mp)
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Name < providers[j].Name
	})

	manifest := &Manifest{
		Version:       cat.Version(),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		SchemaVersion: "1.0",
		Providers:     providers,
		Stats:         cat.Stats(),
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}

	header := "# Model Catalog Manifest\n# Auto-generated - DO NOT EDIT MANUALLY\n# Run: modelgate manifest to regenerate\n\n"
	if err := os.WriteFile(filepath.Join(basePath, "manifest.yaml"), []byte(header+string(data)), 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return manifest, nil
}
