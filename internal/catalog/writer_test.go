package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

func TestWriteNewEntry(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewWriter(tmpDir)

	result, err := w.WriteEntry(validEntry())
	if err != nil {
		t.Fatalf("WriteEntry failed: %v", err)
	}
	if !result.IsNew {
		t.Error("expected IsNew to be true")
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}

	var loaded ModelEntry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("parsing written YAML: %v", err)
	}
	if loaded.CatalogID != "openai#gpt-4o" {
		t.Errorf("loaded catalog_id = %q", loaded.CatalogID)
	}
	if loaded.Pricing.CachedInput == nil || *loaded.Pricing.CachedInput != 1.25 {
		t.Errorf("cached_input not round-tripped: %+v", loaded.Pricing)
	}
}

func TestEntryFilenameFlattensNestedModelPath(t *testing.T) {
	e := validEntry()
	e.CatalogID = "openrouter#meta-llama/llama-3.3-70b-instruct"
	if got := EntryFilename(e); got != "meta-llama%2Fllama-3.3-70b-instruct.yaml" {
		t.Errorf("EntryFilename = %q", got)
	}
}

func TestEntryFilenamesDoNotCollide(t *testing.T) {
	nested := validEntry()
	nested.CatalogID = "openrouter#a/b"
	dashed := validEntry()
	dashed.CatalogID = "openrouter#a--b"

	if EntryFilename(nested) == EntryFilename(dashed) {
		t.Errorf("%q and %q share file %q", nested.CatalogID, dashed.CatalogID, EntryFilename(nested))
	}
}

func TestWriteFamilyOnlyChange(t *testing.T) {
	w := NewWriter(t.TempDir())

	e := validEntry()
	e.Family = "gpt-4"
	if _, err := w.WriteEntry(e); err != nil {
		t.Fatal(err)
	}

	e.Family = "gpt-4o"
	result, err := w.WriteEntry(e)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Changes) != 1 || result.Changes[0].Field != "family" {
		t.Fatalf("expected a single family change, got %v", result.Changes)
	}

	data, _ := os.ReadFile(result.Path)
	if !strings.Contains(string(data), "family: gpt-4o") {
		t.Errorf("family not written:\n%s", data)
	}
}

func TestWriteUpdatedEntryPreservesManualFields(t *testing.T) {
	tmpDir := t.TempDir()
	modelsDir := filepath.Join(tmpDir, "providers", "openai", "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	existingYAML := `catalog_id: openai#gpt-4o
provider: openai
api_model_id: gpt-4o
notes: "manually added field"
pricing:
    input: 5
    output: 15
capabilities:
    tools: true
    streaming: true
    context_length: 128000
performance:
    speed: medium
    intelligence: 8
runtime_enabled: true
ui_hidden: false
`
	existingPath := filepath.Join(modelsDir, "gpt-4o.yaml")
	if err := os.WriteFile(existingPath, []byte(existingYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewWriter(tmpDir).WriteEntry(validEntry())
	if err != nil {
		t.Fatalf("WriteEntry failed: %v", err)
	}
	if result.IsNew {
		t.Error("expected IsNew to be false")
	}
	if len(result.Changes) == 0 {
		t.Fatal("expected changes")
	}

	data, _ := os.ReadFile(existingPath)
	content := string(data)
	if !strings.Contains(content, "manually added field") {
		t.Error("manual field was not preserved")
	}
	if !strings.Contains(content, "input: 2.5") {
		t.Errorf("pricing not updated:\n%s", content)
	}
}

func TestWriteUnchangedEntryIsNoop(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewWriter(tmpDir)

	if _, err := w.WriteEntry(validEntry()); err != nil {
		t.Fatal(err)
	}
	result, err := w.WriteEntry(validEntry())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Changes) != 0 {
		t.Errorf("expected no changes, got %v", result.Changes)
	}
}

func TestExportThenLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	w := NewWriter(tmpDir)

	if err := w.WriteVersion("test-1"); err != nil {
		t.Fatal(err)
	}
	for _, p := range DefaultProviders {
		if err := w.WriteProvider(p); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range DefaultEntries {
		if _, err := w.WriteEntry(e); err != nil {
			t.Fatalf("writing %s: %v", e.CatalogID, err)
		}
	}

	cat, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Version() != "test-1" {
		t.Errorf("version = %q", cat.Version())
	}
	if cat.Len() != len(DefaultEntries) {
		t.Errorf("loaded %d entries, want %d", cat.Len(), len(DefaultEntries))
	}
	e, ok := cat.LookupByAPIModelID("meta-llama/llama-3.3-70b-instruct")
	if !ok || e.Provider != contracts.ProviderOpenRouter {
		t.Errorf("nested api model id lookup = %+v, %v", e, ok)
	}

	m, err := GenerateManifest(tmpDir, cat)
	if err != nil {
		t.Fatalf("GenerateManifest failed: %v", err)
	}
	if m.Stats.Total != len(DefaultEntries) || len(m.Providers) != len(DefaultProviders) {
		t.Errorf("manifest = %+v", m.Stats)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "manifest.yaml")); err != nil {
		t.Errorf("manifest.yaml not written: %v", err)
	}
}

func TestLoadMissingVersion(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing version.txt")
	}
}
