package catalog

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FieldChange records a single field change for diff reporting.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// WriteResult reports what happened when an entry was written.
type WriteResult struct {
	Path    string
	IsNew   bool
	Changes []FieldChange
}

// SmartMergeWriter exports entries to the on-disk layout. Existing files keep
// their key order and any hand-added keys; only schema fields are overwritten.
type SmartMergeWriter struct {
	basePath string
}

// NewWriter creates a new SmartMergeWriter rooted at basePath.
func NewWriter(basePath string) *SmartMergeWriter {
	return &SmartMergeWriter{basePath: basePath}
}

// EntryFilename maps an entry to its file name. The model part is
// path-escaped, so nested vendor paths stay in one directory and distinct
// ids never share a file ('%' cannot appear in a catalog id).
func EntryFilename(e ModelEntry) string {
	return url.PathEscape(ModelPart(e.CatalogID)) + ".yaml"
}

// WriteVersion writes version.txt.
func (w *SmartMergeWriter) WriteVersion(version string) error {
	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}
	return os.WriteFile(filepath.Join(w.basePath, "version.txt"), []byte(version+"\n"), 0o644)
}

// WriteProvider writes provider.yaml unless it already exists.
func (w *SmartMergeWriter) WriteProvider(info ProviderInfo) error {
	dir := filepath.Join(w.basePath, "providers", info.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating provider dir: %w", err)
	}
	path := filepath.Join(dir, "provider.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&info)
	if err != nil {
		return fmt.Errorf("marshaling provider: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteEntry performs a smart merge of e into the on-disk catalog.
func (w *SmartMergeWriter) WriteEntry(e ModelEntry) (*WriteResult, error) {
	modelsDir := filepath.Join(w.basePath, "providers", string(e.Provider), "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating models dir: %w", err)
	}

	filePath := filepath.Join(modelsDir, EntryFilename(e))
	result := &WriteResult{Path: filePath}

	existingData, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		result.IsNew = true
		return result, writeNewEntry(filePath, e)
	} else if err != nil {
		return nil, fmt.Errorf("reading existing file: %w", err)
	}

	var existingDoc yaml.Node
	if err := yaml.Unmarshal(existingData, &existingDoc); err != nil {
		return nil, fmt.Errorf("parsing existing YAML: %w", err)
	}

	var existing ModelEntry
	if err := yaml.Unmarshal(existingData, &existing); err != nil {
		return nil, fmt.Errorf("parsing existing entry: %w", err)
	}

	result.Changes = computeChanges(existing, e)
	if len(result.Changes) == 0 {
		return result, nil
	}

	incomingData, err := yaml.Marshal(&e)
	if err != nil {
		return nil, fmt.Errorf("marshaling entry: %w", err)
	}

	var incomingDoc yaml.Node
	if err := yaml.Unmarshal(incomingData, &incomingDoc); err != nil {
		return nil, fmt.Errorf("parsing entry YAML: %w", err)
	}

	out, err := yaml.Marshal(mergeNodes(&existingDoc, &incomingDoc))
	if err != nil {
		return nil, fmt.Errorf("marshaling merged YAML: %w", err)
	}

	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return nil, fmt.Errorf("writing merged file: %w", err)
	}

	return result, nil
}

func writeNewEntry(path string, e ModelEntry) error {
	data, err := yaml.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// mergeNodes overlays src mapping keys onto dst mapping, preserving dst order
// and any keys in dst not present in src.
func mergeNodes(dst, src *yaml.Node) *yaml.Node {
	if dst.Kind == yaml.DocumentNode && len(dst.Content) > 0 {
		dst = dst.Content[0]
	}
	if src.Kind == yaml.DocumentNode && len(src.Content) > 0 {
		src = src.Content[0]
	}

	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return src
	}

	srcMap := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(src.Content); i += 2 {
		srcMap[src.Content[i].Value] = src.Content[i+1]
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(dst.Content); i += 2 {
		key := dst.Content[i].Value
		if srcVal, ok := srcMap[key]; ok {
			dst.Content[i+1] = srcVal
			seen[key] = true
		}
	}

	for i := 0; i+1 < len(src.Content); i += 2 {
		key := src.Content[i].Value
		if !seen[key] {
			dst.Content = append(dst.Content, src.Content[i], src.Content[i+1])
		}
	}

	return dst
}

func computeChanges(existing, incoming ModelEntry) []FieldChange {
	var changes []FieldChange

	if existing.APIModelID != incoming.APIModelID {
		changes = append(changes, FieldChange{"api_model_id", existing.APIModelID, incoming.APIModelID})
	}
	if incoming.DisplayName != "" && existing.DisplayName != incoming.DisplayName {
		changes = append(changes, FieldChange{"display_name", existing.DisplayName, incoming.DisplayName})
	}
	if incoming.Family != "" && existing.Family != incoming.Family {
		changes = append(changes, FieldChange{"family", existing.Family, incoming.Family})
	}
	changes = append(changes, PricingChanges(existing.Pricing, incoming.Pricing)...)
	if existing.Capabilities != incoming.Capabilities {
		changes = append(changes, FieldChange{"capabilities", existing.Capabilities, incoming.Capabilities})
	}
	if existing.Performance.Speed != incoming.Performance.Speed {
		changes = append(changes, FieldChange{"performance.speed", existing.Performance.Speed, incoming.Performance.Speed})
	}
	if existing.Performance.Intelligence != incoming.Performance.Intelligence {
		changes = append(changes, FieldChange{"performance.intelligence", existing.Performance.Intelligence, incoming.Performance.Intelligence})
	}
	if existing.RuntimeEnabled != incoming.RuntimeEnabled {
		changes = append(changes, FieldChange{"runtime_enabled", existing.RuntimeEnabled, incoming.RuntimeEnabled})
	}
	if existing.UIHidden != incoming.UIHidden {
		changes = append(changes, FieldChange{"ui_hidden", existing.UIHidden, incoming.UIHidden})
	}

	return changes
}

// PricingChanges lists per-field pricing differences.
func PricingChanges(before, after Pricing) []FieldChange {
	var changes []FieldChange
	if before.Input != after.Input {
		changes = append(changes, FieldChange{"pricing.input", before.Input, after.Input})
	}
	if before.Output != after.Output {
		changes = append(changes, FieldChange{"pricing.output", before.Output, after.Output})
	}
	switch {
	case before.CachedInput == nil && after.CachedInput == nil:
	case before.CachedInput == nil:
		changes = append(changes, FieldChange{"pricing.cached_input", nil, *after.CachedInput})
	case after.CachedInput == nil:
		changes = append(changes, FieldChange{"pricing.cached_input", *before.CachedInput, nil})
	case *before.CachedInput != *after.CachedInput:
		changes = append(changes, FieldChange{"pricing.cached_input", *before.CachedInput, *after.CachedInput})
	}
	return changes
}
