package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

func validEntry() ModelEntry {
	return ModelEntry{
		CatalogID:      "openai#gpt-4o",
		Provider:       contracts.ProviderOpenAI,
		APIModelID:     "gpt-4o",
		Pricing:        Pricing{Input: 2.5, Output: 10, CachedInput: rate(1.25)},
		Capabilities:   Capabilities{Tools: true, Streaming: true, ContextLength: 128000},
		Performance:    Performance{Speed: contracts.SpeedMedium, Intelligence: 8},
		RuntimeEnabled: true,
	}
}

func TestValidEntryPassesAllChecks(t *testing.T) {
	r := CheckEntries([]ModelEntry{validEntry()})
	if !r.Valid() {
		t.Errorf("expected valid, got: %v", r.Errors())
	}
	if len(r.Warnings()) > 0 {
		t.Errorf("expected no warnings, got: %v", r.Warnings())
	}
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	r := CheckEntries(DefaultEntries)
	if !r.Valid() {
		t.Fatalf("builtin catalog invalid:\n%s", FormatResult(r))
	}
}

func TestEmptyCatalogFails(t *testing.T) {
	r := CheckEntries(nil)
	if r.Valid() {
		t.Fatal("expected empty catalog to fail")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("expected one error, got %v", r.Errors())
	}
}

func TestIntegrityViolations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ModelEntry)
		errField string
	}{
		{"uppercase provider", func(e *ModelEntry) { e.Provider = "OpenAI" }, "provider"},
		{"unknown provider", func(e *ModelEntry) { e.Provider = "acme" }, "provider"},
		{"id without separator", func(e *ModelEntry) { e.CatalogID = "openai-gpt-4o" }, "catalog_id"},
		{"id with uppercase provider", func(e *ModelEntry) { e.CatalogID = "OpenAI#gpt-4o" }, "catalog_id"},
		{"id prefixed with another provider", func(e *ModelEntry) { e.CatalogID = "anthropic#gpt-4o" }, "catalog_id"},
		{"provider differs from id prefix", func(e *ModelEntry) { e.Provider = contracts.ProviderGroq }, "catalog_id"},
		{"negative input", func(e *ModelEntry) { e.Pricing.Input = -1 }, "pricing.input"},
		{"negative output", func(e *ModelEntry) { e.Pricing.Output = -0.01 }, "pricing.output"},
		{"negative cached", func(e *ModelEntry) { e.Pricing.CachedInput = rate(-1) }, "pricing.cached_input"},
		{"zero context", func(e *ModelEntry) { e.Capabilities.ContextLength = 0 }, "capabilities.context_length"},
		{"bad speed", func(e *ModelEntry) { e.Performance.Speed = "warp" }, "performance.speed"},
		{"intelligence too high", func(e *ModelEntry) { e.Performance.Intelligence = 11 }, "performance.intelligence"},
		{"intelligence zero", func(e *ModelEntry) { e.Performance.Intelligence = 0 }, "performance.intelligence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			r := CheckEntries([]ModelEntry{e})

			if r.Valid() {
				t.Fatal("expected errors")
			}
			found := false
			for _, i := range r.Issues {
				if i.Severity == SeverityError && i.Field == tt.errField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got: %v", tt.errField, r.Errors())
			}
		})
	}
}

func TestOneErrorPerViolation(t *testing.T) {
	e := validEntry()
	e.Pricing.Input = -1
	e.Pricing.Output = -1
	e.Capabilities.ContextLength = -5

	r := CheckEntries([]ModelEntry{e})
	if got := len(r.Errors()); got != 3 {
		t.Errorf("expected 3 errors, got %d: %v", got, r.Errors())
	}
}

func TestCatalogIDProviderMismatch(t *testing.T) {
	e := validEntry()
	e.CatalogID = "anthropic#gpt-4o"

	r := CheckEntries([]ModelEntry{e})
	if len(r.Issues) != 1 || r.Issues[0].Field != "catalog_id" {
		t.Fatalf("expected one catalog_id error, got %v", r.Errors())
	}
	if !strings.Contains(r.Issues[0].Message, `provider "openai"`) {
		t.Errorf("message should name the entry provider: %q", r.Issues[0].Message)
	}
}

func TestMissingRequiredFieldsShortCircuits(t *testing.T) {
	e := validEntry()
	e.APIModelID = ""
	e.Pricing.Input = -1 // not reported: entry is skipped after the missing-field error

	r := CheckEntries([]ModelEntry{e})
	errs := r.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !strings.Contains(errs[0], "api_model_id") {
		t.Errorf("error %q does not name the missing field", errs[0])
	}
}

func TestDuplicateCatalogID(t *testing.T) {
	r := CheckEntries([]ModelEntry{validEntry(), validEntry()})
	if r.Valid() {
		t.Fatal("expected duplicate id to fail")
	}
}

func TestAPIModelIDMayContainSlash(t *testing.T) {
	e := validEntry()
	e.CatalogID = "openrouter#meta-llama/llama-3.3-70b-instruct"
	e.Provider = contracts.ProviderOpenRouter
	e.APIModelID = "meta-llama/llama-3.3-70b-instruct"

	if r := CheckEntries([]ModelEntry{e}); !r.Valid() {
		t.Errorf("expected valid, got %v", r.Errors())
	}
}

func TestCachedAboveInputWarns(t *testing.T) {
	e := validEntry()
	e.Pricing.CachedInput = rate(5)

	r := CheckEntries([]ModelEntry{e})
	if !r.Valid() {
		t.Fatalf("warning should not fail: %v", r.Errors())
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", r.Warnings())
	}
}

func TestErrIsCatalogIntegrityError(t *testing.T) {
	e := validEntry()
	e.Provider = "nope"
	err := CheckEntries([]ModelEntry{e}).Err()

	if !errors.Is(err, contracts.ErrCatalogIntegrity) {
		t.Fatalf("expected ErrCatalogIntegrity, got %v", err)
	}
	var ie *contracts.CatalogIntegrityError
	if !errors.As(err, &ie) || len(ie.Errors) != 1 {
		t.Errorf("expected one integrity error, got %+v", ie)
	}
}

func TestFormatResult(t *testing.T) {
	if got := FormatResult(&IntegrityResult{}); !strings.Contains(got, "passed") {
		t.Errorf("unexpected output for clean result: %q", got)
	}

	e := validEntry()
	e.Pricing.Input = -1
	out := FormatResult(CheckEntries([]ModelEntry{e}))
	if !strings.Contains(out, "Errors (1)") || !strings.Contains(out, "pricing.input") {
		t.Errorf("unexpected output: %q", out)
	}
}
