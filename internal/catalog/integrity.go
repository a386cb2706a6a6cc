package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Severity classifies integrity issues.
type Severity int

const (
	SeverityError   Severity = iota // Fails the integrity pass
	SeverityWarning                 // Reported, does not fail
)

// Issue is a single integrity problem.
type Issue struct {
	Severity Severity
	Entry    string
	Field    string
	Message  string
}

func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s: %s", sev, i.Entry, i.Field, i.Message)
}

// IntegrityResult holds all issues from an integrity pass.
type IntegrityResult struct {
	Issues []Issue
}

// Valid reports whether no error-severity issue was found.
func (r *IntegrityResult) Valid() bool {
	return !r.HasErrors()
}

// HasErrors returns true if there are any failing issues.
func (r *IntegrityResult) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns one message per error-severity violation.
func (r *IntegrityResult) Errors() []string {
	var errs []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i.String())
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (r *IntegrityResult) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

// Err converts a failing result into a *contracts.CatalogIntegrityError.
func (r *IntegrityResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &contracts.CatalogIntegrityError{Errors: r.Errors()}
}

var catalogIDPattern = regexp.MustCompile(`^[a-z0-9_-]+#[A-Za-z0-9._:/@-]+$`)

// CheckEntries runs the integrity pass over raw entries.
func CheckEntries(entries []ModelEntry) *IntegrityResult {
	r := &IntegrityResult{}

	if len(entries) == 0 {
		r.add(SeverityError, "catalog", "entries", "catalog is empty")
		return r
	}

	seen := make(map[string]int, len(entries))
	for idx, e := range entries {
		label := e.CatalogID
		if label == "" {
			label = fmt.Sprintf("entry[%d]", idx)
		}

		// Entries we cannot identify get a single error and no further checks.
		var missing []string
		if e.CatalogID == "" {
			missing = append(missing, "catalog_id")
		}
		if e.Provider == "" {
			missing = append(missing, "provider")
		}
		if e.APIModelID == "" {
			missing = append(missing, "api_model_id")
		}
		if len(missing) > 0 {
			r.add(SeverityError, label, strings.Join(missing, ","), "missing required field(s)")
			continue
		}

		if first, dup := seen[e.CatalogID]; dup {
			r.add(SeverityError, label, "catalog_id", fmt.Sprintf("duplicate of entry[%d]", first))
		} else {
			seen[e.CatalogID] = idx
		}

		checkEntry(r, label, e)
	}

	return r
}

func checkEntry(r *IntegrityResult, label string, e ModelEntry) {
	p := string(e.Provider)
	if p != strings.ToLower(p) {
		r.add(SeverityError, label, "provider", fmt.Sprintf("provider %q must be lowercase", p))
	} else if !e.Provider.Valid() {
		r.add(SeverityError, label, "provider", fmt.Sprintf("unknown provider %q", p))
	}

	if !catalogIDPattern.MatchString(e.CatalogID) {
		r.add(SeverityError, label, "catalog_id",
			fmt.Sprintf("%q does not match <provider>#<model>", e.CatalogID))
	} else if e.Provider.Valid() && !strings.HasPrefix(e.CatalogID, p+IDSeparator) {
		r.add(SeverityError, label, "catalog_id",
			fmt.Sprintf("%q is not prefixed with provider %q", e.CatalogID, p))
	}

	if e.Pricing.Input < 0 {
		r.add(SeverityError, label, "pricing.input", fmt.Sprintf("value %g is negative", e.Pricing.Input))
	}
	if e.Pricing.Output < 0 {
		r.add(SeverityError, label, "pricing.output", fmt.Sprintf("value %g is negative", e.Pricing.Output))
	}
	if c := e.Pricing.CachedInput; c != nil {
		if *c < 0 {
			r.add(SeverityError, label, "pricing.cached_input", fmt.Sprintf("value %g is negative", *c))
		} else if *c > e.Pricing.Input {
			r.add(SeverityWarning, label, "pricing.cached_input",
				fmt.Sprintf("cached rate %g exceeds input rate %g", *c, e.Pricing.Input))
		}
	}

	if e.Capabilities.ContextLength <= 0 {
		r.add(SeverityError, label, "capabilities.context_length",
			fmt.Sprintf("value %d must be positive", e.Capabilities.ContextLength))
	}

	if !e.Performance.Speed.Valid() {
		r.add(SeverityError, label, "performance.speed", fmt.Sprintf("unknown speed %q", e.Performance.Speed))
	}
	if e.Performance.Intelligence < 1 || e.Performance.Intelligence > 10 {
		r.add(SeverityError, label, "performance.intelligence",
			fmt.Sprintf("value %d outside [1, 10]", e.Performance.Intelligence))
	}

	if authored := e.Performance.PricingTier; authored != "" {
		if derived := DerivePricingTier(e.Pricing); authored != derived {
			r.add(SeverityWarning, label, "performance.pricing_tier",
				fmt.Sprintf("authored %q replaced by derived %q", authored, derived))
		}
	}
}

func (r *IntegrityResult) add(sev Severity, entry, field, msg string) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Entry: entry, Field: field, Message: msg})
}

// FormatResult formats an integrity result for display.
func FormatResult(r *IntegrityResult) string {
	if len(r.Issues) == 0 {
		return "Integrity check passed: no issues found."
	}

	var b strings.Builder
	errors := r.Errors()
	warnings := r.Warnings()

	if len(errors) > 0 {
		b.WriteString(fmt.Sprintf("Errors (%d):\n", len(errors)))
		for _, e := range errors {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}

	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("Warnings (%d):\n", len(warnings)))
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  %s\n", w))
		}
	}

	return b.String()
}
