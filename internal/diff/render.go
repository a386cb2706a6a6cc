package diff

import (
	"fmt"
	"strings"
)

// RenderSummary renders a plain-text summary for the CLI.
func RenderSummary(cs *ChangeSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pricing diff %s -> %s\n", cs.FromVersion, cs.ToVersion)

	if !cs.HasChanges() {
		fmt.Fprintf(&b, "  no changes (%d unchanged)\n", cs.Unchanged)
		return b.String()
	}

	for _, a := range cs.Added {
		fmt.Fprintf(&b, "  + %s (in %g / out %g)\n", a.ID, a.Entry.Pricing.Input, a.Entry.Pricing.Output)
	}
	for _, r := range cs.Removed {
		fmt.Fprintf(&b, "  - %s\n", r.ID)
	}
	for _, u := range cs.Updated {
		fmt.Fprintf(&b, "  ~ %s\n", u.ID)
		for _, c := range u.Changes {
			fmt.Fprintf(&b, "      %s: %v -> %v\n", c.Field, c.OldValue, c.NewValue)
		}
	}
	for _, rp := range cs.PossibleRenames {
		fmt.Fprintf(&b, "  ? %s may have been renamed to %s (%s)\n", rp.OldID, rp.NewID, rp.Reason)
	}
	fmt.Fprintf(&b, "  %d added, %d removed, %d updated, %d unchanged\n",
		len(cs.Added), len(cs.Removed), len(cs.Updated), cs.Unchanged)

	return b.String()
}

// RenderPRBody renders a markdown body for a snapshot archive pull request.
func RenderPRBody(cs *ChangeSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Pricing snapshot `%s`\n\n", cs.ToVersion)
	if cs.FromVersion != "" {
		fmt.Fprintf(&b, "Compared against `%s`.\n\n", cs.FromVersion)
	}

	if !cs.HasChanges() {
		b.WriteString("No pricing changes.\n")
		return b.String()
	}

	if len(cs.Added) > 0 {
		fmt.Fprintf(&b, "### Added (%d)\n\n", len(cs.Added))
		for _, a := range cs.Added {
			fmt.Fprintf(&b, "- `%s`\n", a.ID)
		}
		b.WriteString("\n")
	}
	if len(cs.Removed) > 0 {
		fmt.Fprintf(&b, "### Removed (%d)\n\n", len(cs.Removed))
		for _, r := range cs.Removed {
			fmt.Fprintf(&b, "- `%s`\n", r.ID)
		}
		b.WriteString("\n")
	}
	if len(cs.Updated) > 0 {
		fmt.Fprintf(&b, "### Updated (%d)\n\n| Model | Field | Old | New |\n|---|---|---|---|\n", len(cs.Updated))
		for _, u := range cs.Updated {
			for _, c := range u.Changes {
				fmt.Fprintf(&b, "| `%s` | %s | %v | %v |\n", u.ID, c.Field, c.OldValue, c.NewValue)
			}
		}
		b.WriteString("\n")
	}
	if len(cs.PossibleRenames) > 0 {
		b.WriteString("### Possible renames\n\n")
		for _, rp := range cs.PossibleRenames {
			fmt.Fprintf(&b, "- `%s` -> `%s`\n", rp.OldID, rp.NewID)
		}
	}

	return b.String()
}
