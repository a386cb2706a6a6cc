package diff

import (
	"math"
	"sort"

	"github.com/everstacklabs/modelgate/internal/catalog"
	"github.com/everstacklabs/modelgate/internal/pricing"
)

// Options controls diff behavior.
type Options struct {
	// TrackAvailability also reports runtime_enabled and ui_hidden changes.
	// Default false limits the diff to billing-relevant fields.
	TrackAvailability bool
}

// Compute compares two pricing snapshots. Results are sorted by catalog id.
func Compute(from, to *pricing.Snapshot, opts Options) *ChangeSet {
	cs := &ChangeSet{FromVersion: from.Version, ToVersion: to.Version}

	before := make(map[string]catalog.ModelEntry, len(from.Models))
	for _, m := range from.Models {
		before[m.CatalogID] = m
	}
	seen := make(map[string]bool, len(to.Models))

	for _, m := range to.Models {
		seen[m.CatalogID] = true
		old, ok := before[m.CatalogID]
		if !ok {
			cs.Added = append(cs.Added, ModelChange{ID: m.CatalogID, Entry: m})
			continue
		}

		changes := fieldChanges(old, m, opts)
		if len(changes) > 0 {
			cs.Updated = append(cs.Updated, ModelUpdate{ID: m.CatalogID, Entry: m, Changes: changes})
		} else {
			cs.Unchanged++
		}
	}

	for _, m := range from.Models {
		if !seen[m.CatalogID] {
			cs.Removed = append(cs.Removed, ModelChange{ID: m.CatalogID, Entry: m})
		}
	}

	sortChanges(cs.Added)
	sortChanges(cs.Removed)
	sort.Slice(cs.Updated, func(i, j int) bool { return cs.Updated[i].ID < cs.Updated[j].ID })

	cs.PossibleRenames = detectRenames(cs.Added, cs.Removed)
	return cs
}

func fieldChanges(old, cur catalog.ModelEntry, opts Options) []catalog.FieldChange {
	changes := catalog.PricingChanges(old.Pricing, cur.Pricing)

	if old.Provider != cur.Provider {
		changes = append(changes, catalog.FieldChange{Field: "provider", OldValue: old.Provider, NewValue: cur.Provider})
	}
	if old.APIModelID != cur.APIModelID {
		changes = append(changes, catalog.FieldChange{Field: "api_model_id", OldValue: old.APIModelID, NewValue: cur.APIModelID})
	}
	if old.Performance.PricingTier != cur.Performance.PricingTier {
		changes = append(changes, catalog.FieldChange{Field: "performance.pricing_tier", OldValue: old.Performance.PricingTier, NewValue: cur.Performance.PricingTier})
	}

	if opts.TrackAvailability {
		if old.RuntimeEnabled != cur.RuntimeEnabled {
			changes = append(changes, catalog.FieldChange{Field: "runtime_enabled", OldValue: old.RuntimeEnabled, NewValue: cur.RuntimeEnabled})
		}
		if old.UIHidden != cur.UIHidden {
			changes = append(changes, catalog.FieldChange{Field: "ui_hidden", OldValue: old.UIHidden, NewValue: cur.UIHidden})
		}
	}

	return changes
}

func sortChanges(cs []ModelChange) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
}

// detectRenames pairs removed and added models from the same provider and
// family whose average price is within 20%.
func detectRenames(added, removed []ModelChange) []RenamePair {
	var renames []RenamePair

	for _, newM := range added {
		for _, oldM := range removed {
			if newM.Entry.Provider != oldM.Entry.Provider {
				continue
			}
			if newM.Entry.Family == "" || newM.Entry.Family != oldM.Entry.Family {
				continue
			}

			if oldAvg := oldM.Entry.Pricing.Average(); oldAvg > 0 {
				ratio := newM.Entry.Pricing.Average() / oldAvg
				if math.Abs(ratio-1.0) > 0.2 {
					continue
				}
			}

			renames = append(renames, RenamePair{
				OldID:  oldM.ID,
				NewID:  newM.ID,
				Reason: "same provider and family, similar price",
			})
		}
	}

	return renames
}
