package diff

import "github.com/everstacklabs/modelgate/internal/catalog"

// ChangeSet is the pricing diff between two snapshots.
type ChangeSet struct {
	FromVersion     string
	ToVersion       string
	Added           []ModelChange
	Removed         []ModelChange
	Updated         []ModelUpdate
	PossibleRenames []RenamePair
	Unchanged       int
}

// ModelChange represents an added or removed model.
type ModelChange struct {
	ID    string
	Entry catalog.ModelEntry
}

// ModelUpdate represents a model present in both snapshots with field changes.
type ModelUpdate struct {
	ID      string
	Entry   catalog.ModelEntry
	Changes []catalog.FieldChange
}

// RenamePair represents a possible rename (old id disappeared, new one appeared).
type RenamePair struct {
	OldID  string
	NewID  string
	Reason string
}

// HasChanges reports whether the changeset has any modifications.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.Added) > 0 || len(cs.Removed) > 0 || len(cs.Updated) > 0
}

// TotalChanged returns the count of added + updated models.
func (cs *ChangeSet) TotalChanged() int {
	return len(cs.Added) + len(cs.Updated)
}
