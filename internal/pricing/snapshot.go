package pricing

import (
	"time"

	"github.com/everstacklabs/modelgate/internal/catalog"
)

// Snapshot is an immutable point-in-time copy of catalog pricing. The
// service never hands out its own copy; every accessor returns a Clone.
type Snapshot struct {
	ID             string               `yaml:"id" json:"id"`
	Version        string               `yaml:"version" json:"version"`
	Timestamp      time.Time            `yaml:"timestamp" json:"timestamp"`
	CatalogVersion string               `yaml:"catalog_version,omitempty" json:"catalog_version,omitempty"`
	Source         string               `yaml:"source" json:"source"`
	Models         []catalog.ModelEntry `yaml:"models" json:"models"`
	Metadata       map[string]string    `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Models = make([]catalog.ModelEntry, len(s.Models))
	for i, m := range s.Models {
		out.Models[i] = m.Clone()
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Model returns the snapshot's entry for id.
func (s *Snapshot) Model(id string) (catalog.ModelEntry, bool) {
	for _, m := range s.Models {
		if m.CatalogID == id {
			return m.Clone(), true
		}
	}
	return catalog.ModelEntry{}, false
}
