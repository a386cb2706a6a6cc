package pricing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

const snapshotExt = ".yaml"

// FileStore keeps snapshots as YAML files named by version. Snapshots are
// write-once: Put refuses to overwrite an existing version.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (f *FileStore) Dir() string { return f.dir }

// Put writes snap and returns the file path.
func (f *FileStore) Put(snap *Snapshot) (string, error) {
	if snap == nil || snap.Version == "" {
		return "", fmt.Errorf("snapshot has no version")
	}
	if err := checkVersion(snap.Version); err != nil {
		return "", err
	}
	path := f.path(snap.Version)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("snapshot %s already stored", snap.Version)
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// Get loads the snapshot with the given version.
func (f *FileStore) Get(version string) (*Snapshot, error) {
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	return ReadSnapshot(f.path(version))
}

// List returns stored versions in ascending order.
func (f *FileStore) List() ([]string, error) {
	files, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot dir: %w", err)
	}
	var versions []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), snapshotExt) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(file.Name(), snapshotExt))
	}
	sort.Strings(versions)
	return versions, nil
}

// Latest returns the newest stored snapshot, or nil if the store is empty.
func (f *FileStore) Latest() (*Snapshot, error) {
	versions, err := f.List()
	if err != nil || len(versions) == 0 {
		return nil, err
	}
	return f.Get(versions[len(versions)-1])
}

// checkVersion keeps version names inside the store directory.
func checkVersion(version string) error {
	if version == "" || version == "." || strings.Contains(version, "..") ||
		strings.ContainsAny(version, `/\`) {
		return fmt.Errorf("%w: invalid snapshot version %q", contracts.ErrInvalidInput, version)
	}
	return nil
}

func (f *FileStore) path(version string) string {
	return filepath.Join(f.dir, version+snapshotExt)
}

// ReadSnapshot parses a snapshot file.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}
