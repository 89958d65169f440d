package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"bankledger/internal/domain"
)

// JSONStore keeps the snapshot in a single JSON file. Writes go to a
// temporary file first and replace the real file with os.Rename, so a crash
// mid-write never leaves a corrupt snapshot behind.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store writing to path. Parent directories are
// created on the first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads and decodes the snapshot file. A missing file is not an error:
// it yields an empty seeded snapshot, matching first-run behavior.
func (s *JSONStore) Load() (*domain.Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot atomically: encode to path+".tmp", then rename
// over the real file.
func (s *JSONStore) Save(snap *domain.Snapshot) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// Indented output so the file stays readable for manual inspection.
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
