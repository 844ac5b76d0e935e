package jsonfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vsinha/coilplan/pkg/application/dto"
)

// ErrNoState is returned by Load when the state file does not exist yet
var ErrNoState = errors.New("no saved state")

// StateStore persists planning snapshots as a single JSON document
type StateStore struct {
	path string
}

// NewStateStore creates a store backed by the file at path
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file
func (s *StateStore) Path() string {
	return s.path
}

// Save writes the snapshot. The file is replaced in one rename so readers
// never see a partial document.
func (s *StateStore) Save(snapshot *dto.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".coilplan-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", s.path, err)
	}
	return nil
}

// Load reads the last saved snapshot
func (s *StateStore) Load() (*dto.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var snapshot dto.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode state file %s: %w", s.path, err)
	}
	return &snapshot, nil
}
