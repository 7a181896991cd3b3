package backup

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"secure-backup/internal/logging"
)

// ManifestFileName is the manifest's fixed location under the backup root.
const ManifestFileName = "backup_manifest.json"

// ManifestStore loads and persists the manifest for one backup root. The
// store owns the manifest between runs; the engine borrows it for the
// duration of a single run. Nothing arbitrates concurrent writers from
// separate processes.
type ManifestStore struct {
	path   string
	logger *logging.Logger
}

// NewManifestStore creates a store for the manifest under backupRoot.
func NewManifestStore(backupRoot string, logger *logging.Logger) *ManifestStore {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &ManifestStore{
		path:   filepath.Join(backupRoot, ManifestFileName),
		logger: logger,
	}
}

// Path returns the manifest file's location on disk.
func (s *ManifestStore) Path() string {
	return s.path
}

// Load reads the manifest from disk. A missing file yields an empty
// manifest. An unparsable file is logged and also yields an empty manifest:
// losing chain history only degrades the next delta run to copying more than
// strictly necessary, which beats refusing to back up at all. A read failure
// on an existing file is surfaced as an IO error.
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, NewIOError("failed to read manifest file", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		corrupt := NewCorruptionError("manifest is unparsable, continuing with empty history", err)
		s.logger.WithField("path", s.path).Warn(corrupt.Error())
		return &Manifest{}, nil
	}

	return &manifest, nil
}

// Save serializes the full record list and atomically replaces the backing
// file, writing to a temporary file in the same directory and renaming it
// into place. A failed save never leaves a half-written file that Load would
// accept as valid.
func (s *ManifestStore) Save(manifest *Manifest) error {
	if manifest == nil {
		return NewValidationError("manifest cannot be nil", nil)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return NewPersistenceError("failed to serialize manifest", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ManifestFileName+".tmp-*")
	if err != nil {
		return NewPersistenceError("failed to create temporary manifest file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewPersistenceError("failed to write manifest data", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewPersistenceError("failed to flush manifest data", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewPersistenceError("failed to close temporary manifest file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return NewPersistenceError("failed to replace manifest file", err)
	}

	return nil
}
