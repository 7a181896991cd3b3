package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"secure-backup/internal/logging"
)

func newTestLogger(t *testing.T, buf *bytes.Buffer) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(logging.Config{
		Level:  logging.LogLevelDebug,
		Output: buf,
		Format: "text",
	})
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}
	return logger
}

func TestManifestStoreLoadMissing(t *testing.T) {
	store := NewManifestStore(t.TempDir(), newTestLogger(t, &bytes.Buffer{}))

	manifest, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing manifest failed: %v", err)
	}
	if manifest.Len() != 0 {
		t.Errorf("Load() on missing manifest returned %d records, want 0", manifest.Len())
	}
}

func TestManifestStoreRoundTrip(t *testing.T) {
	store := NewManifestStore(t.TempDir(), newTestLogger(t, &bytes.Buffer{}))

	manifest := &Manifest{}
	manifest.Append(Record{
		Kind:      KindFull,
		Timestamp: "20240102_030405",
		Path:      "/backups/full_20240102_030405",
		Files:     map[string]string{"a.txt": "5d41402abc4b2a76b9719d911017c592"},
	})
	manifest.Append(Record{
		Kind:      KindIncremental,
		Timestamp: "20240102_030506",
		Path:      "/backups/incr_20240102_030506",
		Files:     map[string]string{"b.txt": "7d793037a0760186574b0282f2f435e7"},
		Parent:    "20240102_030405",
	})

	if err := store.Save(manifest); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Load() returned %d records, want 2", loaded.Len())
	}
	if loaded.Backups[0].Kind != KindFull || loaded.Backups[1].Kind != KindIncremental {
		t.Errorf("Record kinds not preserved: %v", loaded.Backups)
	}
	if loaded.Backups[1].Parent != "20240102_030405" {
		t.Errorf("Parent timestamp not preserved: %q", loaded.Backups[1].Parent)
	}
	if loaded.Backups[0].Files["a.txt"] != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("Files map not preserved: %v", loaded.Backups[0].Files)
	}
}

func TestManifestStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	var logBuf bytes.Buffer
	store := NewManifestStore(dir, newTestLogger(t, &logBuf))

	if err := os.WriteFile(store.Path(), []byte("{not valid json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt manifest: %v", err)
	}

	manifest, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on corrupt manifest failed: %v", err)
	}
	if manifest.Len() != 0 {
		t.Errorf("Load() on corrupt manifest returned %d records, want 0", manifest.Len())
	}
	if !strings.Contains(logBuf.String(), "unparsable") {
		t.Errorf("Corrupt manifest was not logged: %q", logBuf.String())
	}
}

func TestManifestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewManifestStore(dir, newTestLogger(t, &bytes.Buffer{}))

	manifest := &Manifest{}
	manifest.Append(Record{Kind: KindFull, Timestamp: "20240102_030405", Path: "p", Files: map[string]string{}})
	if err := store.Save(manifest); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read backup dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != ManifestFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Backup dir contains %v, want only %s", names, ManifestFileName)
	}
}

func TestManifestStoreSaveFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *ManifestStore
	}{
		{
			name: "backup root missing",
			setup: func(t *testing.T) *ManifestStore {
				return NewManifestStore(filepath.Join(t.TempDir(), "missing"), newTestLogger(t, &bytes.Buffer{}))
			},
		},
		{
			name: "manifest path is a directory",
			setup: func(t *testing.T) *ManifestStore {
				dir := t.TempDir()
				store := NewManifestStore(dir, newTestLogger(t, &bytes.Buffer{}))
				if err := os.Mkdir(store.Path(), 0755); err != nil {
					t.Fatalf("Failed to create blocking directory: %v", err)
				}
				return store
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.setup(t)
			manifest := &Manifest{}
			manifest.Append(Record{Kind: KindFull, Timestamp: "20240102_030405", Path: "p", Files: map[string]string{}})

			err := store.Save(manifest)
			if err == nil {
				t.Fatal("Save() did not fail")
			}
			if !IsErrorType(err, BackupErrorTypePersistence) {
				t.Errorf("Save() error = %v, want persistence error", err)
			}
		})
	}
}

func TestManifestStoreSaveNil(t *testing.T) {
	store := NewManifestStore(t.TempDir(), newTestLogger(t, &bytes.Buffer{}))
	if err := store.Save(nil); !IsErrorType(err, BackupErrorTypeValidation) {
		t.Errorf("Save(nil) error = %v, want validation error", err)
	}
}
