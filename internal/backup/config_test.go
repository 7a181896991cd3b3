package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetDefaults(t *testing.T) {
	config := Config{SourceDir: "/data", BackupDir: "/backups"}
	config.SetDefaults()
	assert.Equal(t, filepath.Join("/backups", LogFileName), config.LogFile)

	// An explicit log file is left alone.
	config = Config{SourceDir: "/data", BackupDir: "/backups", LogFile: "/var/log/run.log"}
	config.SetDefaults()
	assert.Equal(t, "/var/log/run.log", config.LogFile)

	// Without a backup dir there is nowhere sensible to put the default.
	config = Config{SourceDir: "/data"}
	config.SetDefaults()
	assert.Empty(t, config.LogFile)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{SourceDir: "/data", BackupDir: "/backups"}, false},
		{"missing source", Config{BackupDir: "/backups"}, true},
		{"missing backup dir", Config{SourceDir: "/data"}, true},
		{"both missing", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsErrorType(err, BackupErrorTypeConfiguration))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigLoadFromEnvironment(t *testing.T) {
	t.Setenv("SECURE_BACKUP_SOURCE_DIR", "/env/source")
	t.Setenv("SECURE_BACKUP_BACKUP_DIR", "/env/backups")
	t.Setenv("SECURE_BACKUP_LOG_FILE", "/env/backup.log")

	config := Config{SourceDir: "/file/source"}
	config.LoadFromEnvironment()

	assert.Equal(t, "/env/source", config.SourceDir)
	assert.Equal(t, "/env/backups", config.BackupDir)
	assert.Equal(t, "/env/backup.log", config.LogFile)
}

func TestConfigLoaderRoundTrip(t *testing.T) {
	t.Setenv("SECURE_BACKUP_SOURCE_DIR", "")
	t.Setenv("SECURE_BACKUP_BACKUP_DIR", "")
	t.Setenv("SECURE_BACKUP_LOG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	loader := NewConfigLoader(path)

	original := &Config{
		SourceDir: "/data/documents",
		BackupDir: "/data/backups",
		LogFile:   "/data/backups/backup.log",
	}
	require.NoError(t, loader.SaveConfig(original))

	loaded, err := loader.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestConfigLoaderMissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("SECURE_BACKUP_SOURCE_DIR", "/env/source")
	t.Setenv("SECURE_BACKUP_BACKUP_DIR", "/env/backups")

	loader := NewConfigLoader(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	config, err := loader.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/env/source", config.SourceDir)
	assert.Equal(t, "/env/backups", config.BackupDir)
	assert.Equal(t, filepath.Join("/env/backups", LogFileName), config.LogFile)
}

func TestConfigLoaderInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dir: [unclosed"), 0644))

	loader := NewConfigLoader(path)
	_, err := loader.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestConfigLoaderRejectsInvalidSave(t *testing.T) {
	loader := NewConfigLoader(filepath.Join(t.TempDir(), "config.yaml"))
	err := loader.SaveConfig(&Config{})
	require.Error(t, err)
}
