package backup

import (
	"os"
	"path/filepath"
)

// LogFileName is the default name for the run log inside the backup root.
const LogFileName = "backup.log"

// Config holds the engine's directory layout and run options.
type Config struct {
	// SourceDir is the directory tree being backed up. The engine only ever
	// reads from it.
	SourceDir string `yaml:"source_dir" mapstructure:"source_dir"`

	// BackupDir is where per-run backup folders and the manifest live. It is
	// created if absent.
	BackupDir string `yaml:"backup_dir" mapstructure:"backup_dir"`

	// LogFile receives the engine's run log. Defaults to backup.log inside
	// BackupDir so the log travels with the backups it describes.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// SetDefaults fills in defaults for unset fields.
func (c *Config) SetDefaults() {
	if c.LogFile == "" && c.BackupDir != "" {
		c.LogFile = filepath.Join(c.BackupDir, LogFileName)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return NewConfigurationError("source directory is required", nil)
	}
	if c.BackupDir == "" {
		return NewConfigurationError("backup directory is required", nil)
	}
	return nil
}

// LoadFromEnvironment overrides fields from SECURE_BACKUP_* environment
// variables.
func (c *Config) LoadFromEnvironment() {
	if v := os.Getenv("SECURE_BACKUP_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv("SECURE_BACKUP_BACKUP_DIR"); v != "" {
		c.BackupDir = v
	}
	if v := os.Getenv("SECURE_BACKUP_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}
