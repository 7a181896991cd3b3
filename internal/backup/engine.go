package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"secure-backup/internal/logging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine runs backup strategies against a source tree and tracks them in the
// manifest. One engine performs one synchronous run at a time; concurrent
// processes sharing a backup root are unsupported and can lose records.
type Engine struct {
	sourceDir string
	backupDir string
	store     *ManifestStore
	logger    *logging.Logger
	progress  ProgressSink

	// now is swappable so tests can pin record timestamps.
	now func() time.Time
}

// NewEngine creates an engine for the given configuration. The backup
// directory is created if absent. A nil progress sink disables progress
// reporting; a nil logger falls back to the default logger.
func NewEngine(config Config, logger *logging.Logger, progress ProgressSink) (*Engine, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if progress == nil {
		progress = NopSink{}
	}

	if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
		return nil, NewIOError("failed to create backup directory", err)
	}

	return &Engine{
		sourceDir: config.SourceDir,
		backupDir: config.BackupDir,
		store:     NewManifestStore(config.BackupDir, logger),
		logger:    logger,
		progress:  progress,
		now:       time.Now,
	}, nil
}

// Manifest loads the current manifest for read-only inspection.
func (e *Engine) Manifest() (*Manifest, error) {
	return e.store.Load()
}

// Run dispatches to the strategy matching kind.
func (e *Engine) Run(ctx context.Context, kind Kind) (*Result, error) {
	switch kind {
	case KindFull:
		return e.Full(ctx)
	case KindIncremental:
		return e.Incremental(ctx)
	case KindDifferential:
		return e.Differential(ctx)
	default:
		return nil, NewValidationError("unknown backup kind: "+string(kind), nil)
	}
}

// Full copies every file under the source root into a fresh backup folder
// and appends a complete-snapshot record. No prior state is consulted. On
// any failure during the walk the partial folder is removed and the manifest
// stays untouched; the append happens only after the loop completes.
func (e *Engine) Full(ctx context.Context) (*Result, error) {
	log := e.runLogger(KindFull)

	manifest, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	timestamp := e.now().Format(TimestampFormat)
	backupPath := filepath.Join(e.backupDir, KindFull.folderPrefix()+timestamp)
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, NewIOError("failed to create backup folder", err)
	}

	total, err := CountFiles(e.sourceDir)
	if err != nil {
		e.removeBackupFolder(backupPath, log)
		return nil, err
	}
	e.progress.SetTotal(total)

	log.Info("Starting full backup")
	files := make(map[string]string)

	err = Walk(e.sourceDir, func(rel string) error {
		if err := ctx.Err(); err != nil {
			return NewIOError("backup run canceled", err)
		}
		e.progress.SetDescription("Backing up: " + rel)

		digest, err := HashFile(filepath.Join(e.sourceDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		if err := e.copyFile(rel, backupPath); err != nil {
			return err
		}
		files[rel] = digest
		log.WithField("file", rel).Debug("Backed up file")
		e.progress.Advance(1)
		return nil
	})
	if err != nil {
		e.removeBackupFolder(backupPath, log)
		log.WithField("error", err.Error()).Error("Full backup failed")
		return nil, err
	}

	manifest.Append(Record{
		Kind:      KindFull,
		Timestamp: timestamp,
		Path:      backupPath,
		Files:     files,
	})
	if err := e.store.Save(manifest); err != nil {
		// The copied folder stays on disk but is not recorded. Operators can
		// detect the inconsistency as an orphaned folder under the backup root.
		log.WithField("error", err.Error()).Error("Manifest save failed after copy phase")
		return nil, err
	}

	log.WithField("files", len(files)).Info("Full backup completed successfully")
	e.progress.SetDescription("Backup completed successfully")

	return &Result{
		Outcome:     OutcomeCompleted,
		Kind:        KindFull,
		Timestamp:   timestamp,
		Path:        backupPath,
		FilesCopied: len(files),
	}, nil
}

// Incremental copies the files that are new or changed relative to the most
// recent record of any kind. With an empty manifest the run is skipped, not
// failed.
func (e *Engine) Incremental(ctx context.Context) (*Result, error) {
	log := e.runLogger(KindIncremental)

	manifest, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	reference, ok := manifest.Latest()
	if !ok {
		log.Warn("No prior backup found, incremental backup skipped")
		return &Result{Outcome: OutcomeSkipped, Kind: KindIncremental, SkipReason: SkipNoBackupFound}, nil
	}

	return e.deltaBackup(ctx, log, manifest, KindIncremental, reference)
}

// Differential copies the files that are new or changed relative to the
// nearest prior full record, ignoring intervening incrementals. This keeps a
// restore bounded to two records at the cost of larger deltas as drift from
// the full grows; Incremental chains against the latest record instead. The
// asymmetry is deliberate. With no record at all, or no full record anywhere
// in the manifest, the run is skipped.
func (e *Engine) Differential(ctx context.Context) (*Result, error) {
	log := e.runLogger(KindDifferential)

	manifest, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	if manifest.Len() == 0 {
		log.Warn("No prior backup found, differential backup skipped")
		return &Result{Outcome: OutcomeSkipped, Kind: KindDifferential, SkipReason: SkipNoBackupFound}, nil
	}

	reference, ok := manifest.LatestFull()
	if !ok {
		log.Warn("No full backup found, differential backup skipped")
		return &Result{Outcome: OutcomeSkipped, Kind: KindDifferential, SkipReason: SkipNoFullBackup}, nil
	}

	return e.deltaBackup(ctx, log, manifest, KindDifferential, reference)
}

// deltaBackup runs the shared copy/skip loop for incremental and
// differential strategies: hash every source file, copy the ones whose path
// is absent from the reference map or whose digest differs, and append a
// record chained to the reference. An empty delta removes the folder and
// reports a skipped run with no record appended.
func (e *Engine) deltaBackup(ctx context.Context, log *logrus.Entry, manifest *Manifest, kind Kind, reference Record) (*Result, error) {
	timestamp := e.now().Format(TimestampFormat)
	backupPath := filepath.Join(e.backupDir, kind.folderPrefix()+timestamp)
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, NewIOError("failed to create backup folder", err)
	}

	total, err := CountFiles(e.sourceDir)
	if err != nil {
		e.removeBackupFolder(backupPath, log)
		return nil, err
	}
	e.progress.SetTotal(total)

	log.WithField("reference", reference.Timestamp).Infof("Starting %s backup", kind)
	changed := make(map[string]string)

	err = Walk(e.sourceDir, func(rel string) error {
		if err := ctx.Err(); err != nil {
			return NewIOError("backup run canceled", err)
		}
		e.progress.SetDescription("Analyzing: " + rel)

		digest, err := HashFile(filepath.Join(e.sourceDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		if previous, ok := reference.Files[rel]; !ok || previous != digest {
			e.progress.SetDescription("Backing up: " + rel)
			if err := e.copyFile(rel, backupPath); err != nil {
				return err
			}
			changed[rel] = digest
			log.WithField("file", rel).Debug("Backed up file")
		}
		e.progress.Advance(1)
		return nil
	})
	if err != nil {
		e.removeBackupFolder(backupPath, log)
		log.WithField("error", err.Error()).Errorf("%s backup failed", kind)
		return nil, err
	}

	if len(changed) == 0 {
		e.removeBackupFolder(backupPath, log)
		log.Info("No changes detected, backup skipped")
		e.progress.SetDescription("No changes detected, backup skipped")
		return &Result{Outcome: OutcomeSkipped, Kind: kind, SkipReason: SkipNoChanges}, nil
	}

	manifest.Append(Record{
		Kind:      kind,
		Timestamp: timestamp,
		Path:      backupPath,
		Files:     changed,
		Parent:    reference.Timestamp,
	})
	if err := e.store.Save(manifest); err != nil {
		log.WithField("error", err.Error()).Error("Manifest save failed after copy phase")
		return nil, err
	}

	log.WithField("files", len(changed)).Infof("%s backup completed successfully", kind)
	e.progress.SetDescription("Backup completed successfully")

	return &Result{
		Outcome:     OutcomeCompleted,
		Kind:        kind,
		Timestamp:   timestamp,
		Path:        backupPath,
		FilesCopied: len(changed),
	}, nil
}

// copyFile copies the source file at rel into the backup folder, creating
// parent directories and carrying over the file mode and modification time.
func (e *Engine) copyFile(rel, backupPath string) error {
	src := filepath.Join(e.sourceDir, filepath.FromSlash(rel))
	dst := filepath.Join(backupPath, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewIOError("failed to create destination directory", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return NewIOError("failed to open source file", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return NewIOError("failed to stat source file", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return NewIOError("failed to create destination file", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return NewIOError("failed to copy file contents", err)
	}
	if err := out.Close(); err != nil {
		return NewIOError("failed to finish writing destination file", err)
	}

	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return NewIOError("failed to preserve modification time", err)
	}

	return nil
}

// removeBackupFolder best-effort deletes a backup folder after a failed or
// empty run. Secondary deletion errors are logged, never surfaced.
func (e *Engine) removeBackupFolder(path string, log *logrus.Entry) {
	if err := os.RemoveAll(path); err != nil {
		log.WithField("path", path).Warnf("Failed to clean up backup folder: %v", err)
	}
}

// runLogger returns a logger entry carrying a fresh correlation ID and the
// strategy name, so all lines of one run can be grouped in the log file.
func (e *Engine) runLogger(kind Kind) *logrus.Entry {
	return e.logger.WithFields(map[string]interface{}{
		"run_id":   uuid.New().String(),
		"strategy": string(kind),
	})
}
