package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"secure-backup/internal/backup"
	"secure-backup/internal/display"
	"secure-backup/internal/logging"
)

// Config holds the application configuration assembled by the CLI layer.
type Config struct {
	Backup backup.Config `mapstructure:",squash" yaml:",inline"`

	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
	Quiet   bool `mapstructure:"quiet" yaml:"quiet"`

	NoColor    bool `mapstructure:"no_color" yaml:"no_color"`
	NoProgress bool `mapstructure:"no_progress" yaml:"no_progress"`
}

// Application wires the engine to its collaborators: a file logger living
// inside the backup root, a display service for the console, and a progress
// bar fed by the engine's progress sink.
type Application struct {
	config   Config
	logger   *logging.Logger
	display  *display.Service
	progress *display.ProgressBar
	engine   *backup.Engine
	stdin    io.Reader
}

// New creates an application instance. The logger writes only to the run
// log file so the console stays free for progress rendering; it stays open
// for the application's lifetime and is released by Close.
func New(config Config) (*Application, error) {
	config.Backup.SetDefaults()
	if err := config.Backup.Validate(); err != nil {
		return nil, err
	}

	logLevel := logging.LogLevelNormal
	if config.Quiet {
		logLevel = logging.LogLevelQuiet
	} else if config.Verbose {
		logLevel = logging.LogLevelVerbose
	}

	// The log file lives under the backup root, so that root must exist
	// before the logger opens it.
	if err := os.MkdirAll(config.Backup.BackupDir, 0755); err != nil {
		return nil, backup.NewIOError("failed to create backup directory", err)
	}
	logger := logging.NewFileLogger(config.Backup.LogFile, logLevel)

	colorSys := display.NewColorSystem(display.DefaultColorTheme(), config.NoColor)
	displaySvc := display.NewService(os.Stdout, colorSys)
	progress := display.NewProgressBar(os.Stdout, colorSys, !config.NoProgress && !config.Quiet)

	var sink backup.ProgressSink = progress
	if config.NoProgress || config.Quiet {
		sink = backup.NopSink{}
	}

	engine, err := backup.NewEngine(config.Backup, logger, sink)
	if err != nil {
		logger.Close()
		return nil, err
	}

	return &Application{
		config:   config,
		logger:   logger,
		display:  displaySvc,
		progress: progress,
		engine:   engine,
		stdin:    os.Stdin,
	}, nil
}

// Close releases the application's resources, notably the log file.
func (app *Application) Close() error {
	return app.logger.Close()
}

// Engine exposes the backup engine for read-only commands such as list.
func (app *Application) Engine() *backup.Engine {
	return app.engine
}

// Display exposes the display service for command-level rendering.
func (app *Application) Display() *display.Service {
	return app.display
}

// RunStrategy executes one backup strategy and renders its outcome. Skipped
// runs are reported and return nil: only engine failures produce an error
// and a non-zero exit.
func (app *Application) RunStrategy(ctx context.Context, kind backup.Kind) error {
	result, err := app.engine.Run(ctx, kind)
	app.progress.Finish()
	if err != nil {
		app.display.Error(fmt.Sprintf("Backup failed: %v", err))
		return err
	}

	switch result.Outcome {
	case backup.OutcomeCompleted:
		app.display.Success(fmt.Sprintf("Backup location: %s", result.Path))
		app.display.Success(fmt.Sprintf("Files processed: %d", result.FilesCopied))
	case backup.OutcomeSkipped:
		app.display.Warning(fmt.Sprintf("Backup skipped: %s", result.SkipReason))
	}
	fmt.Fprintln(app.display.Writer())

	return nil
}

// menuOptions mirrors the original numbered menu: 1 full, 2 differential,
// 3 incremental, 4 exit.
var menuOptions = []display.MenuOption{
	{Key: "1", Title: "Full Backup", Description: "Complete snapshot of the source tree"},
	{Key: "2", Title: "Differential Backup", Description: "Changes since the last full backup"},
	{Key: "3", Title: "Incremental Backup", Description: "Changes since the last backup"},
	{Key: "4", Title: "Exit", Description: "Close the backup tool"},
}

// KindForChoice maps a menu choice to a backup kind.
func KindForChoice(choice string) (backup.Kind, bool) {
	switch choice {
	case "1":
		return backup.KindFull, true
	case "2":
		return backup.KindDifferential, true
	case "3":
		return backup.KindIncremental, true
	default:
		return "", false
	}
}

// RunInteractive presents the menu loop until the user exits or input ends.
func (app *Application) RunInteractive(ctx context.Context) error {
	app.display.PrintBanner()
	reader := bufio.NewReader(app.stdin)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		app.display.PrintMenu("Secure Backup System", menuOptions)
		choice, err := app.display.ReadChoice(reader, "Enter your choice (1-4):")
		if err != nil {
			// Input closed; treat like a normal exit.
			return nil
		}

		if choice == "4" {
			app.display.Info("Shutting down backup tool...")
			return nil
		}

		kind, ok := KindForChoice(choice)
		if !ok {
			app.display.Warning("Invalid option. Please try again.")
			continue
		}

		if err := app.RunStrategy(ctx, kind); err != nil {
			// Already rendered; keep the menu loop alive so the user can
			// retry or exit.
			continue
		}
	}
}

// ListBackups renders the manifest's records as a table.
func (app *Application) ListBackups() error {
	manifest, err := app.engine.Manifest()
	if err != nil {
		return err
	}

	if manifest.Len() == 0 {
		app.display.Info("No backups recorded yet.")
		return nil
	}

	rows := make([][]string, 0, manifest.Len())
	for _, rec := range manifest.Backups {
		parent := rec.Parent
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{
			string(rec.Kind),
			rec.Timestamp,
			parent,
			fmt.Sprintf("%d", len(rec.Files)),
			rec.Path,
		})
	}

	app.display.PrintHeader("Recorded backups")
	app.display.PrintTable([]string{"TYPE", "TIMESTAMP", "PARENT", "FILES", "PATH"}, rows)
	return nil
}
