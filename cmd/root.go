package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"secure-backup/internal/application"
	"secure-backup/internal/backup"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// CLI flag variables
var (
	sourceDir string
	backupDir string
	logFile   string

	verbose bool
	quiet   bool

	noColor    bool
	noProgress bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "secure-backup [choice]",
	Short: "Point-in-time backups of a directory tree with full, incremental, and differential strategies",
	Long: `Secure Backup produces point-in-time copies of a source directory under
three strategies and tracks them through a manifest of backup records.

Full backups snapshot every file. Incremental backups copy what changed since
the most recent backup of any kind. Differential backups copy what changed
since the last full backup, so a restore never needs more than two backup
folders.

Run without arguments for the interactive menu, pass a choice (1 full,
2 differential, 3 incremental, 4 exit), or use the explicit subcommands.

Examples:
  # Interactive menu
  secure-backup --source /data --backup /backups

  # One-shot full backup
  secure-backup full --source /data --backup /backups

  # Incremental backup via menu choice number
  secure-backup 3 --source /data --backup /backups

  # Differential backup with a config file
  secure-backup differential --config backup.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.secure-backup.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sourceDir, "source", "s", "", "source directory to back up")
	rootCmd.PersistentFlags().StringVarP(&backupDir, "backup", "b", "", "backup directory holding backup folders and the manifest")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "run log file (default is backup.log inside the backup directory)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress indicators")

	viper.BindPFlag("source_dir", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("backup_dir", rootCmd.PersistentFlags().Lookup("backup"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("no_progress", rootCmd.PersistentFlags().Lookup("no-progress"))
}

// runRoot handles the bare invocation: a positional menu choice runs one
// strategy, no argument starts the interactive menu.
func runRoot(cmd *cobra.Command, args []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}

	app, err := application.New(*config)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signalContext()
	defer stop()

	if len(args) == 0 {
		return app.RunInteractive(ctx)
	}

	if args[0] == "4" {
		app.Display().Info("Shutting down backup tool...")
		return nil
	}

	kind, ok := application.KindForChoice(args[0])
	if !ok {
		return fmt.Errorf("invalid choice %q: expected 1 (full), 2 (differential), 3 (incremental), or 4 (exit)", args[0])
	}

	return app.RunStrategy(ctx, kind)
}

// runStrategyCommand backs the full/incremental/differential subcommands.
func runStrategyCommand(kind backup.Kind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}

		app, err := application.New(*config)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signalContext()
		defer stop()

		return app.RunStrategy(ctx, kind)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM so a run in
// flight can clean up its partial backup folder before exiting.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// buildConfig builds the application configuration from CLI flags, the
// config file, and environment variables.
func buildConfig() (*application.Config, error) {
	config := &application.Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Explicit flag overrides on top of viper's merged view.
	if sourceDir != "" {
		config.Backup.SourceDir = sourceDir
	}
	if backupDir != "" {
		config.Backup.BackupDir = backupDir
	}
	if logFile != "" {
		config.Backup.LogFile = logFile
	}
	if verbose {
		config.Verbose = true
	}
	if quiet {
		config.Quiet = true
	}
	if noColor {
		config.NoColor = true
	}
	if noProgress {
		config.NoProgress = true
	}

	if config.Verbose && config.Quiet {
		return nil, fmt.Errorf("--verbose and --quiet flags are mutually exclusive")
	}

	config.Backup.SetDefaults()
	if err := config.Backup.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".secure-backup")
	}

	viper.SetEnvPrefix("SECURE_BACKUP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Version information (set by main package)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("secure-backup version %s\n", version)
			fmt.Printf("Built: %s\n", buildTime)
			fmt.Printf("Commit: %s\n", gitCommit)
		},
	}
}

// createConfigCommand creates the config subcommand for generating sample config
func createConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Generate a sample configuration file",
		Long: `Generate a sample configuration file that can be used with the --config flag.

Examples:
  secure-backup config > .secure-backup.yaml`,
		Run: func(cmd *cobra.Command, args []string) {
			sampleConfig := `# Secure Backup configuration file

source_dir: /path/to/source    # Directory tree to back up
backup_dir: /path/to/backups   # Backup folders and manifest live here
log_file: ""                   # Default: backup.log inside backup_dir

verbose: false                 # Detailed output
quiet: false                   # Errors only (mutually exclusive with verbose)
no_color: false                # Disable colorized output
no_progress: false             # Disable the progress bar

# Environment variables override file values with the SECURE_BACKUP_ prefix:
#   SECURE_BACKUP_SOURCE_DIR=/data
#   SECURE_BACKUP_BACKUP_DIR=/backups
#   SECURE_BACKUP_NO_COLOR=1
`
			fmt.Print(sampleConfig)
		},
	}
}

func init() {
	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createConfigCommand())
}
