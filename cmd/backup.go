package cmd

import (
	"secure-backup/internal/application"
	"secure-backup/internal/backup"

	"github.com/spf13/cobra"
)

// fullCmd runs a full backup
var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Create a complete snapshot of the source tree",
	Long: `Copy every file under the source directory into a fresh backup folder
and record a full backup in the manifest. Full backups never consult prior
state and start a new chain that later incremental and differential runs
build on.`,
	RunE: runStrategyCommand(backup.KindFull),
}

// incrementalCmd runs an incremental backup
var incrementalCmd = &cobra.Command{
	Use:   "incremental",
	Short: "Back up changes since the most recent backup",
	Long: `Copy the files that are new or changed relative to the most recent
recorded backup of any kind. Requires at least one prior backup; with none
recorded the run is skipped and exits successfully.`,
	RunE: runStrategyCommand(backup.KindIncremental),
}

// differentialCmd runs a differential backup
var differentialCmd = &cobra.Command{
	Use:   "differential",
	Short: "Back up changes since the last full backup",
	Long: `Copy the files that are new or changed relative to the most recent
full backup, ignoring intervening incrementals. A restore then needs at most
the full backup plus one differential folder. Requires a full backup
somewhere in the manifest; otherwise the run is skipped and exits
successfully.`,
	RunE: runStrategyCommand(backup.KindDifferential),
}

// listCmd shows the recorded backups
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the backups recorded in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}

		app, err := application.New(*config)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.ListBackups()
	},
}

func init() {
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(incrementalCmd)
	rootCmd.AddCommand(differentialCmd)
	rootCmd.AddCommand(listCmd)
}
