package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	journalPath string
	noJournal   bool
	verbose     bool

	// RootCmd is the root command for watchdog
	RootCmd = &cobra.Command{
		Use:   "watchdog",
		Short: "Polling file watcher for development hot-reload workflows",
		Long: `watchdog watches files and single-wildcard patterns for modification and
reacts within one polling interval (500ms by default). It is built for
development loops: recompiling shaders, reloading configs, refreshing
assets.

Patterns may carry one * in the final path segment:
  shaders/shader.*   any file in shaders/ whose name contains "shader."
  config/app.yaml    a single file, watched literally

Detected changes are logged, recorded in a local SQLite journal, pushed to
livereload websocket clients (with --serve), and can trigger a shell
command (with --exec).

Examples:
  # React to shader edits
  watchdog watch 'shaders/shader.*' --exec 'make shaders'

  # Watch several paths from a manifest, run as a daemon
  watchdog watch --daemon

  # Push reload events to browsers and expose /metrics
  watchdog watch 'assets/*.png' --serve :35729

  # Force a change without editing the file
  watchdog touch shaders/blur.frag

  # Inspect recent activity
  watchdog events --limit 20
  watchdog status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("watchdog: polling file watcher for development workflows")
			fmt.Println()
			fmt.Println("Run 'watchdog watch <pattern>' to start watching.")
			fmt.Println("Run 'watchdog --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "journal database path (default: ~/.watchdog/events.db)")
	RootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "disable the change event journal")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// buildLogger creates the CLI logger. Debug level when --verbose is set.
func buildLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
