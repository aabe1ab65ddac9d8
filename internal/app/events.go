package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/watchdog/internal/journal"
	"github.com/blackwell-systems/watchdog/internal/output"
)

var (
	eventsLimit      int
	eventsPattern    string
	eventsConfigFile string

	eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "List recently detected changes",
		Long: `Show change events recorded in the journal, newest first. The journal is
written by 'watchdog watch' unless --no-journal is set.`,
		Example: `  # Last 20 events
  watchdog events

  # Last 50 events for one pattern
  watchdog events --limit 50 --pattern 'shaders/shader.*'`,
		RunE: runEvents,
	}
)

func init() {
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "maximum number of events to show")
	eventsCmd.Flags().StringVar(&eventsPattern, "pattern", "", "only show events for this watch pattern")
	eventsCmd.Flags().StringVar(&eventsConfigFile, "config", "", "manifest path (default: $XDG_CONFIG_HOME/watchdog/watchdog.yaml)")

	RootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	jnlPath, err := journalPathFromManifest(eventsConfigFile)
	if err != nil {
		return err
	}
	if jnlPath == "" {
		return fmt.Errorf("journal is disabled (--no-journal)")
	}

	// Avoid creating an empty database just to report no events.
	if _, err := os.Stat(jnlPath); os.IsNotExist(err) {
		fmt.Print("No events recorded.\n")
		return nil
	}

	jnl, err := journal.Open(jnlPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer jnl.Close()

	var events []journal.Event
	if eventsPattern != "" {
		events, err = jnl.RecentForPattern(eventsPattern, eventsLimit)
	} else {
		events, err = jnl.Recent(eventsLimit)
	}
	if err != nil {
		return err
	}

	fmt.Print(output.RenderEventTable(events))
	return nil
}
