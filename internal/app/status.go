package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/watchdog/internal/journal"
)

var (
	statusConfigFile string

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Check daemon status and journal statistics",
		Long: `Display the current status of the watchdog daemon and the change journal.

Shows:
  • Daemon running status and PID
  • Journal location and validity
  • Events recorded in the last 24 hours
  • Most recent detected change`,
		Example: `  # Check status
  watchdog status`,
		RunE: runStatus,
	}
)

func init() {
	statusCmd.Flags().StringVar(&statusConfigFile, "config", "", "manifest path (default: $XDG_CONFIG_HOME/watchdog/watchdog.yaml)")

	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	running, err := isDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		pid := 0
		if pidData, err := os.ReadFile(pidFile); err == nil {
			pid, _ = strconv.Atoi(strings.TrimSpace(string(pidData)))
		}
		fmt.Printf("Daemon:   running (PID %d)\n", pid)
	} else {
		fmt.Println("Daemon:   not running")
	}

	jnlPath, err := journalPathFromManifest(statusConfigFile)
	if err != nil {
		return err
	}
	if jnlPath == "" {
		fmt.Println("Journal:  disabled")
		return nil
	}

	if _, err := os.Stat(jnlPath); os.IsNotExist(err) {
		fmt.Printf("Journal:  %s (not created yet)\n", jnlPath)
		return nil
	}
	fmt.Printf("Journal:  %s\n", jnlPath)

	jnl, err := journal.Open(jnlPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer jnl.Close()

	count, err := jnl.CountSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return err
	}
	fmt.Printf("Events:   %d in the last 24h\n", count)

	recent, err := jnl.Recent(1)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Printf("Latest:   %s (%s)\n",
			recent[0].Pattern,
			recent[0].DetectedAt.Local().Format(time.RFC3339))
	}

	return nil
}
