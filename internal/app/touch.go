package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/watchdog/internal/watchdog"
)

var (
	touchTime string

	touchCmd = &cobra.Command{
		Use:   "touch <path>",
		Short: "Advance a file's modification time",
		Long: `Set the modification time of a file or directory so the next poll that
observes it reports a change. The path may carry a * wildcard, in which
case every matching entry in the directory is touched.

By default the timestamp is set to the current time; use --time to set a
specific RFC3339 timestamp.`,
		Example: `  # Force a reload of one shader
  watchdog touch shaders/blur.frag

  # Touch everything the pattern matches
  watchdog touch 'shaders/shader.*'

  # Set an explicit timestamp
  watchdog touch cfg.json --time 2026-08-31T12:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: runTouch,
	}
)

func init() {
	touchCmd.Flags().StringVar(&touchTime, "time", "", "RFC3339 timestamp to set (default: now)")

	RootCmd.AddCommand(touchCmd)
}

func runTouch(cmd *cobra.Command, args []string) error {
	var mtime time.Time
	if touchTime != "" {
		parsed, err := time.Parse(time.RFC3339, touchTime)
		if err != nil {
			return fmt.Errorf("invalid --time value %q: %w", touchTime, err)
		}
		mtime = parsed
	}

	if err := watchdog.Touch(args[0], mtime); err != nil {
		return err
	}

	fmt.Printf("touched %s\n", args[0])
	return nil
}
