package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/watchdog/internal/config"
	"github.com/blackwell-systems/watchdog/internal/journal"
	"github.com/blackwell-systems/watchdog/internal/reload"
	"github.com/blackwell-systems/watchdog/internal/watchdog"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchStop        bool
	watchPIDFile     string
	watchLogFile     string
	watchConfigFile  string
	watchInterval    time.Duration
	watchExec        string
	watchServe       string

	watchCmd = &cobra.Command{
		Use:   "watch [pattern...]",
		Short: "Watch files or wildcard patterns for changes",
		Long: `Start polling the given paths for modification. Each pattern may carry a
single * wildcard in its final segment; a path without a wildcard is
watched literally.

Patterns come from the command line, from a YAML manifest, or both. The
manifest (default: $XDG_CONFIG_HOME/watchdog/watchdog.yaml) can attach a
shell command to each entry:

  interval: 250ms
  serve: ":35729"
  watches:
    - path: "shaders/shader.*"
      exec: "make shaders"
    - path: "config/app.yaml"

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run as a background process with a PID file
  • Stop: stop a running daemon

Every detected change is logged and recorded in the journal (disable with
--no-journal). With --serve, changes are also pushed to livereload
websocket clients at /reload, and Prometheus metrics are exposed at
/metrics.`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  watchdog watch 'shaders/shader.*'

  # Rebuild on change
  watchdog watch 'shaders/*.frag' --exec 'make shaders'

  # Run as background daemon using the manifest
  watchdog watch --daemon

  # Stop running daemon
  watchdog watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.watchdog/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.watchdog/watch.log)")
	watchCmd.Flags().StringVar(&watchConfigFile, "config", "", "manifest path (default: $XDG_CONFIG_HOME/watchdog/watchdog.yaml)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "polling interval (default: 500ms)")
	watchCmd.Flags().StringVar(&watchExec, "exec", "", "shell command to run when a command-line pattern changes")
	watchCmd.Flags().StringVar(&watchServe, "serve", "", "address for the livereload/metrics HTTP server (e.g. :35729)")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}
	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopDaemon(watchPIDFile)
	}

	manifestPath := watchConfigFile
	if manifestPath == "" {
		defaultManifest, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve manifest path: %w", err)
		}
		manifestPath = defaultManifest
	}
	manifest, err := config.Load(manifestPath)
	if err != nil {
		return err
	}

	entries := mergeEntries(manifest.Watches, args, watchExec)
	if len(entries) == 0 {
		return fmt.Errorf("nothing to watch: pass a pattern or configure %s", manifestPath)
	}

	if watchDaemon && !watchDaemonChild {
		return startDaemon(watchPIDFile, watchLogFile, childArgs(args))
	}

	interval := watchInterval
	if interval <= 0 {
		interval = time.Duration(manifest.Interval)
	}
	serveAddr := watchServe
	if serveAddr == "" {
		serveAddr = manifest.Serve
	}
	jnlPath, err := resolveJournalPath(manifest.Journal)
	if err != nil {
		return err
	}

	return runForeground(entries, interval, serveAddr, jnlPath)
}

// mergeEntries combines manifest entries with command-line patterns. The
// --exec command applies to command-line patterns only; manifest entries
// carry their own.
func mergeEntries(manifest []config.WatchEntry, args []string, execCmd string) []config.WatchEntry {
	entries := make([]config.WatchEntry, 0, len(manifest)+len(args))
	seen := make(map[string]bool)

	for _, entry := range manifest {
		if seen[entry.Path] {
			continue
		}
		seen[entry.Path] = true
		entries = append(entries, entry)
	}
	for _, path := range args {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		entries = append(entries, config.WatchEntry{Path: path, Exec: execCmd})
	}
	return entries
}

// childArgs rebuilds the argument vector for the daemon child so it sees
// the same patterns and flags as the parent invocation.
func childArgs(patterns []string) []string {
	args := []string{"watch", "--daemon-child",
		"--pid-file", watchPIDFile,
		"--log-file", watchLogFile,
	}
	if watchConfigFile != "" {
		args = append(args, "--config", watchConfigFile)
	}
	if watchInterval > 0 {
		args = append(args, "--interval", watchInterval.String())
	}
	if watchExec != "" {
		args = append(args, "--exec", watchExec)
	}
	if watchServe != "" {
		args = append(args, "--serve", watchServe)
	}
	if journalPath != "" {
		args = append(args, "--journal", journalPath)
	}
	if noJournal {
		args = append(args, "--no-journal")
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return append(args, patterns...)
}

// runForeground registers every entry and blocks until SIGINT/SIGTERM.
func runForeground(entries []config.WatchEntry, interval time.Duration, serveAddr, jnlPath string) error {
	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var jnl *journal.Journal
	if jnlPath != "" {
		jnl, err = journal.Open(jnlPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer jnl.Close()
	}

	var hub *reload.Hub
	var httpSrv *http.Server
	if serveAddr != "" {
		hub = reload.NewHub(logger)
		httpSrv = &http.Server{Addr: serveAddr, Handler: hub.Handler()}
		go func() {
			logger.Info("reload server listening", zap.String("addr", serveAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("reload server failed", zap.Error(err))
			}
		}()
	}

	opts := []watchdog.Option{watchdog.WithLogger(logger)}
	if interval > 0 {
		opts = append(opts, watchdog.WithInterval(interval))
	}
	reg := watchdog.New(opts...)

	for _, entry := range entries {
		if err := reg.Watch(entry.Path, changeHandler(logger, jnl, hub, entry)); err != nil {
			reg.Close()
			return fmt.Errorf("failed to watch %s: %w", entry.Path, err)
		}
		logger.Info("watching", zap.String("pattern", entry.Path))
	}
	reload.ActiveWatches.Set(float64(reg.Len()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	reg.UnwatchAll()
	reload.ActiveWatches.Set(0)

	if httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(ctx)
		hub.Close()
	}

	if watchDaemonChild {
		if err := os.Remove(watchPIDFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove PID file: %w", err)
		}
	}
	return nil
}

// changeHandler builds the callback for one watch entry: log, count,
// journal, broadcast, exec.
func changeHandler(logger *zap.Logger, jnl *journal.Journal, hub *reload.Hub, entry config.WatchEntry) watchdog.Callback {
	return func(path string) {
		now := time.Now()
		logger.Info("change detected",
			zap.String("pattern", entry.Path),
			zap.String("path", path))
		reload.ChangesTotal.WithLabelValues(entry.Path).Inc()

		if jnl != nil {
			err := jnl.Append(journal.Event{
				Pattern:    entry.Path,
				Path:       path,
				DetectedAt: now,
			})
			if err != nil {
				logger.Warn("journal append failed", zap.Error(err))
			}
		}
		if hub != nil {
			hub.Broadcast(reload.Event{Pattern: entry.Path, Path: path, At: now})
		}
		if entry.Exec != "" {
			runExecCommand(logger, entry.Exec, path)
		}
	}
}

// runExecCommand runs the entry's shell command, passing the changed path
// in WATCHDOG_PATH. It runs on the watch's polling goroutine, so a slow
// command delays that watch's next tick but not other watches.
func runExecCommand(logger *zap.Logger, command, path string) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Env = append(os.Environ(), "WATCHDOG_PATH="+path)

	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warn("exec failed",
			zap.String("command", command),
			zap.ByteString("output", out),
			zap.Error(err))
		return
	}
	logger.Info("exec finished", zap.String("command", command))
}
