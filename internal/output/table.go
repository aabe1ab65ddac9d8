// Package output provides terminal output utilities for the watchdog CLI.
//
// Table rendering uses ASCII characters and ANSI color codes; color is
// suppressed when stdout is not a TTY or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/watchdog/internal/journal"
)

// ANSI color codes for event age display
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderEventTable renders a table of recorded change events, assumed to be
// pre-sorted newest first.
func RenderEventTable(events []journal.Event) string {
	if len(events) == 0 {
		return "No events recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-30s %-20s %s\n",
		"ID", "Pattern", "Detected", "Path"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, ev := range events {
		detected := formatRelativeTime(ev.DetectedAt)

		// Recent events stand out; older ones fade.
		if ev.DetectedAt.After(time.Now().Add(-time.Hour)) {
			detected = colorize(colorGreen, fmt.Sprintf("%-20s", detected))
		} else {
			detected = colorize(colorGray, fmt.Sprintf("%-20s", detected))
		}

		sb.WriteString(fmt.Sprintf("%-5d %-30s %s %s\n",
			ev.ID,
			truncate(ev.Pattern, 30),
			detected,
			truncate(ev.Path, 40)))
	}

	return sb.String()
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// formatRelativeTime renders a timestamp relative to now.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
