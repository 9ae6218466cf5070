// Package output provides terminal output utilities for brewmigrate.
//
// This package includes:
//   - Table rendering for import outcomes and recorded import runs
//   - A spinner for long-running installs
//
// Tables use plain characters plus ANSI colors when stdout is a terminal
// and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/brewmigrate/internal/migrate"
	"github.com/blackwell-systems/brewmigrate/internal/store"
)

// ANSI color codes for outcome display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// outcomeColor maps an outcome label to its display color.
func outcomeColor(outcome string) string {
	switch outcome {
	case migrate.OutcomeInstalled.String():
		return colorGreen
	case migrate.OutcomeSkippedAlreadyAttempted.String():
		return colorYellow
	case migrate.OutcomeFailedAndRestored.String(), migrate.OutcomeAborted.String():
		return colorRed
	default:
		return colorGray
	}
}

// RenderOutcomeTable renders one row per manifest entry, in import order,
// followed by a summary line.
func RenderOutcomeTable(results []migrate.Result) string {
	if len(results) == 0 {
		return "No formulae imported.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-30s %-10s %s\n", "Formula", "Outcome", "Error"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	var installed, skipped, failed int
	for _, res := range results {
		label := res.Outcome.String()
		switch res.Outcome {
		case migrate.OutcomeInstalled:
			installed++
		case migrate.OutcomeSkippedAlreadyAttempted:
			skipped++
		default:
			failed++
		}

		errText := ""
		if res.Err != nil {
			errText = truncate(firstLine(res.Err.Error()), 60)
		}

		// pad before coloring so escape codes don't break alignment
		sb.WriteString(fmt.Sprintf("%-30s %s %s\n",
			truncate(res.Key, 30),
			colorize(outcomeColor(label), fmt.Sprintf("%-10s", label)),
			errText))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d installed, %d skipped, %d failed\n", installed, skipped, failed))

	return sb.String()
}

// RenderRunTable renders recorded import runs, in the order given.
func RenderRunTable(runs []*store.ImportRun) string {
	if len(runs) == 0 {
		return "No import runs recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-17s %-9s %-10s %s\n",
		"ID", "Started", "Entries", "Status", "Source"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, run := range runs {
		status := "complete"
		if !run.Finished() {
			status = "incomplete"
		}

		sb.WriteString(fmt.Sprintf("%-5d %-17s %-9d %-10s %s\n",
			run.ID,
			formatRelativeTime(run.StartedAt),
			run.EntryCount,
			status,
			truncate(run.Source, 36)))
	}

	return sb.String()
}

// RenderResultTable renders the recorded results of a single run.
func RenderResultTable(results []*store.ImportResult) string {
	if len(results) == 0 {
		return "No results recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-30s %-10s %s\n", "#", "Formula", "Outcome", "Error"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, res := range results {
		sb.WriteString(fmt.Sprintf("%-4d %-30s %s %s\n",
			res.Position+1,
			truncate(res.Key, 30),
			colorize(outcomeColor(res.Outcome), fmt.Sprintf("%-10s", res.Outcome)),
			truncate(firstLine(res.Error), 50)))
	}

	return sb.String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
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
	case diff < 30*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// firstLine returns s up to its first newline; brew errors carry full logs.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
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
