package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/brewmigrate/internal/migrate"
	"github.com/blackwell-systems/brewmigrate/internal/store"
)

func TestRenderOutcomeTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	results := []migrate.Result{
		{Key: "wget", Outcome: migrate.OutcomeInstalled},
		{Key: "git", Outcome: migrate.OutcomeSkippedAlreadyAttempted},
		{Key: "ffmpeg", Outcome: migrate.OutcomeFailedAndRestored, Err: errors.New("brew install ffmpeg failed\nlong log")},
		{Key: "nope", Outcome: migrate.OutcomeAborted, Err: errors.New("no available formula")},
	}

	out := RenderOutcomeTable(results)

	for _, want := range []string{"Formula", "Outcome", "wget", "installed", "skipped", "brew install ffmpeg failed", "no available formula"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "long log") {
		t.Error("only the first line of an error should be shown")
	}
	if !strings.Contains(out, "1 installed, 1 skipped, 2 failed") {
		t.Errorf("summary line wrong:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("NO_COLOR should suppress escape codes")
	}

	// rows follow import order
	if strings.Index(out, "wget") > strings.Index(out, "ffmpeg") {
		t.Error("rows out of order")
	}
}

func TestRenderOutcomeTable_Empty(t *testing.T) {
	if got := RenderOutcomeTable(nil); got != "No formulae imported.\n" {
		t.Errorf("RenderOutcomeTable(nil) = %q", got)
	}
}

func TestRenderRunTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	runs := []*store.ImportRun{
		{ID: 2, StartedAt: time.Now(), Source: "-", EntryCount: 5},
		{ID: 1, StartedAt: time.Now().Add(-3 * time.Hour), FinishedAt: time.Now().Add(-2 * time.Hour), Source: "formulae.json", EntryCount: 12},
	}

	out := RenderRunTable(runs)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "incomplete") || !strings.Contains(lines[2], "just now") {
		t.Errorf("row for run 2 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "complete") || !strings.Contains(lines[3], "3 hours ago") || !strings.Contains(lines[3], "formulae.json") {
		t.Errorf("row for run 1 = %q", lines[3])
	}

	if got := RenderRunTable(nil); got != "No import runs recorded.\n" {
		t.Errorf("RenderRunTable(nil) = %q", got)
	}
}

func TestRenderResultTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out := RenderResultTable([]*store.ImportResult{
		{Position: 0, Key: "a", Outcome: "installed"},
		{Position: 1, Key: "b", Outcome: "failed", Error: "boom"},
	})
	if !strings.Contains(out, "1    a") || !strings.Contains(out, "2    b") {
		t.Errorf("positions should be shown 1-based:\n%s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("error text missing:\n%s", out)
	}

	if got := RenderResultTable(nil); got != "No results recorded.\n" {
		t.Errorf("RenderResultTable(nil) = %q", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-1 * time.Hour), "1 hour ago"},
		{now.Add(-25 * time.Hour), "1 day ago"},
		{now.Add(-72 * time.Hour), "3 days ago"},
	}

	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}

	old := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := formatRelativeTime(old); got != "2020-01-02" {
		t.Errorf("formatRelativeTime(old) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestOutcomeColor(t *testing.T) {
	if outcomeColor("installed") != colorGreen {
		t.Error("installed should be green")
	}
	if outcomeColor("skipped") != colorYellow {
		t.Error("skipped should be yellow")
	}
	if outcomeColor("failed") != colorRed || outcomeColor("aborted") != colorRed {
		t.Error("failed and aborted should be red")
	}
	if outcomeColor("other") != colorGray {
		t.Error("unknown outcomes should be gray")
	}
}
