package store

import "time"

// ImportRun is one invocation of brewmigrate import.
type ImportRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time // zero while running or if the run was interrupted
	Source     string    // manifest path, or "-" for stdin
	EntryCount int
}

// Finished reports whether the run completed.
func (r *ImportRun) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// ImportResult is the recorded outcome of one manifest entry.
type ImportResult struct {
	RunID    int64
	Position int
	Key      string
	Outcome  string // "installed", "skipped", "failed" or "aborted"
	Error    string
}
