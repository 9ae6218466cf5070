package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when an import run ID does not exist.
var ErrRunNotFound = errors.New("import run not found")

// Import run operations

// InsertImportRun records the start of an import and returns its ID.
func (s *Store) InsertImportRun(source string, entryCount int) (int64, error) {
	query := `
		INSERT INTO import_runs (started_at, source, entry_count)
		VALUES (?, ?, ?)
	`

	result, err := s.db.Exec(query,
		time.Now().Format(time.RFC3339Nano),
		source,
		entryCount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert import run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import run ID: %w", err)
	}

	return id, nil
}

// FinishImportRun stamps the run's completion time.
func (s *Store) FinishImportRun(id int64) error {
	result, err := s.db.Exec(`UPDATE import_runs SET finished_at = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to finish import run %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish import run %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

// GetImportRun retrieves one run by ID.
func (s *Store) GetImportRun(id int64) (*ImportRun, error) {
	query := `
		SELECT id, started_at, finished_at, source, entry_count
		FROM import_runs
		WHERE id = ?
	`

	run, err := scanImportRun(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run %d: %w", id, err)
	}

	return run, nil
}

// ListImportRuns returns all runs, newest first.
func (s *Store) ListImportRuns() ([]*ImportRun, error) {
	query := `
		SELECT id, started_at, finished_at, source, entry_count
		FROM import_runs
		ORDER BY id DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []*ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportRun(row rowScanner) (*ImportRun, error) {
	var run ImportRun
	var startedAt string
	var finishedAt sql.NullString

	if err := row.Scan(&run.ID, &startedAt, &finishedAt, &run.Source, &run.EntryCount); err != nil {
		return nil, err
	}

	var err error
	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at for run %d: %w", run.ID, err)
	}

	if finishedAt.Valid && finishedAt.String != "" {
		run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at for run %d: %w", run.ID, err)
		}
	}

	return &run, nil
}

// Import result operations

// InsertImportResult records one entry's outcome.
func (s *Store) InsertImportResult(res *ImportResult) error {
	query := `
		INSERT INTO import_results (run_id, position, key, outcome, error)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, res.RunID, res.Position, res.Key, res.Outcome, res.Error)
	if err != nil {
		return fmt.Errorf("failed to insert result for %s: %w", res.Key, err)
	}
	return nil
}

// GetImportResults returns a run's results in manifest order.
func (s *Store) GetImportResults(runID int64) ([]*ImportResult, error) {
	query := `
		SELECT run_id, position, key, outcome, COALESCE(error, '')
		FROM import_results
		WHERE run_id = ?
		ORDER BY position
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []*ImportResult
	for rows.Next() {
		var res ImportResult
		if err := rows.Scan(&res.RunID, &res.Position, &res.Key, &res.Outcome, &res.Error); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}
