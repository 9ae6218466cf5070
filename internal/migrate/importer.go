package migrate

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/brewmigrate/internal/manifest"
)

// Result is the outcome of one manifest entry.
type Result struct {
	Key     string
	Name    QualifiedName
	Outcome Outcome
	Err     error
}

// Importer reinstalls every entry of a manifest in manifest order.
type Importer struct {
	reinstaller *Reinstaller
	logger      *log.Logger

	// OnResult, if set, is called after each entry.
	OnResult func(Result)
}

// NewImporter creates an Importer.
func NewImporter(r *Reinstaller, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{reinstaller: r, logger: logger}
}

// Import processes the manifest. A failed entry is recorded and the run
// moves on; the returned error is non-nil only when the run had to stop,
// either because a restore failed or ctx was cancelled. The results
// gathered so far are returned in both cases.
func (i *Importer) Import(ctx context.Context, m *manifest.Manifest, flags InstallFlags) ([]Result, error) {
	results := make([]Result, 0, m.Len())

	for _, key := range m.Keys() {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		entry, _ := m.Get(key)
		name := Resolve(key)

		outcome, err := i.reinstaller.Reinstall(ctx, name, entry, flags)
		res := Result{Key: key, Name: name, Outcome: outcome, Err: err}
		results = append(results, res)
		if i.OnResult != nil {
			i.OnResult(res)
		}

		if errors.Is(err, ErrRestoreFailed) {
			i.logger.Error("stopping import", "formula", key, "err", err)
			return results, err
		}
		if err != nil {
			i.logger.Error("import failed", "formula", key, "err", err)
		}
	}

	return results, nil
}
