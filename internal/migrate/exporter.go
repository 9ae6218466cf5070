package migrate

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
	"github.com/blackwell-systems/brewmigrate/internal/manifest"
)

// Exporter builds a manifest from installed formulae.
type Exporter struct {
	registry Registry
}

// NewExporter creates an Exporter backed by registry.
func NewExporter(registry Registry) *Exporter {
	return &Exporter{registry: registry}
}

// Export returns a manifest for the named formulae, or for everything
// installed when names is empty. A named formula that is unknown or not
// installed fails with brew.ErrUnknownPackage.
func (e *Exporter) Export(ctx context.Context, names []string) (*manifest.Manifest, error) {
	formulae, err := e.formulae(ctx, names)
	if err != nil {
		return nil, err
	}

	m := manifest.New()
	for _, f := range formulae {
		m.Set(ExportKey(f), ExportEntry(f))
	}
	return m, nil
}

func (e *Exporter) formulae(ctx context.Context, names []string) ([]*brew.Formula, error) {
	if len(names) == 0 {
		all, err := e.registry.Installed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list installed formulae: %w", err)
		}
		installed := make([]*brew.Formula, 0, len(all))
		for _, f := range all {
			if f.Installed {
				installed = append(installed, f)
			}
		}
		return installed, nil
	}

	formulae := make([]*brew.Formula, 0, len(names))
	for _, name := range names {
		f, err := e.registry.Formula(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", name, err)
		}
		if !f.Installed {
			return nil, fmt.Errorf("failed to export %s: %w: not installed", name, brew.ErrUnknownPackage)
		}
		formulae = append(formulae, f)
	}
	return formulae, nil
}

// ExportKey is "user/repo/name" for tapped formulae and the bare name for
// core formulae.
func ExportKey(f *brew.Formula) string {
	if f.IsCoreTap() {
		return f.Name
	}
	return f.Tap + "/" + f.Name
}

// ExportEntry records the options of the last install together with those
// the current definition uses, and whether it was built as a bottle.
func ExportEntry(f *brew.Formula) manifest.Entry {
	return manifest.Entry{
		Options:     f.RecordedOptions().Union(f.BuildUsedOptions()),
		BuildBottle: f.BuiltAsBottle(),
	}
}
