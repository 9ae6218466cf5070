package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
)

// fakeRegistry serves formulae from a map keyed by full name.
type fakeRegistry struct {
	formulae  map[string]*brew.Formula
	installed []*brew.Formula
	err       error
}

func (r *fakeRegistry) Formula(ctx context.Context, name string) (*brew.Formula, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.formulae[name]
	if !ok {
		return nil, fmt.Errorf("%w with the name %q", brew.ErrUnknownPackage, name)
	}
	return f, nil
}

func (r *fakeRegistry) Installed(ctx context.Context) ([]*brew.Formula, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.installed, nil
}

type fakeTaps struct {
	tapped []string
	err    error
}

func (t *fakeTaps) EnsureTap(ctx context.Context, user, repo string) error {
	if t.err != nil {
		return t.err
	}
	t.tapped = append(t.tapped, user+"/"+repo)
	return nil
}

// fakeInstaller records requests and delegates to install when set.
type fakeInstaller struct {
	requests []brew.InstallRequest
	install  func(ctx context.Context, req brew.InstallRequest) error
}

func (i *fakeInstaller) Install(ctx context.Context, req brew.InstallRequest) error {
	i.requests = append(i.requests, req)
	if i.install != nil {
		return i.install(ctx, req)
	}
	return nil
}

type fakeLinker struct {
	linked      []string
	unlinked    []string
	linkCtxErrs []error
	linkErr     error
	unlinkErr   error
}

func (l *fakeLinker) Link(ctx context.Context, f *brew.Formula) error {
	l.linkCtxErrs = append(l.linkCtxErrs, ctx.Err())
	if l.linkErr != nil {
		return l.linkErr
	}
	l.linked = append(l.linked, f.FullName)
	return nil
}

func (l *fakeLinker) Unlink(ctx context.Context, f *brew.Formula) error {
	if l.unlinkErr != nil {
		return l.unlinkErr
	}
	l.unlinked = append(l.unlinked, f.FullName)
	return nil
}

// testPrefix is a throwaway Homebrew prefix with Cellar and opt dirs.
type testPrefix struct {
	t    *testing.T
	root string
}

func newTestPrefix(t *testing.T) *testPrefix {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"Cellar", "opt"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return &testPrefix{t: t, root: root}
}

func (p *testPrefix) optPath(name string) string {
	return filepath.Join(p.root, "opt", name)
}

func (p *testPrefix) kegPath(name, version string) string {
	return filepath.Join(p.root, "Cellar", name, version)
}

// installKeg creates Cellar/<name>/<version>/bin/<name> holding content and
// points opt/<name> at it. It returns the resolved keg path.
func (p *testPrefix) installKeg(name, version, content string) string {
	p.t.Helper()
	keg := p.kegPath(name, version)
	writeKegFile(p.t, keg, name, content)

	opt := p.optPath(name)
	os.Remove(opt)
	if err := os.Symlink(keg, opt); err != nil {
		p.t.Fatalf("failed to link opt: %v", err)
	}

	resolved, err := filepath.EvalSymlinks(keg)
	if err != nil {
		p.t.Fatalf("failed to resolve keg: %v", err)
	}
	return resolved
}

func (p *testPrefix) formula(name string) *brew.Formula {
	return &brew.Formula{
		Name:      name,
		FullName:  name,
		Tap:       brew.CoreTap,
		OptPrefix: p.optPath(name),
	}
}

func writeKegFile(t *testing.T, keg, name, content string) {
	t.Helper()
	bin := filepath.Join(keg, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		t.Fatalf("failed to create keg: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bin, name), []byte(content), 0755); err != nil {
		t.Fatalf("failed to write keg file: %v", err)
	}
}

func readKegFile(t *testing.T, keg, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(keg, "bin", name))
	if err != nil {
		t.Fatalf("failed to read keg file: %v", err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
