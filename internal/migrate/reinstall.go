package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
	"github.com/blackwell-systems/brewmigrate/internal/manifest"
)

// Registry resolves formula names and reports installed state.
type Registry interface {
	// Formula returns brew.ErrUnknownPackage (wrapped) for unknown names.
	Formula(ctx context.Context, name string) (*brew.Formula, error)
	Installed(ctx context.Context) ([]*brew.Formula, error)
}

// TapRegistrar makes a tap available before its formulae are looked up.
type TapRegistrar interface {
	EnsureTap(ctx context.Context, user, repo string) error
}

// Installer is the external installation engine. It returns
// brew.ErrAlreadyAttempted (wrapped) for a repeat attempt in one run.
type Installer interface {
	Install(ctx context.Context, req brew.InstallRequest) error
}

// Linker puts a keg on, or takes it off, the default link path.
type Linker interface {
	Link(ctx context.Context, f *brew.Formula) error
	Unlink(ctx context.Context, f *brew.Formula) error
}

// Outcome is the result of one reinstall.
type Outcome int

const (
	// OutcomeAborted: the entry stopped before any keg was touched
	// (unknown formula, tap failure) or the run hit a fatal restore error.
	OutcomeAborted Outcome = iota
	OutcomeInstalled
	OutcomeSkippedAlreadyAttempted
	OutcomeFailedAndRestored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeSkippedAlreadyAttempted:
		return "skipped"
	case OutcomeFailedAndRestored:
		return "failed"
	default:
		return "aborted"
	}
}

// InstallFlags come from the invocation, not the manifest.
type InstallFlags struct {
	BuildBottle     bool
	BuildFromSource bool
	ForceBottle     bool
	Verbose         bool
	Debug           bool
}

// Config wires a Reinstaller to its collaborators.
type Config struct {
	Registry  Registry
	Taps      TapRegistrar
	Installer Installer
	Linker    Linker
	Logger    *log.Logger
	Out       io.Writer // notices; defaults to io.Discard
}

// Reinstaller runs the backup, install, commit-or-restore sequence for one
// formula at a time.
type Reinstaller struct {
	registry  Registry
	taps      TapRegistrar
	installer Installer
	linker    Linker
	logger    *log.Logger
	out       io.Writer
}

// NewReinstaller creates a Reinstaller.
func NewReinstaller(cfg Config) *Reinstaller {
	r := &Reinstaller{
		registry:  cfg.Registry,
		taps:      cfg.Taps,
		installer: cfg.Installer,
		linker:    cfg.Linker,
		logger:    cfg.Logger,
		out:       cfg.Out,
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r
}

// Reinstall installs q with entry's build configuration, replacing any
// installed keg. On install failure the previous keg is restored and a
// *FailedAndRestoredError is returned. An error wrapping ErrRestoreFailed
// is fatal for the run.
func (r *Reinstaller) Reinstall(ctx context.Context, q QualifiedName, entry manifest.Entry, flags InstallFlags) (Outcome, error) {
	if q.HasTap() {
		if err := r.taps.EnsureTap(ctx, q.TapUser, q.TapRepo); err != nil {
			return OutcomeAborted, fmt.Errorf("%w: %s: %w", ErrTapRegistrationFailed, q.Tap(), err)
		}
	}

	f, err := r.registry.Formula(ctx, q.FullName())
	if err != nil {
		return OutcomeAborted, err
	}

	options := f.RecordedOptions().Union(entry.Options)
	r.printNotice(f, entry)

	keg, err := FindKeg(f.OptPrefix)
	if err != nil {
		return OutcomeAborted, err
	}
	if keg != nil {
		if err := r.backup(ctx, f, keg); err != nil {
			return OutcomeAborted, err
		}
	}

	if !f.IsCoreTap() {
		fmt.Fprintf(r.out, "==> Installing %s from %s\n", f.Name, f.Tap)
	}

	installErr := r.installer.Install(ctx, brew.InstallRequest{
		Formula:         f,
		Options:         options,
		BuildBottle:     flags.BuildBottle || entry.BuildBottle,
		BuildFromSource: flags.BuildFromSource,
		ForceBottle:     flags.ForceBottle,
		Verbose:         flags.Verbose,
		Debug:           flags.Debug,
	})

	switch {
	case installErr == nil:
		if keg != nil {
			if err := keg.discardBackup(); err != nil {
				r.logger.Warn("backup left behind", "formula", f.FullName, "err", err)
			}
		}
		r.logger.Debug("installed", "formula", f.FullName, "options", options.String())
		return OutcomeInstalled, nil

	case errors.Is(installErr, brew.ErrAlreadyAttempted):
		// Nothing new was installed, so the old keg must come back.
		if _, err := r.restore(ctx, f, keg); err != nil {
			return OutcomeAborted, err
		}
		r.logger.Debug("already attempted", "formula", f.FullName)
		return OutcomeSkippedAlreadyAttempted, nil

	default:
		restored, err := r.restore(ctx, f, keg)
		if err != nil {
			return OutcomeAborted, fmt.Errorf("%w (install error: %v)", err, installErr)
		}
		return OutcomeFailedAndRestored, &FailedAndRestoredError{
			Formula:  f.FullName,
			Restored: restored,
			Cause:    installErr,
		}
	}
}

// printNotice announces the install the way brew's oh1 does.
func (r *Reinstaller) printNotice(f *brew.Formula, entry manifest.Entry) {
	verb := "Installing"
	if f.Installed {
		verb = "Reinstalling"
	}
	notice := fmt.Sprintf("==> %s %s", verb, f.Name)
	if !entry.Options.Empty() {
		notice += " with " + entry.Options.String()
	}
	fmt.Fprintln(r.out, notice)
}

// backup unlinks the keg and moves it aside. If the move fails the keg is
// relinked so it is left as found.
func (r *Reinstaller) backup(ctx context.Context, f *brew.Formula, keg *Keg) error {
	if err := r.linker.Unlink(ctx, f); err != nil {
		return fmt.Errorf("failed to unlink %s: %w", f.FullName, err)
	}
	if err := keg.moveToBackup(); err != nil {
		if !f.KegOnly {
			if linkErr := r.linker.Link(context.WithoutCancel(ctx), f); linkErr != nil {
				r.logger.Error("relink after failed backup", "formula", f.FullName, "err", linkErr)
			}
		}
		return err
	}
	r.logger.Debug("backed up keg", "path", keg.Path, "backup", keg.BackupPath())
	return nil
}

// restore puts the backup back and relinks it unless the formula is
// keg-only. It ignores cancellation so an interrupt cannot leave it half
// done. It reports whether a backup was restored.
func (r *Reinstaller) restore(ctx context.Context, f *brew.Formula, keg *Keg) (bool, error) {
	if keg == nil {
		return false, nil
	}

	restored, err := keg.restoreBackup()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrRestoreFailed, f.FullName, err)
	}
	if !restored {
		return false, nil
	}

	if !f.KegOnly {
		if err := r.linker.Link(context.WithoutCancel(ctx), f); err != nil {
			return true, fmt.Errorf("%w: relinking %s: %w", ErrRestoreFailed, f.FullName, err)
		}
	}
	r.logger.Debug("restored keg", "path", keg.Path)
	return true, nil
}
