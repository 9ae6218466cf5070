package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
	"github.com/blackwell-systems/brewmigrate/internal/manifest"
	"github.com/blackwell-systems/brewmigrate/internal/migrate"
	"github.com/blackwell-systems/brewmigrate/internal/output"
	"github.com/blackwell-systems/brewmigrate/internal/store"
)

var (
	importFlagBuildBottle     bool
	importFlagBuildFromSource bool
	importFlagForceBottle     bool
	importFlagVerbose         bool
	importFlagDebug           bool
	importFlagNoHistory       bool
)

var importCmd = &cobra.Command{
	Use:   "import [file | -]",
	Short: "Reinstall formulae from an exported manifest",
	Long: `Import formulae exported from another Homebrew installation.

Each formula is reinstalled with the options recorded in the manifest,
merged with the options of any install already on this machine.
Formulae are processed in manifest order. An installed keg is moved
aside before reinstalling and restored if the install fails; a failed
formula does not stop the rest of the import.

If no file is given, or the file is '-', the manifest is read from stdin.`,
	Example: `  brewmigrate import formulae.json
  brewmigrate export | brewmigrate import -
  brewmigrate import --build-from-source formulae.json`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagBuildBottle, "build-bottle", false, "Build bottles for every formula")
	importCmd.Flags().BoolVar(&importFlagBuildFromSource, "build-from-source", false, "Compile from source even if a bottle is available")
	importCmd.Flags().BoolVar(&importFlagForceBottle, "force-bottle", false, "Install from a bottle even if options were requested")
	importCmd.Flags().BoolVarP(&importFlagVerbose, "verbose", "v", false, "Stream brew output and print debug messages")
	importCmd.Flags().BoolVarP(&importFlagDebug, "debug", "d", false, "Pass --debug to brew")
	importCmd.Flags().BoolVar(&importFlagNoHistory, "no-history", false, "Do not record this run in the history database")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return fmt.Errorf("expected at most one manifest file, got %d", len(args))
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	m, err := readManifest(source, cmd.InOrStdin())
	if err != nil {
		return err
	}

	flags := resolveInstallFlags(cmd)
	logger := newLogger(cmd.ErrOrStderr(), flags.Verbose, flags.Debug)

	// The first interrupt cancels ctx; later ones are swallowed until the
	// in-flight entry has been restored.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newBrewClient()
	client.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	reinstaller := migrate.NewReinstaller(migrate.Config{
		Registry:  client,
		Taps:      client,
		Installer: installerFor(client, flags),
		Linker:    client,
		Logger:    logger,
		Out:       cmd.OutOrStdout(),
	})
	importer := migrate.NewImporter(reinstaller, logger)

	recorder := openHistory(source, m.Len(), logger)
	if recorder != nil {
		defer recorder.Close()
		importer.OnResult = recorder.Record
	}

	results, importErr := importer.Import(ctx, m, flags)

	if recorder != nil && importErr == nil {
		recorder.Finish()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderOutcomeTable(results))

	if importErr != nil {
		return fmt.Errorf("import stopped after %d of %d formulae: %w", len(results), m.Len(), importErr)
	}
	return nil
}

// readManifest reads from stdin for "-" and from the named file otherwise.
func readManifest(source string, stdin io.Reader) (*manifest.Manifest, error) {
	if source == "-" {
		m, err := manifest.Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest from stdin: %w", err)
		}
		return m, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := manifest.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", source, err)
	}
	return m, nil
}

// resolveInstallFlags applies command-line flags over config defaults.
func resolveInstallFlags(cmd *cobra.Command) migrate.InstallFlags {
	pick := func(name string, flagValue, configValue bool) bool {
		if cmd.Flags().Changed(name) {
			return flagValue
		}
		return configValue
	}

	return migrate.InstallFlags{
		BuildBottle:     pick("build-bottle", importFlagBuildBottle, cfg.Install.BuildBottle),
		BuildFromSource: pick("build-from-source", importFlagBuildFromSource, cfg.Install.BuildFromSource),
		ForceBottle:     pick("force-bottle", importFlagForceBottle, cfg.Install.ForceBottle),
		Verbose:         pick("verbose", importFlagVerbose, cfg.Install.Verbose),
		Debug:           pick("debug", importFlagDebug, cfg.Install.Debug),
	}
}

// installerFor wraps quiet installs in a spinner; verbose installs stream
// brew's own output instead.
func installerFor(next migrate.Installer, flags migrate.InstallFlags) migrate.Installer {
	if flags.Verbose || flags.Debug {
		return next
	}
	return &spinnerInstaller{next: next}
}

type spinnerInstaller struct {
	next migrate.Installer
}

func (s *spinnerInstaller) Install(ctx context.Context, req brew.InstallRequest) error {
	spinner := output.NewSpinner("Installing " + req.Formula.Name)
	spinner.Start()
	defer spinner.Stop()
	return s.next.Install(ctx, req)
}

// historyRecorder writes one import run and its results to the store.
type historyRecorder struct {
	st       *store.Store
	runID    int64
	position int
	logger   *log.Logger
}

// openHistory starts a run record. It returns nil when history is disabled
// or the database is unavailable; recording never blocks an import.
func openHistory(source string, entryCount int, logger *log.Logger) *historyRecorder {
	if importFlagNoHistory || !cfg.History {
		return nil
	}

	path, err := getDBPath()
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}
	st, err := store.New(path)
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}

	runID, err := st.InsertImportRun(source, entryCount)
	if err != nil {
		logger.Warn("history disabled", "err", err)
		st.Close()
		return nil
	}

	return &historyRecorder{st: st, runID: runID, logger: logger}
}

// Record stores one result; it matches migrate.Importer.OnResult.
func (h *historyRecorder) Record(res migrate.Result) {
	row := &store.ImportResult{
		RunID:    h.runID,
		Position: h.position,
		Key:      res.Key,
		Outcome:  res.Outcome.String(),
	}
	if res.Err != nil {
		row.Error = res.Err.Error()
	}
	h.position++

	if err := h.st.InsertImportResult(row); err != nil {
		h.logger.Warn("failed to record result", "formula", res.Key, "err", err)
	}
}

// Finish marks the run complete.
func (h *historyRecorder) Finish() {
	if err := h.st.FinishImportRun(h.runID); err != nil {
		h.logger.Warn("failed to finish history record", "err", err)
	}
}

// Close releases the database.
func (h *historyRecorder) Close() {
	h.st.Close()
}
