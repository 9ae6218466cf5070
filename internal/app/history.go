package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewmigrate/internal/output"
	"github.com/blackwell-systems/brewmigrate/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded import runs",
	Long: `List previous import runs, newest first. With a run ID, show the
outcome of every formula in that run.`,
	Example: `  brewmigrate history
  brewmigrate history 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := st.ListImportRuns()
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderRunTable(runs))
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID: %s (must be a number)", args[0])
	}

	run, err := st.GetImportRun(id)
	if err != nil {
		return err
	}
	results, err := st.GetImportResults(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %d\n", run.ID)
	fmt.Fprintf(out, "  Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.Finished() {
		fmt.Fprintf(out, "  Finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(out, "  Finished: no (interrupted or stopped)")
	}
	fmt.Fprintf(out, "  Source: %s\n", run.Source)
	fmt.Fprintf(out, "  Entries: %d\n\n", run.EntryCount)
	fmt.Fprint(out, output.RenderResultTable(results))
	return nil
}
