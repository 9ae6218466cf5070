package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewmigrate/internal/manifest"
	"github.com/blackwell-systems/brewmigrate/internal/migrate"
)

var exportCmd = &cobra.Command{
	Use:   "export [formula...]",
	Short: "Export installed formulae and their build options",
	Long: `Export the formulae installed in this Homebrew prefix as a JSON manifest
on standard output.

If formulae are given, only those are exported; each must be installed.
Otherwise every installed formula is exported. Formulae from taps other
than homebrew/core are keyed as user/repo/name.`,
	Example: `  brewmigrate export > formulae.json
  brewmigrate export node ffmpeg`,
	RunE: runExport,
}

func init() {
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if arg == "help" {
			return cmd.Help()
		}
	}

	exporter := migrate.NewExporter(newBrewClient())
	m, err := exporter.Export(cmd.Context(), args)
	if err != nil {
		return err
	}

	return manifest.Encode(cmd.OutOrStdout(), m)
}
