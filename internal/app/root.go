package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewmigrate/internal/config"
)

var (
	dbPath     string
	configPath string
	brewPath   string

	// cfg is loaded before every subcommand runs.
	cfg = config.DefaultConfig()

	// RootCmd is the root command for brewmigrate
	RootCmd = &cobra.Command{
		Use:   "brewmigrate",
		Short: "Move Homebrew installations between machines",
		Long: `brewmigrate exports the formulae installed on one machine, together
with the build options they were installed with, and reinstalls them
on another machine with the same options.

Each reinstall is guarded: the existing keg is moved aside first and
put back if the new install fails, so a failed import never leaves a
formula missing.

Examples:
  # On the old machine
  brewmigrate export > formulae.json

  # On the new machine
  brewmigrate import formulae.json

  # Or in one go over ssh
  ssh old-mac brewmigrate export | brewmigrate import

  # Review past imports
  brewmigrate history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: ~/.brewmigrate/history.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/brewmigrate/config.toml)")
	RootCmd.PersistentFlags().StringVar(&brewPath, "brew", "", "path to the brew executable")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the database path from the flag, the config file, or
// the default location, in that order.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.DB != "" {
		return cfg.DB, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".brewmigrate")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create brewmigrate directory: %w", err)
	}

	return filepath.Join(dir, "history.db"), nil
}
