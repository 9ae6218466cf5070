package app

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/brewmigrate/internal/brew"
)

// newLogger returns the diagnostics logger. Debug output is enabled by
// --verbose or --debug.
func newLogger(w io.Writer, verbose, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "brewmigrate",
	})
	if verbose || debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newBrewClient returns a client for the brew executable chosen by flag or
// config.
func newBrewClient() *brew.Client {
	bin := brewPath
	if bin == "" {
		bin = cfg.Brew
	}
	return brew.NewClient(bin)
}
