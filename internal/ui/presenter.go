package ui

import (
	"io"

	"github.com/bamsammich/dupes/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line, or "" when there is none.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer  io.Writer
	Stats   stats.Reader
	Quiet   bool
	Verbose bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{w: cfg.Writer}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		stats:   cfg.Stats,
		verbose: cfg.Verbose,
	}
}
