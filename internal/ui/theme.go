package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/dupes/internal/config"
)

// Catppuccin Mocha defaults; [theme] in the config file overrides them.
const (
	colorBlue   = "#89b4fa"
	colorBright = "#cdd6f4"
	colorMauve  = "#cba6f7"
	colorRed    = "#f38ba8"
)

// Theme styles the decorated stdout rendering of a report.
type Theme struct {
	Digest lipgloss.Style
	Path   lipgloss.Style
	Header lipgloss.Style
	Error  lipgloss.Style
}

// NewTheme builds a Theme from the default palette with any overrides
// from cfg applied.
func NewTheme(cfg config.ThemeConfig) *Theme {
	pick := func(override *string, def string) lipgloss.Color {
		if override != nil && *override != "" {
			return lipgloss.Color(*override)
		}
		return lipgloss.Color(def)
	}
	return &Theme{
		Digest: lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.Digest, colorMauve)),
		Path:   lipgloss.NewStyle().Foreground(pick(cfg.Path, colorBright)),
		Header: lipgloss.NewStyle().Foreground(pick(cfg.Header, colorBlue)),
		Error:  lipgloss.NewStyle().Foreground(pick(cfg.Error, colorRed)),
	}
}
