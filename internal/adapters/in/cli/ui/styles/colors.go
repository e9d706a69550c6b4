// Package styles holds the terminal palette shared by the CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Neutral200 = lipgloss.Color("#e5e5e5")
	Neutral500 = lipgloss.Color("#737373")
	Neutral700 = lipgloss.Color("#404040")

	NeonGreen  = lipgloss.Color("#00ff88")
	NeonYellow = lipgloss.Color("#fbbf24")

	// Semantic colors
	ColorPrimary   = NeonGreen
	ColorActive    = NeonGreen
	ColorInactive  = NeonYellow
	ColorText      = Neutral200
	ColorTextMuted = Neutral500
	ColorBorder    = Neutral700
)

var (
	Active   = lipgloss.NewStyle().Foreground(ColorActive)
	Inactive = lipgloss.NewStyle().Foreground(ColorInactive)
	Muted    = lipgloss.NewStyle().Foreground(ColorTextMuted)
)
