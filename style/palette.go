package style

import "github.com/charmbracelet/lipgloss"

// Palette of the player bar and the CLI boxes.
var (
	Text    = lipgloss.Color("#c0caf5")

	AccentColor    = lipgloss.Color("#7aa2f7")
	SecondaryColor = lipgloss.Color("#bb9af7")
	HiRed          = lipgloss.Color("#f7768e")

	// LiveColor marks broadcasts in progress.
	LiveColor = lipgloss.Color("#db4b4b")
	// StalledColor backs the stall banner.
	StalledColor = lipgloss.Color("#e0af68")
)
