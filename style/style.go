// Package style composes lipgloss styles into plain string renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/eventcast/eventcast/color"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background. Empty colors are left unset.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	s := New()
	if fg != "" {
		s = s.Foreground(fg)
	}
	if bg != "" {
		s = s.Background(bg)
	}
	return s
}

func renderer(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// Fg renders strings in the foreground color c.
func Fg(c lipgloss.Color) func(string) string {
	return renderer(Colored(c, ""))
}

// Tag renders strings as a padded block, like a badge.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return renderer(Colored(fg, bg).Padding(0, 1))
}

var (
	Faint  = renderer(New().Faint(true))
	Bold   = renderer(New().Bold(true))
	Italic = renderer(New().Italic(true))
)

var (
	// Title heads the player bar.
	Title = Tag(color.Cream, color.Indigo)

	ErrorTitle = Tag(color.Cream, color.Red)

	// Stalled is the banner shown while playback does not advance.
	Stalled = Tag(lipgloss.Color("#1a1b26"), StalledColor)

	// Live badges broadcasts in progress.
	Live = Tag(color.Cream, LiveColor)
)
