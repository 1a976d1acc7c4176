// Package color names the terminal colors the CLI and the player bar draw with.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI index or a hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors follow the user's terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Fixed colors keep their hue on every theme.
var (
	Orange = New("#ffb703")
	Cream  = New("230")
	Indigo = New("62")
)
