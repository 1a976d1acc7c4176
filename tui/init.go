package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts listening to the engine and plays the requested asset, if any.
func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.waitForEvent()}

	if b.options.Asset != nil {
		cmds = append(cmds, b.play(b.options.Asset))
	}

	if b.state == historyState {
		cmds = append(cmds, b.loadHistory())
	}

	return tea.Batch(cmds...)
}
