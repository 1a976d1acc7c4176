package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/eventcast/eventcast/history"
	"github.com/samber/lo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, nil
	case engineEventMsg:
		// the view reads engine state directly, so re-arming is all that is left
		return b, b.waitForEvent()
	case historyLoadedMsg:
		items := lo.Map(msg, func(l *history.SavedListen, _ int) list.Item {
			return &listItem{listen: l}
		})
		return b, b.historyC.SetItems(items)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		switch b.state {
		case playerState:
			return b.updatePlayer(msg)
		case historyState:
			return b.updateHistory(msg)
		case errorState:
			return b.updateError(msg)
		}
	}

	if b.state == historyState {
		var cmd tea.Cmd
		b.historyC, cmd = b.historyC.Update(msg)
		return b, cmd
	}

	return b, nil
}

func (b *statefulBubble) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := b.options.SeekStep

	switch {
	case key.Matches(msg, b.keymap.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keymap.playPause):
		return b, b.togglePlay()
	case key.Matches(msg, b.keymap.rewind):
		b.engine.Rewind(step)
	case key.Matches(msg, b.keymap.fastForward):
		b.engine.FastForward(step)
	case key.Matches(msg, b.keymap.seekStart):
		b.engine.SeekToStart()
	case key.Matches(msg, b.keymap.seekEnd):
		b.engine.SeekToEnd()
	case key.Matches(msg, b.keymap.rate):
		b.engine.TogglePlaybackRate()
	case key.Matches(msg, b.keymap.volumeUp):
		b.changeVolume(volumeStep)
	case key.Matches(msg, b.keymap.volumeDown):
		b.changeVolume(-volumeStep)
	case key.Matches(msg, b.keymap.clear):
		b.engine.Clear()
	case key.Matches(msg, b.keymap.history):
		b.newState(historyState)
		return b, b.loadHistory()
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return b, nil
}

func (b *statefulBubble) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if b.historyC.FilterState() == list.Filtering {
		b.historyC, cmd = b.historyC.Update(msg)
		return b, cmd
	}

	switch {
	case key.Matches(msg, b.keymap.back):
		if b.historyC.FilterState() != list.Unfiltered {
			b.historyC.ResetFilter()
			return b, nil
		}
		b.previousState()
		return b, nil
	case key.Matches(msg, b.keymap.confirm):
		item, ok := b.historyC.SelectedItem().(*listItem)
		if !ok {
			return b, nil
		}
		b.asset = item.options()
		b.newState(playerState)
		return b, b.play(b.asset)
	case key.Matches(msg, b.keymap.remove):
		item, ok := b.historyC.SelectedItem().(*listItem)
		if !ok {
			return b, nil
		}
		return b, b.removeHistory(item)
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keymap.back):
		b.lastError = nil
		b.previousState()
	}
	return b, nil
}
