package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/eventcast/eventcast/history"
	"github.com/eventcast/eventcast/player"
)

// engineEventMsg carries one engine notification into the update loop.
type engineEventMsg player.Event

type historyLoadedMsg []*history.SavedListen

// waitForEvent blocks until the engine reports a change. It is re-armed after every event.
func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-b.events:
			return engineEventMsg(e)
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) play(opts *player.Options) tea.Cmd {
	ctx := b.ctx
	return func() tea.Msg {
		if err := b.engine.Play(ctx, opts); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		return nil
	}
}

// togglePlay pauses when something is playing and otherwise resumes the loaded asset,
// or replays the last requested one after a clear.
func (b *statefulBubble) togglePlay() tea.Cmd {
	switch {
	case b.engine.Playing(""):
		b.engine.Pause()
		return nil
	case b.engine.ID().IsPresent():
		return b.play(nil)
	case b.asset != nil:
		return b.play(b.asset)
	default:
		return nil
	}
}

func (b *statefulBubble) changeVolume(delta float64) {
	b.engine.SetVolume(b.engine.Volume() + delta)
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return func() tea.Msg {
		listens, err := history.Sorted()
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return historyLoadedMsg(listens)
	}
}

func (b *statefulBubble) removeHistory(item *listItem) tea.Cmd {
	return func() tea.Msg {
		if err := history.Remove(item.listen.ID); err != nil {
			return fmt.Errorf("remove %s from history: %w", item.listen.ID, err)
		}
		return b.loadHistory()()
	}
}
