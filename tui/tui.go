// Package tui is the terminal player bar. It binds one shared engine to a Bubble Tea program.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/eventcast/eventcast/player"
	"github.com/samber/mo"
)

// Engine is the part of the playback engine the player bar drives.
type Engine interface {
	Subscribe(fn player.Listener) (unsubscribe func())

	Play(ctx context.Context, opts *player.Options) error
	Pause()
	Clear()
	Playing(id string) bool

	ID() mo.Option[string]
	EventMetaData() player.EventMetaData
	Error() bool

	DisplayCurrentTime() float64
	DisplayDuration() float64
	FastForward(distance float64)
	Rewind(distance float64)
	SeekToStart()
	SeekToEnd()

	PlaybackRate() float64
	TogglePlaybackRate() float64
	Volume() float64
	SetVolume(volume float64)
}

var _ Engine = (*player.AudioPlayer)(nil)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Asset is played as soon as the program starts, when set.
	Asset *player.Options

	// SeekStep is the distance, in seconds, of a single rewind or fast-forward.
	SeekStep float64

	// History opens the listening history instead of the player bar.
	History bool
}

// Run blocks until the user quits.
func Run(ctx context.Context, engine Engine, options *Options) error {
	bubble := newBubble(ctx, engine, options)
	defer bubble.close()

	if bubble.options.History {
		bubble.newState(historyState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
