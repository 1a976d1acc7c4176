package tui

import (
	"fmt"
	"time"

	"github.com/eventcast/eventcast/history"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
)

// listItem wraps a saved listen for the history list.
type listItem struct {
	listen *history.SavedListen
}

func (t *listItem) Title() string {
	title := t.listen.Title
	if title == "" {
		title = t.listen.ID
	}

	if t.listen.Ticker != "" {
		title = fmt.Sprintf("%s %s", title, style.Faint(t.listen.Ticker))
	}
	if t.listen.Live {
		title = fmt.Sprintf("%s %s", icon.Get(icon.Live), title)
	}
	return title
}

func (t *listItem) Description() string {
	return fmt.Sprintf(
		"%s %s · %s · last heard %s",
		icon.Get(icon.History),
		util.Quantify(t.listen.Plays, "play", "plays"),
		t.listen.Listened.Round(time.Second),
		t.listen.LastHeard.Local().Format("Jan 2 15:04"),
	)
}

func (t *listItem) FilterValue() string {
	return t.listen.Title + " " + t.listen.Ticker + " " + t.listen.ID
}

// options is what the engine needs to play this listen again.
func (t *listItem) options() *player.Options {
	return &player.Options{
		ID:  t.listen.ID,
		URL: t.listen.URL,
		MetaData: &player.EventMetaData{
			Title:       t.listen.Title,
			LocalTicker: t.listen.Ticker,
			IsLive:      t.listen.Live,
		},
	}
}
