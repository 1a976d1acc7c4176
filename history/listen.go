package history

import (
	"fmt"
	"time"

	"github.com/eventcast/eventcast/player"
)

// SavedListen is the accumulated listening record for one asset.
type SavedListen struct {
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	Title      string        `json:"title"`
	Ticker     string        `json:"ticker"`
	Live       bool          `json:"live"`
	Plays      int           `json:"plays"`
	Listened   time.Duration `json:"listened"`
	FirstHeard time.Time     `json:"first_heard"`
	LastHeard  time.Time     `json:"last_heard"`
}

func (s *SavedListen) String() string {
	name := s.Title
	if name == "" {
		name = s.ID
	}
	if s.Ticker != "" {
		name = fmt.Sprintf("%s (%s)", name, s.Ticker)
	}
	return fmt.Sprintf("%s : %d plays, %s", name, s.Plays, s.Listened.Round(time.Second))
}

// merge folds listen into s. Descriptive fields follow the latest listen when it carries them.
func (s *SavedListen) merge(listen player.Listen) {
	if s.ID == "" {
		s.ID = listen.ID
		s.FirstHeard = listen.StartedAt
	}

	s.URL = listen.URL
	s.Live = listen.Live
	if listen.Title != "" {
		s.Title = listen.Title
	}
	if listen.Ticker != "" {
		s.Ticker = listen.Ticker
	}

	s.Plays++
	s.Listened += listen.Duration

	if listen.StartedAt.Before(s.FirstHeard) {
		s.FirstHeard = listen.StartedAt
	}
	if end := listen.StartedAt.Add(listen.Duration); end.After(s.LastHeard) {
		s.LastHeard = end
	}
}
