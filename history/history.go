// Package history persists listening sessions reported by the player.
package history

import (
	"errors"
	"sort"
	"strings"

	"github.com/eventcast/eventcast/filesystem"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// cacher is the disk-backed store of listening records, keyed by asset id.
var cacher = gache.New[map[string]*SavedListen](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved listening record.
func Get() (map[string]*SavedListen, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedListen), nil
	}
	return cached, nil
}

// Sorted returns the saved records, most recently heard first.
func Sorted() ([]*SavedListen, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	listens := lo.Values(saved)
	sort.Slice(listens, func(i, j int) bool {
		return listens[i].LastHeard.After(listens[j].LastHeard)
	})
	return listens, nil
}

// Search returns the records whose title, ticker or id fuzzily match query,
// most recently heard first. An empty query matches everything.
func Search(query string) ([]*SavedListen, error) {
	listens, err := Sorted()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return listens, nil
	}

	return lo.Filter(listens, func(l *SavedListen, _ int) bool {
		return lo.SomeBy([]string{l.Title, l.Ticker, l.ID}, func(field string) bool {
			return field != "" && fuzzy.MatchFold(query, field)
		})
	}), nil
}

// Save adds listen to its asset's record.
func Save(listen player.Listen) error {
	if listen.ID == "" {
		return errors.New("listen has no asset id")
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	record, ok := saved[listen.ID]
	if !ok {
		record = &SavedListen{}
		saved[listen.ID] = record
	}
	record.merge(listen)

	return cacher.Set(saved)
}

// Remove deletes the record for id.
func Remove(id string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}

// Recorder is a player.Reporter that saves every listen while history.save_listens is on.
type Recorder struct{}

var _ player.Reporter = Recorder{}

func (Recorder) Report(listen player.Listen) {
	if !viper.GetBool(key.HistorySaveListens) {
		return
	}

	if err := Save(listen); err != nil {
		log.WithFields(log.Fields{"id": listen.ID}).WithError(err).Warn("save listen")
	}
}
