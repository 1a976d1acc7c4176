package history

import (
	"testing"
	"time"

	"github.com/eventcast/eventcast/filesystem"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	start := time.Date(2024, 5, 2, 13, 30, 0, 0, time.UTC)

	Convey("Given a listen", t, func() {
		listen := player.Listen{
			ID:        "evt-100",
			URL:       "https://cdn.example.com/100.mp3",
			Title:     "Q3 earnings call",
			Ticker:    "ACME",
			StartedAt: start,
			Duration:  90 * time.Second,
		}

		Reset(func() {
			_ = Remove("evt-100")
		})

		Convey("When saving it twice", func() {
			So(Save(listen), ShouldBeNil)

			listen.StartedAt = start.Add(time.Hour)
			listen.Duration = 30 * time.Second
			listen.Title = ""
			So(Save(listen), ShouldBeNil)

			Convey("Then the record should accumulate", func() {
				saved, err := Get()
				So(err, ShouldBeNil)

				record := saved["evt-100"]
				So(record, ShouldNotBeNil)
				So(record.Plays, ShouldEqual, 2)
				So(record.Listened, ShouldEqual, 2*time.Minute)
				So(record.Title, ShouldEqual, "Q3 earnings call")
				So(record.FirstHeard.Equal(start), ShouldBeTrue)
				So(record.LastHeard.Equal(start.Add(time.Hour+30*time.Second)), ShouldBeTrue)
				So(record.String(), ShouldEqual, "Q3 earnings call (ACME) : 2 plays, 2m0s")
			})

			Convey("And removing it should forget it", func() {
				So(Remove("evt-100"), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldNotContainKey, "evt-100")
			})
		})

		Convey("A listen without an id should be refused", func() {
			listen.ID = ""
			So(Save(listen), ShouldNotBeNil)
		})
	})

	Convey("Sorted should put the latest listen first", t, func() {
		Reset(func() {
			So(Remove("old"), ShouldBeNil)
			So(Remove("new"), ShouldBeNil)
		})

		So(Save(player.Listen{ID: "old", StartedAt: start, Duration: time.Minute}), ShouldBeNil)
		So(Save(player.Listen{ID: "new", StartedAt: start.Add(24 * time.Hour), Duration: time.Minute}), ShouldBeNil)

		listens, err := Sorted()
		So(err, ShouldBeNil)
		So(len(listens), ShouldBeGreaterThanOrEqualTo, 2)
		So(listens[0].ID, ShouldEqual, "new")
	})
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		listen := player.Listen{ID: "evt-200", StartedAt: time.Now(), Duration: time.Second}

		Reset(func() {
			viper.Set(key.HistorySaveListens, true)
			_ = Remove("evt-200")
		})

		Convey("It should save while enabled", func() {
			viper.Set(key.HistorySaveListens, true)
			Recorder{}.Report(listen)

			saved, err := Get()
			So(err, ShouldBeNil)
			So(saved, ShouldContainKey, "evt-200")
		})

		Convey("It should do nothing while disabled", func() {
			viper.Set(key.HistorySaveListens, false)
			Recorder{}.Report(listen)

			saved, err := Get()
			So(err, ShouldBeNil)
			So(saved, ShouldNotContainKey, "evt-200")
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given two saved listens", t, func() {
		start := time.Date(2024, 5, 2, 13, 30, 0, 0, time.UTC)
		So(Save(player.Listen{ID: "evt-300", Title: "Q3 earnings call", Ticker: "ACME", StartedAt: start}), ShouldBeNil)
		So(Save(player.Listen{ID: "evt-301", Title: "Investor day", Ticker: "GLOBEX", StartedAt: start.Add(time.Hour)}), ShouldBeNil)

		Reset(func() {
			_ = Remove("evt-300")
			_ = Remove("evt-301")
		})

		Convey("A fuzzy title query should find one", func() {
			found, err := Search("earncall")
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 1)
			So(found[0].ID, ShouldEqual, "evt-300")
		})

		Convey("Tickers should match regardless of case", func() {
			found, err := Search("globex")
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 1)
			So(found[0].ID, ShouldEqual, "evt-301")
		})

		Convey("An empty query should list everything, newest first", func() {
			found, err := Search(" ")
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 2)
			So(found[0].ID, ShouldEqual, "evt-301")
		})

		Convey("A query matching nothing should return nothing", func() {
			found, err := Search("zzz")
			So(err, ShouldBeNil)
			So(found, ShouldBeEmpty)
		})
	})
}
