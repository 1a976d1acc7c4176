package where

import (
	"path/filepath"
	"testing"

	"github.com/eventcast/eventcast/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() should live under Config()", func() {
			path := Logs()
			So(filepath.Dir(path), ShouldEqual, Config())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("History() should be a json file under Config()", func() {
			So(filepath.Ext(History()), ShouldEqual, ".json")
			So(filepath.Dir(History()), ShouldEqual, Config())
		})

		Convey("Temp()", func() {
			So(lo.Must(filesystem.API().IsDir(Temp())), ShouldBeTrue)
		})
	})

	Convey("Given EVENTCAST_CONFIG_PATH", t, func() {
		t.Setenv(EnvConfigPath, "/custom/eventcast")

		Convey("Config() should honor it", func() {
			So(Config(), ShouldEqual, "/custom/eventcast")
		})
	})
}
