package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventcast/eventcast/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cmp, err := Compare("1.2.3", "v1.2.3")
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, 0)

		cmp, _ = Compare("1.10.0", "1.9.9")
		So(cmp, ShouldEqual, 1)

		cmp, _ = Compare("0.3.1", "0.4.0")
		So(cmp, ShouldEqual, -1)

		cmp, _ = Compare("1.0.0-rc.1", "1.0.0")
		So(cmp, ShouldEqual, 0)

		_, err = Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)

		_, err = Compare("1.2", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a release endpoint", t, func() {
		var agent string
		tag := `{"tag_name":"v0.4.0"}`
		status := http.StatusOK

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(tag))
		}))
		Reset(server.Close)

		Convey("It should strip the v prefix and identify itself", func() {
			v, err := fetchLatest(context.Background(), server.URL)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.4.0")
			So(agent, ShouldEqual, constant.UserAgent)
		})

		Convey("It should reject an empty tag", func() {
			tag = `{}`
			_, err := fetchLatest(context.Background(), server.URL)
			So(err, ShouldNotBeNil)
		})

		Convey("It should reject error statuses", func() {
			status = http.StatusForbidden
			_, err := fetchLatest(context.Background(), server.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
