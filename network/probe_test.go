package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHead(t *testing.T) {
	Convey("Given a media server", t, func() {
		var methods []string
		allowHead := true

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			if r.Method == http.MethodHead && !allowHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "application/x-mpegurl")
			w.WriteHeader(http.StatusOK)
		}))
		Reset(server.Close)

		Convey("HEAD should be enough when allowed", func() {
			probe, err := Head(context.Background(), server.URL+"/index.m3u8")
			So(err, ShouldBeNil)
			So(probe.OK(), ShouldBeTrue)
			So(probe.ContentType, ShouldEqual, "application/x-mpegurl")
			So(methods, ShouldResemble, []string{http.MethodHead})
		})

		Convey("A refused HEAD should fall back to a ranged GET", func() {
			allowHead = false
			probe, err := Head(context.Background(), server.URL+"/index.m3u8")
			So(err, ShouldBeNil)
			So(probe.OK(), ShouldBeTrue)
			So(methods, ShouldResemble, []string{http.MethodHead, http.MethodGet})
		})
	})

	Convey("An unreachable URL should error", t, func() {
		_, err := Head(context.Background(), "http://127.0.0.1:1/none")
		So(err, ShouldNotBeNil)
	})
}
