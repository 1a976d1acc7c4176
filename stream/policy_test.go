package stream

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the default policy", t, func() {
		policy := DefaultPolicy()

		Convey("A live event on iOS", func() {
			req := Request{
				URL:         "https://origin.example.com/live.mpd",
				Live:        true,
				Platform:    PlatformIOS,
				EventStream: "events/1234",
			}

			Convey("Should prefer the external stream URL", func() {
				req.ExternalAudioStreamURL = "https://cdn.partner.com/x/index.m3u8"
				res := policy.Resolve(req)
				So(res.MimeType, ShouldEqual, MimeHLS)
				So(res.URL, ShouldEqual, "https://cdn.partner.com/x/index.m3u8")
			})

			Convey("Should derive the playlist from the event stream path", func() {
				res := policy.Resolve(req)
				So(res.MimeType, ShouldEqual, MimeHLS)
				So(res.URL, ShouldEqual, "https://live.eventcast.io/events/1234/playlist.m3u8")
			})

			Convey("Should use the suffixed host for test events", func() {
				req.EventType = "test"
				res := policy.Resolve(req)
				So(res.URL, ShouldEqual, "https://live-dev.eventcast.io/events/1234/playlist.m3u8")
			})

			Convey("Should fall back to the given URL without a stream path", func() {
				req.EventStream = ""
				res := policy.Resolve(req)
				So(res.MimeType, ShouldEqual, MimeHLS)
				So(res.URL, ShouldEqual, req.URL)
			})
		})

		Convey("A live event elsewhere", func() {
			resolve := func(u string) Resolution {
				return policy.Resolve(Request{URL: u, Live: true, Platform: PlatformDefault})
			}

			Convey("Should pick DASH for DASH-hosting domains", func() {
				So(resolve("https://dash.eventcast.io/stream/1").MimeType, ShouldEqual, MimeDASH)
				So(resolve("https://eu.dash.eventcast.io/stream/1").MimeType, ShouldEqual, MimeDASH)
			})

			Convey("Should pick DASH for .mpd manifests", func() {
				So(resolve("https://other.example.com/a/manifest.mpd?token=1").MimeType, ShouldEqual, MimeDASH)
			})

			Convey("Should pick HLS for .m3u8 playlists", func() {
				So(resolve("https://other.example.com/a/index.m3u8").MimeType, ShouldEqual, MimeHLS)
			})

			Convey("Should leave anything else unknown and untouched", func() {
				res := resolve("https://other.example.com/a/stream")
				So(res.MimeType, ShouldEqual, MimeUnknown)
				So(res.URL, ShouldEqual, "https://other.example.com/a/stream")
			})
		})

		Convey("A recorded event", func() {
			Convey("Should be MP3 with no_trim on the platform audio host", func() {
				res := policy.Resolve(Request{URL: "https://audio.eventcast.io/events/1.mp3?sig=abc"})
				So(res.MimeType, ShouldEqual, MimeMP3)
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/events/1.mp3?sig=abc&no_trim=true")
			})

			Convey("Should keep the existing query order and escaping", func() {
				res := policy.Resolve(Request{URL: "https://audio.eventcast.io/a.mp3?z=1&a=2"})
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/a.mp3?z=1&a=2&no_trim=true")

				res = policy.Resolve(Request{URL: "https://audio.eventcast.io/a.mp3?sig=a%2Bb&exp=1"})
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/a.mp3?sig=a%2Bb&exp=1&no_trim=true")
			})

			Convey("Should start a query when there is none", func() {
				res := policy.Resolve(Request{URL: "https://audio.eventcast.io/a.mp3"})
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/a.mp3?no_trim=true")

				res = policy.Resolve(Request{URL: "https://audio.eventcast.io/a.mp3#t=5"})
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/a.mp3?no_trim=true#t=5")
			})

			Convey("Should not add no_trim twice", func() {
				res := policy.Resolve(Request{URL: "https://audio.eventcast.io/1.mp3?no_trim=true"})
				So(res.URL, ShouldEqual, "https://audio.eventcast.io/1.mp3?no_trim=true")
			})

			Convey("Should leave foreign hosts untouched, even on iOS", func() {
				res := policy.Resolve(Request{URL: "https://cdn.example.com/1.mp3", Platform: PlatformIOS})
				So(res.MimeType, ShouldEqual, MimeMP3)
				So(res.URL, ShouldEqual, "https://cdn.example.com/1.mp3")
			})
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("StripQuery and SameAsset", t, func() {
		So(StripQuery("https://a/b.mp3?x=1#t=3"), ShouldEqual, "https://a/b.mp3")
		So(StripQuery("https://a/b.mp3"), ShouldEqual, "https://a/b.mp3")
		So(SameAsset("https://a/b.mp3?no_trim=true", "https://a/b.mp3"), ShouldBeTrue)
		So(SameAsset("https://a/b.mp3", "https://a/c.mp3"), ShouldBeFalse)
	})

	Convey("ParsePlatform", t, func() {
		So(ParsePlatform("iOS"), ShouldEqual, PlatformIOS)
		So(ParsePlatform("android"), ShouldEqual, PlatformDefault)
		So(ParsePlatform(""), ShouldEqual, PlatformDefault)
	})

	Convey("MimeType.Format", t, func() {
		So(MimeHLS.Format(), ShouldEqual, "hls")
		So(MimeDASH.Format(), ShouldEqual, "dash")
		So(MimeMP3.Format(), ShouldEqual, "mp3")
		So(MimeUnknown.Format(), ShouldEqual, "")
	})
}

func TestValidateURL(t *testing.T) {
	Convey("ValidateURL", t, func() {
		So(ValidateURL("https://audio.eventcast.io/events/1.mp3"), ShouldBeNil)
		So(ValidateURL("HTTP://audio.eventcast.io/1.mp3"), ShouldBeNil)

		for _, bad := range []string{"", "audio.mp3", "ftp://host/a.mp3", "https:///a.mp3", "file:///tmp/a.mp3"} {
			err := ValidateURL(bad)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrInvalidURL), ShouldBeTrue)
		}
	})
}
