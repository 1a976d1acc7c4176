package stream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/eventcast/eventcast/key"
	"github.com/spf13/viper"
)

// envToken is replaced in LiveHost by the environment suffix.
const envToken = "{env}"

// Policy holds the hosts and naming rules the load-time decision table relies on.
// Downstream servers depend on the exact URL shapes it produces.
type Policy struct {
	// AudioHosts serve recorded audio; recorded URLs on them get the no-trim flag.
	AudioHosts []string

	// DashDomains serve live DASH manifests.
	DashDomains []string

	// LiveHost is the host of derived live HLS playlists, with an optional {env} token.
	LiveHost string

	LivePlaylist string

	// EnvSuffix replaces {env} for events of TestEventType.
	EnvSuffix     string
	TestEventType string

	// NoTrimParam tells the audio host the asset is complete and must not be trimmed.
	NoTrimParam string
}

// DefaultPolicy mirrors the registered configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		AudioHosts:    []string{"audio.eventcast.io"},
		DashDomains:   []string{"dash.eventcast.io"},
		LiveHost:      "live{env}.eventcast.io",
		LivePlaylist:  "playlist.m3u8",
		EnvSuffix:     "-dev",
		TestEventType: "test",
		NoTrimParam:   "no_trim",
	}
}

// PolicyFromConfig builds a Policy from the active configuration.
func PolicyFromConfig() Policy {
	p := DefaultPolicy()
	p.AudioHosts = viper.GetStringSlice(key.StreamAudioHosts)
	p.DashDomains = viper.GetStringSlice(key.StreamDashDomains)
	p.LiveHost = viper.GetString(key.StreamLiveHost)
	p.LivePlaylist = viper.GetString(key.StreamLivePlaylist)
	p.EnvSuffix = viper.GetString(key.StreamEnvSuffix)
	p.TestEventType = viper.GetString(key.StreamTestEventType)
	return p
}

// Request is everything the decision table looks at.
type Request struct {
	URL                    string
	Live                   bool
	Platform               Platform
	EventType              string
	EventStream            string
	ExternalAudioStreamURL string
}

// Resolution is the URL and protocol to hand to the streaming session.
type Resolution struct {
	URL      string   `json:"url"`
	MimeType MimeType `json:"mimeType"`
}

// Resolve applies the decision table:
//
//	live, iOS:      HLS; external stream URL, else derived playlist, else the given URL
//	live, other:    protocol inferred from the URL shape
//	recorded, any:  MP3; no-trim flag on the platform's own audio hosts
func (p Policy) Resolve(req Request) Resolution {
	switch {
	case req.Live && req.Platform == PlatformIOS:
		return Resolution{URL: p.liveHLSURL(req), MimeType: MimeHLS}
	case req.Live:
		return Resolution{URL: req.URL, MimeType: DetectMime(req.URL, p.DashDomains)}
	default:
		return Resolution{URL: p.withNoTrim(req.URL), MimeType: MimeMP3}
	}
}

func (p Policy) liveHLSURL(req Request) string {
	if req.ExternalAudioStreamURL != "" {
		return req.ExternalAudioStreamURL
	}

	stream := strings.Trim(req.EventStream, "/")
	if stream == "" || p.LiveHost == "" {
		return req.URL
	}

	return fmt.Sprintf("https://%s/%s/%s", p.liveHost(req.EventType), stream, p.LivePlaylist)
}

func (p Policy) liveHost(eventType string) string {
	var env string
	if p.TestEventType != "" && strings.EqualFold(eventType, p.TestEventType) {
		env = p.EnvSuffix
	}
	return strings.ReplaceAll(p.LiveHost, envToken, env)
}

func (p Policy) withNoTrim(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !hostMatches(u.Hostname(), p.AudioHosts) {
		return raw
	}

	param := p.NoTrimParam
	if param == "" {
		param = "no_trim"
	}

	if u.Query().Has(param) {
		return raw
	}

	// the existing query is kept byte for byte
	base, fragment := raw, ""
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		base, fragment = raw[:i], raw[i:]
	}

	sep := "&"
	switch {
	case !strings.Contains(base, "?"):
		sep = "?"
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		sep = ""
	}

	return base + sep + param + "=true" + fragment
}
