// Package player implements the audio playback engine shared by every widget.
//
// The engine owns one MediaElement and one adaptive streaming Session. It tracks which
// asset is loaded, maps the raw media clock onto a display clock, cycles playback rates,
// and flags stalled playback with a watchdog timer. Observers learn about changes through
// Subscribe.
package player

import (
	"context"
	"time"
)

// MediaElement is the raw playback surface the engine drives.
// Getters never fail: backends report their last known value.
type MediaElement interface {
	// CurrentTime is the raw playback position in seconds.
	CurrentTime() float64

	// SetCurrentTime seeks to a raw position in seconds.
	SetCurrentTime(seconds float64)

	// Duration is the raw media length in seconds, 0 when unknown.
	Duration() float64

	Paused() bool

	PlaybackRate() float64
	SetPlaybackRate(rate float64)

	// Volume is in the range [0, 1].
	Volume() float64
	SetVolume(volume float64)

	// Play resumes playback and returns once it has started.
	Play(ctx context.Context) error

	Pause()

	// Unload empties the media source.
	Unload()

	// OnTimeUpdate registers fn to run whenever the playback position changes.
	OnTimeUpdate(fn func()) (cancel func())
}

// Range is a span of seekable media time in seconds.
type Range struct {
	Start float64
	End   float64
}

// SessionConfig carries fixed buffering and retry policy for a Session.
type SessionConfig struct {
	BufferingGoal      time.Duration
	RebufferingGoal    time.Duration
	RetryMaxAttempts   int
	RetryBaseDelay     time.Duration
	RetryBackoffFactor float64
	RetryTimeout       time.Duration
}

// DefaultSessionConfig returns the policy used when none is supplied.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		BufferingGoal:      10 * time.Second,
		RebufferingGoal:    2 * time.Second,
		RetryMaxAttempts:   5,
		RetryBaseDelay:     time.Second,
		RetryBackoffFactor: 2,
		RetryTimeout:       30 * time.Second,
	}
}

// Session is the adaptive streaming engine that fetches manifests and segments
// into a MediaElement.
type Session interface {
	// Load replaces the current asset. startSeconds positions the first frame and
	// mimeType may be empty when the protocol is unknown.
	Load(ctx context.Context, url string, startSeconds float64, mimeType string) error

	// AssetURI reports the URI of the asset currently loaded.
	AssetURI() string

	// SeekRange is the currently seekable window. For live streams End is the live edge.
	SeekRange() Range

	// GoToLive jumps to the live edge.
	GoToLive(ctx context.Context) error

	// TrickPlay starts playback at rate immediately.
	TrickPlay(rate float64) error

	Configure(cfg SessionConfig) error

	MediaElement() MediaElement

	// Supported reports whether the session can play media on this platform.
	Supported() bool
}

// Listen describes one continuous listening session, from play to pause or clear.
type Listen struct {
	ID        string
	URL       string
	Title     string
	Ticker    string
	Live      bool
	StartedAt time.Time
	Duration  time.Duration
}

// Reporter receives listening analytics.
type Reporter interface {
	Report(listen Listen)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Listen)

func (f ReporterFunc) Report(listen Listen) { f(listen) }
