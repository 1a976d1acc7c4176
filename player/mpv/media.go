package mpv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eventcast/eventcast/player"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// state mirrors the observed mpv properties. Getters read it instead of round-tripping.
type state struct {
	timePos   float64
	duration  float64
	paused    bool
	speed     float64
	volume    float64 // engine scale, [0, 1]
	seekable  player.Range
	path      string
	loadError string
}

func newState() state {
	return state{paused: true, speed: 1, volume: 1}
}

type cacheState struct {
	SeekableRanges []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"seekable-ranges"`
}

// parseSeekable folds mpv's seekable ranges into one window.
func parseSeekable(data any) (player.Range, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return player.Range{}, false
	}

	var cache cacheState
	if err := json.Unmarshal(raw, &cache); err != nil || len(cache.SeekableRanges) == 0 {
		return player.Range{}, false
	}

	first := cache.SeekableRanges[0]
	r := player.Range{Start: first.Start, End: first.End}
	for _, s := range cache.SeekableRanges[1:] {
		r.Start = min(r.Start, s.Start)
		r.End = max(r.End, s.End)
	}
	return r, true
}

// handleEvent is the EventListener callback.
func (m *MPV) handleEvent(name string, data any) {
	m.mu.Lock()
	tick := m.applyLocked(name, data)
	var listeners []func()
	if tick {
		listeners = lo.Values(m.timeUpdate)
	}
	m.mu.Unlock()

	// callbacks may call back into getters
	for _, fn := range listeners {
		fn()
	}
}

// applyLocked updates the cache and reports whether a time update should fire.
func (m *MPV) applyLocked(name string, data any) bool {
	switch name {
	case "time-pos":
		v, ok := data.(float64)
		if !ok {
			return false
		}
		m.state.timePos = v
		return true
	case "duration":
		v, _ := data.(float64)
		m.state.duration = v
	case "pause":
		if v, ok := data.(bool); ok {
			m.state.paused = v
		}
	case "speed":
		if v, ok := data.(float64); ok {
			m.state.speed = v
		}
	case "volume":
		if v, ok := data.(float64); ok {
			m.state.volume = lo.Clamp(v/100, 0, 1)
		}
	case "demuxer-cache-state":
		if r, ok := parseSeekable(data); ok {
			m.state.seekable = r
		}
	case "path":
		v, _ := data.(string)
		m.state.path = v
	case "end-file":
		event, _ := data.(map[string]any)
		if reason, _ := event["reason"].(string); reason == "error" {
			msg, _ := event["file_error"].(string)
			m.state.loadError = lo.Ternary(msg == "", "unknown error", msg)
			m.logger().WithField("error", m.state.loadError).Warn("mpv could not play file")
		}
	}
	return false
}

func (m *MPV) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.timePos
}

func (m *MPV) SetCurrentTime(seconds float64) {
	if _, err := m.sendCommand("seek", seconds, "absolute"); err != nil {
		m.warn("seek", err, logrus.Fields{"position": seconds})
		return
	}

	m.mu.Lock()
	m.state.timePos = seconds
	m.mu.Unlock()
}

// Duration is the media length. Live streams have none, so the seekable window's end stands in.
func (m *MPV) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.duration > 0 {
		return m.state.duration
	}
	return m.state.seekable.End
}

func (m *MPV) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.paused
}

func (m *MPV) PlaybackRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.speed
}

func (m *MPV) SetPlaybackRate(rate float64) {
	if err := m.set("speed", rate); err != nil {
		m.warn("set speed", err, logrus.Fields{"rate": rate})
		return
	}

	m.mu.Lock()
	m.state.speed = rate
	m.mu.Unlock()
}

func (m *MPV) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.volume
}

// SetVolume takes the engine's [0, 1] scale; mpv uses [0, 100].
func (m *MPV) SetVolume(volume float64) {
	volume = lo.Clamp(volume, 0, 1)
	if err := m.set("volume", volume*100); err != nil {
		m.warn("set volume", err, logrus.Fields{"volume": volume})
		return
	}

	m.mu.Lock()
	m.state.volume = volume
	m.mu.Unlock()
}

func (m *MPV) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.set("pause", false); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}

	m.mu.Lock()
	m.state.paused = false
	m.mu.Unlock()
	return nil
}

func (m *MPV) Pause() {
	if err := m.set("pause", true); err != nil {
		m.warn("pause", err, nil)
		return
	}

	m.mu.Lock()
	m.state.paused = true
	m.mu.Unlock()
}

// Unload stops playback and leaves mpv idle.
func (m *MPV) Unload() {
	if _, err := m.sendCommand("stop"); err != nil {
		m.warn("stop", err, nil)
	}

	m.mu.Lock()
	volume := m.state.volume
	m.state = newState()
	m.state.volume = volume
	m.mu.Unlock()
}

// OnTimeUpdate registers fn for every time-pos change.
func (m *MPV) OnTimeUpdate(fn func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.timeUpdate[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.timeUpdate, id)
	}
}

func (m *MPV) warn(op string, err error, fields logrus.Fields) {
	m.logger().WithFields(fields).WithError(err).Warnf("mpv %s failed", op)
}
