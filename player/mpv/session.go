package mpv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/stream"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

const loadPollInterval = 100 * time.Millisecond

var (
	_ player.Session      = (*MPV)(nil)
	_ player.MediaElement = (*MPV)(nil)
)

// MediaElement returns m itself: mpv is both the session and the playback surface.
func (m *MPV) MediaElement() player.MediaElement { return m }

// Load replaces the current file. Playback stays paused at startSeconds until the
// engine calls Play or TrickPlay. It returns once mpv reports the new path.
func (m *MPV) Load(ctx context.Context, rawURL string, startSeconds float64, mimeType string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.mu.Lock()
	volume := m.state.volume
	m.state = newState()
	m.state.volume = volume
	m.state.timePos = startSeconds
	m.loadSeq++
	seq := m.loadSeq
	timeout := m.config.RetryTimeout
	m.mu.Unlock()

	steps := []struct {
		property string
		value    any
	}{
		{"pause", true},
		{"start", strconv.FormatFloat(startSeconds, 'f', -1, 64)},
		{"demuxer-lavf-format", stream.MimeType(mimeType).Format()},
	}
	for _, step := range steps {
		if err := m.set(step.property, step.value); err != nil {
			return fmt.Errorf("set %s: %w", step.property, err)
		}
	}

	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := m.waitForPath(ctx, target, seq); err != nil {
		return err
	}

	m.logger().WithFields(logrus.Fields{"url": target, "start": startSeconds, "mime": mimeType}).Debug("file loaded")
	return nil
}

// waitForPath polls until mpv reports target as its path. It gives up when mpv
// rejects the file, a later Load replaces this one, or ctx ends.
func (m *MPV) waitForPath(ctx context.Context, target string, seq uint64) error {
	ticker := time.NewTicker(loadPollInterval)
	defer ticker.Stop()

	for {
		m.mu.Lock()
		loadErr := m.state.loadError
		superseded := m.loadSeq != seq
		m.mu.Unlock()

		if superseded {
			return fmt.Errorf("load %s: %w", target, ErrLoadSuperseded)
		}
		if loadErr != "" {
			return fmt.Errorf("load %s: %s", target, loadErr)
		}

		path, err := m.getString("path")
		switch {
		case err == nil && path == target:
			m.mu.Lock()
			m.state.path = path
			m.mu.Unlock()
			return nil
		case err != nil && !IsPropertyUnavailable(err):
			return fmt.Errorf("query path: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", target, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (m *MPV) AssetURI() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.path
}

// SeekRange is the demuxer's seekable window, or the whole file when mpv reports none.
func (m *MPV) SeekRange() player.Range {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.seekable.End > 0 {
		return m.state.seekable
	}
	return player.Range{Start: 0, End: m.state.duration}
}

func (m *MPV) GoToLive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	edge := m.SeekRange().End
	if edge <= 0 {
		return errors.New("live edge unknown")
	}

	m.SetCurrentTime(edge)
	return nil
}

func (m *MPV) TrickPlay(rate float64) error {
	if err := m.set("speed", rate); err != nil {
		return fmt.Errorf("set speed: %w", err)
	}
	if err := m.set("pause", false); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}

	m.mu.Lock()
	m.state.speed = rate
	m.state.paused = false
	m.mu.Unlock()
	return nil
}

// Configure stores cfg for the next Start and applies it to a running process.
func (m *MPV) Configure(cfg player.SessionConfig) error {
	m.mu.Lock()
	m.config = cfg
	m.retries = max(cfg.RetryMaxAttempts, 1)
	running := m.socketPath != ""
	m.mu.Unlock()

	if !running {
		return nil
	}

	var errs []error
	for property, value := range configProperties(cfg) {
		if err := m.set(property, value); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", property, err))
		}
	}
	return errors.Join(errs...)
}

// configProperties maps the session policy onto mpv's cache and ffmpeg reconnect options.
func configProperties(cfg player.SessionConfig) map[string]string {
	seconds := func(d time.Duration) string {
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	}

	return map[string]string{
		"cache-secs":             seconds(cfg.BufferingGoal),
		"demuxer-readahead-secs": seconds(cfg.RebufferingGoal),
		"network-timeout":        seconds(cfg.RetryTimeout),
		"stream-lavf-o":          "reconnect=1,reconnect_streamed=1,reconnect_delay_max=" + strconv.Itoa(maxReconnectDelay(cfg)),
	}
}

// maxReconnectDelay is the last backoff step, in whole seconds, of the retry schedule.
func maxReconnectDelay(cfg player.SessionConfig) int {
	attempts := max(cfg.RetryMaxAttempts, 1)
	factor := math.Max(cfg.RetryBackoffFactor, 1)
	last := cfg.RetryBaseDelay.Seconds() * math.Pow(factor, float64(attempts-1))
	return int(math.Ceil(last))
}

func configArgs(cfg player.SessionConfig) []string {
	props := configProperties(cfg)
	keys := lo.Keys(props)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) string {
		return "--" + k + "=" + props[k]
	})
}
