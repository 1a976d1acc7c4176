package player

import (
	"context"
	"sync"
	"time"
)

type fakeMedia struct {
	mu sync.Mutex

	currentTime float64
	duration    float64
	rate        float64
	volume      float64
	paused      bool

	playErr     error
	playCalls   int
	pauseCalls  int
	unloadCalls int
	seeks       []float64

	listeners []func()
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{rate: 1, volume: 1, paused: true}
}

func (m *fakeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *fakeMedia) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = seconds
	m.seeks = append(m.seeks, seconds)
}

func (m *fakeMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *fakeMedia) setDuration(d float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// setPosition moves the clock without recording a seek, as playback would.
func (m *fakeMedia) setPosition(t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

func (m *fakeMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *fakeMedia) PlaybackRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *fakeMedia) SetPlaybackRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
}

func (m *fakeMedia) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *fakeMedia) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

func (m *fakeMedia) Play(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	m.paused = true
}

func (m *fakeMedia) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unloadCalls++
	m.currentTime = 0
	m.duration = 0
	m.paused = true
}

func (m *fakeMedia) OnTimeUpdate(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
	return func() {}
}

func (m *fakeMedia) fireTimeUpdate() {
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

type loadCall struct {
	url      string
	start    float64
	mimeType string
}

type fakeSession struct {
	mu sync.Mutex

	media     *fakeMedia
	supported bool
	duration  float64
	seekRange Range
	loadErr   error

	loads      []loadCall
	configured []SessionConfig
	goToLive   int
	trickPlays []float64
	asset      string

	// gates hold a Load for the given URL until closed; started receives every URL as its Load begins.
	gates   map[string]chan struct{}
	started chan string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		media:     newFakeMedia(),
		supported: true,
		duration:  100,
		gates:     make(map[string]chan struct{}),
		started:   make(chan string, 16),
	}
}

func (s *fakeSession) Load(ctx context.Context, url string, start float64, mimeType string) error {
	s.mu.Lock()
	s.loads = append(s.loads, loadCall{url: url, start: start, mimeType: mimeType})
	gate := s.gates[url]
	err := s.loadErr
	duration := s.duration
	s.mu.Unlock()

	s.started <- url

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err != nil {
		return err
	}

	s.mu.Lock()
	s.asset = url
	s.mu.Unlock()

	s.media.mu.Lock()
	s.media.currentTime = start
	s.media.duration = duration
	s.media.paused = true
	s.media.mu.Unlock()
	return nil
}

func (s *fakeSession) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loads)
}

func (s *fakeSession) lastLoad() loadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[len(s.loads)-1]
}

func (s *fakeSession) AssetURI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset
}

func (s *fakeSession) SeekRange() Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekRange
}

func (s *fakeSession) GoToLive(context.Context) error {
	s.mu.Lock()
	s.goToLive++
	end := s.seekRange.End
	s.mu.Unlock()

	s.media.setPosition(end)
	return nil
}

func (s *fakeSession) TrickPlay(rate float64) error {
	s.mu.Lock()
	s.trickPlays = append(s.trickPlays, rate)
	s.mu.Unlock()

	s.media.SetPlaybackRate(rate)
	s.media.mu.Lock()
	s.media.paused = false
	s.media.mu.Unlock()
	return nil
}

func (s *fakeSession) Configure(cfg SessionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configured = append(s.configured, cfg)
	return nil
}

func (s *fakeSession) MediaElement() MediaElement { return s.media }

func (s *fakeSession) Supported() bool { return s.supported }

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 2, 13, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every due timer on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}
