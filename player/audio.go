package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/stream"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// DefaultLiveEdgeThreshold is the distance from the live edge inside which fast playback is reset.
const DefaultLiveEdgeThreshold = 6.0

// DefaultNormalizeMinOffset is the smallest first-content offset that enables a 0-based display clock.
const DefaultNormalizeMinOffset = 500 * time.Millisecond

// AudioPlayer is the playback engine. Construct one per application with New and
// share it; the zero value is not usable.
//
// Blocking session and media calls run without the engine lock held, so UI reads stay
// responsive during a load. Overlapping loads resolve last-call-wins: every load and
// every Clear bumps a generation counter and a load that completes after being
// superseded leaves state untouched.
type AudioPlayer struct {
	mu sync.Mutex

	session Session
	media   MediaElement

	clock              Clock
	policy             stream.Policy
	platform           stream.Platform
	watchdog           Watchdog
	reporter           Reporter
	sessionConfig      SessionConfig
	liveEdgeThreshold  float64
	normalizeMinOffset time.Duration

	id       mo.Option[string]
	url      mo.Option[string]
	source   mo.Option[string]
	metaData EventMetaData

	errorInfo errorState
	watchSeq  uint64

	timeOffset    float64
	normalizeTime bool

	playingStartTime time.Time
	newAsset         bool
	generation       uint64

	observers observers
}

// Option configures an AudioPlayer.
type Option func(*AudioPlayer)

func WithClock(clock Clock) Option {
	return func(p *AudioPlayer) { p.clock = clock }
}

func WithPolicy(policy stream.Policy) Option {
	return func(p *AudioPlayer) { p.policy = policy }
}

func WithPlatform(platform stream.Platform) Option {
	return func(p *AudioPlayer) { p.platform = platform }
}

func WithWatchdog(w Watchdog) Option {
	return func(p *AudioPlayer) {
		if w.Stalled == nil {
			w.Stalled = DefaultWatchdog().Stalled
		}
		if w.Timeout <= 0 {
			w.Timeout = DefaultWatchdogTimeout
		}
		p.watchdog = w
	}
}

func WithReporter(r Reporter) Option {
	return func(p *AudioPlayer) { p.reporter = r }
}

func WithSessionConfig(cfg SessionConfig) Option {
	return func(p *AudioPlayer) { p.sessionConfig = cfg }
}

// WithLiveEdgeThreshold sets, in seconds, how close to the live edge fast playback is reset.
func WithLiveEdgeThreshold(seconds float64) Option {
	return func(p *AudioPlayer) { p.liveEdgeThreshold = seconds }
}

func WithNormalizeMinOffset(d time.Duration) Option {
	return func(p *AudioPlayer) { p.normalizeMinOffset = d }
}

// WithVolume sets the initial volume in [0, 1].
func WithVolume(v float64) Option {
	return func(p *AudioPlayer) { p.media.SetVolume(clampUnit(v)) }
}

// New wires an engine to a streaming session and its media element.
// An unsupported session is logged, not rejected.
func New(session Session, opts ...Option) *AudioPlayer {
	p := &AudioPlayer{
		session:            session,
		media:              session.MediaElement(),
		clock:              SystemClock,
		policy:             stream.DefaultPolicy(),
		platform:           stream.PlatformDefault,
		watchdog:           DefaultWatchdog(),
		reporter:           ReporterFunc(func(Listen) {}),
		sessionConfig:      DefaultSessionConfig(),
		liveEdgeThreshold:  DefaultLiveEdgeThreshold,
		normalizeMinOffset: DefaultNormalizeMinOffset,
	}

	for _, opt := range opts {
		opt(p)
	}

	if !session.Supported() {
		p.logger().Warn("streaming session reports this platform as unsupported")
	}

	if err := session.Configure(p.sessionConfig); err != nil {
		p.logger().WithError(err).Error("configure streaming session")
	}

	p.media.OnTimeUpdate(p.handleTimeUpdate)

	return p
}

func (p *AudioPlayer) logger() *logrus.Entry {
	return log.WithFields(log.Fields{"component": "player"})
}

// Subscribe registers fn for every engine event until the returned function is called.
func (p *AudioPlayer) Subscribe(fn Listener) (unsubscribe func()) {
	return p.observers.add(fn)
}

func (p *AudioPlayer) emitUpdate() {
	p.observers.emit(Event{Kind: EventUpdate})
}

func (p *AudioPlayer) handleTimeUpdate() {
	p.AdjustPlayback()
	p.observers.emit(Event{Kind: EventTimeUpdate})
}

// Init makes sure the asset described by opts is loaded. A nil opts is a no-op.
//
// The asset is considered new when its id, or its URL without query, differs from the
// loaded one. A new asset is loaded when its URL changed or nothing is playing under
// its id. Load failures are logged and leave the previous asset's URL in place.
func (p *AudioPlayer) Init(ctx context.Context, opts *Options) {
	if opts == nil {
		return
	}

	update, listen := p.init(ctx, opts)
	if listen.IsPresent() {
		p.reporter.Report(listen.MustGet())
	}
	if update {
		p.emitUpdate()
	}
}

func (p *AudioPlayer) init(ctx context.Context, opts *Options) (update bool, listen mo.Option[Listen]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sameAssetLocked(opts.ID, opts.URL) {
		meta := p.metaForLocked(opts)
		urlChanged := !p.source.IsPresent() || !stream.SameAsset(p.source.MustGet(), opts.URL)

		listen = p.takeListenLocked()
		p.id = mo.Some(opts.ID)
		p.resetNormalizationLocked()
		p.maybeSetTimeOffsetLocked(opts, meta)

		if urlChanged || !p.playingLocked(opts.ID) {
			p.loadLocked(ctx, opts.URL, meta)
		}
		update = true
	}

	if opts.MetaData != nil {
		p.metaData = *opts.MetaData
		update = true
	}

	return update, listen
}

// loadLocked releases the lock while the session loads.
func (p *AudioPlayer) loadLocked(ctx context.Context, source string, meta EventMetaData) {
	res := p.policy.Resolve(stream.Request{
		URL:                    source,
		Live:                   meta.IsLive,
		Platform:               p.platform,
		EventType:              meta.EventType,
		EventStream:            meta.EventStream,
		ExternalAudioStreamURL: meta.ExternalAudioStreamURL,
	})

	p.generation++
	gen := p.generation
	start := p.timeOffset

	entry := p.logger().WithFields(logrus.Fields{
		"id":   p.id.OrEmpty(),
		"url":  res.URL,
		"mime": string(res.MimeType),
	})

	p.mu.Unlock()
	err := p.session.Load(ctx, res.URL, start, string(res.MimeType))
	p.mu.Lock()

	if gen != p.generation {
		entry.WithError(err).Debug("discarding superseded load")
		return
	}

	if err != nil {
		entry.WithError(err).Error("load asset")
		return
	}

	p.media.SetPlaybackRate(1)
	p.url = mo.Some(res.URL)
	p.source = mo.Some(source)
	p.newAsset = true
	entry.Info("asset loaded")
}

// Play loads the asset if needed and starts playback. It returns once playback has
// started; only a failure to start is returned.
func (p *AudioPlayer) Play(ctx context.Context, opts *Options) error {
	p.Init(ctx, opts)

	p.mu.Lock()
	update := p.errorInfo.err
	if opts != nil && p.maybeSetTimeOffsetLocked(opts, p.metaForLocked(opts)) {
		update = true
	}

	if p.media.CurrentTime() == 0 && p.timeOffset > 0 {
		p.media.SetCurrentTime(p.timeOffset)
	}

	p.armWatchdogLocked()

	jumpToLive := p.metaData.IsLive && (p.newAsset || p.media.CurrentTime() == 0)
	p.newAsset = false

	if p.playingStartTime.IsZero() {
		p.playingStartTime = p.clock.Now()
	}
	p.mu.Unlock()

	if update {
		p.emitUpdate()
	}

	if jumpToLive {
		if err := p.session.GoToLive(ctx); err != nil {
			return fmt.Errorf("go to live edge: %w", err)
		}
		if err := p.session.TrickPlay(1); err != nil {
			return fmt.Errorf("start live playback: %w", err)
		}
		return nil
	}

	if err := p.media.Play(ctx); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	return nil
}

// Pause cancels the watchdog and pauses the media element.
func (p *AudioPlayer) Pause() {
	p.mu.Lock()
	p.stopWatchdogLocked()
	listen := p.takeListenLocked()
	p.mu.Unlock()

	p.media.Pause()

	if listen.IsPresent() {
		p.reporter.Report(listen.MustGet())
	}
}

// Clear detaches the engine from any asset and resets all per-asset state.
// A load still in flight completes without touching state.
func (p *AudioPlayer) Clear() {
	p.mu.Lock()
	listen := p.takeListenLocked()

	p.id = mo.None[string]()
	p.url = mo.None[string]()
	p.source = mo.None[string]()
	p.stopWatchdogLocked()
	p.metaData = EventMetaData{}
	p.errorInfo = errorState{}
	p.resetNormalizationLocked()
	p.newAsset = false
	p.generation++
	p.mu.Unlock()

	p.media.Unload()

	if listen.IsPresent() {
		p.reporter.Report(listen.MustGet())
	}
	p.emitUpdate()
}

// Playing reports whether the asset with id is loaded and playing.
// An empty id asks whether anything is playing.
func (p *AudioPlayer) Playing(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playingLocked(id)
}

func (p *AudioPlayer) playingLocked(id string) bool {
	active := p.media.Duration() > 0 && !p.media.Paused()
	if id == "" {
		return active
	}

	current, ok := p.id.Get()
	return ok && current == id && active
}

func (p *AudioPlayer) sameAssetLocked(id, url string) bool {
	current, ok := p.id.Get()
	if !ok || current != id {
		return false
	}

	source, ok := p.source.Get()
	return ok && stream.SameAsset(source, url)
}

// metaForLocked is the metadata that applies to opts: its own, the stored metadata when
// opts names the loaded asset, or nothing.
func (p *AudioPlayer) metaForLocked(opts *Options) EventMetaData {
	if opts.MetaData != nil {
		return *opts.MetaData
	}
	if current, ok := p.id.Get(); ok && current == opts.ID {
		return p.metaData
	}
	return EventMetaData{}
}

func (p *AudioPlayer) takeListenLocked() mo.Option[Listen] {
	if p.playingStartTime.IsZero() {
		return mo.None[Listen]()
	}

	listen := Listen{
		ID:        p.id.OrEmpty(),
		URL:       p.url.OrEmpty(),
		Title:     p.metaData.Title,
		Ticker:    p.metaData.LocalTicker,
		Live:      p.metaData.IsLive,
		StartedAt: p.playingStartTime,
		Duration:  p.clock.Now().Sub(p.playingStartTime),
	}
	p.playingStartTime = time.Time{}
	return mo.Some(listen)
}

// ID is the loaded asset's id, if any.
func (p *AudioPlayer) ID() mo.Option[string] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// URL is the last loaded media URL after rewriting, if any.
func (p *AudioPlayer) URL() mo.Option[string] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *AudioPlayer) EventMetaData() EventMetaData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metaData
}

// Error reports whether the watchdog flagged the current playback as stalled.
func (p *AudioPlayer) Error() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errorInfo.err
}

func (p *AudioPlayer) ErrorInfo() ErrorInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ErrorInfo{
		Error:        p.errorInfo.err,
		LastPosition: p.errorInfo.lastPosition,
		Armed:        p.errorInfo.timer != nil,
	}
}

// AssetURI is what the streaming session reports as loaded.
func (p *AudioPlayer) AssetURI() string {
	return p.session.AssetURI()
}
