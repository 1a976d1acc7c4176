package player

import (
	"time"

	"github.com/samber/mo"
)

// DefaultWatchdogTimeout is how long playback may sit still before it is reported as stalled.
const DefaultWatchdogTimeout = 5 * time.Second

// Watchdog flags playback whose position has not moved within Timeout.
//
// Media error events are not trusted for this: some errors fire without stopping
// playback and some stalls never raise one. The heuristic can false-positive on very
// slow networks; every Play and Pause clears it.
type Watchdog struct {
	Timeout time.Duration

	// Stalled compares the position captured when the timer was armed with the
	// position when it fires.
	Stalled func(baseline, current float64) bool
}

// DefaultWatchdog compares positions for equality after five seconds.
func DefaultWatchdog() Watchdog {
	return Watchdog{
		Timeout: DefaultWatchdogTimeout,
		Stalled: func(baseline, current float64) bool { return baseline == current },
	}
}

// ErrorInfo is a snapshot of watchdog state.
type ErrorInfo struct {
	Error        bool
	LastPosition mo.Option[float64]
	Armed        bool
}

type errorState struct {
	err          bool
	lastPosition mo.Option[float64]
	timer        Timer
}

// armWatchdogLocked replaces any outstanding timer with a fresh one.
func (p *AudioPlayer) armWatchdogLocked() {
	p.stopWatchdogLocked()

	baseline := p.media.CurrentTime()
	p.errorInfo.err = false
	p.errorInfo.lastPosition = mo.Some(baseline)

	seq := p.watchSeq
	p.errorInfo.timer = p.clock.AfterFunc(p.watchdog.Timeout, func() {
		p.checkStall(seq)
	})
}

func (p *AudioPlayer) stopWatchdogLocked() {
	if p.errorInfo.timer != nil {
		p.errorInfo.timer.Stop()
		p.errorInfo.timer = nil
	}
	// a callback already in flight must see itself as stale
	p.watchSeq++
}

func (p *AudioPlayer) checkStall(seq uint64) {
	p.mu.Lock()
	if seq != p.watchSeq || p.errorInfo.timer == nil {
		p.mu.Unlock()
		return
	}
	p.errorInfo.timer = nil

	baseline := p.errorInfo.lastPosition.OrEmpty()
	current := p.media.CurrentTime()
	stalled := p.watchdog.Stalled(baseline, current)
	if stalled {
		p.errorInfo.err = true
	}
	id := p.id.OrEmpty()
	p.mu.Unlock()

	if stalled {
		p.logger().WithField("id", id).Warnf("playback stalled at %.2fs", current)
		p.observers.emit(Event{Kind: EventUpdate})
	}
}
