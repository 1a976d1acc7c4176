package player

import (
	"github.com/samber/lo"
)

// rateLadder is cycled by TogglePlaybackRate. Past the last step it wraps to 1.
var rateLadder = []float64{1, 1.25, 1.5, 1.75, 2}

// nextRate returns the first ladder step above rate, or 1 when rate is at or past the top.
func nextRate(rate float64) float64 {
	next, ok := lo.Find(rateLadder, func(step float64) bool { return step > rate })
	if !ok {
		return 1
	}
	return next
}

func clampUnit(v float64) float64 {
	return lo.Clamp(v, 0, 1)
}

func (p *AudioPlayer) PlaybackRate() float64 {
	return p.media.PlaybackRate()
}

// SetRate changes the playback rate. Rate changes are not visible through time updates,
// so observers get an update event.
func (p *AudioPlayer) SetRate(rate float64) {
	p.media.SetPlaybackRate(rate)
	p.emitUpdate()
}

// TogglePlaybackRate steps through 1, 1.25, 1.5, 1.75, 2 and back to 1.
// Any rate below 1 steps to 1.
func (p *AudioPlayer) TogglePlaybackRate() float64 {
	rate := nextRate(p.media.PlaybackRate())
	p.SetRate(rate)
	return rate
}

func (p *AudioPlayer) Volume() float64 {
	return p.media.Volume()
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *AudioPlayer) SetVolume(volume float64) {
	p.media.SetVolume(clampUnit(volume))
	p.emitUpdate()
}

// AdjustPlayback runs on every time update. A live listener playing faster than 1x
// within the live-edge threshold is dropped back to 1x so they cannot overrun the edge.
func (p *AudioPlayer) AdjustPlayback() {
	p.mu.Lock()
	live := p.metaData.IsLive
	threshold := p.liveEdgeThreshold
	p.mu.Unlock()

	if !live || p.media.PlaybackRate() <= 1 {
		return
	}

	edge := p.session.SeekRange().End
	if edge-p.media.CurrentTime() < threshold {
		p.SetRate(1)
	}
}
