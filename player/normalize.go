package player

import (
	"math"
	"time"
)

// Some recordings open with preamble audio before the first meaningful content. Rather
// than trimming the media, the engine shifts the display clock by timeOffset so the
// listener sees a 0-based timeline. With normalization off timeOffset is 0, so the
// display formulas below hold unchanged.

// MaybeSetTimeOffset activates normalization for opts' asset and reports whether this
// call activated it. It applies once per asset: only for recorded assets whose offset
// reaches the minimum and only while the raw position is exactly 0.
func (p *AudioPlayer) MaybeSetTimeOffset(opts *Options) bool {
	if opts == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maybeSetTimeOffsetLocked(opts, p.metaForLocked(opts))
}

func (p *AudioPlayer) maybeSetTimeOffsetLocked(opts *Options, meta EventMetaData) bool {
	if p.normalizeTime || meta.IsLive || p.media.CurrentTime() != 0 {
		return false
	}

	offsetMs := float64(meta.FirstTranscriptItemStartMs)
	if opts.Offset > 0 {
		offsetMs = opts.Offset * 1000
	}
	if offsetMs <= 0 || time.Duration(offsetMs*float64(time.Millisecond)) < p.normalizeMinOffset {
		return false
	}

	offset := math.Round(offsetMs / 1000)

	p.timeOffset = offset
	p.normalizeTime = true
	return true
}

func (p *AudioPlayer) resetNormalizationLocked() {
	p.timeOffset = 0
	p.normalizeTime = false
}

// TimeOffset is the number of raw seconds hidden before the display clock's zero.
func (p *AudioPlayer) TimeOffset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeOffset
}

// Normalized reports whether the display clock is shifted for the loaded asset.
func (p *AudioPlayer) Normalized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.normalizeTime
}

func (p *AudioPlayer) RawCurrentTime() float64 {
	return p.media.CurrentTime()
}

func (p *AudioPlayer) RawDuration() float64 {
	return p.media.Duration()
}

// DisplayCurrentTime is the raw position minus the offset, never negative.
func (p *AudioPlayer) DisplayCurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayCurrentTimeLocked()
}

// DisplayDuration is the raw duration minus the offset, never negative.
func (p *AudioPlayer) DisplayDuration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayDurationLocked()
}

func (p *AudioPlayer) displayCurrentTimeLocked() float64 {
	return math.Max(0, p.media.CurrentTime()-p.timeOffset)
}

func (p *AudioPlayer) displayDurationLocked() float64 {
	return math.Max(0, p.media.Duration()-p.timeOffset)
}

// RawSeek moves to a raw media position.
func (p *AudioPlayer) RawSeek(position float64) {
	p.media.SetCurrentTime(position)
}

// DisplaySeek moves to a position on the display clock.
func (p *AudioPlayer) DisplaySeek(position float64) {
	p.mu.Lock()
	raw := position + p.timeOffset
	p.mu.Unlock()

	p.RawSeek(raw)
}

// SeekToStart jumps to the logical start of the asset.
func (p *AudioPlayer) SeekToStart() {
	p.DisplaySeek(0)
}

// SeekToEnd jumps to the raw end of the asset.
func (p *AudioPlayer) SeekToEnd() {
	p.RawSeek(p.media.Duration())
}

// FastForward skips ahead by distance seconds, stopping at the display duration.
func (p *AudioPlayer) FastForward(distance float64) {
	p.mu.Lock()
	target := math.Min(p.displayCurrentTimeLocked()+distance, p.displayDurationLocked())
	p.mu.Unlock()

	p.DisplaySeek(target)
}

// Rewind skips back by distance seconds, stopping at the display start.
func (p *AudioPlayer) Rewind(distance float64) {
	p.mu.Lock()
	target := math.Max(p.displayCurrentTimeLocked()-distance, 0)
	p.mu.Unlock()

	p.DisplaySeek(target)
}
