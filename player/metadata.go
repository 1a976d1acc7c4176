package player

import "time"

// EventMetaData describes the event behind the loaded asset.
type EventMetaData struct {
	EventDate                  time.Time `json:"eventDate,omitempty" jsonschema:"description=When the event took place."`
	EventType                  string    `json:"eventType,omitempty" jsonschema:"description=Kind of event. Test events stream from the suffixed live host."`
	IsLive                     bool      `json:"isLive" jsonschema:"description=Whether the event is broadcasting right now."`
	LocalTicker                string    `json:"localTicker,omitempty" jsonschema:"description=Ticker of the company behind the event."`
	EventStream                string    `json:"eventStream,omitempty" jsonschema:"description=Stream path the live HLS playlist is derived from."`
	ExternalAudioStreamURL     string    `json:"externalAudioStreamUrl,omitempty" jsonschema:"description=Live audio URL preferred over the derived playlist on iOS."`
	FirstTranscriptItemStartMs int64     `json:"firstTranscriptItemStartMs,omitempty" jsonschema:"description=Start of the first transcript item in milliseconds. Earlier audio is hidden from the clock."`
	Quote                      string    `json:"quote,omitempty" jsonschema:"description=Highlighted quote shown under the title."`
	Title                      string    `json:"title,omitempty" jsonschema:"description=Event title."`
	ConnectionStatus           string    `json:"connectionStatus,omitempty"`
	CreatedBy                  string    `json:"createdBy,omitempty"`
}

// Options identifies the asset a caller wants loaded or played.
type Options struct {
	ID  string
	URL string

	// Offset, in seconds, overrides MetaData.FirstTranscriptItemStartMs as the
	// normalization offset when positive.
	Offset float64

	// MetaData, when set, replaces the stored metadata.
	MetaData *EventMetaData
}
