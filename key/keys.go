// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys tune the audio engine's timing heuristics and initial state.
const (
	PlayerWatchdogTimeout    = "player.watchdog_timeout"
	PlayerLiveEdgeThreshold  = "player.live_edge_threshold"
	PlayerNormalizeMinOffset = "player.normalize_min_offset"
	PlayerSeekStep           = "player.seek_step"
	PlayerVolume             = "player.volume"
	PlayerPlatform           = "player.platform"
	PlayerMpvPath            = "player.mpv_path"
)

// Stream Resolution - these keys describe the hosts the load-time policy recognizes.
const (
	StreamAudioHosts    = "stream.audio_hosts"
	StreamDashDomains   = "stream.dash_domains"
	StreamLiveHost      = "stream.live_host"
	StreamLivePlaylist  = "stream.live_playlist"
	StreamEnvSuffix     = "stream.env_suffix"
	StreamTestEventType = "stream.test_event_type"
)

// Streaming Session - fixed policy values handed to the streaming backend once at startup.
const (
	SessionBufferingGoal      = "session.buffering_goal"
	SessionRebufferingGoal    = "session.rebuffering_goal"
	SessionRetryMaxAttempts   = "session.retry_max_attempts"
	SessionRetryBaseDelay     = "session.retry_base_delay"
	SessionRetryBackoffFactor = "session.retry_backoff_factor"
	SessionRetryTimeout       = "session.retry_timeout"
)

// Listening History - these keys configure the persistence of listening sessions.
const (
	HistorySaveListens = "history.save_listens"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
