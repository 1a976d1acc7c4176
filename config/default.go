// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Eventcast + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerWatchdogTimeout, 5000, "Milliseconds without playback progress before the stall banner is shown")
	register(key.PlayerLiveEdgeThreshold, 6, "Seconds from the live edge at which fast playback is reset to 1x")
	register(key.PlayerNormalizeMinOffset, 500, "Minimum first-content offset (ms) that enables a 0-based display clock")
	register(key.PlayerSeekStep, 15, "Seconds skipped by fast-forward and rewind")
	register(key.PlayerVolume, 80, "Initial volume in percent. From 0 to 100")
	register(key.PlayerPlatform, "default", "Platform the load policy assumes.\nAvailable options are: default, ios")
	register(key.PlayerMpvPath, "mpv", "Path to the mpv executable used as the streaming backend")
	register(key.StreamAudioHosts, []string{"audio.eventcast.io"}, "Hosts serving recorded event audio.\nRecorded URLs on these hosts are requested with no_trim")
	register(key.StreamDashDomains, []string{"dash.eventcast.io"}, "Hosts serving live DASH manifests")
	register(key.StreamLiveHost, "live{env}.eventcast.io", "Host of derived live HLS playlists.\n{env} is replaced by the environment suffix for test events")
	register(key.StreamLivePlaylist, "playlist.m3u8", "Playlist file name appended to the event stream path")
	register(key.StreamEnvSuffix, "-dev", "Host suffix used for test events")
	register(key.StreamTestEventType, "test", "Event type that selects the suffixed live host")
	register(key.SessionBufferingGoal, 10, "Seconds of media the streaming session buffers ahead")
	register(key.SessionRebufferingGoal, 2, "Seconds buffered before playback resumes after a stall")
	register(key.SessionRetryMaxAttempts, 5, "Maximum attempts for a failed stream request")
	register(key.SessionRetryBaseDelay, 1000, "Base retry delay in milliseconds")
	register(key.SessionRetryBackoffFactor, 2, "Multiplier applied to the retry delay after each attempt")
	register(key.SessionRetryTimeout, 30000, "Per-request timeout in milliseconds")
	register(key.HistorySaveListens, true, "Record listening sessions to the local history")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
