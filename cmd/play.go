package cmd

import (
	"errors"
	"time"

	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/stream"
	"github.com/eventcast/eventcast/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.AddCommand(playCmd)
	addAssetFlags(playCmd.Flags())
	addAssetFlags(rootCmd.Flags())
	playCmd.Flags().Float64P("seek-step", "s", 0, "Seconds skipped by fast-forward and rewind")
}

// addAssetFlags declares the flags describing the event behind an audio URL.
func addAssetFlags(flags *pflag.FlagSet) {
	flags.String("id", "", "Asset identifier, defaults to the URL without its query")
	flags.Float64P("offset", "o", 0, "Seconds of silence before the first content, hidden from the clock")
	flags.Int64("first-item-ms", 0, "Start of the first transcript item in milliseconds, used when --offset is unset")
	flags.BoolP("live", "l", false, "The event is being broadcast live")
	flags.StringP("title", "t", "", "Event title")
	flags.String("ticker", "", "Local ticker of the company behind the event")
	flags.String("quote", "", "Quote shown under the title")
	flags.String("event-type", "", "Event type, selects the live host for test events")
	flags.String("event-stream", "", "Stream path used to derive the live HLS playlist")
	flags.String("external-stream", "", "External live audio stream URL, preferred on iOS")
	flags.String("event-date", "", "Event date in RFC 3339 format")
}

// assetOptions builds the engine request from a URL and the asset flags.
func assetOptions(flags *pflag.FlagSet, url string) (*player.Options, error) {
	if err := stream.ValidateURL(url); err != nil {
		return nil, err
	}

	offset := lo.Must(flags.GetFloat64("offset"))
	if offset < 0 {
		return nil, errors.New("offset must not be negative")
	}

	meta := &player.EventMetaData{
		IsLive:                     lo.Must(flags.GetBool("live")),
		Title:                      lo.Must(flags.GetString("title")),
		LocalTicker:                lo.Must(flags.GetString("ticker")),
		Quote:                      lo.Must(flags.GetString("quote")),
		EventType:                  lo.Must(flags.GetString("event-type")),
		EventStream:                lo.Must(flags.GetString("event-stream")),
		ExternalAudioStreamURL:     lo.Must(flags.GetString("external-stream")),
		FirstTranscriptItemStartMs: lo.Must(flags.GetInt64("first-item-ms")),
	}

	if date := lo.Must(flags.GetString("event-date")); date != "" {
		parsed, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, err
		}
		meta.EventDate = parsed
	}

	id := lo.Must(flags.GetString("id"))
	if id == "" {
		id = stream.StripQuery(url)
	}

	return &player.Options{
		ID:       id,
		URL:      url,
		Offset:   offset,
		MetaData: meta,
	}, nil
}

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play recorded or live event audio",
	Example: `  eventcast play https://audio.eventcast.io/events/1042.mp3 --title "Q3 earnings call" --ticker ACME
  eventcast play https://dash.eventcast.io/1042/manifest.mpd --live --event-stream 1042/main`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		play(cmd, args[0])
	},
}

// play runs the player bar for url, reading the asset flags from cmd.
func play(cmd *cobra.Command, url string) {
	asset, err := assetOptions(cmd.Flags(), url)
	handleErr(err)

	CheckDependencies()

	var seekStep float64
	if cmd.Flags().Lookup("seek-step") != nil {
		seekStep = lo.Must(cmd.Flags().GetFloat64("seek-step"))
	}

	handleErr(runPlayer(commandContext(cmd), &tui.Options{
		Asset:    asset,
		SeekStep: seekStep,
	}))
}
