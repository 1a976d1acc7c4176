package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/network"
	"github.com/eventcast/eventcast/stream"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	addAssetFlags(resolveCmd.Flags())
	resolveCmd.Flags().BoolP("probe", "p", false, "Check that the resolved URL answers")
	resolveCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	resolveCmd.SetOut(os.Stdout)
}

// resolvedOutput is what resolve prints.
type resolvedOutput struct {
	stream.Resolution
	Probe *network.Probe `json:"probe,omitempty"`
}

// resolveCmd shows the URL and protocol the engine would hand to mpv, without playing.
var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Show the stream URL and protocol an asset resolves to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asset, err := assetOptions(cmd.Flags(), args[0])
		handleErr(err)

		policy := stream.PolicyFromConfig()
		resolution := policy.Resolve(stream.Request{
			URL:                    asset.URL,
			Live:                   asset.MetaData.IsLive,
			Platform:               stream.ParsePlatform(viper.GetString(key.PlayerPlatform)),
			EventType:              asset.MetaData.EventType,
			EventStream:            asset.MetaData.EventStream,
			ExternalAudioStreamURL: asset.MetaData.ExternalAudioStreamURL,
		})

		output := resolvedOutput{Resolution: resolution}

		if lo.Must(cmd.Flags().GetBool("probe")) {
			erase := util.PrintErasable(fmt.Sprintf("%s Probing %s...", icon.Get(icon.Progress), resolution.URL))
			probe, err := network.Head(commandContext(cmd), resolution.URL)
			erase()
			handleErr(err)
			output.Probe = &probe
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(output))
			return
		}

		mime := string(resolution.MimeType)
		if mime == "" {
			mime = "unknown"
		}

		cmd.Printf("%s %s\n", style.Fg(color.Purple)("URL: "), resolution.URL)
		cmd.Printf("%s %s\n", style.Fg(color.Purple)("Type:"), style.Fg(color.Yellow)(mime))

		if output.Probe == nil {
			return
		}

		status := style.Fg(color.Green)(icon.Get(icon.Success))
		if !output.Probe.OK() {
			status = style.Fg(color.Red)(icon.Get(icon.Fail))
		}
		cmd.Printf(
			"%s %s %d %s\n",
			style.Fg(color.Purple)("Probe:"),
			status,
			output.Probe.StatusCode,
			style.Faint(output.Probe.ContentType),
		)
	},
}
