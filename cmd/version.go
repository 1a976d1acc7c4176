package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/player/mpv"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify(commandContext(cmd))

		versionInfo := struct {
			Version  string
			OS       string
			Arch     string
			BuiltAt  string
			BuiltBy  string
			Revision string
			App      string
			Mpv      string
		}{
			Version:  constant.Version,
			App:      constant.Eventcast,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Revision: constant.Revision,
			Mpv:      mpvStatus(),
		}

		t, err := template.New("version").Funcs(map[string]any{
			"faint":   style.Faint,
			"bold":    style.Bold,
			"magenta": style.Fg(color.Purple),
		}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "mpv" }}             {{ bold .Mpv }}
`)
		handleErr(err)
		handleErr(t.Execute(cmd.OutOrStdout(), versionInfo))
	},
}

// mpvStatus reports the configured mpv path and whether it resolves.
func mpvStatus() string {
	binary := viper.GetString(key.PlayerMpvPath)
	if mpv.New(mpv.WithBinary(binary)).Supported() {
		return binary
	}
	return binary + " (not found)"
}
