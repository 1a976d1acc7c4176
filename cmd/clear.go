package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/eventcast/eventcast/filesystem"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/util"
	"github.com/eventcast/eventcast/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	// precious targets cannot be rebuilt and need confirmation
	precious bool
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache, false},
	{"listening history", "history", mo.Some("H"), where.History, true},
	{"mpv sockets", "temp", mo.Some("t"), where.Temp, false},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirmClear asks before removing something that cannot be rebuilt.
func confirmClear(target clearTarget) bool {
	confirm := survey.Confirm{
		Message: fmt.Sprintf("Clear the %s? This cannot be undone.", target.name),
		Default: false,
	}

	var response bool
	handleErr(survey.AskOne(&confirm, &response))
	return response
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached files, stale sockets or the listening history",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			if target.precious && !lo.Must(cmd.Flags().GetBool("yes")) && !confirmClear(target) {
				continue
			}

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := filesystem.API().RemoveAll(target.location())
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
