package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/history"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many records")
	historyCmd.Flags().StringP("search", "s", "", "Fuzzy filter on title, ticker and id")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyRemoveCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded listening sessions, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		listens, err := history.Search(lo.Must(cmd.Flags().GetString("search")))
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(listens) {
			listens = listens[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(listens))
			return
		}

		if len(listens) == 0 {
			cmd.Println(style.Faint("Nothing heard yet"))
			return
		}

		fit := func(s string) string { return s }
		if width, _, err := util.TerminalSize(); err == nil && width > 4 {
			fit = func(s string) string { return truncate.StringWithTail(s, uint(width-2), "…") }
		}

		for _, l := range listens {
			cmd.Printf(
				"%s %s\n  %s\n",
				style.Fg(color.Purple)(icon.Get(icon.History)),
				fit(l.String()),
				style.Faint(fmt.Sprintf("last heard %s · %s", l.LastHeard.Local().Format(time.DateTime), l.ID)),
			)
		}
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <id>...",
	Short:   "Forget listening records",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		found, err := history.Search(toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(found, func(l *history.SavedListen, _ int) string {
			return l.ID
		}), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			handleErr(history.Remove(id))
			fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(id))
		}
	},
}
