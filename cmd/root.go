// Package cmd implements the command-line interface for eventcast.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/tui"
	"github.com/eventcast/eventcast/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "W", true, "Record listening sessions to the local history")
	lo.Must0(viper.BindPFlag(key.HistorySaveListens, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().String("platform", "", "Platform the load policy assumes (default, ios)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("platform", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"default", "ios"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerPlatform, rootCmd.PersistentFlags().Lookup("platform")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(commandContext(cmd))
	})
}

// rootCmd opens the listening history when no asset is given.
var rootCmd = &cobra.Command{
	Use:   constant.Eventcast,
	Short: "A terminal player for recorded and live event audio",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal player for recorded and live event audio"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 1 {
			play(cmd, args[0])
			return
		}

		CheckDependencies()
		handleErr(runPlayer(commandContext(cmd), &tui.Options{History: true}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// commandContext is the context the command was executed with, or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
