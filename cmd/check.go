package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/player/mpv"
	"github.com/eventcast/eventcast/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the configured mpv binary cannot be found.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerMpvPath)
	if mpv.New(mpv.WithBinary(binary)).Supported() {
		return
	}

	printMissingDependencyError(binary)
	os.Exit(1)
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found. Audio is streamed through mpv.", dep))

	suggestion := fmt.Sprintf("\nPoint %s at an mpv executable.", style.New().Foreground(style.AccentColor).Render(key.PlayerMpvPath))
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint)) + "\n" + suggestion
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion)))
}
