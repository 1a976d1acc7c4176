package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
	"github.com/muesli/reflow/wrap"
)

// StalledMessage is shown while the watchdog reports stalled playback.
const StalledMessage = "There was an error playing audio"

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	tickerBadge = style.Tag(color.Cream, style.SecondaryColor)
)

func (b *statefulBubble) View() string {
	switch b.state {
	case playerState:
		return b.viewPlayer()
	case historyState:
		return listExtraPaddingStyle.Render(b.historyC.View())
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewPlayer() string {
	meta := b.engine.EventMetaData()

	title := meta.Title
	if title == "" {
		title = b.engine.ID().OrElse("Nothing playing")
	}

	header := []string{style.Title(title)}
	if meta.LocalTicker != "" {
		header = append(header, tickerBadge(meta.LocalTicker))
	}
	if meta.IsLive {
		header = append(header, style.Live("LIVE"))
	}

	lines := []string{strings.Join(header, " ")}
	if meta.Quote != "" {
		lines = append(lines, "", style.Italic(b.wrap(meta.Quote)))
	}

	current := b.engine.DisplayCurrentTime()
	duration := b.engine.DisplayDuration()

	var (
		clock   string
		percent float64
	)
	if meta.IsLive {
		clock = util.FormatClock(current)
		percent = 1
	} else {
		clock = fmt.Sprintf("%s / %s", util.FormatClock(current), util.FormatClock(duration))
		if duration > 0 {
			percent = current / duration
		}
	}

	lines = append(lines,
		"",
		b.progressC.ViewAs(percent),
		clock,
		"",
		b.statusLine(),
	)

	if b.engine.Error() {
		lines = append(lines, "", style.Stalled(icon.Get(icon.Stalled)+" "+StalledMessage))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) statusLine() string {
	state := icon.Get(icon.Pause) + " paused"
	if b.engine.Playing("") {
		state = icon.Get(icon.Play) + " playing"
	}

	rate := strconv.FormatFloat(b.engine.PlaybackRate(), 'f', -1, 64) + "x"
	volume := fmt.Sprintf("%d%%", int(b.engine.Volume()*100+0.5))

	return strings.Join([]string{
		state,
		style.Faint(icon.Get(icon.Rate)) + " " + rate,
		style.Faint(icon.Get(icon.Volume)) + " " + volume,
	}, "   ")
}

func (b *statefulBubble) viewError() string {
	message := "unknown error"
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		style.Fg(color.Red)(b.wrap(message)),
	})
}

func (b *statefulBubble) wrap(s string) string {
	if b.width <= 0 {
		return s
	}
	return wrap.String(s, b.width)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	if addHelp {
		lines = append(lines, "", b.helpC.View(b.keymap))
	}
	return paddingStyle.Render(strings.Join(lines, "\n"))
}
