package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
)

// defaultSeekStep is used when Options leave SeekStep unset.
const defaultSeekStep = 15

// volumeStep is the change applied by a single volume key press.
const volumeStep = 0.1

// statefulBubble holds the player bar, the history list and the state stack between them.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	ctx    context.Context
	engine Engine

	// engine events arrive here from the subscriber; a full buffer drops the event,
	// which is harmless because every event only asks for a re-render
	events      chan player.Event
	unsubscribe func()

	progressC progress.Model
	helpC     help.Model
	historyC  list.Model

	lastError error
	// asset is replayed by play after a clear
	asset *player.Options

	width, height int

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current state unless it is the error screen.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if s, ok := b.statesHistory.Pop(); ok {
		b.setState(s)
		return
	}
	b.setState(playerState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = util.Max(width-x, 10)
	b.helpC.Width = listWidth

	b.width = width - x
	b.height = height - y
}

func (b *statefulBubble) close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

func newBubble(ctx context.Context, engine Engine, options *Options) *statefulBubble {
	if options == nil {
		options = &Options{}
	}
	if options.SeekStep <= 0 {
		options.SeekStep = defaultSeekStep
	}

	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		ctx:           ctx,
		engine:        engine,
		events:        make(chan player.Event, 16),
		asset:         options.Asset,
		options:       options,
	}

	bubble.unsubscribe = engine.Subscribe(func(e player.Event) {
		select {
		case bubble.events <- e:
		default:
		}
	})

	bubble.progressC = progress.New(
		progress.WithGradient(string(style.SecondaryColor), string(style.AccentColor)),
		progress.WithoutPercentage(),
	)

	bubble.helpC = help.New()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.historyC = list.New(nil, delegate, 0, 0)
	bubble.historyC.Title = "Listening History"
	bubble.historyC.KeyMap = keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = keymap.ShortHelp
	bubble.historyC.SetFilteringEnabled(true)
	bubble.historyC.Styles.Title = bubble.historyC.Styles.Title.Background(style.AccentColor)
	bubble.historyC.SetStatusBarItemName("listen", "listens")

	bubble.setState(playerState)

	return bubble
}
