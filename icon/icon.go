// Package icon renders the symbols used by the player bar and the CLI in the configured variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/eventcast/eventcast/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon names a symbol in the registry.
type Icon int

const (
	Play Icon = iota
	Pause
	Live
	Stalled
	Rate
	Volume
	History
	Progress
	Success
	Fail
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(ง'̀-'́)ง", squares: "▶"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(－_－) zzZ", squares: "⏸"},
	Live:     {emoji: "🔴", nerd: "\uf111", plain: "LIVE", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "■"},
	Stalled:  {emoji: "⚠️", nerd: "\uf071", plain: "!", kaomoji: "(×_×)", squares: "▲"},
	Rate:     {emoji: "⏩", nerd: "\uf04e", plain: "x", kaomoji: "ε=ε=┌( >_<)┘", squares: "»"},
	Volume:   {emoji: "🔊", nerd: "\uf028", plain: "vol", kaomoji: "ヽ(o＾▽＾o)ノ", squares: "◧"},
	History:  {emoji: "🕒", nerd: "\uf1da", plain: "*", kaomoji: "(￣ー￣)", squares: "◷"},
	Progress: {emoji: "👾", nerd: "\uf110", plain: "@", kaomoji: "┬─┬ノ( º _ ºノ)", squares: "▣"},
	Success:  {emoji: "🎉", nerd: "\uf00c", plain: "+", kaomoji: "(ᵔ◡ᵔ)", squares: "▤"},
	Fail:     {emoji: "💀", nerd: "\uf00d", plain: "X", kaomoji: "(╯°□°）╯︵ ┻━┻", squares: "▥"},
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
