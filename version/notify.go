package version

import (
	"context"
	"fmt"
	"time"

	"github.com/eventcast/eventcast/color"
	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/icon"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/style"
	"github.com/eventcast/eventcast/util"
	"github.com/spf13/viper"
)

const notifyTimeout = 3 * time.Second

// Notify prints a notice when a newer release than the running one exists.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/eventcast/eventcast/releases/tag/v"+version),
	)
}
