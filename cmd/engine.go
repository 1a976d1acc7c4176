package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/eventcast/eventcast/history"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/player/mpv"
	"github.com/eventcast/eventcast/stream"
	"github.com/eventcast/eventcast/tui"
	"github.com/spf13/viper"
)

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

func seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}

func sessionConfig() player.SessionConfig {
	return player.SessionConfig{
		BufferingGoal:      seconds(key.SessionBufferingGoal),
		RebufferingGoal:    seconds(key.SessionRebufferingGoal),
		RetryMaxAttempts:   viper.GetInt(key.SessionRetryMaxAttempts),
		RetryBaseDelay:     millis(key.SessionRetryBaseDelay),
		RetryBackoffFactor: viper.GetFloat64(key.SessionRetryBackoffFactor),
		RetryTimeout:       millis(key.SessionRetryTimeout),
	}
}

// engineOptions reads every engine tunable from the active configuration.
func engineOptions() []player.Option {
	return []player.Option{
		player.WithPolicy(stream.PolicyFromConfig()),
		player.WithPlatform(stream.ParsePlatform(viper.GetString(key.PlayerPlatform))),
		player.WithWatchdog(player.Watchdog{Timeout: millis(key.PlayerWatchdogTimeout)}),
		player.WithReporter(history.Recorder{}),
		player.WithSessionConfig(sessionConfig()),
		player.WithLiveEdgeThreshold(viper.GetFloat64(key.PlayerLiveEdgeThreshold)),
		player.WithNormalizeMinOffset(millis(key.PlayerNormalizeMinOffset)),
		player.WithVolume(viper.GetFloat64(key.PlayerVolume) / 100),
	}
}

// runPlayer starts mpv, binds the engine to it and blocks in the player bar.
func runPlayer(ctx context.Context, options *tui.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend := mpv.New(mpv.WithBinary(viper.GetString(key.PlayerMpvPath)))
	if err := backend.Start(ctx); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn(err)
		}
	}()

	engine := player.New(backend, engineOptions()...)
	// records the final listen before mpv goes away
	defer engine.Clear()

	go func() {
		select {
		case <-backend.Wait():
			log.Warn("mpv exited")
			cancel()
		case <-ctx.Done():
		}
	}()

	if options.SeekStep <= 0 {
		options.SeekStep = viper.GetFloat64(key.PlayerSeekStep)
	}

	return tui.Run(ctx, engine, options)
}
