// Package config registers every setting with viper and checks the loaded values.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/filesystem"
	"github.com/eventcast/eventcast/key"
	"github.com/eventcast/eventcast/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment overrides and the config file, in increasing priority.
// A missing config file is not an error; an out-of-range value is.
func Setup() error {
	viper.SetConfigName(constant.Eventcast)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Eventcast)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return Validate()
}

type bound struct {
	key      string
	min, max int
}

// intBounds are the inclusive ranges integer settings must fall in.
var intBounds = []bound{
	{key.PlayerWatchdogTimeout, 1, 600_000},
	{key.PlayerLiveEdgeThreshold, 0, 3600},
	{key.PlayerNormalizeMinOffset, 0, 3_600_000},
	{key.PlayerSeekStep, 1, 3600},
	{key.PlayerVolume, 0, 100},
	{key.SessionBufferingGoal, 1, 3600},
	{key.SessionRebufferingGoal, 0, 3600},
	{key.SessionRetryMaxAttempts, 1, 100},
	{key.SessionRetryBaseDelay, 0, 600_000},
	{key.SessionRetryBackoffFactor, 1, 16},
	{key.SessionRetryTimeout, 1, 600_000},
}

// Validate reports every setting whose value is out of range.
func Validate() error {
	var errs []error

	for _, b := range intBounds {
		if v := viper.GetInt(b.key); v < b.min || v > b.max {
			errs = append(errs, fmt.Errorf("%s: %d is outside [%d, %d]", b.key, v, b.min, b.max))
		}
	}

	if platform := strings.ToLower(viper.GetString(key.PlayerPlatform)); !lo.Contains([]string{"default", "ios"}, platform) {
		errs = append(errs, fmt.Errorf("%s: unknown platform %q", key.PlayerPlatform, platform))
	}

	if viper.GetString(key.PlayerMpvPath) == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", key.PlayerMpvPath))
	}

	return errors.Join(errs...)
}
