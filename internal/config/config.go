// Package config loads engine tuning settings.
//
// Settings are distinct from the directory registry: the registry is state
// the engine writes back, settings are knobs the user (or environment)
// provides. They are read once at startup from settings.yaml in the
// beadboard config directory, with BEADBOARD_* environment variables taking
// precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the engine's tunable policy values.
type Settings struct {
	// BdBin is the bd executable name or path.
	BdBin string `mapstructure:"bd_bin"`

	// GatewayTimeout bounds every bd invocation. A timed-out call is
	// reported as gateway unavailability.
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`

	// CardinalityLimit is the number of distinct column values above which
	// per-value filter menus are not offered.
	CardinalityLimit int `mapstructure:"cardinality_limit"`

	// ExcludedStatuses seeds the Status column filter on a fresh query
	// state. Defaults to hiding closed issues.
	ExcludedStatuses []string `mapstructure:"excluded_statuses"`

	// ListenAddr is the board server's listen address.
	ListenAddr string `mapstructure:"listen_addr"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		BdBin:            "bd",
		GatewayTimeout:   30 * time.Second,
		CardinalityLimit: 20,
		ExcludedStatuses: []string{"closed"},
		ListenAddr:       ":8080",
	}
}

// Load reads settings from settings.yaml in the beadboard config directory
// and the environment. A missing file yields the defaults; a malformed file
// is an error.
func Load() (Settings, error) {
	dir := ""
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "beadboard")
	}
	return LoadFrom(dir)
}

// LoadFrom reads settings from an explicit directory (empty skips the file
// and uses defaults plus environment).
func LoadFrom(dir string) (Settings, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("bd_bin", defaults.BdBin)
	v.SetDefault("gateway_timeout", defaults.GatewayTimeout)
	v.SetDefault("cardinality_limit", defaults.CardinalityLimit)
	v.SetDefault("excluded_statuses", defaults.ExcludedStatuses)
	v.SetDefault("listen_addr", defaults.ListenAddr)

	v.SetEnvPrefix("BEADBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			// Absent settings are fine; unreadable settings are not.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Settings{}, err
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
