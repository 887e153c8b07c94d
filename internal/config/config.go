// Package config provides loading and parsing of the dyspatch configuration
// file using Viper. It defines the configuration schema and registers the
// loaded values with configloader.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfulz/dyspatch/internal/configloader"
	"github.com/mfulz/dyspatch/internal/logging"
	"github.com/spf13/viper"
)

// Config represents the full structure of the dyspatch configuration file.
type Config struct {
	Logger     logging.Config `mapstructure:"log"`
	RoutesFile string         `mapstructure:"routes_file"` // routes.yaml location, resolved if empty
	Timeout    time.Duration  `mapstructure:"timeout"`     // upper bound for a single dispatch
}

// DefaultTimeout applies when the configuration does not set one.
const DefaultTimeout = 30 * time.Second

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("routes_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.to_stderr", true)

	v.SetEnvPrefix("DYSPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads the configuration from path. With an empty path the file
// is looked up by configloader.ResolveConfigPath, and defaults are used when
// none exists. The result is registered and the global logger rebuilt.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		if resolved, err := configloader.ResolveConfigPath("dyspatch", "config.yaml"); err == nil {
			path = resolved
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	log, err := logging.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	if logCfg, ok := configloader.TryGetConfig[*logging.Config](); ok {
		*logCfg = cfg.Logger
	} else {
		configloader.RegisterConfig(&cfg.Logger)
	}
	logging.Log = log

	configloader.ReplaceConfig(&cfg)
	if path != "" {
		logging.Log.Debugf("[config] loaded %s", path)
	}
	return &cfg, nil
}
