package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const configName = ".git-kudos"
const configType = "yaml"
const envPrefix = "GIT_KUDOS"

// Loads configuration from file, environment and defaults.
//
// If configPath is empty, .git-kudos.yaml is searched for in the working
// directory and then $HOME. A missing config file is not an error.
func LoadConfig(configPath string) (_ *Config, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error loading config: %w", err)
		}
	}()

	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	} else {
		logger().Debug("read config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("extensions", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("exclude_mode", "substring")
	v.SetDefault("workers", 0)
	v.SetDefault("blame_timeout", DefaultBlameTimeout)
	v.SetDefault("max_blame_bytes", DefaultMaxBlameBytes)
	v.SetDefault("detailed", false)
	v.SetDefault("format", "text")
	v.SetDefault("sort", "lines")
	v.SetDefault("color", DefaultColor)
	v.SetDefault("log_level", DefaultLogLevel)
}
