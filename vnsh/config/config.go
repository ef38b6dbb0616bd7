package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	internal "github.com/ZanzyTHEbar/vnsh/vnsh"

	"github.com/jmgilman/go/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DuplicatePolicy controls what mkdir and touch do with a name that already exists.
type DuplicatePolicy string

const (
	// DuplicateAdvisory prints the warning and inserts the duplicate anyway.
	DuplicateAdvisory DuplicatePolicy = "advisory"
	// DuplicateEnforce prints the warning and skips the insertion.
	DuplicateEnforce DuplicatePolicy = "enforce"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Shell ShellConfig `mapstructure:"shell"`
	Log   LogConfig   `mapstructure:"log"`
}

// ShellConfig stores namespace and interpreter settings.
type ShellConfig struct {
	RootName        string          `mapstructure:"rootName"`
	Separator       string          `mapstructure:"separator"`
	MaxNameLength   int             `mapstructure:"maxNameLength"`
	DuplicatePolicy DuplicatePolicy `mapstructure:"duplicatePolicy"`
}

// LogConfig stores diagnostic logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			RootName:        internal.DefaultRootName,
			Separator:       internal.DefaultSeparator,
			MaxNameLength:   internal.DefaultMaxNameLength,
			DuplicatePolicy: DuplicatePolicy(internal.DefaultDuplicatePolicy),
		},
		Log: LogConfig{
			Level:  internal.DefaultLogLevel,
			Format: internal.DefaultLogFormat,
		},
	}
}

// LoadConfig reads configuration from file or environment variables. An empty
// configPath searches the default locations and tolerates a missing file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.SetConfigName(internal.DefaultConfigName)
		v.SetConfigType("yaml")
	}

	defaults := Default()
	v.SetDefault("shell.rootName", defaults.Shell.RootName)
	v.SetDefault("shell.separator", defaults.Shell.Separator)
	v.SetDefault("shell.maxNameLength", defaults.Shell.MaxNameLength)
	v.SetDefault("shell.duplicatePolicy", string(defaults.Shell.DuplicatePolicy))
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // shell.rootName becomes VNSH_SHELL_ROOTNAME
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "unable to decode into struct")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the namespace cannot work with.
func (c *Config) Validate() error {
	s := c.Shell

	switch {
	case s.RootName == "":
		return invalid("shell.rootName", s.RootName, "root name cannot be empty")
	case utf8.RuneCountInString(s.Separator) != 1:
		return invalid("shell.separator", s.Separator, "separator must be exactly one character")
	case strings.Contains(s.RootName, s.Separator):
		return invalid("shell.rootName", s.RootName, "root name cannot contain the separator")
	case s.MaxNameLength <= 0:
		return invalid("shell.maxNameLength", s.MaxNameLength, "max name length must be positive")
	case s.DuplicatePolicy != DuplicateAdvisory && s.DuplicatePolicy != DuplicateEnforce:
		return invalid("shell.duplicatePolicy", s.DuplicatePolicy, "unknown duplicate policy")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return invalid("log.level", c.Log.Level, "unknown log level")
	}

	return nil
}

func invalid(key string, value interface{}, message string) error {
	err := errors.New(errors.CodeInvalidConfig, fmt.Sprintf("%s: %s", key, message))
	return errors.WithContext(err, key, value)
}
