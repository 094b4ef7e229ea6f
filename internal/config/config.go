package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "KANJIKOTO_"

// Config holds the settings shared by every command.
type Config struct {
	DBPath      string `koanf:"db" validate:"required"`
	ReposDir    string `koanf:"repos_dir" validate:"required"`
	SessionSize int    `koanf:"session_size" validate:"min=1,max=50"`
	Seed        uint64 `koanf:"seed"`
	LogLevel    string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	Lesson      int64  `koanf:"lesson" validate:"min=0"`
}

var defaults = map[string]any{
	"db":           "kanjikoto.db",
	"repos_dir":    "repos",
	"session_size": 5,
	"seed":         0,
	"log_level":    "info",
	"lesson":       0,
}

// RegisterFlags adds the configuration flags to flags. Flag names match the
// koanf keys, with dashes in place of underscores.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("db", "kanjikoto.db", "path to the SQLite database file")
	flags.String("repos-dir", "repos", "directory git sources are cloned into")
	flags.Int("session-size", 5, "number of cards in a practice session")
	flags.Uint64("seed", 0, "random seed for card selection and order; 0 picks a new one each session")
	flags.String("log-level", "info", "log level: trace, debug, info, warn or error")
	flags.Int64("lesson", 0, "lesson ID to work with; 0 uses the first lesson")
}

// Load builds the configuration from, in increasing order of precedence:
// defaults, the YAML file named by --config (which must exist when given), KANJIKOTO_* environment
// variables and flags that were set explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		if path, _ := flags.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	if flags != nil {
		flagKey := func(f *pflag.Flag) (string, any) {
			if f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
