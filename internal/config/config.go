// Package config resolves cookbook settings from flags, environment variables
// and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. COOKBOOK_DATA.
	EnvPrefix = "COOKBOOK"

	// DefaultDataPath is the backing file used when nothing else is configured.
	DefaultDataPath = "./cookbook.json"

	// Keys understood in config.yaml and via COOKBOOK_<KEY> (dots become underscores).
	KeyData          = "data"
	KeyVerbose       = "verbose"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogMaxSize    = "log.max_size"
	KeyLogMaxBackups = "log.max_backups"
)

const (
	configFileName    = "config"
	configFileType    = "yaml"
	configFileEnvName = EnvPrefix + "_CONFIG"
)

// NewViper returns a viper instance with defaults, environment binding and the
// config file search path already set up. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyData, DefaultDataPath)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSize, 10)
	v.SetDefault(KeyLogMaxBackups, 5)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// An explicit file wins over the search path.
	if file := os.Getenv(configFileEnvName); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(ConfigDir())
	}
	return v
}

// Load reads the config file (if any) into v and returns the resolved Config.
// A missing file in the search path is fine; a malformed or unreadable one is not.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{
		DataPath: v.GetString(KeyData),
		Verbose:  v.GetBool(KeyVerbose),
		Log: LogConfig{
			Level:      v.GetString(KeyLogLevel),
			File:       expandHome(v.GetString(KeyLogFile)),
			MaxSize:    v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
		},
		File: v.ConfigFileUsed(),
	}
	cfg.DataPath = expandHome(cfg.DataPath)

	if strings.TrimSpace(cfg.DataPath) == "" {
		return Config{}, fmt.Errorf("%s must not be empty", KeyData)
	}
	return cfg, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/cookbook, falling back to ~/.config/cookbook.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cookbook")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "cookbook")
	}
	return filepath.Join(home, ".config", "cookbook")
}

// expandHome turns a leading "~/" into the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
