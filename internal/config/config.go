package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional dupes configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Nil means "not set".
type DefaultsConfig struct {
	Algorithm *string  `toml:"algorithm"`
	Workers   *int     `toml:"workers"`
	Prehash   *bool    `toml:"prehash"`
	MinSize   *string  `toml:"min_size"`
	BWLimit   *string  `toml:"bwlimit"`
	LogFile   *string  `toml:"log"`
	Exclude   []string `toml:"exclude"`
}

// ThemeConfig holds optional color overrides for terminal output.
type ThemeConfig struct {
	Digest *string `toml:"digest"`
	Path   *string `toml:"path"`
	Header *string `toml:"header"`
	Error  *string `toml:"error"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dupes", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields a zero Config.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
