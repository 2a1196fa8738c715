package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional graft configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Exclude  ExcludeConfig  `toml:"exclude"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Verify  *bool   `toml:"verify"`
	Lock    *bool   `toml:"lock"`
	BWLimit *string `toml:"bwlimit"`
	Report  *string `toml:"report"`
}

// ExcludeConfig controls the static exclusion rules. Dirs and Files replace
// the built-in lists when set; ExtraDirs and ExtraFiles are appended to
// whichever list is in effect.
type ExcludeConfig struct {
	Dirs        *[]string `toml:"dirs"`
	Files       *[]string `toml:"files"`
	ExtraDirs   []string  `toml:"extra_dirs"`
	ExtraFiles  []string  `toml:"extra_files"`
	IgnoreFiles []string  `toml:"ignore_files"`
}

// ThemeConfig holds optional color overrides for the log tags.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Blue   *string `toml:"blue"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Teal   *string `toml:"teal"`
	Muted  *string `toml:"muted"`
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
	return filepath.Join(dir, "graft", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads the config file at path. Unlike Load, a missing file is an
// error wrapping os.ErrNotExist.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
