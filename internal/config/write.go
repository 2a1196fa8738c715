package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Starter returns a config populated with the built-in values, suitable as
// a template for users to edit.
func Starter(dirs, files []string) Config {
	verify := false
	lock := true
	return Config{
		Defaults: DefaultsConfig{Verify: &verify, Lock: &lock},
		Exclude:  ExcludeConfig{Dirs: &dirs, Files: &files},
	}
}

// Write encodes cfg as TOML to path, creating the parent directory if
// needed. An existing file is never replaced; the error wraps os.ErrExist.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
