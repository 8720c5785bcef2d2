// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Reader ReaderConfig `toml:"reader"`
}

// ReaderConfig maps reader-related settings.
type ReaderConfig struct {
	WPM        *int  `toml:"wpm"`
	MinWPM     *int  `toml:"min-wpm"`
	MaxWPM     *int  `toml:"max-wpm"`
	WPMStep    *int  `toml:"wpm-step"`
	FocusGuide *bool `toml:"focus-guide"`
	FrameMs    *int  `toml:"frame-ms"`
	Autoplay   *bool `toml:"autoplay"`
}

// Template is written by `tuiread config` when no file exists yet.
const Template = `# tuiread configuration

[reader]
# wpm = 300
# min-wpm = 10
# max-wpm = 1000
# wpm-step = 25
# focus-guide = true
# frame-ms = 16
# autoplay = false
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EnsureConfig writes Template to path unless a file already exists.
func EnsureConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
