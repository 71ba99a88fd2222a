// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Prefs PrefsConfig `toml:"prefs"`
	Drill DrillConfig `toml:"drill"`
}

// PrefsConfig maps the menu selections. The same table is used for the
// saved prefs state file.
type PrefsConfig struct {
	Layout  *string `toml:"layout,omitempty"`
	Beep    *bool   `toml:"beep,omitempty"`
	Lessons *string `toml:"lessons,omitempty"`
}

// DrillConfig maps generated drill settings.
type DrillConfig struct {
	Words     *int     `toml:"words"`
	WordList  *string  `toml:"wordlist"`
	CapsPct   *float64 `toml:"caps"`
	PunctPct  *float64 `toml:"punct"`
	LineWidth *int     `toml:"line-width"`
}

type prefsFile struct {
	Prefs PrefsConfig `toml:"prefs"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	found, err := decodeFile(path, &cfg)
	if err != nil || !found {
		return FileConfig{}, err
	}
	return cfg, nil
}

// LoadPrefs reads saved menu selections. Missing file is not an error.
func LoadPrefs(path string) (PrefsConfig, error) {
	var f prefsFile
	found, err := decodeFile(path, &f)
	if err != nil || !found {
		return PrefsConfig{}, err
	}
	return f.Prefs, nil
}

func decodeFile(path string, v any) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, v); err != nil {
		return false, fmt.Errorf("failed to decode config: %w", err)
	}
	return true, nil
}

// SavePrefs writes menu selections atomic-ish: the new content goes to a
// temporary file, the previous file is kept as a backup, then the temporary
// file is renamed into place.
func SavePrefs(path string, prefs PrefsConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prefsFile{Prefs: prefs}); err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, BackupPath(path)); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("failed to back up prefs: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace prefs: %w", err)
	}
	return nil
}

// BackupPath returns the backup name used by SavePrefs, e.g. prefs.bak.toml.
func BackupPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".bak" + ext
}
