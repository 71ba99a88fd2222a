package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Prefs.Layout)
	assert.Nil(t, cfg.Drill.Words)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[prefs]
layout = "Workman"
beep = true

[drill]
words = 40
line-width = 60
caps = 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Prefs.Layout)
	assert.Equal(t, "Workman", *cfg.Prefs.Layout)
	require.NotNil(t, cfg.Prefs.Beep)
	assert.True(t, *cfg.Prefs.Beep)
	assert.Nil(t, cfg.Prefs.Lessons)
	require.NotNil(t, cfg.Drill.Words)
	assert.Equal(t, 40, *cfg.Drill.Words)
	require.NotNil(t, cfg.Drill.LineWidth)
	assert.Equal(t, 60, *cfg.Drill.LineWidth)
	require.NotNil(t, cfg.Drill.CapsPct)
	assert.InDelta(t, 0.25, *cfg.Drill.CapsPct, 1e-9)
	assert.Nil(t, cfg.Drill.PunctPct)
}

func TestLoadConfigDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[prefs\nlayout ="), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to decode config")
}

func TestSavePrefsKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.toml")
	layout := "Dvorak"
	beep := false
	require.NoError(t, SavePrefs(path, PrefsConfig{Layout: &layout, Beep: &beep}))

	_, err := os.Stat(BackupPath(path))
	assert.True(t, os.IsNotExist(err), "first save has nothing to back up")

	layout = "Workman"
	beep = true
	require.NoError(t, SavePrefs(path, PrefsConfig{Layout: &layout, Beep: &beep}))

	prefs, err := LoadPrefs(path)
	require.NoError(t, err)
	require.NotNil(t, prefs.Layout)
	assert.Equal(t, "Workman", *prefs.Layout)
	assert.True(t, *prefs.Beep)

	backup, err := LoadPrefs(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "Dvorak", *backup.Layout)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestBackupPath(t *testing.T) {
	assert.Equal(t, "/x/prefs.bak.toml", BackupPath("/x/prefs.toml"))
	assert.Equal(t, "/x/prefs.bak", BackupPath("/x/prefs"))
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "cfg", "workmanship", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "workmanship", "scores.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "state", "workmanship", "prefs.toml"), DefaultPrefsPath())
	assert.Equal(t, filepath.Join(dir, "state", "workmanship", "workmanship.log"), DefaultLogPath())
}
