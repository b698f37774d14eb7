package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metronome/internal/core/tempo"
	"metronome/internal/ui/preferences"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "Metronome", settingsFileName)
	saved := preferences.Settings{
		Tempo:        144,
		TimerMinutes: 20,
		ClickPitch:   880,
		ClickVolume:  0.8,
		ClickLength:  30 * time.Millisecond,
		MIDIPort:     "IAC Driver",
	}

	require.NoError(t, SaveSettingsFile(configPath, saved))
	loaded, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadIgnoresOutOfRangeValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), settingsFileName)
	content := []byte(`tempo_bpm: 12
timer_minutes: 600
click_pitch_hz: 5
click_volume: 4
click_length_ms: -10
`)
	require.NoError(t, os.WriteFile(configPath, content, 0o644))

	settings, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("tempo_bpm: 90\ntimer_minutes: 5\n"), 0o644))

	settings, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, tempo.BPM(90), settings.Tempo)
	assert.Equal(t, 5, settings.TimerMinutes)
	assert.Equal(t, preferences.DefaultSettings().ClickPitch, settings.ClickPitch)
	assert.Equal(t, preferences.DefaultSettings().ClickVolume, settings.ClickVolume)
}

func TestMutedVolumeSurvivesSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), settingsFileName)
	muted := preferences.DefaultSettings()
	muted.ClickVolume = 0

	require.NoError(t, SaveSettingsFile(configPath, muted))
	loaded, err := LoadSettingsFile(configPath)
	require.NoError(t, err)
	assert.Zero(t, loaded.ClickVolume)
	assert.Equal(t, muted, loaded)
}

func TestLoadMalformedYaml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("tempo_bpm: [oops"), 0o644))

	settings, err := LoadSettingsFile(configPath)
	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}
