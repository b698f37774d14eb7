package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"metronome/internal/core/model"
	"metronome/internal/core/tempo"
	"metronome/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TempoBPM      int      `yaml:"tempo_bpm"`
	TimerMinutes  int      `yaml:"timer_minutes"`
	ClickPitchHz  float64  `yaml:"click_pitch_hz"`
	ClickVolume   *float64 `yaml:"click_volume"`
	ClickLengthMs int      `yaml:"click_length_ms"`
	MIDIPort      string   `yaml:"midi_port,omitempty"`
}

// LoadSettings reads user preferences from the application's config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences to the application's config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads user preferences from configPath. Out of range
// values are ignored field by field.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes user preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		TempoBPM:      int(settings.Tempo),
		TimerMinutes:  settings.TimerMinutes,
		ClickPitchHz:  settings.ClickPitch,
		ClickVolume:   &settings.ClickVolume,
		ClickLengthMs: int(settings.ClickLength / time.Millisecond),
		MIDIPort:      settings.MIDIPort,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if bpm := tempo.BPM(fileData.TempoBPM); bpm >= tempo.Min && bpm <= tempo.Max {
		settings.Tempo = bpm
	}
	if fileData.TimerMinutes >= 0 && fileData.TimerMinutes <= model.MaxTimerMinutes {
		settings.TimerMinutes = fileData.TimerMinutes
	}
	if fileData.ClickPitchHz >= 20 && fileData.ClickPitchHz <= 20000 {
		settings.ClickPitch = fileData.ClickPitchHz
	}
	// A missing key keeps the default; zero is a muted click.
	if volume := fileData.ClickVolume; volume != nil && *volume >= 0 && *volume <= 1 {
		settings.ClickVolume = *volume
	}
	if fileData.ClickLengthMs > 0 && fileData.ClickLengthMs <= 1000 {
		settings.ClickLength = time.Duration(fileData.ClickLengthMs) * time.Millisecond
	}

	settings.MIDIPort = fileData.MIDIPort
}
