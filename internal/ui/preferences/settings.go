package preferences

import (
	"time"

	"metronome/internal/audio"
	"metronome/internal/core/model"
	"metronome/internal/core/tempo"
)

// Settings defines editable user preferences.
type Settings struct {
	Tempo        tempo.BPM
	TimerMinutes int

	ClickPitch  float64
	ClickVolume float64
	ClickLength time.Duration
	MIDIPort    string
}

// DefaultSettings returns default settings for the metronome.
func DefaultSettings() Settings {
	tone := audio.DefaultTone()
	return Settings{
		Tempo:        tempo.Default,
		TimerMinutes: 0,
		ClickPitch:   tone.Frequency,
		ClickVolume:  tone.Volume,
		ClickLength:  tone.Length,
	}
}

// SessionConfig converts settings to the initial session configuration.
func (settings Settings) SessionConfig() model.SessionConfig {
	return model.SessionConfig{
		Tempo:        settings.Tempo,
		TimerMinutes: settings.TimerMinutes,
	}.Normalized()
}

// Tone converts settings to the click tone.
func (settings Settings) Tone() audio.Tone {
	return audio.Tone{
		Frequency: settings.ClickPitch,
		Volume:    settings.ClickVolume,
		Length:    settings.ClickLength,
	}.Normalized()
}

// MIDINote returns the MIDI click note sharing the audible click length.
func (settings Settings) MIDINote() audio.MIDINote {
	note := audio.DefaultMIDINote()
	note.Length = settings.Tone().Length
	return note
}
