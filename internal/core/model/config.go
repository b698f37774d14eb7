package model

import "metronome/internal/core/tempo"

// MaxTimerMinutes bounds the countdown duration.
const MaxTimerMinutes = 60

// SessionConfig contains the initial settings of a metronome session.
type SessionConfig struct {
	Tempo tempo.BPM
	// TimerMinutes is the countdown length; zero selects count-up mode.
	TimerMinutes int
}

// DefaultSessionConfig returns a count-up session at the default tempo.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{Tempo: tempo.Default}
}

// Normalized returns config with every field clamped to its valid range.
func (config SessionConfig) Normalized() SessionConfig {
	config.Tempo = tempo.Clamp(config.Tempo)
	config.TimerMinutes = ClampTimerMinutes(config.TimerMinutes)
	return config
}

// ClampTimerMinutes clamps minutes to [0, MaxTimerMinutes].
func ClampTimerMinutes(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > MaxTimerMinutes {
		return MaxTimerMinutes
	}
	return minutes
}
