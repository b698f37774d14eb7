package tempo

import (
	"math"
	"time"
)

// BPM is a tempo in beats per minute.
type BPM int

const (
	// Floor and Ceiling bound any tempo the scheduler will arm.
	Floor   BPM = 1
	Ceiling BPM = 300

	// Min and Max bound tempos a user can select.
	Min BPM = 40
	Max BPM = 300

	Default BPM = 60
	Step    BPM = 5
)

// Interval returns the beat interval for bpm after clamping it to [Floor, Ceiling].
func Interval(bpm BPM) time.Duration {
	bpm = ClampAbsolute(bpm)
	return time.Minute / time.Duration(bpm)
}

// ClampAbsolute clamps bpm to [Floor, Ceiling].
func ClampAbsolute(bpm BPM) BPM {
	return clamp(bpm, Floor, Ceiling)
}

// Clamp clamps bpm to the user range [Min, Max].
func Clamp(bpm BPM) BPM {
	return clamp(bpm, Min, Max)
}

// FromFloat converts a free-form numeric tempo to a user tempo.
// NaN yields Default; infinities clamp to the nearest bound.
func FromFloat(value float64) BPM {
	switch {
	case math.IsNaN(value):
		return Default
	case value <= float64(Min):
		return Min
	case value >= float64(Max):
		return Max
	}
	return BPM(math.Round(value))
}

// Increase returns bpm stepped up by Step, clamped to the user range.
func Increase(bpm BPM) BPM {
	return Clamp(bpm + Step)
}

// Decrease returns bpm stepped down by Step, clamped to the user range.
func Decrease(bpm BPM) BPM {
	return Clamp(bpm - Step)
}

func clamp(value, lower, upper BPM) BPM {
	if value <= lower {
		return lower
	}
	if value >= upper {
		return upper
	}
	return value
}
