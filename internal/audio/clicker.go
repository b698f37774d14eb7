// Package audio describes and renders the metronome click.
package audio

import (
	"errors"
	"math"
	"time"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
)

// Tone describes the click sound.
type Tone struct {
	Frequency float64
	Volume    float64
	Length    time.Duration
}

// DefaultTone is a 50 ms sine click at 1 kHz and half volume.
func DefaultTone() Tone {
	return Tone{
		Frequency: 1000,
		Volume:    0.5,
		Length:    50 * time.Millisecond,
	}
}

// Normalized clamps tone fields to playable values.
func (tone Tone) Normalized() Tone {
	defaults := DefaultTone()
	if tone.Frequency < 20 || tone.Frequency > 20000 || math.IsNaN(tone.Frequency) {
		tone.Frequency = defaults.Frequency
	}
	if tone.Volume < 0 || math.IsNaN(tone.Volume) {
		tone.Volume = 0
	}
	if tone.Volume > 1 {
		tone.Volume = 1
	}
	if tone.Length <= 0 || tone.Length > time.Second {
		tone.Length = defaults.Length
	}
	return tone
}

// Render synthesizes an interleaved float buffer for tone. The last few
// milliseconds fade out linearly so the click ends without a pop.
func Render(tone Tone, sampleRate, channels int) []float32 {
	tone = tone.Normalized()
	frames := int(tone.Length.Seconds() * float64(sampleRate))
	fade := sampleRate / 200
	if fade > frames {
		fade = frames
	}

	buffer := make([]float32, frames*channels)
	step := 2 * math.Pi * tone.Frequency / float64(sampleRate)
	for frame := 0; frame < frames; frame++ {
		gain := tone.Volume
		if left := frames - frame; left < fade {
			gain *= float64(left) / float64(fade)
		}
		sample := float32(gain * math.Sin(step*float64(frame)))
		for channel := 0; channel < channels; channel++ {
			buffer[frame*channels+channel] = sample
		}
	}
	return buffer
}

// MIDINote describes the note sent on each click.
type MIDINote struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
	Length   time.Duration
}

// DefaultMIDINote is a side stick on the General MIDI drum channel.
func DefaultMIDINote() MIDINote {
	return MIDINote{
		Channel:  9,
		Key:      37,
		Velocity: 100,
		Length:   50 * time.Millisecond,
	}
}

// Silent is a click output that plays nothing.
type Silent struct{}

// Click does nothing.
func (Silent) Click() error { return nil }

// Close does nothing.
func (Silent) Close() error { return nil }

// Output is a click sink that holds device resources.
type Output interface {
	Click() error
	Close() error
}

// Multi plays every click on all outputs.
type Multi []Output

// Click triggers each output and joins their errors.
func (outputs Multi) Click() error {
	var errs []error
	for _, output := range outputs {
		if err := output.Click(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases each output and joins their errors.
func (outputs Multi) Close() error {
	var errs []error
	for _, output := range outputs {
		if err := output.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
