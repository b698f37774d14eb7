package main

import (
	"log/slog"

	"metronome/internal/audio"
	"metronome/internal/audio/midi"
	"metronome/internal/audio/oto"
	"metronome/internal/ui/preferences"
)

// clickOutputs owns the audio device and the click outputs built from settings.
type clickOutputs struct {
	logger  *slog.Logger
	device  *oto.OtoContext
	current audio.Output
}

func newClickOutputs(logger *slog.Logger) *clickOutputs {
	outputs := &clickOutputs{logger: logger}
	device, err := oto.NewOtoContext()
	if err != nil {
		logger.Warn("audio output unavailable, clicks are silent", "err", err)
		return outputs
	}
	outputs.device = device
	return outputs
}

// Rebuild opens outputs for settings, hands them to install and then closes
// the previous ones. The audio device is reused; a missing MIDI port only
// disables the MIDI click.
func (outputs *clickOutputs) Rebuild(settings preferences.Settings, install func(audio.Output)) audio.Output {
	var multi audio.Multi
	if outputs.device != nil {
		multi = append(multi, outputs.device.NewClicker(settings.Tone()))
	}
	if settings.MIDIPort != "" {
		clicker, err := midi.NewClicker(settings.MIDIPort, settings.MIDINote())
		if err != nil {
			outputs.logger.Warn("midi click disabled", "port", settings.MIDIPort, "err", err)
		} else {
			multi = append(multi, clicker)
		}
	}

	var output audio.Output = audio.Silent{}
	if len(multi) > 0 {
		output = multi
	}
	if install != nil {
		install(output)
	}

	outputs.Close()
	outputs.current = output
	return output
}

// Close releases the current outputs.
func (outputs *clickOutputs) Close() {
	if outputs.current == nil {
		return
	}
	if err := outputs.current.Close(); err != nil {
		outputs.logger.Warn("close click output", "err", err)
	}
	outputs.current = nil
}
