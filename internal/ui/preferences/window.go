package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"metronome/internal/core/model"
	"metronome/internal/core/tempo"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	tempo    *widget.Entry
	timer    *widget.Entry
	pitch    *widget.Entry
	length   *widget.Entry
	volume   *widget.Slider
	midiPort *widget.SelectEntry
}

// New creates a preferences window. midiPorts seeds the MIDI output choices.
func New(app fyne.App, settings Settings, midiPorts []string, onSave func(Settings)) *Window {
	window := app.NewWindow("Metronome Settings")

	volume := widget.NewSlider(0, 1)
	volume.Step = 0.05

	midiPort := widget.NewSelectEntry(midiPorts)
	midiPort.SetPlaceHolder("None")

	prefs := &Window{
		window:   window,
		onSave:   onSave,
		tempo:    widget.NewEntry(),
		timer:    widget.NewEntry(),
		pitch:    widget.NewEntry(),
		length:   widget.NewEntry(),
		volume:   volume,
		midiPort: midiPort,
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Session", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Default tempo"), widget.NewLabel("BPM"), prefs.tempo),
		container.NewBorder(nil, nil, widget.NewLabel("Default timer"), widget.NewLabel("min"), prefs.timer),
		widget.NewLabelWithStyle("Click", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Pitch"), widget.NewLabel("Hz"), prefs.pitch),
		container.NewBorder(nil, nil, widget.NewLabel("Length"), widget.NewLabel("ms"), prefs.length),
		widget.NewLabel("Volume"),
		volume,
		container.NewBorder(nil, nil, widget.NewLabel("MIDI output"), nil, midiPort),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(380, 400))

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.tempo.SetText(strconv.Itoa(int(settings.Tempo)))
	prefs.timer.SetText(strconv.Itoa(settings.TimerMinutes))
	prefs.pitch.SetText(strconv.FormatFloat(settings.ClickPitch, 'f', -1, 64))
	prefs.length.SetText(fmt.Sprintf("%d", settings.ClickLength.Milliseconds()))
	prefs.volume.Value = settings.ClickVolume
	prefs.volume.Refresh()
	prefs.midiPort.SetText(settings.MIDIPort)
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if bpm, err := strconv.ParseFloat(strings.TrimSpace(prefs.tempo.Text), 64); err == nil {
		settings.Tempo = tempo.FromFloat(bpm)
	}
	if minutes, err := strconv.Atoi(strings.TrimSpace(prefs.timer.Text)); err == nil {
		settings.TimerMinutes = model.ClampTimerMinutes(minutes)
	}
	if pitch, ok := parsePositiveFloat(prefs.pitch.Text); ok {
		settings.ClickPitch = pitch
	}
	if millis, ok := parsePositiveFloat(prefs.length.Text); ok {
		settings.ClickLength = time.Duration(millis * float64(time.Millisecond))
	}
	settings.ClickVolume = prefs.volume.Value
	settings.MIDIPort = strings.TrimSpace(prefs.midiPort.Text)

	tone := settings.Tone()
	settings.ClickPitch = tone.Frequency
	settings.ClickVolume = tone.Volume
	settings.ClickLength = tone.Length

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
