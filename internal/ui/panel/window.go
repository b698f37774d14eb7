package panel

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"metronome/internal/core/session"
	"metronome/internal/core/tempo"
)

var (
	beatIdle   = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	beatActive = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	timeColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Callbacks defines panel action handlers.
type Callbacks struct {
	OnToggle   func()
	OnReset    func()
	OnIncrease func()
	OnDecrease func()
	OnTempo    func(tempo.BPM)
	OnTimer    func(minutes int)
}

// Window is the main metronome window.
type Window struct {
	window     fyne.Window
	callbacks  Callbacks
	tempoEntry *widget.Entry
	timerEntry *widget.Entry
	modeLabel  *widget.Label
	timeLabel  *canvas.Text
	toggle     *widget.Button
	reset      *widget.Button
	beat       *canvas.Circle
	beatOn     bool
}

// New creates the metronome window.
func New(app fyne.App, title string, callbacks Callbacks) *Window {
	window := app.NewWindow(title)

	tempoEntry := widget.NewEntry()
	timerEntry := widget.NewEntry()
	timerEntry.SetPlaceHolder("Timer length (minutes)")

	timeLabel := canvas.NewText("0:00", timeColor)
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = 32

	beat := canvas.NewCircle(beatIdle)
	beat.Resize(fyne.NewSize(18, 18))

	panel := &Window{
		window:     window,
		callbacks:  callbacks,
		tempoEntry: tempoEntry,
		timerEntry: timerEntry,
		modeLabel:  widget.NewLabel("Elapsed"),
		timeLabel:  timeLabel,
		beat:       beat,
	}

	decrease := widget.NewButton("-5 BPM", func() { call(panel.callbacks.OnDecrease) })
	increase := widget.NewButton("+5 BPM", func() { call(panel.callbacks.OnIncrease) })
	panel.toggle = widget.NewButton(ToggleLabel(session.StateInactive), func() { call(panel.callbacks.OnToggle) })
	panel.toggle.Importance = widget.HighImportance
	panel.reset = widget.NewButton("Reset", func() { call(panel.callbacks.OnReset) })

	tempoEntry.OnSubmitted = panel.submitTempo
	timerEntry.OnSubmitted = panel.submitTimer

	beatHolder := container.NewGridWrap(fyne.NewSize(18, 18), beat)
	content := container.NewVBox(
		widget.NewLabelWithStyle("Tempo", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, decrease, increase, tempoEntry),
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, widget.NewLabel("min"), timerEntry),
		container.NewHBox(panel.modeLabel, layout.NewSpacer(), beatHolder),
		timeLabel,
		container.NewGridWithColumns(2, panel.toggle, panel.reset),
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 300))

	return panel
}

// Show displays the window.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Hide hides the window.
func (panel *Window) Hide() {
	panel.window.Hide()
}

// SetCloseIntercept replaces the default close behaviour.
func (panel *Window) SetCloseIntercept(handler func()) {
	panel.window.SetCloseIntercept(handler)
}

// Update renders a controller snapshot. Must run on the fyne thread.
func (panel *Window) Update(snapshot session.Snapshot) {
	focused := panel.window.Canvas().Focused()
	if focused != panel.tempoEntry {
		setText(panel.tempoEntry, strconv.Itoa(int(snapshot.Tempo)))
	}
	if focused != panel.timerEntry {
		setText(panel.timerEntry, strconv.Itoa(snapshot.TimerMinutes))
	}

	panel.modeLabel.SetText(ModeLabel(snapshot))
	if panel.timeLabel.Text != snapshot.Display() {
		panel.timeLabel.Text = snapshot.Display()
		panel.timeLabel.Refresh()
	}
	panel.toggle.SetText(ToggleLabel(snapshot.State))

	if snapshot.State != session.StateActive {
		panel.SetBeat(false)
	}
}

// SetBeat lights or clears the beat indicator. Must run on the fyne thread.
func (panel *Window) SetBeat(lit bool) {
	if panel.beatOn == lit {
		return
	}
	panel.beatOn = lit
	if lit {
		panel.beat.FillColor = beatActive
	} else {
		panel.beat.FillColor = beatIdle
	}
	panel.beat.Refresh()
}

func (panel *Window) submitTempo(text string) {
	bpm := ParseTempo(text)
	setText(panel.tempoEntry, strconv.Itoa(int(bpm)))
	if panel.callbacks.OnTempo != nil {
		panel.callbacks.OnTempo(bpm)
	}
}

func (panel *Window) submitTimer(text string) {
	minutes := ParseTimer(text)
	setText(panel.timerEntry, strconv.Itoa(minutes))
	if panel.callbacks.OnTimer != nil {
		panel.callbacks.OnTimer(minutes)
	}
}

func setText(entry *widget.Entry, text string) {
	if entry.Text != text {
		entry.SetText(text)
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
