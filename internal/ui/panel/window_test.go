package panel

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"metronome/internal/core/session"
	"metronome/internal/core/tempo"
)

func TestButtonsInvokeCallbacks(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var toggles, resets int
	panel := New(app, "Metronome", Callbacks{
		OnToggle: func() { toggles++ },
		OnReset:  func() { resets++ },
	})

	test.Tap(panel.toggle)
	test.Tap(panel.toggle)
	test.Tap(panel.reset)
	assert.Equal(t, 2, toggles)
	assert.Equal(t, 1, resets)
}

func TestSubmittedEntriesAreClamped(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var gotTempo tempo.BPM
	gotTimer := -1
	panel := New(app, "Metronome", Callbacks{
		OnTempo: func(bpm tempo.BPM) { gotTempo = bpm },
		OnTimer: func(minutes int) { gotTimer = minutes },
	})

	panel.tempoEntry.SetText("999")
	panel.tempoEntry.OnSubmitted(panel.tempoEntry.Text)
	assert.Equal(t, tempo.Max, gotTempo)
	assert.Equal(t, "300", panel.tempoEntry.Text)

	panel.timerEntry.SetText("")
	panel.timerEntry.OnSubmitted(panel.timerEntry.Text)
	assert.Zero(t, gotTimer)
	assert.Equal(t, "0", panel.timerEntry.Text)
}

func TestUpdateRendersSnapshot(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	panel := New(app, "Metronome", Callbacks{})
	panel.Update(session.Snapshot{State: session.StateActive, Tempo: 132, TimerMinutes: 2, Remaining: 95})

	assert.Equal(t, "132", panel.tempoEntry.Text)
	assert.Equal(t, "2", panel.timerEntry.Text)
	assert.Equal(t, "Remaining", panel.modeLabel.Text)
	assert.Equal(t, "1:35", panel.timeLabel.Text)
	assert.Equal(t, "Stop", panel.toggle.Text)

	panel.SetBeat(true)
	assert.True(t, panel.beatOn)
	panel.Update(session.Snapshot{State: session.StateInactive, Tempo: 132, Elapsed: 4})
	assert.False(t, panel.beatOn)
	assert.Equal(t, "Start", panel.toggle.Text)
	assert.Equal(t, "0:04", panel.timeLabel.Text)
}
