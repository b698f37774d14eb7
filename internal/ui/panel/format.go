package panel

import (
	"strconv"
	"strings"

	"metronome/internal/core/model"
	"metronome/internal/core/session"
	"metronome/internal/core/tempo"
)

// ParseTempo converts tempo entry text to a user tempo. Empty or
// unparsable text selects the default tempo.
func ParseTempo(text string) tempo.BPM {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return tempo.Default
	}
	return tempo.FromFloat(value)
}

// ParseTimer converts timer entry text to minutes. Empty or unparsable
// text disables the countdown.
func ParseTimer(text string) int {
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return model.ClampTimerMinutes(minutes)
}

// ModeLabel names the counter shown for snapshot.
func ModeLabel(snapshot session.Snapshot) string {
	if snapshot.CountingDown() {
		return "Remaining"
	}
	return "Elapsed"
}

// ToggleLabel is the start/stop button caption for state.
func ToggleLabel(state session.State) string {
	if state == session.StateActive {
		return "Stop"
	}
	return "Start"
}

// Status is the one-line summary used by the tray.
func Status(snapshot session.Snapshot) string {
	status := strconv.Itoa(int(snapshot.Tempo)) + " BPM, " + strings.ToLower(ModeLabel(snapshot)) + " " + snapshot.Display()
	if snapshot.State != session.StateActive {
		status += " (stopped)"
	}
	return status
}
