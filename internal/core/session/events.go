package session

import (
	"fmt"
	"time"

	"metronome/internal/core/tempo"
)

// State represents the current session mode.
type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
)

// EventType defines the type of Controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventTempoChange EventType = "tempo_change"
	EventBeat        EventType = "beat"
	EventExpired     EventType = "expired"
	EventClickError  EventType = "click_error"
	EventFault       EventType = "fault"
)

// Snapshot is a copy of the controller state.
type Snapshot struct {
	State        State
	Tempo        tempo.BPM
	TimerMinutes int
	Remaining    int
	Elapsed      int
	Beats        int64
}

// CountingDown reports whether the session runs a countdown.
func (snapshot Snapshot) CountingDown() bool {
	return snapshot.TimerMinutes > 0
}

// Display returns the remaining time in countdown mode and the elapsed time
// otherwise, formatted as M:SS.
func (snapshot Snapshot) Display() string {
	if snapshot.CountingDown() {
		return FormatTime(snapshot.Remaining)
	}
	return FormatTime(snapshot.Elapsed)
}

// Event represents a Controller update for observers.
type Event struct {
	Type     EventType
	State    State
	Snapshot Snapshot
	Message  string
	At       time.Time
}

// FormatTime renders seconds as M:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
