package scheduler

import "metronome/internal/core/tempo"

// Command is a message accepted by the Scheduler. The set is closed:
// Start, Stop and ChangeTempo are the only implementations.
type Command interface {
	command()
}

// Start (re)arms the beat ticker at BPM.
type Start struct {
	BPM tempo.BPM
}

// Stop disarms the beat ticker.
type Stop struct{}

// ChangeTempo re-arms the beat ticker at BPM when it is armed.
type ChangeTempo struct {
	BPM tempo.BPM
}

func (Start) command()       {}
func (Stop) command()        {}
func (ChangeTempo) command() {}

// Signal is a payload-less notification sent by the Scheduler.
type Signal int

const (
	SignalReady Signal = iota
	SignalTick
	SignalFault
	// SignalStarted acknowledges every Start command, before its first tick.
	SignalStarted
)

func (signal Signal) String() string {
	switch signal {
	case SignalReady:
		return "ready"
	case SignalTick:
		return "tick"
	case SignalFault:
		return "fault"
	case SignalStarted:
		return "started"
	default:
		return "unknown"
	}
}
