package midi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"metronome/internal/audio"
)

// ErrNoPort indicates no MIDI output matched the requested name.
var ErrNoPort = errors.New("midi output not found")

// Clicker sends a note on and a delayed note off for every click.
type Clicker struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	logger     *slog.Logger
	drv        *rtmididrv.Driver
	out        drivers.Out
	send       func(msg midi.Message) error
	note       audio.MIDINote
	noteOff    clockwork.Timer
	generation uint64
	sounding   bool
	open       bool
}

func newClicker(send func(midi.Message) error, note audio.MIDINote, clock clockwork.Clock) *Clicker {
	if note.Length <= 0 {
		note.Length = audio.DefaultMIDINote().Length
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Clicker{
		clock:  clock,
		logger: slog.Default().With("component", "midi"),
		send:   send,
		note:   note,
		open:   true,
	}
}

// ListOutputs returns the names of the available MIDI outputs.
func ListOutputs() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

// NewClicker opens the first output whose name contains portName.
func NewClicker(portName string, note audio.MIDINote) (*Clicker, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	var found drivers.Out
	for _, out := range outs {
		if containsCI(out.String(), portName) {
			found = out
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("%w: %q", ErrNoPort, portName)
	}

	send, err := midi.SendTo(found)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("open %q: %w", found.String(), err)
	}

	clicker := newClicker(send, note, nil)
	clicker.drv = drv
	clicker.out = found
	return clicker, nil
}

// Click sends note on; note off follows after the note length. A click
// arriving before the previous note off retriggers the note.
func (m *Clicker) Click() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return fmt.Errorf("midi click: output closed")
	}

	if m.noteOff != nil {
		m.noteOff.Stop()
		m.noteOff = nil
	}
	if m.sounding {
		m.sounding = false
		if err := m.send(midi.NoteOff(m.note.Channel, m.note.Key)); err != nil {
			return fmt.Errorf("midi note off: %w", err)
		}
	}
	if err := m.send(midi.NoteOn(m.note.Channel, m.note.Key, m.note.Velocity)); err != nil {
		return fmt.Errorf("midi note on: %w", err)
	}
	m.sounding = true

	// A note off already fired but waiting on mu sees a newer generation and
	// leaves the retriggered note alone.
	m.generation++
	generation := m.generation
	m.noteOff = m.clock.AfterFunc(m.note.Length, func() {
		m.release(generation)
	})
	return nil
}

// Close silences the note and releases the port and driver.
func (m *Clicker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil
	}
	m.open = false
	m.sounding = false
	if m.noteOff != nil {
		m.noteOff.Stop()
		m.noteOff = nil
	}

	var errs []error
	if err := m.send(midi.NoteOff(m.note.Channel, m.note.Key)); err != nil {
		errs = append(errs, fmt.Errorf("midi note off: %w", err))
	}
	if m.out != nil {
		if err := m.out.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close midi output: %w", err))
		}
	}
	if m.drv != nil {
		if err := m.drv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rtmididrv: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (m *Clicker) release(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open || !m.sounding || generation != m.generation {
		return
	}
	m.sounding = false
	m.noteOff = nil
	if err := m.send(midi.NoteOff(m.note.Channel, m.note.Key)); err != nil {
		m.logger.Debug("midi note off", "err", err)
	}
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
