package midi

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	"metronome/internal/audio"
)

type recordingOut struct {
	mu       sync.Mutex
	messages []midi.Message
	err      error
}

func (out *recordingOut) send(msg midi.Message) error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.err != nil {
		return out.err
	}
	out.messages = append(out.messages, msg)
	return nil
}

func (out *recordingOut) Messages() []midi.Message {
	out.mu.Lock()
	defer out.mu.Unlock()
	return append([]midi.Message(nil), out.messages...)
}

func testNote() audio.MIDINote {
	note := audio.DefaultMIDINote()
	note.Length = 50 * time.Millisecond
	return note
}

func on(note audio.MIDINote) midi.Message {
	return midi.NoteOn(note.Channel, note.Key, note.Velocity)
}

func off(note audio.MIDINote) midi.Message {
	return midi.NoteOff(note.Channel, note.Key)
}

func TestContainsCI(t *testing.T) {
	assert.True(t, containsCI("Launchkey MIDI 1", "launchkey"))
	assert.True(t, containsCI("IAC Driver Bus 1", "iac driver"))
	assert.False(t, containsCI("Midi Through", "launchkey"))
}

func TestClickSendsNoteOffAfterLength(t *testing.T) {
	clock := clockwork.NewFakeClock()
	out := &recordingOut{}
	note := testNote()
	clicker := newClicker(out.send, note, clock)

	require.NoError(t, clicker.Click())
	assert.Equal(t, []midi.Message{on(note)}, out.Messages())

	clock.Advance(note.Length - time.Millisecond)
	assert.Never(t, func() bool { return len(out.Messages()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return len(out.Messages()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []midi.Message{on(note), off(note)}, out.Messages())
}

func TestClickBeforeNoteOffRetriggers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	out := &recordingOut{}
	note := testNote()
	clicker := newClicker(out.send, note, clock)

	require.NoError(t, clicker.Click())
	clock.Advance(note.Length / 2)
	require.NoError(t, clicker.Click())
	assert.Equal(t, []midi.Message{on(note), off(note), on(note)}, out.Messages())

	// The first note off was cancelled; the retriggered note keeps its full length.
	clock.Advance(note.Length / 2)
	assert.Never(t, func() bool { return len(out.Messages()) > 3 }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(note.Length / 2)
	assert.Eventually(t, func() bool { return len(out.Messages()) == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, off(note), out.Messages()[3])
}

func TestStaleNoteOffLeavesRetriggeredNote(t *testing.T) {
	clock := clockwork.NewFakeClock()
	out := &recordingOut{}
	note := testNote()
	clicker := newClicker(out.send, note, clock)

	require.NoError(t, clicker.Click())
	stale := clicker.generation
	require.NoError(t, clicker.Click())

	clicker.release(stale)
	assert.Equal(t, []midi.Message{on(note), off(note), on(note)}, out.Messages())

	clicker.release(clicker.generation)
	assert.Equal(t, []midi.Message{on(note), off(note), on(note), off(note)}, out.Messages())
}

func TestCloseSilencesNote(t *testing.T) {
	clock := clockwork.NewFakeClock()
	out := &recordingOut{}
	note := testNote()
	clicker := newClicker(out.send, note, clock)

	require.NoError(t, clicker.Click())
	require.NoError(t, clicker.Close())
	assert.Equal(t, []midi.Message{on(note), off(note)}, out.Messages())

	clock.Advance(note.Length)
	assert.Never(t, func() bool { return len(out.Messages()) > 2 }, 50*time.Millisecond, 5*time.Millisecond)

	assert.Error(t, clicker.Click())
	assert.NoError(t, clicker.Close())
}

func TestClickReportsSendFailure(t *testing.T) {
	out := &recordingOut{err: errors.New("port gone")}
	clicker := newClicker(out.send, testNote(), clockwork.NewFakeClock())

	err := clicker.Click()
	assert.ErrorContains(t, err, "midi note on")
	assert.ErrorContains(t, clicker.Close(), "port gone")
}

func TestFailedNoteOffIsLoggedAndCleared(t *testing.T) {
	out := &recordingOut{}
	clicker := newClicker(out.send, testNote(), clockwork.NewFakeClock())
	require.NoError(t, clicker.Click())

	out.mu.Lock()
	out.err = errors.New("port gone")
	out.mu.Unlock()

	assert.NotPanics(t, func() { clicker.release(clicker.generation) })
	assert.False(t, clicker.sounding)
}
