package animation

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu      sync.Mutex
	updates []bool
}

func (r *recorder) update(lit bool) {
	r.mu.Lock()
	r.updates = append(r.updates, lit)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.updates...)
}

func TestFlashTurnsOffAfterHold(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var r recorder
	flash := New(Config{Hold: 100 * time.Millisecond, Clock: clock}, r.update)

	flash.Trigger()
	assert.Equal(t, []bool{true}, r.snapshot())

	clock.BlockUntil(1)
	clock.Advance(99 * time.Millisecond)
	assert.Never(t, func() bool { return len(r.snapshot()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool {
		updates := r.snapshot()
		return len(updates) == 2 && !updates[1]
	}, time.Second, 5*time.Millisecond)
}

func TestFlashStopTurnsOffImmediately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var r recorder
	flash := New(Config{Hold: time.Second, Clock: clock}, r.update)

	flash.Trigger()
	flash.Stop()
	assert.Equal(t, []bool{true, false}, r.snapshot())

	clock.Advance(2 * time.Second)
	assert.Never(t, func() bool { return len(r.snapshot()) > 2 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDefaultHold(t *testing.T) {
	flash := New(Config{}, func(bool) {})
	assert.Equal(t, DefaultConfig().Hold, flash.hold)
}
