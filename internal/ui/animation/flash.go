package animation

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config contains flash timing values.
type Config struct {
	Hold  time.Duration
	Clock clockwork.Clock
}

// DefaultConfig keeps the indicator lit for a short fraction of the fastest beat.
func DefaultConfig() Config {
	return Config{Hold: 80 * time.Millisecond}
}

// Flash lights a beat indicator and turns it off after a hold time.
// Retriggering restarts the hold.
type Flash struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	hold   time.Duration
	update func(lit bool)
	cancel context.CancelFunc
}

// New creates a flash that reports indicator changes through update.
func New(config Config, update func(lit bool)) *Flash {
	if config.Hold <= 0 {
		config.Hold = DefaultConfig().Hold
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	return &Flash{
		clock:  config.Clock,
		hold:   config.Hold,
		update: update,
	}
}

// Trigger lights the indicator.
func (flash *Flash) Trigger() {
	flash.mu.Lock()
	defer flash.mu.Unlock()
	if flash.cancel != nil {
		flash.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	flash.cancel = cancel
	flash.update(true)

	go flash.release(runCtx)
}

// Stop turns the indicator off and abandons any pending hold.
func (flash *Flash) Stop() {
	flash.mu.Lock()
	defer flash.mu.Unlock()
	if flash.cancel != nil {
		flash.cancel()
		flash.cancel = nil
	}
	flash.update(false)
}

func (flash *Flash) release(ctx context.Context) {
	if !sleepWithContext(ctx, flash.clock, flash.hold) {
		return
	}
	flash.mu.Lock()
	defer flash.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	flash.cancel = nil
	flash.update(false)
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, duration time.Duration) bool {
	timer := clock.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
