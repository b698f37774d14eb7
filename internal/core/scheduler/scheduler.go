package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"metronome/internal/core/tempo"
)

// ErrClosed is returned when sending to a closed Scheduler.
var ErrClosed = errors.New("scheduler closed")

// Config contains runtime options for the Scheduler.
type Config struct {
	Clock         clockwork.Clock
	CommandBuffer int
	SignalBuffer  int
	Logger        *slog.Logger
}

// Scheduler emits beat ticks from its own goroutine. Commands are processed
// one at a time in send order; at most one ticker is armed at any time.
type Scheduler struct {
	clock    clockwork.Clock
	logger   *slog.Logger
	commands chan Command
	signals  chan Signal
	stopCh   chan struct{}
	done     chan struct{}

	// owned by the run goroutine
	ticker clockwork.Ticker

	mu       sync.Mutex
	closed   bool
	interval time.Duration
	dropped  atomic.Int64
}

// New creates a Scheduler and starts its goroutine.
func New(config Config) *Scheduler {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.CommandBuffer <= 0 {
		config.CommandBuffer = 8
	}
	if config.SignalBuffer <= 0 {
		config.SignalBuffer = 16
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	scheduler := &Scheduler{
		clock:    config.Clock,
		logger:   config.Logger.With("component", "scheduler"),
		commands: make(chan Command, config.CommandBuffer),
		signals:  make(chan Signal, config.SignalBuffer),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go scheduler.run()
	return scheduler
}

// Signals returns the notification stream. It is closed after Close.
func (scheduler *Scheduler) Signals() <-chan Signal {
	return scheduler.signals
}

// Send queues a command for the scheduler goroutine.
func (scheduler *Scheduler) Send(cmd Command) error {
	scheduler.mu.Lock()
	closed := scheduler.closed
	scheduler.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case scheduler.commands <- cmd:
		return nil
	case <-scheduler.stopCh:
		return ErrClosed
	}
}

// Start arms the ticker at bpm, replacing any armed ticker.
func (scheduler *Scheduler) Start(bpm tempo.BPM) error {
	return scheduler.Send(Start{BPM: bpm})
}

// Stop disarms the ticker. Stopping a stopped scheduler does nothing.
func (scheduler *Scheduler) Stop() error {
	return scheduler.Send(Stop{})
}

// ChangeTempo re-arms a running ticker at bpm.
func (scheduler *Scheduler) ChangeTempo(bpm tempo.BPM) error {
	return scheduler.Send(ChangeTempo{BPM: bpm})
}

// Interval reports the armed beat interval.
func (scheduler *Scheduler) Interval() (time.Duration, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.interval, scheduler.interval > 0
}

// Dropped returns the number of ticks discarded because the consumer lagged.
func (scheduler *Scheduler) Dropped() int64 {
	return scheduler.dropped.Load()
}

// Close terminates the scheduler goroutine and waits for it to exit.
func (scheduler *Scheduler) Close() {
	scheduler.mu.Lock()
	if !scheduler.closed {
		scheduler.closed = true
		close(scheduler.stopCh)
	}
	scheduler.mu.Unlock()
	<-scheduler.done
}

func (scheduler *Scheduler) run() {
	defer close(scheduler.done)
	defer close(scheduler.signals)
	defer scheduler.disarm()

	scheduler.send(SignalReady)

	for {
		var tickCh <-chan time.Time
		if scheduler.ticker != nil {
			tickCh = scheduler.ticker.Chan()
		}

		select {
		case <-scheduler.stopCh:
			return
		case cmd := <-scheduler.commands:
			scheduler.handle(cmd)
		case <-tickCh:
			scheduler.emitTick()
		}
	}
}

func (scheduler *Scheduler) handle(cmd Command) {
	switch cmd := cmd.(type) {
	case Start:
		// Ticks queued before this marker belong to an earlier run.
		scheduler.send(SignalStarted)
		scheduler.arm(cmd.BPM)
	case ChangeTempo:
		if scheduler.ticker == nil {
			scheduler.logger.Debug("tempo change ignored while stopped", "bpm", int(cmd.BPM))
			return
		}
		scheduler.arm(cmd.BPM)
	case Stop:
		scheduler.disarm()
	default:
		scheduler.logger.Warn("unknown command", "command", fmt.Sprintf("%T", cmd))
	}
}

func (scheduler *Scheduler) arm(bpm tempo.BPM) {
	if err := scheduler.rearm(bpm); err != nil {
		scheduler.logger.Error("arm beat ticker", "bpm", int(bpm), "err", err)
		scheduler.send(SignalFault)
	}
}

func (scheduler *Scheduler) rearm(bpm tempo.BPM) (err error) {
	scheduler.disarm()

	clamped := tempo.ClampAbsolute(bpm)
	interval := tempo.Interval(clamped)
	defer func() {
		if recovered := recover(); recovered != nil {
			scheduler.ticker = nil
			scheduler.setInterval(0)
			err = fmt.Errorf("new ticker %s: %v", interval, recovered)
		}
	}()

	scheduler.ticker = scheduler.clock.NewTicker(interval)
	scheduler.setInterval(interval)
	scheduler.logger.Debug("beat ticker armed", "bpm", int(clamped), "interval", interval)
	return nil
}

func (scheduler *Scheduler) disarm() {
	if scheduler.ticker == nil {
		return
	}
	scheduler.ticker.Stop()
	scheduler.ticker = nil
	scheduler.setInterval(0)
	scheduler.logger.Debug("beat ticker stopped")
}

func (scheduler *Scheduler) setInterval(interval time.Duration) {
	scheduler.mu.Lock()
	scheduler.interval = interval
	scheduler.mu.Unlock()
}

func (scheduler *Scheduler) emitTick() {
	select {
	case scheduler.signals <- SignalTick:
	default:
		scheduler.dropped.Add(1)
	}
}

func (scheduler *Scheduler) send(signal Signal) {
	select {
	case scheduler.signals <- signal:
	case <-scheduler.stopCh:
	}
}
