package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"metronome/internal/core/model"
	"metronome/internal/core/scheduler"
	"metronome/internal/core/tempo"
)

// Clicker produces one audible beat.
type Clicker interface {
	Click() error
}

// BeatSource is the command and notification surface of a tick scheduler.
type BeatSource interface {
	Send(cmd scheduler.Command) error
	Signals() <-chan scheduler.Signal
	Close()
}

// Config contains runtime options for Controller.
type Config struct {
	Clock                clockwork.Clock
	Logger               *slog.Logger
	HousekeepingInterval time.Duration
	// Beats defaults to a Scheduler owned by the Controller.
	Beats   BeatSource
	Clicker Clicker
}

type silentClicker struct{}

func (silentClicker) Click() error { return nil }

// Controller is the metronome session state machine. Beat timing comes from
// its BeatSource; the Controller only reacts to ticks and keeps the 1 Hz
// countdown/elapsed counters.
type Controller struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	logger    *slog.Logger
	interval  time.Duration
	beats     BeatSource
	clicker   Clicker
	state     State
	tempo     tempo.BPM
	minutes   int
	remaining int
	elapsed   int
	beatCount int64
	// Start commands the scheduler has not acknowledged yet. Ticks seen
	// meanwhile were queued by a previous run.
	pendingStarts int
	ticker        clockwork.Ticker
	cancel        context.CancelFunc
	events        []chan Event
	closed        bool
	done          chan struct{}
}

// New creates a Controller and its scheduler.
func New(config model.SessionConfig, options Config) *Controller {
	config = config.Normalized()
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.HousekeepingInterval <= 0 {
		options.HousekeepingInterval = time.Second
	}
	if options.Clicker == nil {
		options.Clicker = silentClicker{}
	}
	if options.Beats == nil {
		options.Beats = scheduler.New(scheduler.Config{
			Clock:  options.Clock,
			Logger: options.Logger,
		})
	}

	controller := &Controller{
		clock:     options.Clock,
		logger:    options.Logger.With("component", "session"),
		interval:  options.HousekeepingInterval,
		beats:     options.Beats,
		clicker:   options.Clicker,
		state:     StateInactive,
		tempo:     config.Tempo,
		minutes:   config.TimerMinutes,
		remaining: config.TimerMinutes * 60,
		done:      make(chan struct{}),
	}
	go controller.consumeSignals()
	return controller
}

// SetClicker replaces the click output.
func (controller *Controller) SetClicker(clicker Clicker) {
	if clicker == nil {
		clicker = silentClicker{}
	}
	controller.mu.Lock()
	controller.clicker = clicker
	controller.mu.Unlock()
}

// Subscribe registers a new observer channel.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// Snapshot returns the current state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

// Start begins a session. The first click sounds on the first tick.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed || controller.state == StateActive {
		return
	}

	if controller.minutes > 0 && controller.remaining == 0 {
		controller.remaining = controller.minutes * 60
	}
	controller.state = StateActive
	controller.startHousekeepingLocked()
	controller.pendingStarts++
	controller.sendLocked(scheduler.Start{BPM: controller.tempo})
	controller.logger.Info("session started", "bpm", int(controller.tempo), "timer_minutes", controller.minutes)

	controller.emitLocked(Event{
		Type:  EventStateChange,
		State: StateActive,
		At:    controller.clock.Now(),
	})
}

// Stop ends the session. Stopping an inactive session does nothing.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.state != StateActive {
		return
	}
	controller.stopLocked("stopped")
}

// Toggle starts an inactive session and stops an active one.
func (controller *Controller) Toggle() {
	if controller.Snapshot().State == StateActive {
		controller.Stop()
		return
	}
	controller.Start()
}

// SetTempo clamps bpm to the user range and forwards it to the scheduler.
// The scheduler ignores the change when it is not running.
func (controller *Controller) SetTempo(bpm tempo.BPM) {
	bpm = tempo.Clamp(bpm)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		return
	}
	controller.tempo = bpm
	controller.sendLocked(scheduler.ChangeTempo{BPM: bpm})

	controller.emitLocked(Event{
		Type:  EventTempoChange,
		State: controller.state,
		At:    controller.clock.Now(),
	})
}

// StepTempo moves the tempo by delta beats per minute.
func (controller *Controller) StepTempo(delta int) {
	controller.SetTempo(controller.Snapshot().Tempo + tempo.BPM(delta))
}

// IncreaseTempo steps the tempo up by tempo.Step.
func (controller *Controller) IncreaseTempo() {
	controller.StepTempo(int(tempo.Step))
}

// DecreaseTempo steps the tempo down by tempo.Step.
func (controller *Controller) DecreaseTempo() {
	controller.StepTempo(-int(tempo.Step))
}

// SetDuration sets the countdown length in minutes and reloads the remaining
// time. Zero switches to count-up mode.
func (controller *Controller) SetDuration(minutes int) {
	minutes = model.ClampTimerMinutes(minutes)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		return
	}
	controller.minutes = minutes
	controller.remaining = minutes * 60

	controller.emitLocked(Event{
		Type:  EventProgress,
		State: controller.state,
		At:    controller.clock.Now(),
	})
}

// Reset stops the session and restores both counters.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		return
	}
	if controller.state == StateActive {
		controller.stopLocked("reset")
	}
	controller.remaining = controller.minutes * 60
	controller.elapsed = 0

	controller.emitLocked(Event{
		Type:  EventProgress,
		State: controller.state,
		At:    controller.clock.Now(),
	})
}

// Close stops the session, terminates the scheduler and closes observers.
func (controller *Controller) Close() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	controller.state = StateInactive
	controller.stopHousekeepingLocked()
	controller.mu.Unlock()

	controller.beats.Close()
	<-controller.done

	controller.mu.Lock()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) consumeSignals() {
	defer close(controller.done)
	for signal := range controller.beats.Signals() {
		switch signal {
		case scheduler.SignalReady:
			controller.logger.Debug("scheduler ready")
		case scheduler.SignalStarted:
			controller.started()
		case scheduler.SignalTick:
			controller.beat()
		case scheduler.SignalFault:
			controller.fault()
		}
	}
}

func (controller *Controller) started() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.pendingStarts > 0 {
		controller.pendingStarts--
	}
}

func (controller *Controller) beat() {
	controller.mu.Lock()
	if controller.state != StateActive {
		controller.mu.Unlock()
		return
	}
	if controller.pendingStarts > 0 {
		controller.mu.Unlock()
		controller.logger.Debug("stale tick dropped")
		return
	}
	controller.beatCount++
	clicker := controller.clicker
	controller.emitLocked(Event{
		Type:  EventBeat,
		State: StateActive,
		At:    controller.clock.Now(),
	})
	controller.mu.Unlock()

	if err := clicker.Click(); err != nil {
		controller.logger.Warn("play click", "err", err)
		controller.emit(Event{
			Type:    EventClickError,
			State:   StateActive,
			Message: err.Error(),
			At:      controller.clock.Now(),
		})
	}
}

func (controller *Controller) fault() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.state != StateActive {
		return
	}
	controller.logger.Error("beat ticker failed, stopping session")
	controller.stopLocked("beat ticker failed")
	controller.emitLocked(Event{
		Type:    EventFault,
		State:   StateInactive,
		Message: "beat ticker failed",
		At:      controller.clock.Now(),
	})
}

func (controller *Controller) startHousekeepingLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := controller.clock.NewTicker(controller.interval)
	controller.ticker = ticker
	controller.cancel = cancel
	go controller.housekeep(ctx, ticker)
}

func (controller *Controller) stopHousekeepingLocked() {
	if controller.ticker != nil {
		controller.ticker.Stop()
		controller.ticker = nil
	}
	if controller.cancel != nil {
		controller.cancel()
		controller.cancel = nil
	}
}

func (controller *Controller) housekeep(ctx context.Context, ticker clockwork.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case tickTime := <-ticker.Chan():
			controller.advance(ctx, tickTime)
		}
	}
}

func (controller *Controller) advance(ctx context.Context, now time.Time) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if ctx.Err() != nil || controller.state != StateActive {
		return
	}

	if controller.minutes > 0 {
		if controller.remaining > 0 {
			controller.remaining--
		}
		if controller.remaining == 0 {
			controller.logger.Info("timer expired")
			controller.emitLocked(Event{
				Type:  EventExpired,
				State: StateActive,
				At:    now,
			})
			controller.stopLocked("timer expired")
			return
		}
	} else {
		controller.elapsed++
	}

	controller.emitLocked(Event{
		Type:  EventProgress,
		State: StateActive,
		At:    now,
	})
}

func (controller *Controller) stopLocked(reason string) {
	controller.state = StateInactive
	controller.stopHousekeepingLocked()
	controller.sendLocked(scheduler.Stop{})
	controller.logger.Info("session stopped", "reason", reason, "beats", controller.beatCount)

	controller.emitLocked(Event{
		Type:    EventStateChange,
		State:   StateInactive,
		Message: reason,
		At:      controller.clock.Now(),
	})
}

func (controller *Controller) sendLocked(cmd scheduler.Command) {
	if err := controller.beats.Send(cmd); err != nil {
		if _, ok := cmd.(scheduler.Start); ok && controller.pendingStarts > 0 {
			controller.pendingStarts--
		}
		controller.logger.Warn("send scheduler command", "err", err)
	}
}

func (controller *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        controller.state,
		Tempo:        controller.tempo,
		TimerMinutes: controller.minutes,
		Remaining:    controller.remaining,
		Elapsed:      controller.elapsed,
		Beats:        controller.beatCount,
	}
}

func (controller *Controller) emit(event Event) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.emitLocked(event)
}

func (controller *Controller) emitLocked(event Event) {
	event.Snapshot = controller.snapshotLocked()
	events := append([]chan Event(nil), controller.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
