package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomo/internal/modules/timer/domain"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/logging"
)

type EngineOptions struct {
	// TickInterval is one countdown unit; zero means one second.
	TickInterval time.Duration
	EventBuffer  int
}

// Engine runs at most one countdown at a time on its own goroutine and
// reports progress on a single channel that lives as long as the engine.
type Engine struct {
	options EngineOptions
	logger  hclog.Logger
	events  chan domain.EngineEvent

	mu        sync.Mutex
	state     domain.EngineState
	remaining int
	run       uint64
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewEngine(options EngineOptions, logger hclog.Logger) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.EventBuffer <= 0 {
		options.EventBuffer = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		options: options,
		logger:  logger.Named("engine"),
		events:  make(chan domain.EngineEvent, options.EventBuffer),
	}
}

func (e *Engine) Events() <-chan domain.EngineEvent {
	return e.events
}

// Start begins a countdown of seconds units from Idle or Finished.
func (e *Engine) Start(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: countdown needs a positive duration, got %d", apperrors.ErrInvalidInput, seconds)
	}
	e.mu.Lock()
	switch e.state {
	case domain.Running:
		e.mu.Unlock()
		return apperrors.ErrAlreadyRunning
	case domain.Paused:
		e.mu.Unlock()
		return fmt.Errorf("%w: countdown is paused", apperrors.ErrInvalidStateTransition)
	}
	prevCancel, prevDone := e.cancel, e.done

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.run++
	run := e.run
	e.state = domain.Running
	e.remaining = seconds
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	// A finished loop may still be handing off its last event.
	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}
	e.logger.Debug("countdown started", "run", run, "seconds", seconds)
	go e.loop(ctx, run, done)
	return nil
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.Running {
		return fmt.Errorf("%w: cannot pause while %s", apperrors.ErrInvalidStateTransition, e.state)
	}
	e.state = domain.Paused
	e.logger.Debug("countdown paused", "run", e.run, "remaining", e.remaining)
	return nil
}

func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != domain.Paused {
		return fmt.Errorf("%w: cannot resume while %s", apperrors.ErrInvalidStateTransition, e.state)
	}
	e.state = domain.Running
	e.logger.Debug("countdown resumed", "run", e.run, "remaining", e.remaining)
	return nil
}

// Stop cancels any countdown and returns to Idle. It waits for the loop to
// exit, which takes at most one pending send.
func (e *Engine) Stop() error {
	e.Halt()
	return nil
}

// Halt stops like Stop and reports the state and remaining units it
// interrupted, read under the same lock that ends the countdown.
func (e *Engine) Halt() (domain.EngineState, int) {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	prev, remaining := e.state, e.remaining
	e.cancel = nil
	e.done = nil
	e.run++
	e.state = domain.Idle
	e.remaining = 0
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		e.logger.Debug("countdown stopped", "state", prev, "remaining", remaining)
	}
	return prev, remaining
}

func (e *Engine) State() domain.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Generation identifies the current countdown. Events whose Run differs
// were produced before the latest Start or Stop.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run
}

func (e *Engine) loop(ctx context.Context, run uint64, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		remaining, finished, ok := e.tick(run)
		if !ok {
			continue
		}
		if !e.emit(ctx, domain.EngineEvent{Kind: domain.TimeUpdated, Remaining: remaining, Run: run}) {
			return
		}
		if finished {
			e.emit(ctx, domain.EngineEvent{Kind: domain.CountdownFinished, Run: run})
			e.logger.Debug("countdown finished", "run", run)
			return
		}
	}
}

// tick consumes one unit when the countdown for run is Running. Paused
// ticks are skipped without changing anything.
func (e *Engine) tick(run uint64) (remaining int, finished, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run != run || e.state != domain.Running {
		return 0, false, false
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.state = domain.Finished
		return 0, true, true
	}
	return e.remaining, false, true
}

func (e *Engine) emit(ctx context.Context, event domain.EngineEvent) bool {
	select {
	case e.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
