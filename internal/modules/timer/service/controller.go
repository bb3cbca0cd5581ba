package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"pomo/internal/modules/timer/domain"
	"pomo/internal/modules/timer/dto"
	timerout "pomo/internal/modules/timer/port/out"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/logging"
)

type ControllerOptions struct {
	// RecordAbandoned stores reset sessions with completed=false.
	RecordAbandoned bool
}

// Controller owns the work/break cycle. It drives one Engine, turns engine
// events into display events and records every naturally finished session.
type Controller struct {
	engine   *Engine
	settings timerout.SettingsSource
	recorder timerout.SessionRecorder
	options  ControllerOptions
	logger   hclog.Logger

	mu          sync.Mutex
	plan        domain.Plan
	loaded      bool
	cycle       domain.Cycle
	task        string
	started     bool
	subscribers []chan dto.Event
	closed      bool
}

func NewController(engine *Engine, settings timerout.SettingsSource, recorder timerout.SessionRecorder, options ControllerOptions, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Controller{
		engine:   engine,
		settings: settings,
		recorder: recorder,
		options:  options,
		logger:   logger.Named("controller"),
		cycle:    domain.NewCycle(),
	}
}

// Subscribe registers an observer. Sends never block; a full channel drops
// the event, so size buffer for the slowest reader.
func (c *Controller) Subscribe(buffer int) <-chan dto.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan dto.Event, buffer)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Run pumps engine events until ctx is done, then stops the engine and
// closes every subscriber.
func (c *Controller) Run(ctx context.Context) error {
	defer c.shutdown()
	events := c.engine.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-events:
			c.handle(ctx, event)
		}
	}
}

// LoadSettings refreshes the cached plan. An idle display is redrawn with
// the new duration; a countdown in progress keeps its length.
func (c *Controller) LoadSettings(ctx context.Context) error {
	plan, err := c.settings.LoadPlan(ctx)
	if err != nil {
		c.logger.Error("load settings", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	first := !c.loaded
	c.plan = plan
	c.loaded = true
	if !c.started {
		total := c.plan.Seconds(c.cycle.Current)
		c.emitLocked(dto.Event{Kind: dto.DisplayUpdated, RemainingSeconds: total, Progress: 1})
	}
	if !first {
		c.emitLocked(dto.Event{Kind: dto.SettingsChanged})
	}
	c.logger.Debug("settings loaded", "work", plan.WorkMinutes, "interval", plan.LongBreakInterval)
	return nil
}

func (c *Controller) CurrentDurationMinutes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan.Minutes(c.cycle.Current)
}

// Start begins the current session, or resumes it when paused.
func (c *Controller) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return fmt.Errorf("%w: settings not loaded", apperrors.ErrNotInitialized)
	}
	switch c.engine.State() {
	case domain.Paused:
		if err := c.engine.Resume(); err != nil {
			return err
		}
		c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Running.String()})
		return nil
	case domain.Running:
		return apperrors.ErrAlreadyRunning
	}
	// The engine has finished but its final event is still on the way.
	if c.started {
		return apperrors.ErrAlreadyRunning
	}
	return c.startLocked()
}

// PauseOrResume toggles an active countdown and does nothing when idle.
func (c *Controller) PauseOrResume(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.engine.State() {
	case domain.Running:
		if err := c.engine.Pause(); err != nil {
			return err
		}
		c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Paused.String()})
	case domain.Paused:
		if err := c.engine.Resume(); err != nil {
			return err
		}
		c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Running.String()})
	}
	return nil
}

// Reset abandons the current countdown and leaves the session type as is.
// A countdown that already reached zero counts as finished, even when its
// final event has not been handled yet.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, remaining := c.engine.Halt()
	wasStarted := c.started
	if wasStarted && state == domain.Finished {
		c.logger.Debug("reset after countdown reached zero, completing session")
		c.onFinishedLocked(ctx)
		return nil
	}
	c.started = false

	total := c.plan.Seconds(c.cycle.Current)
	var err error
	if wasStarted && c.options.RecordAbandoned {
		err = c.recordAbandonedLocked(ctx, total-remaining)
	}
	c.emitLocked(dto.Event{Kind: dto.DisplayUpdated, RemainingSeconds: total, Progress: 1})
	c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Idle.String()})
	return err
}

func (c *Controller) SetTask(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.task = strings.TrimSpace(name)
}

func (c *Controller) Snapshot() dto.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.plan.Seconds(c.cycle.Current)
	state := c.engine.State()
	remaining := total
	if c.started {
		remaining = c.engine.Remaining()
	}
	status := state.String()
	if !c.started {
		status = domain.Idle.String()
	}
	return dto.Snapshot{
		SessionType:      string(c.cycle.Current),
		SessionLabel:     c.cycle.Current.Label(),
		Status:           status,
		RemainingSeconds: remaining,
		TotalSeconds:     total,
		Progress:         fraction(remaining, total),
		CompletedWork:    c.cycle.CompletedWork,
		LongBreakEvery:   c.plan.LongBreakInterval,
		TaskName:         c.task,
		Username:         c.plan.Username,
		SoundEnabled:     c.plan.SoundEnabled,
	}
}

func (c *Controller) handle(ctx context.Context, event domain.EngineEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event.Run != c.engine.Generation() {
		c.logger.Trace("dropping stale engine event", "run", event.Run)
		return
	}
	switch event.Kind {
	case domain.TimeUpdated:
		c.onTickLocked(event.Remaining)
	case domain.CountdownFinished:
		c.onFinishedLocked(ctx)
	}
}

func (c *Controller) onTickLocked(remaining int) {
	total := c.plan.Seconds(c.cycle.Current)
	c.emitLocked(dto.Event{Kind: dto.DisplayUpdated, RemainingSeconds: remaining, Progress: fraction(remaining, total)})
}

func (c *Controller) onFinishedLocked(ctx context.Context) {
	c.started = false
	finished := c.cycle.Current
	logged, err := c.recorder.RecordSession(ctx, domain.SessionLog{
		Type:        finished,
		DurationMin: c.plan.Minutes(finished),
		Completed:   true,
		TaskName:    c.task,
	})
	if err != nil {
		// The cycle advances even when the record is lost.
		c.logger.Error("record finished session", "type", finished, "error", err)
		c.emitLocked(dto.Event{Kind: dto.Failed, Err: err})
	} else {
		c.logger.Info("session completed", "type", finished, "minutes", logged.DurationMin, "task", logged.TaskName)
		c.emitLocked(dto.Event{Kind: dto.SessionCompleted, Session: toSessionOutput(logged)})
	}

	next := c.cycle.Advance(c.plan.LongBreakInterval)
	c.emitLocked(dto.Event{Kind: dto.SessionTypeChanged, SessionType: string(next), SessionIndex: c.cycle.CompletedWork})
	c.emitLocked(dto.Event{Kind: dto.DisplayUpdated, RemainingSeconds: c.plan.Seconds(next), Progress: 1})
	c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Idle.String()})

	if c.plan.AutoStart(next) {
		if err := c.startLocked(); err != nil {
			c.logger.Error("auto start", "type", next, "error", err)
			c.emitLocked(dto.Event{Kind: dto.Failed, Err: err})
		}
	}
}

func (c *Controller) startLocked() error {
	seconds := c.plan.Seconds(c.cycle.Current)
	if err := c.engine.Start(seconds); err != nil {
		return err
	}
	c.started = true
	c.logger.Debug("session started", "type", c.cycle.Current, "seconds", seconds)
	c.emitLocked(dto.Event{Kind: dto.StatusChanged, Status: domain.Running.String()})
	return nil
}

func (c *Controller) recordAbandonedLocked(ctx context.Context, elapsedSeconds int) error {
	minutes := (elapsedSeconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	logged, err := c.recorder.RecordSession(ctx, domain.SessionLog{
		Type:        c.cycle.Current,
		DurationMin: minutes,
		Completed:   false,
		TaskName:    c.task,
	})
	if err != nil {
		c.logger.Error("record abandoned session", "error", err)
		c.emitLocked(dto.Event{Kind: dto.Failed, Err: err})
		return err
	}
	c.emitLocked(dto.Event{Kind: dto.SessionCompleted, Session: toSessionOutput(logged)})
	return nil
}

func (c *Controller) emitLocked(event dto.Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (c *Controller) shutdown() {
	_ = c.engine.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	c.closed = true
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}

func fraction(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(remaining) / float64(total)
}

func toSessionOutput(s domain.SessionLog) dto.SessionOutput {
	return dto.SessionOutput{
		ID:          s.ID,
		At:          s.At,
		SessionType: string(s.Type),
		DurationMin: s.DurationMin,
		Completed:   s.Completed,
		TaskName:    s.TaskName,
	}
}
