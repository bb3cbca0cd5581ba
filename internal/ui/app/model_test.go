package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	historydto "pomo/internal/modules/history/dto"
	timerdto "pomo/internal/modules/timer/dto"
	"pomo/internal/ui/components"
)

type fakeTimer struct {
	events  chan timerdto.Event
	snap    timerdto.Snapshot
	started int
	toggled int
	task    string
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{
		events: make(chan timerdto.Event, 8),
		snap:   timerdto.Snapshot{Status: "idle", SessionType: "work", RemainingSeconds: 1500, Progress: 1},
	}
}

func (f *fakeTimer) Subscribe(int) <-chan timerdto.Event { return f.events }
func (f *fakeTimer) Start(context.Context) error { f.started++; return nil }
func (f *fakeTimer) Toggle(context.Context) error { f.toggled++; return nil }
func (f *fakeTimer) Reset(context.Context) error { return nil }
func (f *fakeTimer) SetTask(name string) { f.task = name; f.snap.TaskName = name }
func (f *fakeTimer) Reload(context.Context) error { return nil }
func (f *fakeTimer) Snapshot() timerdto.Snapshot { return f.snap }

type fakeHistory struct {
	setKey, setValue string
	setErr           error
}

func (f *fakeHistory) DailyStats(context.Context, int) ([]historydto.DailyStatOutput, error) {
	return nil, nil
}
func (f *fakeHistory) Profile(context.Context, int) (historydto.ProfileOutput, error) {
	return historydto.ProfileOutput{}, nil
}
func (f *fakeHistory) Sessions(context.Context, int, int) ([]historydto.SessionOutput, error) {
	return nil, nil
}
func (f *fakeHistory) TypeBreakdown(context.Context, int) ([]historydto.TypeCountOutput, error) {
	return nil, nil
}
func (f *fakeHistory) Settings(context.Context) (historydto.SettingsOutput, error) {
	return historydto.SettingsOutput{WorkDuration: 25}, nil
}
func (f *fakeHistory) RenderReport(_ context.Context, days int) (historydto.ReportOutput, error) {
	return historydto.ReportOutput{Days: days, Markdown: "# Focus report"}, nil
}
func (f *fakeHistory) SetSetting(_ context.Context, key, value string) (historydto.SettingsOutput, error) {
	f.setKey, f.setValue = key, value
	return historydto.SettingsOutput{WorkDuration: 50}, f.setErr
}

func newTestModel() (Model, *fakeTimer, *fakeHistory) {
	timer := newFakeTimer()
	history := &fakeHistory{}
	return NewModel(timer, history, 7), timer, history
}

func TestSpaceStartsWhenIdleAndTogglesOtherwise(t *testing.T) {
	t.Parallel()
	m, timer, _ := newTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if _, ok := cmd().(actionDoneMsg); !ok || timer.started != 1 {
		t.Fatalf("expected start, got started=%d", timer.started)
	}
	timer.snap.Status = "running"
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	cmd()
	if timer.toggled != 1 {
		t.Fatalf("expected toggle, got %d", timer.toggled)
	}
}

func TestPaletteTaskAndDays(t *testing.T) {
	t.Parallel()
	m, timer, _ := newTestModel()

	next, _ := m.Update(components.PaletteSubmitMsg{Input: "task  write  tests"})
	m = next.(Model)
	if timer.task != "write  tests" {
		t.Fatalf("unexpected task %q", timer.task)
	}

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "days 3"})
	m = next.(Model)
	if m.activeTab != tabStats || m.statsView.Days() != 3 || cmd == nil {
		t.Fatalf("expected stats tab for 3 days, got tab %d days %d", m.activeTab, m.statsView.Days())
	}

	next, _ = m.Update(components.PaletteSubmitMsg{Input: "days soon"})
	m = next.(Model)
	if !strings.Contains(m.status, "non-negative") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPaletteSetSavesAndReloads(t *testing.T) {
	t.Parallel()
	m, _, history := newTestModel()

	_, cmd := m.Update(components.PaletteSubmitMsg{Input: "set username Ada Lovelace"})
	msg := cmd()
	if history.setKey != "username" || history.setValue != "Ada Lovelace" {
		t.Fatalf("unexpected set call %q=%q", history.setKey, history.setValue)
	}
	next, reload := m.Update(msg)
	m = next.(Model)
	if m.status != "saved username" || reload == nil {
		t.Fatalf("expected saved status and reload, got %q", m.status)
	}

	history.setErr = errors.New("invalid settings field")
	_, cmd = m.Update(components.PaletteSubmitMsg{Input: "set colour red"})
	next, _ = m.Update(cmd())
	if got := next.(Model).status; !strings.Contains(got, "invalid settings field") {
		t.Fatalf("expected error status, got %q", got)
	}
}

func TestTimerEventsUpdateStatus(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()

	next, cmd := m.Update(timerEventMsg{ok: true, event: timerdto.Event{
		Kind:    timerdto.SessionCompleted,
		Session: timerdto.SessionOutput{SessionType: "short_break", DurationMin: 5, Completed: true},
	}})
	m = next.(Model)
	if m.status != "finished short break (5m)" || cmd == nil {
		t.Fatalf("unexpected status %q", m.status)
	}

	next, _ = m.Update(timerEventMsg{ok: true, event: timerdto.Event{Kind: timerdto.Failed, Err: errors.New("disk full")}})
	if got := next.(Model).status; got != "error: disk full" {
		t.Fatalf("unexpected status %q", got)
	}

	next, _ = m.Update(timerEventMsg{ok: false})
	if got := next.(Model).status; got != "timer stopped" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestCompletedSessionRingsBellOnProgramOutput(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		sound     bool
		completed bool
		want      string
	}{
		{name: "completed with sound", sound: true, completed: true, want: "\a"},
		{name: "sound disabled", sound: false, completed: true},
		{name: "abandoned", sound: true, completed: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, timer, _ := newTestModel()
			timer.snap.SoundEnabled = tc.sound
			var out bytes.Buffer
			m = m.WithBell(&out)

			cmds := m.handleEvent(timerdto.Event{
				Kind:    timerdto.SessionCompleted,
				Session: timerdto.SessionOutput{SessionType: "work", DurationMin: 25, Completed: tc.completed},
			})
			for _, cmd := range cmds {
				if cmd != nil {
					cmd()
				}
			}
			if out.String() != tc.want {
				t.Fatalf("bell output %q, want %q", out.String(), tc.want)
			}
		})
	}
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	next, _ := m.Update(components.PaletteSubmitMsg{Input: "launch rockets"})
	if got := next.(Model).status; got != "unknown command: launch" {
		t.Fatalf("unexpected status %q", got)
	}
}
