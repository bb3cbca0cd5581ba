package stats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	historydto "pomo/internal/modules/history/dto"
)

type fakePort struct {
	daily  []historydto.DailyStatOutput
	recent []historydto.SessionOutput
	err    error
	limit  int
}

func (f *fakePort) DailyStats(context.Context, int) ([]historydto.DailyStatOutput, error) {
	return f.daily, f.err
}

func (f *fakePort) Profile(context.Context, int) (historydto.ProfileOutput, error) {
	return historydto.ProfileOutput{TotalSessions: 2, CompletedSessions: 2, SuccessRate: 100}, nil
}

func (f *fakePort) Sessions(_ context.Context, _ int, limit int) ([]historydto.SessionOutput, error) {
	f.limit = limit
	return f.recent, nil
}

func (f *fakePort) TypeBreakdown(context.Context, int) ([]historydto.TypeCountOutput, error) {
	return []historydto.TypeCountOutput{{SessionType: "work", Count: 2}}, nil
}

func TestReloadLoadsRecentWithLimit(t *testing.T) {
	t.Parallel()
	port := &fakePort{
		daily:  []historydto.DailyStatOutput{{Day: "2026-03-09", TotalSessions: 2, CompletedSessions: 2, WorkMinutes: 50}},
		recent: []historydto.SessionOutput{{Timestamp: time.Now(), SessionType: "work", DurationMin: 25, Completed: true}},
	}
	m := New(port, 7)
	msg, ok := m.Reload()().(LoadedMsg)
	if !ok {
		t.Fatal("expected LoadedMsg")
	}
	if msg.Err != nil || msg.Days != 7 || port.limit != recentLimit {
		t.Fatalf("unexpected load: %+v (limit %d)", msg, port.limit)
	}
	m, _ = m.Update(msg)
	if m.loading {
		t.Fatal("expected loading to finish")
	}
	rows := m.recent.Rows()
	if len(rows) != 1 || rows[0][4] != "no task" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReloadStopsOnError(t *testing.T) {
	t.Parallel()
	m := New(&fakePort{err: errors.New("boom")}, 7)
	m, _ = m.Update(m.Reload()())
	if m.err == nil || !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error view, got %q", m.View())
	}
}

func TestStaleWindowIgnored(t *testing.T) {
	t.Parallel()
	m := New(&fakePort{}, 7)
	m, _ = m.SetDays(30)
	m, _ = m.Update(LoadedMsg{Days: 7})
	if !m.loading {
		t.Fatal("load for an old window should be ignored")
	}
}

func TestRenderChartScalesToPeak(t *testing.T) {
	t.Parallel()
	out := RenderChart([]historydto.DailyStatOutput{
		{Day: "2026-03-08", WorkMinutes: 100},
		{Day: "2026-03-09", WorkMinutes: 50},
	}, 20)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two bars, got %q", out)
	}
	if strings.Count(lines[0], "█") != 20 || strings.Count(lines[1], "█") != 10 {
		t.Fatalf("unexpected bar widths:\n%s", out)
	}
	if !strings.Contains(RenderChart(nil, 20), "No sessions recorded.") {
		t.Fatal("expected empty chart message")
	}
}
