package usecase_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	historyout "pomo/internal/modules/history/adapter/out"
	"pomo/internal/modules/history/dto"
	historyin "pomo/internal/modules/history/port/in"
	"pomo/internal/modules/history/service"
	historyusecase "pomo/internal/modules/history/usecase"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
)

func newUsecase(t *testing.T, now func() time.Time) historyin.Usecase {
	t.Helper()
	store, err := historyout.NewSQLiteStore(filepath.Join(t.TempDir(), "pomo.db"), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	uc := historyusecase.NewInteractor(
		service.NewHistoryService(clock.Func(now), store, nil),
		historyout.NewYAMLSettingsFile(),
		historyout.NewMarkdownReportWriter(),
	)
	if err := uc.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return uc
}

func TestRecordThenSessions(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	ctx := context.Background()

	if _, err := uc.Record(ctx, dto.RecordInput{SessionType: "work", DurationMin: 25, Completed: true, TaskName: "Write report"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	sessions, err := uc.Sessions(ctx, dto.SessionsQuery{SinceDays: 30})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	got := sessions[0]
	if !got.Completed || got.DurationMin != 25 || got.TaskName != "Write report" || got.SessionType != "work" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestRecordValidatesInput(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	ctx := context.Background()

	if _, err := uc.Record(ctx, dto.RecordInput{SessionType: "siesta", DurationMin: 25}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for type, got %v", err)
	}
	if _, err := uc.Record(ctx, dto.RecordInput{SessionType: "work", DurationMin: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for duration, got %v", err)
	}
	if _, err := uc.DailyStats(ctx, -1); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for window, got %v", err)
	}
}

func TestDailyStatsEmpty(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	stats, err := uc.DailyStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("daily stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected no stats, got %+v", stats)
	}
}

func TestSessionsWindowFollowsClock(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	uc := newUsecase(t, func() time.Time { return now })
	ctx := context.Background()

	if _, err := uc.Record(ctx, dto.RecordInput{SessionType: "work", DurationMin: 25, Completed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	now = now.Add(10 * 24 * time.Hour)

	recent, err := uc.Sessions(ctx, dto.SessionsQuery{SinceDays: 7})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected session outside a 7 day window, got %d", len(recent))
	}
	wider, err := uc.Sessions(ctx, dto.SessionsQuery{SinceDays: 30})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(wider) != 1 {
		t.Fatalf("expected session inside a 30 day window, got %d", len(wider))
	}
}

func TestHugeDayWindowsStillCoverHistory(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	uc := newUsecase(t, func() time.Time { return now })
	ctx := context.Background()

	if _, err := uc.Record(ctx, dto.RecordInput{SessionType: "work", DurationMin: 25, Completed: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	for _, days := range []int{30, 100000, 200000, math.MaxInt} {
		sessions, err := uc.Sessions(ctx, dto.SessionsQuery{SinceDays: days})
		if err != nil {
			t.Fatalf("sessions over %d days: %v", days, err)
		}
		if len(sessions) != 1 {
			t.Fatalf("expected one session over %d days, got %d", days, len(sessions))
		}
		stats, err := uc.DailyStats(ctx, days)
		if err != nil {
			t.Fatalf("daily stats over %d days: %v", days, err)
		}
		if len(stats) != 1 || stats[0].WorkMinutes != 25 {
			t.Fatalf("unexpected stats over %d days: %+v", days, stats)
		}
		profile, err := uc.Profile(ctx, days)
		if err != nil {
			t.Fatalf("profile over %d days: %v", days, err)
		}
		if profile.TotalSessions != 1 {
			t.Fatalf("expected one session in profile over %d days, got %d", days, profile.TotalSessions)
		}
	}
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	ctx := context.Background()

	before, err := uc.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	after, err := uc.UpdateSettings(ctx, dto.UpdateSettingsInput{Values: map[string]string{"long_break": "20"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err := uc.Settings(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded != after || loaded.LongBreakDuration != 20 {
		t.Fatalf("expected stored settings %+v, got %+v", after, loaded)
	}
	before.LongBreakDuration = 20
	if loaded != before {
		t.Fatalf("other fields changed: %+v vs %+v", before, loaded)
	}
}

func TestUpdateSettingsRejectsBeforeWriting(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	ctx := context.Background()

	cases := []struct {
		values map[string]string
		want   error
	}{
		{map[string]string{"work_duration": "30", "volume": "11"}, apperrors.ErrInvalidField},
		{map[string]string{"work_duration": "30", "long_break_interval": "1"}, apperrors.ErrInvalidInput},
		{map[string]string{}, apperrors.ErrInvalidInput},
	}
	for _, tc := range cases {
		if _, err := uc.UpdateSettings(ctx, dto.UpdateSettingsInput{Values: tc.values}); !errors.Is(err, tc.want) {
			t.Fatalf("values %v: expected %v, got %v", tc.values, tc.want, err)
		}
	}
	settings, err := uc.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.WorkDuration != 25 {
		t.Fatalf("expected untouched work duration, got %d", settings.WorkDuration)
	}
}

func TestExportImportSettings(t *testing.T) {
	t.Parallel()
	source := newUsecase(t, time.Now)
	target := newUsecase(t, time.Now)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")

	if _, err := source.UpdateSettings(ctx, dto.UpdateSettingsInput{Values: map[string]string{"username": "Lin", "auto_start_breaks": "true"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := source.ExportSettings(ctx, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	imported, err := target.ImportSettings(ctx, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.Username != "Lin" || !imported.AutoStartBreaks {
		t.Fatalf("unexpected imported settings: %+v", imported)
	}
	if err := source.ExportSettings(ctx, " "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank path, got %v", err)
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "report.md")

	for _, in := range []dto.RecordInput{
		{SessionType: "work", DurationMin: 25, Completed: true},
		{SessionType: "short_break", DurationMin: 5, Completed: true},
	} {
		if _, err := uc.Record(ctx, in); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	out, err := uc.WriteReport(ctx, dto.ReportInput{Days: 7, Path: path})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if out.Sessions != 2 || out.Path != path {
		t.Fatalf("unexpected report output: %+v", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), "username: User") {
		t.Fatalf("expected username in frontmatter:\n%s", raw)
	}
}

func TestRenderReportLeavesNoFile(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.Now)
	out, err := uc.RenderReport(context.Background(), 7)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Path != "" || out.Sessions != 0 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if !strings.Contains(out.Markdown, "# Focus report: last 7 days") {
		t.Fatalf("missing heading:\n%s", out.Markdown)
	}
}
