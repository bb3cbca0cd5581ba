package usecase

import (
	"context"
	"fmt"
	"strings"

	"pomo/internal/modules/history/domain"
	"pomo/internal/modules/history/dto"
	historyin "pomo/internal/modules/history/port/in"
	historyout "pomo/internal/modules/history/port/out"
	"pomo/internal/modules/history/service"
	apperrors "pomo/internal/platform/errors"
)

type Interactor struct {
	svc     *service.HistoryService
	files   historyout.SettingsFile
	reports historyout.ReportWriter
}

func NewInteractor(svc *service.HistoryService, files historyout.SettingsFile, reports historyout.ReportWriter) historyin.Usecase {
	return &Interactor{svc: svc, files: files, reports: reports}
}

func (i *Interactor) Initialize(ctx context.Context) error {
	return i.svc.Initialize(ctx)
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.SessionOutput, error) {
	sessionType, err := domain.ParseSessionType(input.SessionType)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	record, err := i.svc.Record(ctx, sessionType, input.DurationMin, input.Completed, input.TaskName, input.Notes)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(record), nil
}

func (i *Interactor) Sessions(ctx context.Context, query dto.SessionsQuery) ([]dto.SessionOutput, error) {
	records, err := i.svc.Sessions(ctx, query.SinceDays, query.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toSessionOutput(r))
	}
	return out, nil
}

func (i *Interactor) DailyStats(ctx context.Context, sinceDays int) ([]dto.DailyStatOutput, error) {
	stats, err := i.svc.DailyStats(ctx, sinceDays)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyStatOutput, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.DailyStatOutput{
			Day:               s.Day,
			TotalSessions:     s.TotalSessions,
			CompletedSessions: s.CompletedSessions,
			WorkMinutes:       s.WorkMinutes,
		})
	}
	return out, nil
}

func (i *Interactor) Profile(ctx context.Context, sinceDays int) (dto.ProfileOutput, error) {
	p, err := i.svc.Profile(ctx, sinceDays)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return dto.ProfileOutput{
		TotalSessions:     p.TotalSessions,
		CompletedSessions: p.CompletedSessions,
		WorkMinutes:       p.WorkMinutes,
		SuccessRate:       p.SuccessRate(),
	}, nil
}

func (i *Interactor) TypeBreakdown(ctx context.Context, sinceDays int) ([]dto.TypeCountOutput, error) {
	counts, err := i.svc.TypeBreakdown(ctx, sinceDays)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TypeCountOutput, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.TypeCountOutput{SessionType: string(c.Type), Count: c.Count})
	}
	return out, nil
}

func (i *Interactor) Settings(ctx context.Context) (dto.SettingsOutput, error) {
	s, err := i.svc.Settings(ctx)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toSettingsOutput(s), nil
}

func (i *Interactor) UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error) {
	if len(input.Values) == 0 {
		return dto.SettingsOutput{}, fmt.Errorf("%w: no settings supplied", apperrors.ErrInvalidInput)
	}
	patch, err := domain.ParsePatch(input.Values)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	s, err := i.svc.UpdateSettings(ctx, patch)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toSettingsOutput(s), nil
}

func (i *Interactor) ExportSettings(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: export path is required", apperrors.ErrInvalidInput)
	}
	s, err := i.svc.Settings(ctx)
	if err != nil {
		return err
	}
	return i.files.Save(ctx, path, s)
}

func (i *Interactor) ImportSettings(ctx context.Context, path string) (dto.SettingsOutput, error) {
	if strings.TrimSpace(path) == "" {
		return dto.SettingsOutput{}, fmt.Errorf("%w: import path is required", apperrors.ErrInvalidInput)
	}
	patch, err := i.files.Load(ctx, path)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	s, err := i.svc.UpdateSettings(ctx, patch)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toSettingsOutput(s), nil
}

func (i *Interactor) RenderReport(ctx context.Context, days int) (dto.ReportOutput, error) {
	report, err := i.buildReport(ctx, days)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	rendered, err := i.reports.Render(report)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Sessions: report.Profile.TotalSessions, Days: days, Markdown: rendered}, nil
}

func (i *Interactor) WriteReport(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return dto.ReportOutput{}, fmt.Errorf("%w: report path is required", apperrors.ErrInvalidInput)
	}
	report, err := i.buildReport(ctx, input.Days)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	if err := i.reports.Write(ctx, input.Path, report); err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Path: input.Path, Sessions: report.Profile.TotalSessions, Days: input.Days}, nil
}

func (i *Interactor) buildReport(ctx context.Context, days int) (historyout.Report, error) {
	settings, err := i.svc.Settings(ctx)
	if err != nil {
		return historyout.Report{}, err
	}
	profile, err := i.svc.Profile(ctx, days)
	if err != nil {
		return historyout.Report{}, err
	}
	daily, err := i.svc.DailyStats(ctx, days)
	if err != nil {
		return historyout.Report{}, err
	}
	breakdown, err := i.svc.TypeBreakdown(ctx, days)
	if err != nil {
		return historyout.Report{}, err
	}
	return historyout.Report{
		GeneratedAt: i.svc.Now(),
		Days:        days,
		Username:    settings.Username,
		Profile:     profile,
		Daily:       daily,
		Breakdown:   breakdown,
	}, nil
}

func toSessionOutput(r domain.SessionRecord) dto.SessionOutput {
	return dto.SessionOutput{
		ID:          r.ID,
		Timestamp:   r.Timestamp,
		SessionType: string(r.Type),
		DurationMin: r.DurationMin,
		Completed:   r.Completed,
		TaskName:    r.TaskName,
		Notes:       r.Notes,
	}
}

func toSettingsOutput(s domain.Settings) dto.SettingsOutput {
	return dto.SettingsOutput{
		WorkDuration:       s.WorkDuration,
		ShortBreakDuration: s.ShortBreakDuration,
		LongBreakDuration:  s.LongBreakDuration,
		LongBreakInterval:  s.LongBreakInterval,
		AutoStartBreaks:    s.AutoStartBreaks,
		AutoStartWork:      s.AutoStartWork,
		SoundEnabled:       s.SoundEnabled,
		Username:           s.Username,
	}
}
