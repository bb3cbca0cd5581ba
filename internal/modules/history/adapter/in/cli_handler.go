package in

import (
	"context"

	historydto "pomo/internal/modules/history/dto"
	historyin "pomo/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Initialize(ctx context.Context) error {
	return h.usecase.Initialize(ctx)
}

func (h CLIHandler) Log(ctx context.Context, sessionType string, durationMin int, completed bool, taskName, notes string) (historydto.SessionOutput, error) {
	return h.usecase.Record(ctx, historydto.RecordInput{
		SessionType: sessionType,
		DurationMin: durationMin,
		Completed:   completed,
		TaskName:    taskName,
		Notes:       notes,
	})
}

func (h CLIHandler) Sessions(ctx context.Context, sinceDays, limit int) ([]historydto.SessionOutput, error) {
	return h.usecase.Sessions(ctx, historydto.SessionsQuery{SinceDays: sinceDays, Limit: limit})
}

func (h CLIHandler) DailyStats(ctx context.Context, sinceDays int) ([]historydto.DailyStatOutput, error) {
	return h.usecase.DailyStats(ctx, sinceDays)
}

func (h CLIHandler) Profile(ctx context.Context, sinceDays int) (historydto.ProfileOutput, error) {
	return h.usecase.Profile(ctx, sinceDays)
}

func (h CLIHandler) TypeBreakdown(ctx context.Context, sinceDays int) ([]historydto.TypeCountOutput, error) {
	return h.usecase.TypeBreakdown(ctx, sinceDays)
}

func (h CLIHandler) Settings(ctx context.Context) (historydto.SettingsOutput, error) {
	return h.usecase.Settings(ctx)
}

func (h CLIHandler) SetSetting(ctx context.Context, key, value string) (historydto.SettingsOutput, error) {
	return h.usecase.UpdateSettings(ctx, historydto.UpdateSettingsInput{Values: map[string]string{key: value}})
}

func (h CLIHandler) ExportSettings(ctx context.Context, path string) error {
	return h.usecase.ExportSettings(ctx, path)
}

func (h CLIHandler) ImportSettings(ctx context.Context, path string) (historydto.SettingsOutput, error) {
	return h.usecase.ImportSettings(ctx, path)
}

func (h CLIHandler) Report(ctx context.Context, days int, path string) (historydto.ReportOutput, error) {
	return h.usecase.WriteReport(ctx, historydto.ReportInput{Days: days, Path: path})
}

func (h CLIHandler) RenderReport(ctx context.Context, days int) (historydto.ReportOutput, error) {
	return h.usecase.RenderReport(ctx, days)
}
