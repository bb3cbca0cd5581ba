package in

import (
	"context"

	"pomo/internal/modules/history/dto"
)

type Usecase interface {
	Initialize(ctx context.Context) error
	Record(ctx context.Context, input dto.RecordInput) (dto.SessionOutput, error)
	Sessions(ctx context.Context, query dto.SessionsQuery) ([]dto.SessionOutput, error)
	DailyStats(ctx context.Context, sinceDays int) ([]dto.DailyStatOutput, error)
	Profile(ctx context.Context, sinceDays int) (dto.ProfileOutput, error)
	TypeBreakdown(ctx context.Context, sinceDays int) ([]dto.TypeCountOutput, error)
	Settings(ctx context.Context) (dto.SettingsOutput, error)
	UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error)
	ExportSettings(ctx context.Context, path string) error
	ImportSettings(ctx context.Context, path string) (dto.SettingsOutput, error)
	RenderReport(ctx context.Context, days int) (dto.ReportOutput, error)
	WriteReport(ctx context.Context, input dto.ReportInput) (dto.ReportOutput, error)
}
