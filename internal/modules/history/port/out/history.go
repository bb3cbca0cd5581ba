package out

import (
	"context"
	"time"

	"pomo/internal/modules/history/domain"
)

// Store persists session history and the settings singleton. Read queries
// take a lower bound; day buckets follow the location of since.
type Store interface {
	Initialize(ctx context.Context) error
	AddSession(ctx context.Context, record domain.SessionRecord) (domain.SessionRecord, error)
	ListSessions(ctx context.Context, since time.Time, limit int) ([]domain.SessionRecord, error)
	DailyStats(ctx context.Context, since time.Time) ([]domain.DailyStat, error)
	Profile(ctx context.Context, since time.Time) (domain.Profile, error)
	TypeBreakdown(ctx context.Context, since time.Time) ([]domain.TypeCount, error)
	LoadSettings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) error
	Close() error
}

type SettingsFile interface {
	Save(ctx context.Context, path string, settings domain.Settings) error
	Load(ctx context.Context, path string) (domain.SettingsPatch, error)
}

type Report struct {
	GeneratedAt time.Time
	Days        int
	Username    string
	Profile     domain.Profile
	Daily       []domain.DailyStat
	Breakdown   []domain.TypeCount
}

type ReportWriter interface {
	Render(report Report) (string, error)
	Write(ctx context.Context, path string, report Report) error
}
