package out

import (
	"context"

	"pomo/internal/modules/timer/domain"
)

type SettingsSource interface {
	LoadPlan(ctx context.Context) (domain.Plan, error)
}

type SessionRecorder interface {
	RecordSession(ctx context.Context, session domain.SessionLog) (domain.SessionLog, error)
}
