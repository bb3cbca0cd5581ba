package out

import (
	"context"

	historydto "pomo/internal/modules/history/dto"
	historyin "pomo/internal/modules/history/port/in"
	"pomo/internal/modules/timer/domain"
)

// HistoryBridge serves the controller's settings and session ports from the
// history module.
type HistoryBridge struct {
	history historyin.Usecase
}

func NewHistoryBridge(history historyin.Usecase) *HistoryBridge {
	return &HistoryBridge{history: history}
}

func (b *HistoryBridge) LoadPlan(ctx context.Context) (domain.Plan, error) {
	s, err := b.history.Settings(ctx)
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.Plan{
		WorkMinutes:       s.WorkDuration,
		ShortBreakMinutes: s.ShortBreakDuration,
		LongBreakMinutes:  s.LongBreakDuration,
		LongBreakInterval: s.LongBreakInterval,
		AutoStartBreaks:   s.AutoStartBreaks,
		AutoStartWork:     s.AutoStartWork,
		SoundEnabled:      s.SoundEnabled,
		Username:          s.Username,
	}, nil
}

func (b *HistoryBridge) RecordSession(ctx context.Context, session domain.SessionLog) (domain.SessionLog, error) {
	out, err := b.history.Record(ctx, historydto.RecordInput{
		SessionType: string(session.Type),
		DurationMin: session.DurationMin,
		Completed:   session.Completed,
		TaskName:    session.TaskName,
	})
	if err != nil {
		return domain.SessionLog{}, err
	}
	return domain.SessionLog{
		ID:          out.ID,
		At:          out.Timestamp,
		Type:        domain.SessionType(out.SessionType),
		DurationMin: out.DurationMin,
		Completed:   out.Completed,
		TaskName:    out.TaskName,
	}, nil
}
