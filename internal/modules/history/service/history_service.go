package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomo/internal/modules/history/domain"
	historyout "pomo/internal/modules/history/port/out"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/logging"
)

type HistoryService struct {
	clock  clock.Clock
	store  historyout.Store
	logger hclog.Logger
}

func NewHistoryService(clock clock.Clock, store historyout.Store, logger hclog.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HistoryService{clock: clock, store: store, logger: logger.Named("history")}
}

func (s *HistoryService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		s.logger.Error("initialize store", "error", err)
		return err
	}
	return nil
}

// Record appends one session stamped with the current time.
func (s *HistoryService) Record(ctx context.Context, sessionType domain.SessionType, durationMin int, completed bool, taskName, notes string) (domain.SessionRecord, error) {
	if !sessionType.Valid() {
		return domain.SessionRecord{}, fmt.Errorf("%w: unknown session type %q", apperrors.ErrInvalidInput, sessionType)
	}
	if durationMin < 1 {
		return domain.SessionRecord{}, fmt.Errorf("%w: duration must be at least 1 minute", apperrors.ErrInvalidInput)
	}
	record, err := s.store.AddSession(ctx, domain.SessionRecord{
		Timestamp:   s.clock.Now(),
		Type:        sessionType,
		DurationMin: durationMin,
		Completed:   completed,
		TaskName:    strings.TrimSpace(taskName),
		Notes:       notes,
	})
	if err != nil {
		s.logger.Error("record session", "type", sessionType, "error", err)
		return domain.SessionRecord{}, err
	}
	return record, nil
}

func (s *HistoryService) Sessions(ctx context.Context, sinceDays, limit int) ([]domain.SessionRecord, error) {
	since, err := s.windowStart(sinceDays)
	if err != nil {
		return nil, err
	}
	return s.store.ListSessions(ctx, since, limit)
}

func (s *HistoryService) DailyStats(ctx context.Context, sinceDays int) ([]domain.DailyStat, error) {
	since, err := s.windowStart(sinceDays)
	if err != nil {
		return nil, err
	}
	return s.store.DailyStats(ctx, since)
}

func (s *HistoryService) Profile(ctx context.Context, sinceDays int) (domain.Profile, error) {
	since, err := s.windowStart(sinceDays)
	if err != nil {
		return domain.Profile{}, err
	}
	return s.store.Profile(ctx, since)
}

func (s *HistoryService) TypeBreakdown(ctx context.Context, sinceDays int) ([]domain.TypeCount, error) {
	since, err := s.windowStart(sinceDays)
	if err != nil {
		return nil, err
	}
	return s.store.TypeBreakdown(ctx, since)
}

func (s *HistoryService) Settings(ctx context.Context) (domain.Settings, error) {
	return s.store.LoadSettings(ctx)
}

// UpdateSettings validates the merged result before writing, so a rejected
// patch leaves the stored row untouched.
func (s *HistoryService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	current, err := s.store.LoadSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if patch.Empty() {
		return current, nil
	}
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}
	if err := s.store.UpdateSettings(ctx, patch); err != nil {
		s.logger.Error("update settings", "error", err)
		return domain.Settings{}, err
	}
	return next, nil
}

func (s *HistoryService) Now() time.Time {
	return s.clock.Now()
}

// maxWindowDays caps day windows at a century, which already reaches past
// any stored session.
const maxWindowDays = 36525

// windowStart returns now minus sinceDays calendar days. Larger windows are
// clamped to maxWindowDays.
func (s *HistoryService) windowStart(sinceDays int) (time.Time, error) {
	if sinceDays < 0 {
		return time.Time{}, fmt.Errorf("%w: day window must not be negative, got %d", apperrors.ErrInvalidInput, sinceDays)
	}
	if sinceDays > maxWindowDays {
		sinceDays = maxWindowDays
	}
	return s.clock.Now().AddDate(0, 0, -sinceDays), nil
}
