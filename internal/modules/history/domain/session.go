package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "pomo/internal/platform/errors"
)

type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

var SessionTypes = []SessionType{SessionWork, SessionShortBreak, SessionLongBreak}

func ParseSessionType(raw string) (SessionType, error) {
	t := SessionType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown session type %q", apperrors.ErrInvalidInput, raw)
	}
	return t, nil
}

func (t SessionType) Valid() bool {
	switch t {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return true
	}
	return false
}

// SessionRecord is written once, when a countdown ends, and never changed.
type SessionRecord struct {
	ID          int64
	Timestamp   time.Time
	Type        SessionType
	DurationMin int
	Completed   bool
	TaskName    string
	Notes       string
}

// DailyStat aggregates one calendar day. Day is formatted YYYY-MM-DD.
type DailyStat struct {
	Day               string
	TotalSessions     int
	CompletedSessions int
	WorkMinutes       int
}

type Profile struct {
	TotalSessions     int
	CompletedSessions int
	WorkMinutes       int
}

// SuccessRate is the completed share in percent; zero when nothing was logged.
func (p Profile) SuccessRate() float64 {
	if p.TotalSessions == 0 {
		return 0
	}
	return float64(p.CompletedSessions) / float64(p.TotalSessions) * 100
}

type TypeCount struct {
	Type  SessionType
	Count int
}
