package dto

import "time"

type RecordInput struct {
	SessionType string
	DurationMin int
	Completed   bool
	TaskName    string
	Notes       string
}

type SessionOutput struct {
	ID          int64
	Timestamp   time.Time
	SessionType string
	DurationMin int
	Completed   bool
	TaskName    string
	Notes       string
}

type SessionsQuery struct {
	SinceDays int
	Limit     int
}

type DailyStatOutput struct {
	Day               string
	TotalSessions     int
	CompletedSessions int
	WorkMinutes       int
}

type ProfileOutput struct {
	TotalSessions     int
	CompletedSessions int
	WorkMinutes       int
	SuccessRate       float64
}

type TypeCountOutput struct {
	SessionType string
	Count       int
}

type SettingsOutput struct {
	WorkDuration       int
	ShortBreakDuration int
	LongBreakDuration  int
	LongBreakInterval  int
	AutoStartBreaks    bool
	AutoStartWork      bool
	SoundEnabled       bool
	Username           string
}

// UpdateSettingsInput holds textual key/value pairs, keyed by column name.
type UpdateSettingsInput struct {
	Values map[string]string
}

type ReportInput struct {
	Days int
	Path string
}

// ReportOutput carries the rendered markdown; Path is empty when the report
// was only rendered.
type ReportOutput struct {
	Path     string
	Sessions int
	Days     int
	Markdown string
}
