package dto

import "time"

type EventKind int

const (
	DisplayUpdated EventKind = iota + 1
	SessionTypeChanged
	SessionCompleted
	SettingsChanged
	StatusChanged
	Failed
)

func (k EventKind) String() string {
	switch k {
	case DisplayUpdated:
		return "display_updated"
	case SessionTypeChanged:
		return "session_type_changed"
	case SessionCompleted:
		return "session_completed"
	case SettingsChanged:
		return "settings_changed"
	case StatusChanged:
		return "status_changed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is published by the cycle controller to its subscribers. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind             EventKind
	RemainingSeconds int
	Progress         float64
	SessionType      string
	SessionIndex     int
	Session          SessionOutput
	Status           string
	Err              error
}

type SessionOutput struct {
	ID          int64
	At          time.Time
	SessionType string
	DurationMin int
	Completed   bool
	TaskName    string
}

// Snapshot is the controller state a display needs to draw itself.
type Snapshot struct {
	SessionType      string
	SessionLabel     string
	Status           string
	RemainingSeconds int
	TotalSeconds     int
	Progress         float64
	CompletedWork    int
	LongBreakEvery   int
	TaskName         string
	Username         string
	SoundEnabled     bool
}
