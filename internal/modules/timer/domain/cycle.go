package domain

import "time"

type SessionType string

const (
	Work       SessionType = "work"
	ShortBreak SessionType = "short_break"
	LongBreak  SessionType = "long_break"
)

func (t SessionType) Label() string {
	switch t {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Work"
	}
}

func (t SessionType) IsBreak() bool {
	return t == ShortBreak || t == LongBreak
}

// Plan is the subset of user settings the cycle needs, cached by the
// controller between reloads.
type Plan struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int
	AutoStartBreaks   bool
	AutoStartWork     bool
	SoundEnabled      bool
	Username          string
}

func (p Plan) Minutes(t SessionType) int {
	switch t {
	case ShortBreak:
		return p.ShortBreakMinutes
	case LongBreak:
		return p.LongBreakMinutes
	default:
		return p.WorkMinutes
	}
}

func (p Plan) Seconds(t SessionType) int {
	return p.Minutes(t) * 60
}

// AutoStart reports whether a session of type next begins without user input.
func (p Plan) AutoStart(next SessionType) bool {
	if next.IsBreak() {
		return p.AutoStartBreaks
	}
	return p.AutoStartWork
}

// Cycle tracks the session in progress and the completed work count.
// CompletedWork is cumulative for the process lifetime and never resets.
type Cycle struct {
	Current       SessionType
	CompletedWork int
}

func NewCycle() Cycle {
	return Cycle{Current: Work}
}

// Advance applies the transition rule after a naturally finished session
// and returns the next session type.
func (c *Cycle) Advance(longBreakInterval int) SessionType {
	if c.Current != Work {
		c.Current = Work
		return c.Current
	}
	c.CompletedWork++
	if longBreakInterval > 0 && c.CompletedWork%longBreakInterval == 0 {
		c.Current = LongBreak
	} else {
		c.Current = ShortBreak
	}
	return c.Current
}

// SessionLog is what the controller learns back after a session is stored.
type SessionLog struct {
	ID          int64
	At          time.Time
	Type        SessionType
	DurationMin int
	Completed   bool
	TaskName    string
}
