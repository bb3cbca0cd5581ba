package domain

type EngineState int

const (
	Idle EngineState = iota
	Running
	Paused
	Finished
)

func (s EngineState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

type EngineEventKind int

const (
	TimeUpdated EngineEventKind = iota + 1
	CountdownFinished
)

// EngineEvent is emitted by the countdown loop. Run identifies the countdown
// that produced it; events from a stopped countdown carry an older Run.
type EngineEvent struct {
	Kind      EngineEventKind
	Remaining int
	Run       uint64
}
