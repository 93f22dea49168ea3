package timelog

import "time"

// Outcome records how a run ended.
type Outcome string

const (
	OutcomeStopped     Outcome = "stopped"
	OutcomeReset       Outcome = "reset"
	OutcomeTimeUp      Outcome = "time_up"
	OutcomeInterrupted Outcome = "interrupted"
)

// TimeLog represents one countdown run, from start to whatever ended it.
type TimeLog struct {
	ID        int64
	StartedAt time.Time
	StoppedAt time.Time
	Period    time.Duration
	Remaining time.Duration // at the moment the run ended
	Outcome   Outcome
}

// Duration is the wall time the run lasted.
func (l TimeLog) Duration() time.Duration {
	return l.StoppedAt.Sub(l.StartedAt)
}
