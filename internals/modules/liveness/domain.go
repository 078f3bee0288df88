package liveness

import "time"

type Status string

const (
	StatusUnknown Status = "unknown" // no ping has ever been accepted
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// State is the single tracked signal. Zero timestamps mean "never recorded".
type State struct {
	LastSeenAt   time.Time
	IsOnline     bool
	OnlineSince  time.Time
	OfflineSince time.Time
}

func (s State) Status() Status {
	switch {
	case s.LastSeenAt.IsZero():
		return StatusUnknown
	case s.IsOnline:
		return StatusOnline
	default:
		return StatusOffline
	}
}

type TransitionKind string

const (
	TransitionRestored TransitionKind = "restored"
	TransitionLost     TransitionKind = "lost"
)

// Transition describes one Online/Offline change that must be announced.
type Transition struct {
	Kind TransitionKind
	At   time.Time

	// Reference is the offline start for a restore and the last ping for a loss.
	Reference time.Time

	// Duration is how long the previous status lasted, never negative.
	// HasDuration is false when no reference point was recorded.
	Duration    time.Duration
	HasDuration bool
}
