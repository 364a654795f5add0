package binding

// Phase is the position of an Observer in its one-way state machine.
type Phase int

const (
	PhasePending Phase = iota
	PhaseActive
	PhaseDisposed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseActive:
		return "active"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Disposal reasons reported to EventEmitter.OnDisposed.
const (
	ReasonDestroyed  = "destroyed"
	ReasonTerminal   = "terminal"
	ReasonSuperseded = "superseded"
)

// EventEmitter is notified of binding phase changes.
type EventEmitter interface {
	OnBound(id, policy string)
	OnRejected(id, policy string)
	OnActivated(id, policy string)
	OnDisposed(id, reason string, activated bool)
}
