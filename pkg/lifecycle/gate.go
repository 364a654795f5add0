package lifecycle

import "fmt"

// DefaultActiveState is the threshold at or above which an owner is active.
const DefaultActiveState = StateStarted

// Gate answers whether an owner is active and whether it has reached its
// terminal state. The zero Gate uses DefaultActiveState and Destroyed.
type Gate struct {
	active   State
	terminal State
	custom   bool
}

// DefaultGate returns a Gate with an active threshold of Started and
// Destroyed as the only terminal state.
func DefaultGate() Gate {
	return Gate{}
}

// NewGate returns a Gate with the given thresholds.
// The terminal state must be Destroyed or strictly below the active threshold,
// otherwise an owner could be active and terminal at the same time.
func NewGate(active, terminal State) (Gate, error) {
	if !active.Valid() || active == StateDestroyed {
		return Gate{}, fmt.Errorf("%w: active threshold %s", ErrInvalidGate, active)
	}
	if !terminal.Valid() {
		return Gate{}, fmt.Errorf("%w: terminal state %s", ErrInvalidGate, terminal)
	}
	if terminal != StateDestroyed && terminal >= active {
		return Gate{}, fmt.Errorf("%w: terminal state %s not below active threshold %s",
			ErrInvalidGate, terminal, active)
	}
	return Gate{active: active, terminal: terminal, custom: true}, nil
}

// ActiveState returns the active threshold.
func (g Gate) ActiveState() State {
	if !g.custom {
		return DefaultActiveState
	}
	return g.active
}

// TerminalState returns the configured terminal state.
func (g Gate) TerminalState() State {
	if !g.custom {
		return StateDestroyed
	}
	return g.terminal
}

// IsTerminal reports whether s ends a binding. Destroyed is always terminal.
func (g Gate) IsTerminal(s State) bool {
	return s == StateDestroyed || s == g.TerminalState()
}

// IsActive reports whether s is at or above the active threshold and not terminal.
func (g Gate) IsActive(s State) bool {
	return !g.IsTerminal(s) && s.IsAtLeast(g.ActiveState())
}

// OwnerActive reports whether lc is currently active. A nil lifecycle is inactive.
func (g Gate) OwnerActive(lc Lifecycle) bool {
	if lc == nil {
		return false
	}
	return g.IsActive(lc.State())
}

// OwnerTerminal reports whether lc has reached a terminal state.
// A nil lifecycle counts as terminal.
func (g Gate) OwnerTerminal(lc Lifecycle) bool {
	if lc == nil {
		return true
	}
	return g.IsTerminal(lc.State())
}

// String returns a compact description used in logs.
func (g Gate) String() string {
	return fmt.Sprintf("active>=%s terminal=%s", g.ActiveState(), g.TerminalState())
}
