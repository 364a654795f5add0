package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bft-labs/lifebind/internal/domain"
	"github.com/bft-labs/lifebind/pkg/log"
)

// ShutdownTimeout is the maximum time Stop waits for Run to return.
const ShutdownTimeout = 30 * time.Second

// State is the runner's own state. It is distinct from the state of the
// simulated owner the runner drives.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// idle reports whether a run may begin from s.
func (s State) idle() bool {
	return s == StateStopped || s == StateCrashed
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateStopping, StateCrashed},
	StateRunning:  {StateStopping, StateCrashed},
	StateStopping: {StateStopped, StateCrashed},
	StateCrashed:  {StateStarting},
}

// EventEmitter is called when the runner state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle guards the runner state and tracks the active run.
type Lifecycle struct {
	mu      sync.RWMutex
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
	logger  log.Logger
	emitter EventEmitter
}

// NewLifecycle creates a stopped lifecycle.
func NewLifecycle(logger log.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:   StateStopped,
		logger:  log.OrNoop(logger),
		emitter: emitter,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to next if the transition table allows it. Leaving an
// idle state wrongly fails with ErrNotRunning, anything else with
// ErrAlreadyRunning.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state
	if !slices.Contains(transitions[prev], next) {
		l.mu.Unlock()
		if prev.idle() {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}
	l.state = next
	l.mu.Unlock()

	l.notify(prev, next, reason)
	return nil
}

func (l *Lifecycle) notify(prev, next State, reason string) {
	if l.emitter != nil {
		l.emitter.OnStateChange(prev, next, reason)
	}
	l.logger.Debug("runner transition",
		log.Stringer("from", prev),
		log.Stringer("to", next),
		log.String("reason", reason),
	)
}

// CanStart reports whether a run may begin.
func (l *Lifecycle) CanStart() bool {
	return l.State().idle()
}

// CanStop reports whether a run is in progress and may be stopped.
func (l *Lifecycle) CanStop() bool {
	s := l.State()
	return s == StateStarting || s == StateRunning
}

// Begin moves an idle lifecycle to StateStarting and records cancel for the
// new run in the same step. The returned finish marks the run as returned.
// Fails with ErrAlreadyRunning unless the lifecycle is idle.
func (l *Lifecycle) Begin(cancel context.CancelFunc, reason string) (finish func(), err error) {
	done := make(chan struct{})

	l.mu.Lock()
	prev := l.state
	if !prev.idle() {
		l.mu.Unlock()
		return nil, domain.ErrAlreadyRunning
	}
	l.state = StateStarting
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	l.notify(prev, StateStarting, reason)

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Cancel cancels the active run, if any.
func (l *Lifecycle) Cancel() {
	l.mu.RLock()
	cancel := l.cancel
	l.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
}

// WaitWithTimeout waits for the active run to finish.
// Returns ErrShutdownTimeout if the timeout expires first.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	l.mu.RLock()
	done := l.done
	l.mu.RUnlock()
	if done == nil {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		l.logger.Warn("shutdown timeout, forcing exit",
			log.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
