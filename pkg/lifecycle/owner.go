package lifecycle

import (
	"errors"
	"sync"

	"github.com/bft-labs/lifebind/pkg/log"
)

// Common lifecycle errors.
var (
	ErrDestroyed         = errors.New("lifecycle: owner destroyed")
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
	ErrInvalidState      = errors.New("lifecycle: invalid state")
	ErrInvalidGate       = errors.New("lifecycle: invalid gate")
)

// Observer receives every state change of an owner, including redundant
// re-notifications where previous equals current.
type Observer interface {
	OnStateChange(previous, current State)
}

// Lifecycle is the owner-side contract consumed by bindings.
type Lifecycle interface {
	// State returns the current lifecycle state.
	State() State

	// AddObserver registers obs under key. An observer already registered
	// under key is replaced and returned. Fails with ErrDestroyed once the
	// owner is destroyed.
	AddObserver(key string, obs Observer) (Observer, error)

	// RemoveObserver unregisters obs if it is still the observer under key.
	// It must be safe to call from inside OnStateChange.
	RemoveObserver(key string, obs Observer) bool
}

type registration struct {
	key string
	obs Observer
}

// Owner is a reference Lifecycle implementation. It validates transitions,
// stores the current state and dispatches notifications outside its lock.
type Owner struct {
	name   string
	logger log.Logger

	mu        sync.RWMutex
	state     State
	observers []registration
}

// NewOwner creates an owner in StateInitialized.
func NewOwner(name string, logger log.Logger) *Owner {
	return &Owner{
		name:   name,
		logger: log.OrNoop(logger).With(log.String("owner", name)),
		state:  StateInitialized,
	}
}

// Name returns the owner's name.
func (o *Owner) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// State returns the current lifecycle state. A nil Owner reports
// StateDestroyed.
func (o *Owner) State() State {
	if o == nil {
		return StateDestroyed
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// AddObserver registers obs under key, replacing and returning any observer
// previously registered under the same key.
func (o *Owner) AddObserver(key string, obs Observer) (Observer, error) {
	if o == nil {
		return nil, ErrDestroyed
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDestroyed {
		return nil, ErrDestroyed
	}
	for i, r := range o.observers {
		if r.key == key {
			o.observers[i].obs = obs
			return r.obs, nil
		}
	}
	o.observers = append(o.observers, registration{key: key, obs: obs})
	return nil, nil
}

// RemoveObserver unregisters obs if it is still registered under key.
func (o *Owner) RemoveObserver(key string, obs Observer) bool {
	if o == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, r := range o.observers {
		if r.key == key && r.obs == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return true
		}
	}
	return false
}

// ObserverCount returns the number of registered observers.
func (o *Owner) ObserverCount() int {
	if o == nil {
		return 0
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.observers)
}

// HandleEvent applies a lifecycle event. Every event except Destroy must be a
// single valid step from the current state; Destroy walks down through the
// intermediate states.
func (o *Owner) HandleEvent(e Event) error {
	if e == EventDestroy {
		return o.MoveTo(StateDestroyed)
	}
	o.mu.Lock()
	from := o.state
	o.mu.Unlock()

	if got, ok := step(from, e.Target()); !ok || got != e {
		if from == StateDestroyed {
			return ErrDestroyed
		}
		return ErrInvalidTransition
	}
	return o.TransitionTo(e.Target())
}

// TransitionTo moves the owner to an adjacent state.
// Returns an error if the transition is not a valid single step.
// Observers are dropped once the owner reaches StateDestroyed.
func (o *Owner) TransitionTo(next State) error {
	if o == nil {
		return ErrDestroyed
	}
	o.mu.Lock()
	prev := o.state

	if prev == StateDestroyed {
		o.mu.Unlock()
		return ErrDestroyed
	}
	event, ok := step(prev, next)
	if !ok {
		o.mu.Unlock()
		return ErrInvalidTransition
	}

	o.state = next
	observers := o.snapshot()
	if next == StateDestroyed {
		o.observers = nil
	}
	o.mu.Unlock()

	o.logger.Info("state transition",
		log.Stringer("event", event),
		log.Stringer("from", prev),
		log.Stringer("to", next),
	)
	dispatch(observers, prev, next)
	return nil
}

// MoveTo walks the owner to target one step at a time, notifying observers
// on each step. Moving to the current state is a no-op. StateInitialized
// cannot be re-entered and fails with ErrInvalidTransition.
func (o *Owner) MoveTo(target State) error {
	if !target.Valid() {
		return ErrInvalidState
	}
	for {
		current := o.State()
		if current == target {
			return nil
		}
		if current == StateDestroyed {
			return ErrDestroyed
		}
		if target == StateInitialized {
			return ErrInvalidTransition
		}
		err := o.TransitionTo(nextToward(current, target))
		if err == nil {
			continue
		}
		// Retry only when another goroutine moved the owner in between.
		if errors.Is(err, ErrInvalidTransition) && o.State() != current {
			continue
		}
		return err
	}
}

// Destroy moves the owner to StateDestroyed. Destroying twice is a no-op.
func (o *Owner) Destroy() {
	_ = o.MoveTo(StateDestroyed)
}

// Renotify dispatches the current state to every observer again.
func (o *Owner) Renotify() {
	if o == nil {
		return
	}
	o.mu.RLock()
	current := o.state
	observers := o.snapshot()
	o.mu.RUnlock()

	dispatch(observers, current, current)
}

// snapshot copies the observer list; callers hold o.mu.
func (o *Owner) snapshot() []Observer {
	out := make([]Observer, len(o.observers))
	for i, r := range o.observers {
		out[i] = r.obs
	}
	return out
}

func dispatch(observers []Observer, prev, next State) {
	for _, obs := range observers {
		obs.OnStateChange(prev, next)
	}
}
