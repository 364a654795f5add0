package lifebind

import (
	"github.com/bft-labs/lifebind/internal/binding"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/log"
)

// Re-export binding types so callers need not import internal packages.
type (
	// Phase is the position of a binding in Pending -> Active -> Disposed.
	Phase = binding.Phase

	// EventEmitter is notified when bindings are bound, rejected,
	// activated and disposed.
	EventEmitter = binding.EventEmitter
)

// Binding phases.
const (
	PhasePending  = binding.PhasePending
	PhaseActive   = binding.PhaseActive
	PhaseDisposed = binding.PhaseDisposed
)

// DefaultKey is the registration key used unless WithKey is given.
const DefaultKey = binding.DefaultKey

// Option configures optional behavior of a binding.
type Option func(*options)

// options holds the optional configuration for a binding.
type options struct {
	policy   Policy
	active   lifecycle.State
	terminal lifecycle.State
	replay   *bool
	key      string
	logger   log.Logger
	emitter  EventEmitter
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		policy:   PolicyDeferUntilActive,
		active:   lifecycle.DefaultActiveState,
		terminal: lifecycle.StateDestroyed,
		key:      DefaultKey,
		logger:   log.NewNoopLogger(),
	}
}

// resolve applies opts and builds the gate they describe.
func resolve(opts []Option) (options, lifecycle.Gate, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = log.OrNoop(o.logger)
	if o.key == "" {
		o.key = DefaultKey
	}

	gate := lifecycle.DefaultGate()
	if o.active != lifecycle.DefaultActiveState || o.terminal != lifecycle.StateDestroyed {
		g, err := lifecycle.NewGate(o.active, o.terminal)
		if err != nil {
			return o, gate, err
		}
		gate = g
	}
	return o, gate, nil
}

// replayEnabled reports whether the source should be wrapped in a replay
// buffer. Replay defaults to on for PolicyDeferUntilActive only.
func (o options) replayEnabled() bool {
	if o.policy != PolicyDeferUntilActive {
		return false
	}
	if o.replay == nil {
		return true
	}
	return *o.replay
}

// WithPolicy sets the activation policy. Defaults to PolicyDeferUntilActive.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithActiveState sets the state at or above which the owner is active.
func WithActiveState(s lifecycle.State) Option {
	return func(o *options) {
		o.active = s
	}
}

// WithTerminalState sets an additional terminal state. It must be below the
// active threshold; Destroyed is always terminal.
func WithTerminalState(s lifecycle.State) Option {
	return func(o *options) {
		o.terminal = s
	}
}

// WithReplay turns replay of values produced before activation on or off.
// Ignored under PolicyDisposeOnDestroy.
func WithReplay(enabled bool) Option {
	return func(o *options) {
		o.replay = &enabled
	}
}

// WithKey sets the owner registration key.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventEmitter sets a receiver for binding events.
// Events are called synchronously from whichever goroutine drives the
// transition; implementations should return quickly.
func WithEventEmitter(e EventEmitter) Option {
	return func(o *options) {
		o.emitter = e
	}
}
