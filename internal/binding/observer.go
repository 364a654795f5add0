package binding

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/log"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// DefaultKey is the registration key used when Config.Key is empty.
// Binding twice to the same owner under one key supersedes the first binding.
const DefaultKey = "lifebind"

// Config configures an Observer.
type Config struct {
	// Key is the owner registration key. Defaults to DefaultKey.
	Key string

	// Gate decides when the owner is active or terminal.
	Gate lifecycle.Gate

	// Policy labels the binding in logs and events.
	Policy string

	Logger  log.Logger
	Emitter EventEmitter
}

// Observer binds one stream subscription to one owner. It never keeps a
// reference to the owner after the owner reaches its terminal state.
type Observer struct {
	id      string
	key     string
	policy  string
	gate    lifecycle.Gate
	logger  log.Logger
	emitter EventEmitter

	mu        sync.Mutex
	lc        lifecycle.Lifecycle
	phase     Phase
	activated bool
	sub       *stream.Subscription
	deferred  Deferred
	teardown  []func()
}

// Bind registers a new Observer with lc. When lc is nil, already terminal
// or refuses the registration, the returned Observer is disposed and
// nothing will ever be delivered through it.
func Bind(lc lifecycle.Lifecycle, cfg Config) *Observer {
	o := &Observer{
		id:      uuid.NewString(),
		key:     cfg.Key,
		policy:  cfg.Policy,
		gate:    cfg.Gate,
		emitter: cfg.Emitter,
		phase:   PhasePending,
	}
	if o.key == "" {
		o.key = DefaultKey
	}
	o.logger = log.OrNoop(cfg.Logger).With(
		log.String("binding", o.id),
		log.String("key", o.key),
		log.String("policy", o.policy),
	)

	if o.gate.OwnerTerminal(lc) {
		o.reject("owner terminal")
		return o
	}

	o.lc = lc
	prev, err := lc.AddObserver(o.key, o)
	if err != nil {
		o.mu.Lock()
		o.lc = nil
		o.mu.Unlock()
		o.reject(err.Error())
		return o
	}
	if old, ok := prev.(*Observer); ok && old != o {
		old.dispose(ReasonSuperseded)
	}

	o.logger.Debug("binding registered",
		log.Stringer("gate", o.gate),
	)
	if o.emitter != nil {
		o.emitter.OnBound(o.id, o.policy)
	}

	o.evaluate(false)
	return o
}

// ID returns the observer's unique identifier.
func (o *Observer) ID() string {
	return o.id
}

// Key returns the registration key.
func (o *Observer) Key() string {
	return o.key
}

// Phase returns the current phase.
func (o *Observer) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Subscription returns the live subscription. It is nil while the observer
// is pending and already disposed once the observer is disposed, including
// observers rejected at Bind.
func (o *Observer) Subscription() *stream.Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == PhaseDisposed {
		return stream.DisposedSubscription()
	}
	return o.sub
}

// Alive reports whether the observer is not disposed and its owner has not
// reached a terminal state.
func (o *Observer) Alive() bool {
	o.mu.Lock()
	lc := o.lc
	disposed := o.phase == PhaseDisposed
	o.mu.Unlock()

	if disposed {
		return false
	}
	if o.gate.OwnerTerminal(lc) {
		o.evaluate(true)
		return false
	}
	return true
}

// OnStateChange implements lifecycle.Observer.
func (o *Observer) OnStateChange(previous, current lifecycle.State) {
	o.evaluate(o.gate.IsTerminal(current))
}

// AttachDeferred hands the observer work to start on the first active
// evaluation. It is discarded when the observer is not pending or already
// holds deferred work.
func (o *Observer) AttachDeferred(d Deferred) {
	o.mu.Lock()
	if o.phase != PhasePending || o.deferred != nil {
		o.mu.Unlock()
		d.Discard()
		return
	}
	o.deferred = d
	o.mu.Unlock()

	o.evaluate(false)
}

// AttachSubscription stores an already created subscription so that it is
// disposed with the owner. A disposed observer disposes sub immediately.
func (o *Observer) AttachSubscription(sub *stream.Subscription) {
	o.mu.Lock()
	if o.phase == PhaseDisposed {
		o.mu.Unlock()
		sub.Dispose()
		return
	}
	prev := o.sub
	o.sub = sub
	o.phase = PhaseActive
	first := !o.activated
	o.activated = true
	if prev != nil && prev != sub {
		prev.Dispose()
	}
	o.mu.Unlock()

	if first {
		o.activatedEvent()
	}
	o.evaluate(false)
}

// OnTeardown registers fn to run once when the observer is disposed.
// On a disposed observer fn runs immediately.
func (o *Observer) OnTeardown(fn func()) {
	o.mu.Lock()
	if o.phase == PhaseDisposed {
		o.mu.Unlock()
		fn()
		return
	}
	o.teardown = append(o.teardown, fn)
	o.mu.Unlock()
}

// evaluate is the single transition function. terminalHint carries a
// terminal state observed by the caller that the owner may no longer report.
func (o *Observer) evaluate(terminalHint bool) {
	o.mu.Lock()
	if o.phase == PhaseDisposed || o.lc == nil {
		o.mu.Unlock()
		return
	}

	state := o.lc.State()
	if terminalHint || o.gate.IsTerminal(state) {
		reason := ReasonTerminal
		if state == lifecycle.StateDestroyed {
			reason = ReasonDestroyed
		}
		finish := o.disposeLocked(reason)
		o.mu.Unlock()
		finish()
		return
	}

	if o.phase != PhasePending || o.deferred == nil || !o.gate.IsActive(state) {
		o.mu.Unlock()
		return
	}

	sub := stream.NewSubscription()
	o.sub = sub
	o.phase = PhaseActive
	o.activated = true
	d := o.deferred
	o.deferred = nil
	o.mu.Unlock()

	o.activatedEvent()
	d.Activate(sub)
}

// dispose tears the observer down once.
func (o *Observer) dispose(reason string) {
	o.mu.Lock()
	if o.phase == PhaseDisposed {
		o.mu.Unlock()
		return
	}
	finish := o.disposeLocked(reason)
	o.mu.Unlock()
	finish()
}

// disposeLocked disposes the subscription and clears every reference while
// o.mu is held. The returned func unregisters, runs teardown hooks and
// reports the disposal; it must be called after o.mu is released.
func (o *Observer) disposeLocked(reason string) func() {
	lc := o.lc
	d := o.deferred
	hooks := o.teardown
	activated := o.activated

	if o.sub != nil {
		o.sub.Dispose()
	}
	o.phase = PhaseDisposed
	o.lc = nil
	o.sub = nil
	o.deferred = nil
	o.teardown = nil

	return func() {
		if d != nil {
			d.Discard()
		}
		for _, fn := range hooks {
			fn()
		}
		if lc != nil {
			lc.RemoveObserver(o.key, o)
		}

		o.logger.Debug("binding disposed",
			log.String("reason", reason),
			log.Bool("activated", activated),
		)
		if o.emitter != nil {
			o.emitter.OnDisposed(o.id, reason, activated)
		}
	}
}

func (o *Observer) reject(reason string) {
	o.mu.Lock()
	o.phase = PhaseDisposed
	o.mu.Unlock()

	o.logger.Debug("binding rejected", log.String("reason", reason))
	if o.emitter != nil {
		o.emitter.OnRejected(o.id, o.policy)
	}
}

func (o *Observer) activatedEvent() {
	o.logger.Debug("binding activated")
	if o.emitter != nil {
		o.emitter.OnActivated(o.id, o.policy)
	}
}
