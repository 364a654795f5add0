package binding

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
)

// Predicate answers whether an owner is still alive without binding a
// subscription to it. It registers under its own unique key and drops the
// owner reference as soon as the owner becomes terminal or Release is called.
type Predicate struct {
	key  string
	gate lifecycle.Gate

	mu sync.Mutex
	lc lifecycle.Lifecycle
}

// NewPredicate registers a Predicate with lc. A nil or terminal lc yields a
// Predicate that always reports false.
func NewPredicate(lc lifecycle.Lifecycle, gate lifecycle.Gate) *Predicate {
	p := &Predicate{
		key:  "predicate/" + uuid.NewString(),
		gate: gate,
	}
	if gate.OwnerTerminal(lc) {
		return p
	}
	p.lc = lc
	if _, err := lc.AddObserver(p.key, p); err != nil {
		p.lc = nil
	}
	return p
}

// Key returns the registration key.
func (p *Predicate) Key() string {
	return p.key
}

// Alive reports whether the owner has not reached a terminal state.
// Once it returns false it always returns false.
func (p *Predicate) Alive() bool {
	p.mu.Lock()
	lc := p.lc
	p.mu.Unlock()

	if lc == nil {
		return false
	}
	if p.gate.OwnerTerminal(lc) {
		p.Release()
		return false
	}
	return true
}

// OnStateChange implements lifecycle.Observer.
func (p *Predicate) OnStateChange(previous, current lifecycle.State) {
	if p.gate.IsTerminal(current) {
		p.Release()
	}
}

// Release unregisters the predicate. Alive reports false afterwards.
func (p *Predicate) Release() {
	p.mu.Lock()
	lc := p.lc
	p.lc = nil
	p.mu.Unlock()

	if lc != nil {
		lc.RemoveObserver(p.key, p)
	}
}
