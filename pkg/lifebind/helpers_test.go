package lifebind

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// recorder records every consumer callback together with the owner state seen
// when the callback ran.
type recorder[T any] struct {
	owner lifecycle.Lifecycle

	mu        sync.Mutex
	values    []T
	states    []lifecycle.State
	errs      []error
	completes int
}

func newRecorder[T any](owner lifecycle.Lifecycle) *recorder[T] {
	return &recorder[T]{owner: owner}
}

func (p *recorder[T]) consumer() stream.Consumer[T] {
	return stream.Consumer[T]{
		Next: func(v T) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.values = append(p.values, v)
			p.states = append(p.states, p.owner.State())
		},
		Error: func(err error) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.errs = append(p.errs, err)
		},
		Complete: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.completes++
		},
	}
}

func (p *recorder[T]) Values() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T{}, p.values...)
}

func (p *recorder[T]) States() []lifecycle.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]lifecycle.State{}, p.states...)
}

func (p *recorder[T]) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error{}, p.errs...)
}

func (p *recorder[T]) Completes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completes
}

// Callbacks returns the total number of callbacks of any kind.
func (p *recorder[T]) Callbacks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.values) + len(p.errs) + p.completes
}

// mockEmitter counts binding events for testing.
type mockEmitter struct {
	mu        sync.Mutex
	bound     int
	rejected  int
	activated int
	disposed  []string
}

func (m *mockEmitter) OnBound(id, policy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bound++
}

func (m *mockEmitter) OnRejected(id, policy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func (m *mockEmitter) OnActivated(id, policy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activated++
}

func (m *mockEmitter) OnDisposed(id, reason string, activated bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = append(m.disposed, reason)
}

func (m *mockEmitter) Activated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activated
}

func (m *mockEmitter) Disposed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.disposed...)
}

func newOwnerAt(t *testing.T, s lifecycle.State) *lifecycle.Owner {
	t.Helper()
	owner := lifecycle.NewOwner(t.Name(), nil)
	require.NoError(t, owner.MoveTo(s))
	return owner
}

func mustBind[T any](t *testing.T, owner lifecycle.Lifecycle, src stream.Source[T], c stream.Consumer[T], opts ...Option) *Binding[T] {
	t.Helper()
	b, err := Bind(owner, src, c, opts...)
	require.NoError(t, err)
	return b
}
