package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/lifebind/internal/domain"
)

// recordingEmitter tracks runner state changes.
type recordingEmitter struct {
	mu     sync.Mutex
	events []stateChange
}

type stateChange struct {
	previous State
	current  State
	reason   string
}

func (m *recordingEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChange{previous, current, reason})
}

func (m *recordingEmitter) Events() []stateChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChange{}, m.events...)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo(t *testing.T) {
	tests := []struct {
		from    State
		to      State
		wantErr error
	}{
		{StateStopped, StateStarting, nil},
		{StateStarting, StateRunning, nil},
		{StateStarting, StateStopping, nil},
		{StateStarting, StateCrashed, nil},
		{StateRunning, StateStopping, nil},
		{StateRunning, StateCrashed, nil},
		{StateStopping, StateStopped, nil},
		{StateStopping, StateCrashed, nil},
		{StateCrashed, StateStarting, nil},

		{StateStopped, StateRunning, domain.ErrNotRunning},
		{StateStopped, StateStopping, domain.ErrNotRunning},
		{StateCrashed, StateRunning, domain.ErrNotRunning},
		{StateCrashed, StateStopped, domain.ErrNotRunning},
		{StateStarting, StateStopped, domain.ErrAlreadyRunning},
		{StateRunning, StateStarting, domain.ErrAlreadyRunning},
		{StateRunning, StateStopped, domain.ErrAlreadyRunning},
		{StateStopping, StateRunning, domain.ErrAlreadyRunning},
		{StateStopping, StateStarting, domain.ErrAlreadyRunning},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			l := NewLifecycle(nil, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if err != tt.wantErr {
				t.Fatalf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}

			want := tt.to
			if tt.wantErr != nil {
				want = tt.from
			}
			if l.State() != want {
				t.Errorf("state = %v, want %v", l.State(), want)
			}
		})
	}
}

func TestLifecycle_TransitionTo_EmitsEvents(t *testing.T) {
	emitter := &recordingEmitter{}
	l := NewLifecycle(nil, emitter)

	_ = l.TransitionTo(StateStarting, "run")
	_ = l.TransitionTo(StateStopped, "invalid")
	_ = l.TransitionTo(StateRunning, "bound")

	events := emitter.Events()
	want := []stateChange{
		{StateStopped, StateStarting, "run"},
		{StateStarting, StateRunning, "bound"},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestLifecycle_CanStartCanStop(t *testing.T) {
	tests := []struct {
		state     State
		wantStart bool
		wantStop  bool
	}{
		{StateStopped, true, false},
		{StateStarting, false, true},
		{StateRunning, false, true},
		{StateStopping, false, false},
		{StateCrashed, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(nil, nil)
			l.state = tt.state

			if got := l.CanStart(); got != tt.wantStart {
				t.Errorf("CanStart() = %v, want %v", got, tt.wantStart)
			}
			if got := l.CanStop(); got != tt.wantStop {
				t.Errorf("CanStop() = %v, want %v", got, tt.wantStop)
			}
		})
	}
}

func TestLifecycle_BeginCancelWait(t *testing.T) {
	emitter := &recordingEmitter{}
	l := NewLifecycle(nil, emitter)

	if err := l.WaitWithTimeout(time.Millisecond); err != nil {
		t.Fatalf("WaitWithTimeout() without a run = %v, want nil", err)
	}
	l.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	finish, err := l.Begin(cancel, "run")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if l.State() != StateStarting {
		t.Fatalf("state = %v, want Starting", l.State())
	}
	if _, err := l.Begin(func() {}, "again"); err != domain.ErrAlreadyRunning {
		t.Fatalf("second Begin() error = %v, want ErrAlreadyRunning", err)
	}

	go func() {
		<-ctx.Done()
		finish()
		finish()
	}()

	l.Cancel()
	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() = %v, want nil", err)
	}
	if events := emitter.Events(); len(events) != 1 || events[0] != (stateChange{StateStopped, StateStarting, "run"}) {
		t.Errorf("events = %+v, want one Stopped->Starting", events)
	}
}

func TestLifecycle_WaitWithTimeout_Timeout(t *testing.T) {
	l := NewLifecycle(nil, nil)
	finish, err := l.Begin(func() {}, "run")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer finish()

	if err := l.WaitWithTimeout(10 * time.Millisecond); err != domain.ErrShutdownTimeout {
		t.Errorf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.CanStart()
				_ = l.CanStop()
			}
		}()
	}

	// Only one goroutine can win each transition.
	var (
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TransitionTo(StateStarting, "test") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("winning transitions = %d, want 1", wins)
	}
}
