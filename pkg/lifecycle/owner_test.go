package lifecycle

import (
	"sync"
	"testing"
	"time"
)

// recordingObserver tracks state change notifications for testing.
type recordingObserver struct {
	mu     sync.Mutex
	events []stateChange
}

type stateChange struct {
	previous State
	current  State
}

func (r *recordingObserver) OnStateChange(previous, current State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, stateChange{previous, current})
}

func (r *recordingObserver) Events() []stateChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stateChange{}, r.events...)
}

func TestNewOwner(t *testing.T) {
	o := NewOwner("test", nil)
	if o.State() != StateInitialized {
		t.Errorf("initial state = %v, want Initialized", o.State())
	}
	if o.Name() != "test" {
		t.Errorf("Name() = %q", o.Name())
	}
}

func TestOwner_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"initialized to created", StateInitialized, StateCreated},
		{"initialized to destroyed", StateInitialized, StateDestroyed},
		{"created to started", StateCreated, StateStarted},
		{"created to destroyed", StateCreated, StateDestroyed},
		{"started to resumed", StateStarted, StateResumed},
		{"started to created", StateStarted, StateCreated},
		{"resumed to started", StateResumed, StateStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOwner("test", nil)
			o.state = tt.from

			if err := o.TransitionTo(tt.to); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if o.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", o.State(), tt.to)
			}
		})
	}
}

func TestOwner_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"initialized to started", StateInitialized, StateStarted, ErrInvalidTransition},
		{"created to resumed", StateCreated, StateResumed, ErrInvalidTransition},
		{"started to destroyed", StateStarted, StateDestroyed, ErrInvalidTransition},
		{"resumed to destroyed", StateResumed, StateDestroyed, ErrInvalidTransition},
		{"resumed to created", StateResumed, StateCreated, ErrInvalidTransition},
		{"destroyed to created", StateDestroyed, StateCreated, ErrDestroyed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOwner("test", nil)
			o.state = tt.from

			if err := o.TransitionTo(tt.to); err != tt.wantErr {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			if o.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition, want %v", o.State(), tt.from)
			}
		})
	}
}

func TestOwner_HandleEvent_DestroyWalksDown(t *testing.T) {
	o := NewOwner("test", nil)
	rec := &recordingObserver{}
	if _, err := o.AddObserver("rec", rec); err != nil {
		t.Fatalf("AddObserver: %v", err)
	}

	for _, e := range []Event{EventCreate, EventStart, EventResume, EventDestroy} {
		if err := o.HandleEvent(e); err != nil {
			t.Fatalf("HandleEvent(%s): %v", e, err)
		}
	}

	want := []stateChange{
		{StateInitialized, StateCreated},
		{StateCreated, StateStarted},
		{StateStarted, StateResumed},
		{StateResumed, StateStarted},
		{StateStarted, StateCreated},
		{StateCreated, StateDestroyed},
	}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
	if o.ObserverCount() != 0 {
		t.Errorf("observers retained after destroy: %d", o.ObserverCount())
	}
}

func TestOwner_HandleEvent_Invalid(t *testing.T) {
	o := NewOwner("test", nil)

	if err := o.HandleEvent(EventStart); err != ErrInvalidTransition {
		t.Errorf("Start from Initialized error = %v, want ErrInvalidTransition", err)
	}
	o.Destroy()
	if err := o.HandleEvent(EventCreate); err != ErrDestroyed {
		t.Errorf("Create after destroy error = %v, want ErrDestroyed", err)
	}
	if err := o.HandleEvent(EventDestroy); err != nil {
		t.Errorf("second destroy error = %v, want nil", err)
	}
}

func TestOwner_MoveTo(t *testing.T) {
	o := NewOwner("test", nil)
	rec := &recordingObserver{}
	_, _ = o.AddObserver("rec", rec)

	if err := o.MoveTo(StateResumed); err != nil {
		t.Fatalf("MoveTo(Resumed): %v", err)
	}
	if err := o.MoveTo(StateResumed); err != nil {
		t.Fatalf("MoveTo(Resumed) again: %v", err)
	}
	if got := len(rec.Events()); got != 3 {
		t.Errorf("got %d notifications, want 3", got)
	}
	if err := o.MoveTo(State(-1)); err != ErrInvalidState {
		t.Errorf("MoveTo(invalid) error = %v", err)
	}
}

func TestOwner_MoveTo_Unreachable(t *testing.T) {
	o := NewOwner("test", nil)
	if err := o.MoveTo(StateInitialized); err != nil {
		t.Fatalf("MoveTo(Initialized) from Initialized: %v", err)
	}
	if err := o.MoveTo(StateCreated); err != nil {
		t.Fatalf("MoveTo(Created): %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- o.MoveTo(StateInitialized) }()

	select {
	case err := <-done:
		if err != ErrInvalidTransition {
			t.Errorf("MoveTo(Initialized) error = %v, want ErrInvalidTransition", err)
		}
	case <-time.After(time.Second):
		t.Fatal("MoveTo(Initialized) from Created did not return")
	}
	if o.State() != StateCreated {
		t.Errorf("state = %v, want Created", o.State())
	}
}

func TestOwner_NilReceiver(t *testing.T) {
	var o *Owner

	if o.State() != StateDestroyed {
		t.Errorf("State() = %v, want Destroyed", o.State())
	}
	if _, err := o.AddObserver("rec", &recordingObserver{}); err != ErrDestroyed {
		t.Errorf("AddObserver() error = %v, want ErrDestroyed", err)
	}
	if o.RemoveObserver("rec", &recordingObserver{}) {
		t.Error("RemoveObserver() = true on nil owner")
	}
	if err := o.TransitionTo(StateCreated); err != ErrDestroyed {
		t.Errorf("TransitionTo() error = %v, want ErrDestroyed", err)
	}
	if err := o.MoveTo(StateResumed); err != ErrDestroyed {
		t.Errorf("MoveTo() error = %v, want ErrDestroyed", err)
	}
	o.Destroy()
	o.Renotify()
	if o.ObserverCount() != 0 || o.Name() != "" {
		t.Error("nil owner reports observers or a name")
	}

	var lc Lifecycle = o
	gate := DefaultGate()
	if gate.OwnerActive(lc) {
		t.Error("nil *Owner reported active")
	}
	if !gate.OwnerTerminal(lc) {
		t.Error("nil *Owner not reported terminal")
	}
}

func TestOwner_AddObserver_ReplacesSameKey(t *testing.T) {
	o := NewOwner("test", nil)
	first := &recordingObserver{}
	second := &recordingObserver{}

	prev, err := o.AddObserver("binding", first)
	if err != nil || prev != nil {
		t.Fatalf("first AddObserver = %v, %v", prev, err)
	}
	prev, err = o.AddObserver("binding", second)
	if err != nil {
		t.Fatalf("second AddObserver: %v", err)
	}
	if prev != Observer(first) {
		t.Errorf("replaced observer = %v, want first", prev)
	}
	if o.ObserverCount() != 1 {
		t.Errorf("ObserverCount = %d, want 1", o.ObserverCount())
	}

	_ = o.HandleEvent(EventCreate)
	if len(first.Events()) != 0 {
		t.Error("replaced observer still notified")
	}
	if len(second.Events()) != 1 {
		t.Error("replacement observer not notified")
	}

	if o.RemoveObserver("binding", first) {
		t.Error("stale observer removed the fresh registration")
	}
	if !o.RemoveObserver("binding", second) {
		t.Error("RemoveObserver(second) = false")
	}
}

func TestOwner_AddObserver_Destroyed(t *testing.T) {
	o := NewOwner("test", nil)
	o.Destroy()

	if _, err := o.AddObserver("late", &recordingObserver{}); err != ErrDestroyed {
		t.Errorf("AddObserver after destroy error = %v, want ErrDestroyed", err)
	}
}

func TestOwner_Renotify(t *testing.T) {
	o := NewOwner("test", nil)
	rec := &recordingObserver{}
	_, _ = o.AddObserver("rec", rec)
	_ = o.HandleEvent(EventCreate)

	o.Renotify()

	got := rec.Events()
	if len(got) != 2 || got[1] != (stateChange{StateCreated, StateCreated}) {
		t.Errorf("events = %v, want redundant Created notification", got)
	}
}

// selfRemovingObserver unregisters itself from inside a notification.
type selfRemovingObserver struct {
	owner *Owner
	calls int
}

func (s *selfRemovingObserver) OnStateChange(previous, current State) {
	s.calls++
	s.owner.RemoveObserver("self", s)
}

func TestOwner_RemoveObserverFromNotification(t *testing.T) {
	o := NewOwner("test", nil)
	obs := &selfRemovingObserver{owner: o}
	_, _ = o.AddObserver("self", obs)

	_ = o.HandleEvent(EventCreate)
	_ = o.HandleEvent(EventStart)

	if obs.calls != 1 {
		t.Errorf("calls = %d, want 1", obs.calls)
	}
}

func TestOwner_ConcurrentMoveTo(t *testing.T) {
	o := NewOwner("test", nil)
	rec := &recordingObserver{}
	_, _ = o.AddObserver("rec", rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = o.MoveTo(StateResumed)
		}()
	}
	wg.Wait()

	if o.State() != StateResumed {
		t.Errorf("state = %v, want Resumed", o.State())
	}
	if got := len(rec.Events()); got != 3 {
		t.Errorf("notifications = %d, want exactly 3 steps", got)
	}
}
