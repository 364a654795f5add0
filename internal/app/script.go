package app

import (
	"context"
	"time"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
)

// ScriptDriver feeds a fixed sequence of events to an owner, pausing delay
// between steps.
type ScriptDriver struct {
	events []lifecycle.Event
	delay  time.Duration
}

// NewScriptDriver creates a driver for events.
func NewScriptDriver(events []lifecycle.Event, delay time.Duration) *ScriptDriver {
	return &ScriptDriver{events: events, delay: delay}
}

// Name returns the driver identifier.
func (d *ScriptDriver) Name() string {
	return "script"
}

// Drive handles every event in order and returns once the script is
// exhausted, handle fails or ctx is canceled.
func (d *ScriptDriver) Drive(ctx context.Context, handle func(lifecycle.Event) error) error {
	for i, e := range d.events {
		if i > 0 && d.delay > 0 {
			timer := time.NewTimer(d.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
		if err := handle(e); err != nil {
			return err
		}
	}
	return nil
}
