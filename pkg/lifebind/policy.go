package lifebind

import (
	"fmt"
	"strings"
)

// Policy selects how a binding starts delivery.
type Policy int

const (
	// PolicyDeferUntilActive subscribes on the owner's first active state
	// and disposes on its terminal state.
	PolicyDeferUntilActive Policy = iota

	// PolicyDisposeOnDestroy subscribes immediately and disposes on the
	// owner's terminal state.
	PolicyDisposeOnDestroy
)

// String returns a human-readable representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyDeferUntilActive:
		return "defer-until-active"
	case PolicyDisposeOnDestroy:
		return "dispose-on-destroy"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "defer-until-active", "defer":
		return PolicyDeferUntilActive, nil
	case "dispose-on-destroy", "dispose":
		return PolicyDisposeOnDestroy, nil
	}
	return PolicyDeferUntilActive, fmt.Errorf("lifebind: unknown policy %q", name)
}
