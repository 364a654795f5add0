package cliconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/lifebind/pkg/lifebind"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// DefaultScript drives an owner through its whole lifecycle once.
const DefaultScript = "create,start,resume,pause,stop,destroy"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds CLI configuration for lifebind.
type Config struct {
	OwnerName string

	Policy        string
	ActiveState   string
	TerminalState string
	Replay        bool
	Key           string

	Source   string
	Interval time.Duration
	Count    int
	KeepLast int

	Script      string
	StepDelay   time.Duration
	ControlFile string

	MetricsAddr string
	StatusFile  string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OwnerName:     "main",
		Policy:        lifebind.PolicyDeferUntilActive.String(),
		ActiveState:   lifecycle.DefaultActiveState.String(),
		TerminalState: lifecycle.StateDestroyed.String(),
		Replay:        true,
		Source:        stream.KindObservable.String(),
		Interval:      200 * time.Millisecond,
		Count:         10,
		Script:        DefaultScript,
		StepDelay:     500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and normalizes names.
func (c *Config) Validate() error {
	if c.OwnerName == "" {
		return fmt.Errorf("%w: owner name is required", ErrInvalidConfig)
	}

	policy, err := lifebind.ParsePolicy(c.Policy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Policy = policy.String()

	active, err := lifecycle.ParseState(c.ActiveState)
	if err != nil {
		return fmt.Errorf("%w: active state: %v", ErrInvalidConfig, err)
	}
	terminal, err := lifecycle.ParseState(c.TerminalState)
	if err != nil {
		return fmt.Errorf("%w: terminal state: %v", ErrInvalidConfig, err)
	}
	if _, err := lifecycle.NewGate(active, terminal); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.ActiveState = active.String()
	c.TerminalState = terminal.String()

	if _, err := stream.ParseKind(strings.ToLower(c.Source)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Source = strings.ToLower(c.Source)

	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrInvalidConfig)
	}
	if c.KeepLast < 0 {
		return fmt.Errorf("%w: keep-last must not be negative", ErrInvalidConfig)
	}

	if _, err := ParseScript(c.Script); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Script != "" && c.StepDelay <= 0 {
		return fmt.Errorf("%w: step delay must be positive", ErrInvalidConfig)
	}
	if c.Script == "" && c.ControlFile == "" {
		return fmt.Errorf("%w: script or control-file is required", ErrInvalidConfig)
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
