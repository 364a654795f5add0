package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LIFEBIND_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("owner", os.Getenv("LIFEBIND_OWNER"), &cfg.OwnerName)
	s.setString("policy", os.Getenv("LIFEBIND_POLICY"), &cfg.Policy)
	s.setString("active-state", os.Getenv("LIFEBIND_ACTIVE_STATE"), &cfg.ActiveState)
	s.setString("terminal-state", os.Getenv("LIFEBIND_TERMINAL_STATE"), &cfg.TerminalState)
	s.setString("key", os.Getenv("LIFEBIND_KEY"), &cfg.Key)
	s.setString("source", os.Getenv("LIFEBIND_SOURCE"), &cfg.Source)
	s.setString("script", os.Getenv("LIFEBIND_SCRIPT"), &cfg.Script)
	s.setString("control-file", os.Getenv("LIFEBIND_CONTROL_FILE"), &cfg.ControlFile)
	s.setString("metrics-addr", os.Getenv("LIFEBIND_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("status-file", os.Getenv("LIFEBIND_STATUS_FILE"), &cfg.StatusFile)
	s.setString("log-level", os.Getenv("LIFEBIND_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("interval", os.Getenv("LIFEBIND_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("step-delay", os.Getenv("LIFEBIND_STEP_DELAY"), &cfg.StepDelay); err != nil {
		return err
	}

	if err := s.setIntFromString("count", os.Getenv("LIFEBIND_COUNT"), &cfg.Count); err != nil {
		return err
	}
	if err := s.setIntFromString("keep-last", os.Getenv("LIFEBIND_KEEP_LAST"), &cfg.KeepLast); err != nil {
		return err
	}

	s.setBoolFromString("replay", os.Getenv("LIFEBIND_REPLAY"), &cfg.Replay)

	return nil
}
