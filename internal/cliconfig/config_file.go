package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	OwnerName     string `toml:"owner_name"`
	Policy        string `toml:"policy"`
	ActiveState   string `toml:"active_state"`
	TerminalState string `toml:"terminal_state"`
	Replay        *bool  `toml:"replay"`
	Key           string `toml:"key"`
	Source        string `toml:"source"`
	Interval      string `toml:"interval"`
	Count         int    `toml:"count"`
	KeepLast      int    `toml:"keep_last"`
	Script        string `toml:"script"`
	StepDelay     string `toml:"step_delay"`
	ControlFile   string `toml:"control_file"`
	MetricsAddr   string `toml:"metrics_addr"`
	StatusFile    string `toml:"status_file"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.lifebind/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".lifebind", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("owner", fc.OwnerName, &cfg.OwnerName)
	s.setString("policy", fc.Policy, &cfg.Policy)
	s.setString("active-state", fc.ActiveState, &cfg.ActiveState)
	s.setString("terminal-state", fc.TerminalState, &cfg.TerminalState)
	s.setString("key", fc.Key, &cfg.Key)
	s.setString("source", fc.Source, &cfg.Source)
	s.setString("script", fc.Script, &cfg.Script)
	s.setString("control-file", fc.ControlFile, &cfg.ControlFile)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("status-file", fc.StatusFile, &cfg.StatusFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("step-delay", fc.StepDelay, &cfg.StepDelay); err != nil {
		return err
	}

	s.setInt("count", fc.Count, &cfg.Count)
	s.setInt("keep-last", fc.KeepLast, &cfg.KeepLast)

	s.setBool("replay", fc.Replay, &cfg.Replay)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
