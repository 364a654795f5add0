package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				OwnerName:     "screen",
				Policy:        "dispose-on-destroy",
				ActiveState:   "Resumed",
				TerminalState: "Created",
				Replay:        &falseVal,
				Key:           "feed",
				Source:        "maybe",
				Interval:      "50ms",
				Count:         3,
				KeepLast:      1,
				Script:        "create,destroy",
				StepDelay:     "1s",
				ControlFile:   "/tmp/ctl",
				MetricsAddr:   ":9100",
				StatusFile:    "/tmp/status.json",
				LogLevel:      "debug",
			},
			changed: map[string]bool{},
			initial: Config{Replay: true},
			expected: Config{
				OwnerName:     "screen",
				Policy:        "dispose-on-destroy",
				ActiveState:   "Resumed",
				TerminalState: "Created",
				Replay:        false,
				Key:           "feed",
				Source:        "maybe",
				Interval:      50 * time.Millisecond,
				Count:         3,
				KeepLast:      1,
				Script:        "create,destroy",
				StepDelay:     time.Second,
				ControlFile:   "/tmp/ctl",
				MetricsAddr:   ":9100",
				StatusFile:    "/tmp/status.json",
				LogLevel:      "debug",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				OwnerName: "file-owner",
				Policy:    "dispose",
				Replay:    &trueVal,
			},
			changed: map[string]bool{"owner": true, "replay": true},
			initial: Config{
				OwnerName: "flag-owner",
				Policy:    "defer",
			},
			expected: Config{
				OwnerName: "flag-owner",
				Policy:    "dispose",
				Replay:    false,
			},
		},
		{
			name:       "empty values keep initial",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{Interval: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "returns error for invalid step delay",
			fileConfig: FileConfig{StepDelay: "later"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
owner_name = "screen"
policy = "defer-until-active"
active_state = "Resumed"
replay = false
interval = "5s"
count = 7
script = "create,start"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.OwnerName != "screen" {
		t.Errorf("OwnerName = %v, want screen", fc.OwnerName)
	}
	if fc.ActiveState != "Resumed" {
		t.Errorf("ActiveState = %v, want Resumed", fc.ActiveState)
	}
	if fc.Interval != "5s" {
		t.Errorf("Interval = %v, want 5s", fc.Interval)
	}
	if fc.Count != 7 {
		t.Errorf("Count = %v, want 7", fc.Count)
	}
	if fc.Replay == nil || *fc.Replay {
		t.Errorf("Replay = %v, want false", fc.Replay)
	}
	if fc.Script != "create,start" {
		t.Errorf("Script = %v, want create,start", fc.Script)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
owner_name = "main"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".lifebind") {
		t.Errorf("DefaultConfigPath() = %v, should contain .lifebind", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
