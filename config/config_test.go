package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxRunSteps != 1000000 {
		t.Errorf("Expected MaxRunSteps=1000000, got %d", cfg.Execution.MaxRunSteps)
	}
	if cfg.Execution.Epsilon != 1e-10 {
		t.Errorf("Expected Epsilon=1e-10, got %v", cfg.Execution.Epsilon)
	}
	if cfg.Execution.ZeroControlQubitCap != 16 {
		t.Errorf("Expected ZeroControlQubitCap=16, got %d", cfg.Execution.ZeroControlQubitCap)
	}

	if cfg.Diagnostics.MaxErrorCauses != 5 {
		t.Errorf("Expected MaxErrorCauses=5, got %d", cfg.Diagnostics.MaxErrorCauses)
	}
	if !cfg.Diagnostics.IncludeCallersByDefault {
		t.Error("Expected IncludeCallersByDefault=true")
	}

	if cfg.Display.AmplitudeDecimals != 5 {
		t.Errorf("Expected AmplitudeDecimals=5, got %d", cfg.Display.AmplitudeDecimals)
	}
	if cfg.Display.BitstringOrder != "lsb-first" {
		t.Errorf("Expected BitstringOrder=lsb-first, got %s", cfg.Display.BitstringOrder)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "qasm-assert-debugger" && path != "config.toml" {
			t.Errorf("Expected path in qasm-assert-debugger directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxRunSteps = 5000000
	cfg.Execution.Epsilon = 1e-8
	cfg.Diagnostics.MaxMovements = 3
	cfg.Display.BitstringOrder = "msb-first"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Execution.MaxRunSteps != 5000000 {
		t.Errorf("Expected MaxRunSteps=5000000, got %d", loaded.Execution.MaxRunSteps)
	}
	if loaded.Execution.Epsilon != 1e-8 {
		t.Errorf("Expected Epsilon=1e-8, got %v", loaded.Execution.Epsilon)
	}
	if loaded.Diagnostics.MaxMovements != 3 {
		t.Errorf("Expected MaxMovements=3, got %d", loaded.Diagnostics.MaxMovements)
	}
	if loaded.Display.BitstringOrder != "msb-first" {
		t.Errorf("Expected BitstringOrder=msb-first, got %s", loaded.Display.BitstringOrder)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Execution.MaxRunSteps != 1000000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_run_steps = "not a number"  # Invalid: should be uint64
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
