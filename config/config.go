// Package config implements the debugger's TOML-backed configuration file,
// following the teacher's config.Config almost exactly: a tagged struct,
// platform-specific path helpers, and Load/Save round-tripping through
// github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the debugger's configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxRunSteps         uint64  `toml:"max_run_steps"`
		HistoryLimit        int     `toml:"history_limit"`
		Epsilon             float64 `toml:"epsilon"`
		ZeroControlQubitCap int     `toml:"zero_control_qubit_cap"`
	} `toml:"execution"`

	// Diagnostics settings
	Diagnostics struct {
		MaxErrorCauses          int  `toml:"max_error_causes"`
		MaxMovements            int  `toml:"max_movements"`
		MaxNewAssertions        int  `toml:"max_new_assertions"`
		IncludeCallersByDefault bool `toml:"include_callers_by_default"`
	} `toml:"diagnostics"`

	// Display settings
	Display struct {
		AmplitudeDecimals int    `toml:"amplitude_decimals"`
		BitstringOrder    string `toml:"bitstring_order"` // "lsb-first" or "msb-first"
		ShowSource        bool   `toml:"show_source"`
	} `toml:"display"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxRunSteps = 1000000
	cfg.Execution.HistoryLimit = 0 // 0 means unbounded
	cfg.Execution.Epsilon = 1e-10
	cfg.Execution.ZeroControlQubitCap = 16

	cfg.Diagnostics.MaxErrorCauses = 5
	cfg.Diagnostics.MaxMovements = 0 // 0 means "all"
	cfg.Diagnostics.MaxNewAssertions = 0
	cfg.Diagnostics.IncludeCallersByDefault = true

	cfg.Display.AmplitudeDecimals = 5
	cfg.Display.BitstringOrder = "lsb-first"
	cfg.Display.ShowSource = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\qasm-assert-debugger\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "qasm-assert-debugger")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/qasm-assert-debugger/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "qasm-assert-debugger")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "qasm-assert-debugger", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "qasm-assert-debugger", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the defaults are returned instead.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
