package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all shellkit configuration.
type Config struct {
	Shell   ShellConfig   `yaml:"shell"`
	History HistoryConfig `yaml:"history"`
	Output  OutputConfig  `yaml:"output"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShellConfig configures the literals the controller writes.
type ShellConfig struct {
	Name         string `yaml:"name"`         // session name bound into the namespace
	Banner       string `yaml:"banner"`       // written once before the first prompt
	Prompt       string `yaml:"prompt"`       // primary prompt
	Continuation string `yaml:"continuation"` // echoed while a statement is open
	NoValue      string `yaml:"no_value"`     // result text suppressed on the standard channel
}

// History backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// HistoryConfig configures the command history backing store.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, memory
	Path    string `yaml:"path"`
	Limit   int    `yaml:"limit"` // 0 = unlimited
}

// OutputConfig configures the output channels.
type OutputConfig struct {
	AutoScroll bool   `yaml:"auto_scroll"`
	ErrorColor string `yaml:"error_color"`
}

// EvalConfig configures the embedded Go evaluator.
type EvalConfig struct {
	// Stdlib packages made available to evaluated code. Empty means all.
	AllowedPackages []string `yaml:"allowed_packages"`
}

// LoggingConfig configures the category loggers. Logs go to File and
// never to the display, so a front-end owning the terminal is not
// disturbed.
type LoggingConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // json, console
	File      string `yaml:"file"`   // empty writes to stderr
	DebugMode bool   `yaml:"debug_mode"`
	// Categories switches single categories (boot, shell, eval, history,
	// output, ui) off; unlisted categories follow DebugMode.
	Categories map[string]bool `yaml:"categories"`
}

// IsCategoryEnabled reports whether category logs. Nothing logs unless
// DebugMode is set.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if enabled, listed := c.Categories[category]; listed {
		return enabled
	}
	return true
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			Name:         "__console__",
			Banner:       "Welcome to shellkit :-)",
			Prompt:       ">>> ",
			Continuation: "... ",
			NoValue:      "<nil>",
		},
		History: HistoryConfig{
			Backend: BackendFile,
			Path:    filepath.Join(DefaultDir(), "history"),
		},
		Output: OutputConfig{
			AutoScroll: true,
			ErrorColor: "#cc0000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(DefaultDir(), "shellkit.log"),
		},
	}
}

// DefaultDir returns the per-user shellkit directory (~/.shellkit).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shellkit"
	}
	return filepath.Join(home, ".shellkit")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults, but still honour the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("SHELLKIT_HISTORY"); path != "" {
		c.History.Path = path
	}
	if backend := os.Getenv("SHELLKIT_HISTORY_BACKEND"); backend != "" {
		c.History.Backend = backend
	}
	if limit := os.Getenv("SHELLKIT_HISTORY_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.History.Limit = n
		}
	}
	if prompt := os.Getenv("SHELLKIT_PROMPT"); prompt != "" {
		c.Shell.Prompt = prompt
	}
	if level := os.Getenv("SHELLKIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.DebugMode = true
	}
}

// ValidBackends lists all supported history backends.
var ValidBackends = []string{BackendFile, BackendSQLite, BackendMemory}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidBackends {
		if c.History.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid history backend: %s (valid: %v)", c.History.Backend, ValidBackends)
	}
	if c.History.Backend != BackendMemory && c.History.Path == "" {
		return fmt.Errorf("history backend %s requires a path", c.History.Backend)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history limit must not be negative: %d", c.History.Limit)
	}
	if c.Shell.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	if c.Shell.Continuation == "" {
		return fmt.Errorf("continuation marker must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	if c.Shell.Continuation == c.Shell.Prompt {
		return fmt.Errorf("continuation marker must differ from the prompt (%q)", c.Shell.Prompt)
	}
	return nil
}
