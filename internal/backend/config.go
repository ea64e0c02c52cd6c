package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CallClass groups operations by their failure semantics. Creation and
// payment calls are never retried automatically (no idempotency key
// exists on the observed contract); reads and the best-effort calls are
// safe to retry a bounded number of times.
type CallClass string

const (
	ClassCreate  CallClass = "create"
	ClassRead    CallClass = "read"
	ClassSoft    CallClass = "soft"
	ClassPayment CallClass = "payment"
)

// ClassConfig holds the timeout and retry budget of one call class.
type ClassConfig struct {
	TimeoutMs  int `yaml:"timeout_ms"`
	MaxRetries int `yaml:"max_retries"`
}

// Config holds all configuration for the collaborator API client.
type Config struct {
	BaseURL  string                    `yaml:"base_url"`
	LogCalls bool                      `yaml:"log_calls"`
	Classes  map[CallClass]ClassConfig `yaml:"classes"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "http://localhost:8980",
		LogCalls: false,
		Classes: map[CallClass]ClassConfig{
			ClassCreate:  {TimeoutMs: 15000, MaxRetries: 0},
			ClassRead:    {TimeoutMs: 8000, MaxRetries: 2},
			ClassSoft:    {TimeoutMs: 5000, MaxRetries: 2},
			ClassPayment: {TimeoutMs: 15000, MaxRetries: 0},
		},
	}
}

// LoadConfig layers configuration: defaults, then the optional YAML file
// at ~/.accord/config.yaml (or $ACCORD_CONFIG), then ACCORD_* environment
// variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("ACCORD_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".accord", "config.yaml")
		}
	}
	if path != "" {
		if err := applyConfigFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("ACCORD_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ACCORD_API_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	applyClassEnv(&cfg, ClassCreate, "ACCORD_API_CREATE_TIMEOUT_MS")
	applyClassEnv(&cfg, ClassRead, "ACCORD_API_READ_TIMEOUT_MS")
	applyClassEnv(&cfg, ClassSoft, "ACCORD_API_SOFT_TIMEOUT_MS")
	applyClassEnv(&cfg, ClassPayment, "ACCORD_API_PAYMENT_TIMEOUT_MS")

	return cfg, nil
}

func applyConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.LogCalls {
		cfg.LogCalls = true
	}
	for class, cc := range file.Classes {
		merged := cfg.Classes[class]
		if cc.TimeoutMs > 0 {
			merged.TimeoutMs = cc.TimeoutMs
		}
		if cc.MaxRetries > 0 {
			merged.MaxRetries = cc.MaxRetries
		}
		cfg.Classes[class] = merged
	}
	return nil
}

func applyClassEnv(cfg *Config, class CallClass, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	cc := cfg.Classes[class]
	cc.TimeoutMs = n
	cfg.Classes[class] = cc
}

// ClassTimeout returns the effective timeout for a call class.
func (c Config) ClassTimeout(class CallClass) int {
	if cc, ok := c.Classes[class]; ok && cc.TimeoutMs > 0 {
		return cc.TimeoutMs
	}
	return 10000
}

// ClassRetries returns the retry budget for a call class.
func (c Config) ClassRetries(class CallClass) int {
	if cc, ok := c.Classes[class]; ok && cc.MaxRetries > 0 {
		return cc.MaxRetries
	}
	return 0
}
