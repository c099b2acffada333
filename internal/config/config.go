// Package config loads and validates service configuration.
// Source priority (highest to lowest):
// 1. Environment variables (GEMINI_API_KEY, COKIE_*)
// 2. YAML config file (COKIE_CONFIG or an explicit path)
// 3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for the service.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `yaml:"addr"`

	// GeminiAPIKey authenticates against the generation service. An empty
	// key disables the chat endpoint but leaves the rest of the service up.
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// SecretKey is the optional session-signing secret kept for parity with
	// earlier deployments. This server sets no cookies, so it is unused.
	SecretKey string `yaml:"secret_key"`

	// Model is the generation model name.
	Model string `yaml:"model"`

	// PersonaFile optionally overrides the embedded persona instruction.
	PersonaFile string `yaml:"persona_file"`

	// GenTimeoutSeconds bounds a single generation call.
	GenTimeoutSeconds int `yaml:"gen_timeout_seconds"`

	// SessionTTLSeconds enables removal of conversations idle longer than
	// this. 0 keeps every conversation for the life of the process.
	SessionTTLSeconds int `yaml:"session_ttl_seconds"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:              ":5001",
		Model:             "gemini-2.5-flash",
		GenTimeoutSeconds: 60,
		SessionTTLSeconds: 0,
	}
}

// Load builds the effective configuration. path selects the YAML file to
// read; when empty, COKIE_CONFIG is consulted, and a missing file is not an
// error. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("COKIE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GenTimeout returns the generation timeout as a duration.
func (c Config) GenTimeout() time.Duration {
	return time.Duration(c.GenTimeoutSeconds) * time.Second
}

// SessionTTL returns the idle-conversation TTL as a duration. Zero means
// retain forever.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// ModelReady reports whether the generation capability is configured.
func (c Config) ModelReady() bool {
	return c.GeminiAPIKey != ""
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("COKIE_ADDR must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("COKIE_MODEL must not be empty")
	}
	if c.GenTimeoutSeconds <= 0 {
		return fmt.Errorf("COKIE_GEN_TIMEOUT_SECONDS must be positive, got %d", c.GenTimeoutSeconds)
	}
	if c.SessionTTLSeconds < 0 {
		return fmt.Errorf("COKIE_SESSION_TTL_SECONDS must not be negative, got %d", c.SessionTTLSeconds)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = envOrDefault("COKIE_ADDR", cfg.Addr)
	cfg.GeminiAPIKey = envOrDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.SecretKey = envOrDefault("COKIE_SECRET_KEY", cfg.SecretKey)
	cfg.Model = envOrDefault("COKIE_MODEL", cfg.Model)
	cfg.PersonaFile = envOrDefault("COKIE_PERSONA_FILE", cfg.PersonaFile)
	cfg.GenTimeoutSeconds = envIntOrDefault("COKIE_GEN_TIMEOUT_SECONDS", cfg.GenTimeoutSeconds)
	cfg.SessionTTLSeconds = envIntOrDefault("COKIE_SESSION_TTL_SECONDS", cfg.SessionTTLSeconds)
	cfg.Debug = envBoolOrDefault("COKIE_DEBUG", cfg.Debug)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
