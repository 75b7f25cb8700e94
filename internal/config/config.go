// Package config loads the assistant's YAML configuration: model endpoint,
// classification thresholds, safe-mode parameters, budget, alerting, and
// storage locations.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codewithyash28/Partner-AI-Assistant/internal/alert"
	"github.com/codewithyash28/Partner-AI-Assistant/internal/incident"
)

// ModelConfig describes the hosted-LLM endpoint.
type ModelConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	TimeoutS  int    `yaml:"timeout_s"`
}

// APIKey resolves the key from the configured environment variable.
func (m ModelConfig) APIKey() string {
	if m.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(m.APIKeyEnv)
}

// Timeout returns the call timeout as a duration.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutS) * time.Second
}

// SafeModeConfig holds the circuit-breaker parameters.
type SafeModeConfig struct {
	IncidentThreshold int   `yaml:"incident_threshold"`
	CooldownMs        int64 `yaml:"cooldown_ms"`
}

// Cooldown returns the lockdown window as a duration.
func (s SafeModeConfig) Cooldown() time.Duration {
	return time.Duration(s.CooldownMs) * time.Millisecond
}

// BudgetConfig caps per-session spend. Zero means unlimited.
type BudgetConfig struct {
	MaxCostUSD float64 `yaml:"max_cost_usd"`
}

// StorageConfig locates the on-disk state.
type StorageConfig struct {
	Dir          string `yaml:"dir"`
	AuditLogPath string `yaml:"audit_log"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root configuration document.
type Config struct {
	Model      ModelConfig          `yaml:"model"`
	Thresholds incident.Thresholds  `yaml:"thresholds"`
	SafeMode   SafeModeConfig       `yaml:"safe_mode"`
	Budget     BudgetConfig         `yaml:"budget"`
	Alerts     []alert.AlertConfig  `yaml:"alerts"`
	Storage    StorageConfig        `yaml:"storage"`
	Server     ServerConfig         `yaml:"server"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dir := defaultDir()
	return &Config{
		Model: ModelConfig{
			APIURL:    "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
			APIKeyEnv: "PARTNERAI_API_KEY",
			Model:     "gemini-3-flash-preview",
			MaxTokens: 1200,
			TimeoutS:  60,
		},
		Thresholds: incident.DefaultThresholds(),
		SafeMode: SafeModeConfig{
			IncidentThreshold: 3,
			CooldownMs:        30_000,
		},
		Storage: StorageConfig{
			Dir:          filepath.Join(dir, "state"),
			AuditLogPath: filepath.Join(dir, "audit.jsonl"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".partnerai"
	}
	return filepath.Join(home, ".partnerai")
}

// DefaultPath is the config file location used when no path is given.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

// LoadConfig loads configuration from a YAML file. Empty path falls back
// to ~/.partnerai/config.yaml. Missing file returns defaults. Invalid
// YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads configuration and returns the SHA-256 hash of
// the raw YAML bytes on disk. When no file exists (defaults used), the
// hash is the SHA-256 of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return DefaultConfig(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults, YAML overwrites only specified fields.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, hash, nil
}
