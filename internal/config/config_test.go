package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Model != "gemini-3-flash-preview" {
		t.Errorf("model = %q", cfg.Model.Model)
	}
	if cfg.Model.APIKeyEnv != "PARTNERAI_API_KEY" {
		t.Errorf("api key env = %q", cfg.Model.APIKeyEnv)
	}
	if cfg.Thresholds.LatencyMs != 2500 {
		t.Errorf("latency threshold = %d", cfg.Thresholds.LatencyMs)
	}
	if cfg.SafeMode.IncidentThreshold != 3 {
		t.Errorf("incident threshold = %d", cfg.SafeMode.IncidentThreshold)
	}
	if got := cfg.SafeMode.Cooldown(); got != 30*time.Second {
		t.Errorf("cooldown = %v, want 30s", got)
	}
	if cfg.Budget.MaxCostUSD != 0 {
		t.Errorf("budget should default to unlimited, got %v", cfg.Budget.MaxCostUSD)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, hash, err := LoadConfigWithHash(path)
	if err != nil {
		t.Fatalf("LoadConfigWithHash: %v", err)
	}
	if cfg.Model.Model != DefaultConfig().Model.Model {
		t.Error("missing file should yield defaults")
	}
	// SHA-256 of empty input.
	if hash != "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("hash = %q", hash)
	}
}

func TestLoadConfigOverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "thresholds:\n  latency_ms: 1000\nsafe_mode:\n  cooldown_ms: 60000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, hash, err := LoadConfigWithHash(path)
	if err != nil {
		t.Fatalf("LoadConfigWithHash: %v", err)
	}
	if cfg.Thresholds.LatencyMs != 1000 {
		t.Errorf("latency = %d, want 1000", cfg.Thresholds.LatencyMs)
	}
	if cfg.SafeMode.CooldownMs != 60000 {
		t.Errorf("cooldown = %d, want 60000", cfg.SafeMode.CooldownMs)
	}
	// Unspecified fields keep defaults.
	if cfg.Thresholds.Drift != 0.12 {
		t.Errorf("drift = %v, want default 0.12", cfg.Thresholds.Drift)
	}
	if cfg.Model.Model != "gemini-3-flash-preview" {
		t.Errorf("model = %q, want default", cfg.Model.Model)
	}
	if hash == "" || hash[:7] != "sha256:" {
		t.Errorf("hash = %q", hash)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("PARTNERAI_TEST_KEY", "sk-test")
	m := ModelConfig{APIKeyEnv: "PARTNERAI_TEST_KEY"}
	if got := m.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q", got)
	}
	if got := (ModelConfig{}).APIKey(); got != "" {
		t.Errorf("empty env name should yield empty key, got %q", got)
	}
}
