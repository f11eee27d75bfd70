package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setBaseEnv pins the env-sourced values tests depend on. JWT_SECRET is set
// so loading never touches the secret file path.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_PASSWORD", "test-password")
	t.Setenv("FLEETSRP_CONFIG_FILE", "")
	t.Setenv("NOTIFIERS", "")
	t.Setenv("LOSS_VALUE_FIELD", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("OUTBOUND_TIMEOUT_SECONDS", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.HTTPPort)
	}
	if cfg.LossValueField != "totalValue" {
		t.Errorf("expected default value field totalValue, got %q", cfg.LossValueField)
	}
	if cfg.OutboundTimeout != 30*time.Second {
		t.Errorf("expected 30s outbound timeout, got %v", cfg.OutboundTimeout)
	}
	if len(cfg.KillboardHosts) == 0 {
		t.Error("expected default killboard hosts")
	}
	if len(cfg.Notifiers) != 0 {
		t.Errorf("expected no notifiers by default, got %v", cfg.Notifiers)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected env JWT secret, got %q", cfg.JWTSecret)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOSS_VALUE_FIELD", "fittedValue")
	t.Setenv("NOTIFIERS", "discord, slack")
	t.Setenv("KILLBOARD_BASE_URL", "https://zkillboard.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.LossValueField != "fittedValue" {
		t.Errorf("expected fittedValue, got %q", cfg.LossValueField)
	}
	if len(cfg.Notifiers) != 2 || cfg.Notifiers[0] != "discord" || cfg.Notifiers[1] != "slack" {
		t.Errorf("expected ordered notifier list, got %v", cfg.Notifiers)
	}
	if cfg.KillboardBaseURL != "https://zkillboard.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.KillboardBaseURL)
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := `
killboard_hosts:
  - zkillboard.com
  - kb.example.org
notifiers:
  - slack
loss_value_field: destroyedValue
`
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatalf("failed to write overlay: %v", err)
	}
	t.Setenv("FLEETSRP_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.KillboardHosts) != 2 || cfg.KillboardHosts[1] != "kb.example.org" {
		t.Errorf("expected overlay hosts, got %v", cfg.KillboardHosts)
	}
	if len(cfg.Notifiers) != 1 || cfg.Notifiers[0] != "slack" {
		t.Errorf("expected overlay notifiers, got %v", cfg.Notifiers)
	}
	if cfg.LossValueField != "destroyedValue" {
		t.Errorf("expected overlay value field, got %q", cfg.LossValueField)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOSS_VALUE_FIELD", "bogusValue")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown value field")
	}

	setBaseEnv(t)
	t.Setenv("NOTIFIERS", "telegram")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown notifier")
	}

	setBaseEnv(t)
	t.Setenv("FLEETSRP_CONFIG_FILE", "/nonexistent/path.yaml")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing overlay file")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"discord", 1},
		{"discord,slack", 2},
		{" discord , slack , ", 2},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); len(got) != tt.want {
			t.Errorf("splitList(%q) = %v, want %d entries", tt.in, got, tt.want)
		}
	}
}
