package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Prefix != "thermometer" {
		t.Errorf("expected default Prefix='thermometer', got %q", cfg.Prefix)
	}
	if cfg.Assets.Deadline != time.Second {
		t.Errorf("expected default deadline of 1s, got %s", cfg.Assets.Deadline)
	}
	if cfg.Assets.Size != 4096 {
		t.Errorf("expected default asset size 4096, got %d", cfg.Assets.Size)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Setenv(TOKEN_ENV, "")
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Prefix != "thermometer" {
		t.Errorf("expected defaults, got prefix %q", cfg.Prefix)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	t.Setenv(TOKEN_ENV, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
token: abc
prefix: thermo
assets:
  deadline: 250ms
pronoundb:
  enabled: false
  restrictions:
    - requests: 3
      duration: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "abc" || cfg.Prefix != "thermo" {
		t.Errorf("unexpected token/prefix: %q %q", cfg.Token, cfg.Prefix)
	}
	if cfg.Assets.Deadline != 250*time.Millisecond {
		t.Errorf("expected deadline 250ms, got %s", cfg.Assets.Deadline)
	}
	if cfg.Assets.Size != 4096 {
		t.Errorf("unset values should keep their default, got size %d", cfg.Assets.Size)
	}
	if cfg.PronounDB.Enabled {
		t.Error("expected pronoundb to be disabled")
	}
	if len(cfg.PronounDB.Restrictions) != 1 || cfg.PronounDB.Restrictions[0].Duration != 2*time.Second {
		t.Errorf("unexpected restrictions: %v", cfg.PronounDB.Restrictions)
	}
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv(TOKEN_ENV, "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("token: from-file\n"), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("expected environment token to win, got %q", cfg.Token)
	}
	if err := cfg.RequireToken(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsInvalid(t *testing.T) {
	t.Setenv(TOKEN_ENV, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(`
prefix: " "
assets:
  deadline: 0s
  size: 1000
`), 0o644)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"prefix", "assets.deadline", "assets.size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestRequireToken(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.RequireToken(); err == nil {
		t.Error("expected an error without token")
	}
}
