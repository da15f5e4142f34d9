package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.RequestDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", cfg.RequestDelay)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info, got %s", cfg.LogLevel)
	}
	if len(cfg.DefaultLanguages) != 0 {
		t.Errorf("expected no default languages, got %v", cfg.DefaultLanguages)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_TIMEOUT", "10s")
	t.Setenv("REQUEST_DELAY", "2s")
	t.Setenv("DEFAULT_LANGUAGES", "en, es ,de")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DIR", "/tmp/yt-transcript-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.HTTPTimeout)
	}
	if cfg.RequestDelay != 2*time.Second {
		t.Errorf("expected 2s, got %s", cfg.RequestDelay)
	}
	want := []string{"en", "es", "de"}
	if len(cfg.DefaultLanguages) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.DefaultLanguages)
	}
	for i := range want {
		if cfg.DefaultLanguages[i] != want[i] {
			t.Errorf("language %d = %q, want %q", i, cfg.DefaultLanguages[i], want[i])
		}
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("http_timeout: 5s\nrequest_delay: 1s\ndefault_languages: [en, fr]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.HTTPTimeout)
	}
	if len(cfg.DefaultLanguages) != 2 || cfg.DefaultLanguages[1] != "fr" {
		t.Errorf("languages = %v", cfg.DefaultLanguages)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_timeout: 5s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_TIMEOUT", "42s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPTimeout != 42*time.Second {
		t.Errorf("expected env to win with 42s, got %s", cfg.HTTPTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{HTTPTimeout: time.Second}, false},
		{"zero timeout", Config{HTTPTimeout: 0}, true},
		{"negative delay", Config{HTTPTimeout: time.Second, RequestDelay: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "HTTP_TIMEOUT", "REQUEST_DELAY", "USER_AGENT",
		"DEFAULT_LANGUAGES", "LOG_DIR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
