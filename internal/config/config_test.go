package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.Backend != BackendREST {
		t.Errorf("expected backend %s, got %s", BackendREST, cfg.Backend)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %s, got %s", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.Timeout)
	}
}

func TestNew_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "backend: googletasks\nbase_url: https://tasks.example.com/\nlist: work\ntimeout: 7s\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendGoogleTasks {
		t.Errorf("expected googletasks backend, got %s", cfg.Backend)
	}
	if cfg.BaseURL != "https://tasks.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.BaseURL)
	}
	if cfg.List != "work" {
		t.Errorf("expected list work, got %s", cfg.List)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("expected 7s timeout, got %v", cfg.Timeout)
	}
}

func TestNew_ConfigFileCannotMovePaths(t *testing.T) {
	dir := t.TempDir()
	content := "dir: /elsewhere\nquiet: true\ndebug: true\nbase_url: http://api.local\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.TokenPath() != filepath.Join(dir, TokenFile) {
		t.Errorf("token path moved to %s", cfg.TokenPath())
	}
	if cfg.Quiet || cfg.Debug {
		t.Errorf("expected flags untouched, got quiet=%v debug=%v", cfg.Quiet, cfg.Debug)
	}
	if cfg.BaseURL != "http://api.local" {
		t.Errorf("expected documented keys still read, got %s", cfg.BaseURL)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("backend: carrier-pigeon\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected config dir: %s", got)
	}
}

func TestSaveLoadToken(t *testing.T) {
	cfg := &Config{Dir: filepath.Join(t.TempDir(), "nested")}

	if cfg.HasToken() {
		t.Fatal("expected no token before save")
	}
	if err := cfg.SaveToken(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	tok, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("expected access token abc, got %q", tok.AccessToken)
	}
}

func TestLoadToken_Empty(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"token_type":"Bearer"}`), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cfg.LoadToken(); err == nil {
		t.Fatal("expected error for token without credentials")
	}
}
