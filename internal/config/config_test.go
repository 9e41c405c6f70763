package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Content.DataDir != "./data" || cfg.Content.ConfigDir != "./config" {
		t.Fatalf("unexpected content dirs %+v", cfg.Content)
	}
	if cfg.Content.CacheSize != 32 || cfg.Session.CountPolicy != "clamp" {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Content, cfg.Session)
	}
	if cfg.Redis.TTL != 10*time.Minute {
		t.Fatalf("expected 10m redis ttl, got %v", cfg.Redis.TTL)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
env: production
content:
  data_dir: /srv/quiz/data
  cache_size: 8
session:
  count_policy: reject
  seed: 7
redis:
  addr: localhost:6379
  ttl: 1m
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUIZ_CONTENT_CONFIG_DIR", "/etc/quiz")
	t.Setenv("QUIZ_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected env/log level %q %q", cfg.Env, cfg.LogLevel)
	}
	if cfg.Content.DataDir != "/srv/quiz/data" || cfg.Content.ConfigDir != "/etc/quiz" || cfg.Content.CacheSize != 8 {
		t.Fatalf("unexpected content %+v", cfg.Content)
	}
	if cfg.Session.CountPolicy != "reject" || cfg.Session.Seed != 7 {
		t.Fatalf("unexpected session %+v", cfg.Session)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.TTL != time.Minute {
		t.Fatalf("unexpected redis %+v", cfg.Redis)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad policy":     "session:\n  count_policy: truncate\n",
		"bad cache size": "content:\n  cache_size: 0\n",
		"malformed":      "content: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
