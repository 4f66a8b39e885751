package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, "napd.yaml", "addr: \":7979\"\nbackend: sim\ncors_enabled: true\ncors_origins: [\"*\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7979" || cfg.Backend != "sim" || !cfg.CORSEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
}

func TestLoadJSON(t *testing.T) {
	p := writeFile(t, "napd.json", `{"addr":":7979","event_queue_size":64}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7979" || cfg.EventQueueSize != 64 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, "napd.toml", "addr = \":7979\"\nlog_level = \"debug\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7979" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "napd.ini", "addr=:7979")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestApplyEnvOverlays(t *testing.T) {
	cfg := Config{Addr: ":7979", LogLevel: "info"}
	t.Setenv("NAPD_LOG_LEVEL", "debug")
	t.Setenv("NAPD_CORS_ORIGINS", "https://a.example,https://b.example")
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level=%q", cfg.LogLevel)
	}
	// Unset variables leave file/flag values alone.
	if cfg.Addr != ":7979" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
}
