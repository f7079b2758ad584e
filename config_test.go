package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Addr != ":28416" || cfg.Locale != "en" || cfg.TTL() != 15*time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadServerConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"locale":"zh","sessionTTL":"90s"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9000")
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("PORT not applied: %s", cfg.Addr)
	}
	if cfg.Locale != "zh" || cfg.TTL() != 90*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.StaticDir != "./static" {
		t.Errorf("absent field lost its default: %q", cfg.StaticDir)
	}
}

func TestLoadServerConfigErrors(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad.json": `{`,
		"ttl.json": `{"sessionTTL":"soon"}`,
		"neg.json": `{"sessionTTL":"-1m"}`,
		"ns.json":  `{"sessionTTL":"1ns"}`,
		"ms.json":  `{"sessionTTL":"999ms"}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadServerConfig(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadServerConfigMinimumTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"sessionTTL":"1s"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.TTL() != time.Second {
		t.Fatalf("unexpected ttl %s", cfg.TTL())
	}
}
