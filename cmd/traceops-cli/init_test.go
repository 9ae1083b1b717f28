package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func readInitConfig(t *testing.T, home string) profilesFile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, ".traceops", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg profilesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	return cfg
}

func TestWriteConfigCreatesProfile(t *testing.T) {
	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	path, err := writeConfig("default", "http://localhost:4040", "sk-test")
	if err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	if path != filepath.Join(tmp, ".traceops", "config.yaml") {
		t.Errorf("unexpected path %q", path)
	}

	cfg := readInitConfig(t, tmp)
	if cfg.ActiveProfile != "default" {
		t.Errorf("active_profile = %q, want default", cfg.ActiveProfile)
	}
	p, ok := cfg.Profiles["default"]
	if !ok {
		t.Fatal("default profile missing")
	}
	if p.URL != "http://localhost:4040" || p.APIKey != "sk-test" {
		t.Errorf("profile = %+v", p)
	}
}

// Re-running init for a second environment must keep the first profile.
func TestWriteConfigMergesProfiles(t *testing.T) {
	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	if _, err := writeConfig("production", "https://ops.example.com", "sk-prod"); err != nil {
		t.Fatalf("writeConfig production: %v", err)
	}
	if _, err := writeConfig("staging", "https://staging.example.com", "sk-stage"); err != nil {
		t.Fatalf("writeConfig staging: %v", err)
	}

	cfg := readInitConfig(t, tmp)
	if cfg.ActiveProfile != "staging" {
		t.Errorf("active_profile = %q, want staging", cfg.ActiveProfile)
	}
	if p := cfg.Profiles["production"]; p.APIKey != "sk-prod" {
		t.Errorf("production profile lost: %+v", p)
	}
	if p := cfg.Profiles["staging"]; p.URL != "https://staging.example.com" {
		t.Errorf("staging profile wrong: %+v", p)
	}
}

func TestWriteConfigUpdatesExistingProfile(t *testing.T) {
	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	if _, err := writeConfig("default", "http://old:4040", "sk-old"); err != nil {
		t.Fatal(err)
	}
	if _, err := writeConfig("default", "http://new:4040", "sk-new"); err != nil {
		t.Fatal(err)
	}

	cfg := readInitConfig(t, tmp)
	if len(cfg.Profiles) != 1 {
		t.Errorf("expected 1 profile, got %d", len(cfg.Profiles))
	}
	if p := cfg.Profiles["default"]; p.URL != "http://new:4040" || p.APIKey != "sk-new" {
		t.Errorf("profile not updated: %+v", p)
	}
}

func TestWriteConfigRejectsCorruptFile(t *testing.T) {
	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)
	writeCLIConfig(t, tmp, "profiles: [not a map")

	if _, err := writeConfig("default", "http://localhost:4040", "sk-test"); err == nil {
		t.Fatal("expected error for corrupt existing config")
	}
}
