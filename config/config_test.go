package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	if s.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", s.Server.Port)
	}
	if s.Server.TickRate != 60 {
		t.Errorf("expected default tick rate 60, got %d", s.Server.TickRate)
	}
	if s.VoxelBudget == 0 || s.MeshBudget == 0 {
		t.Error("expected non-zero default memory budgets")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.Port != Default().Server.Port {
		t.Error("expected default settings when file is missing")
	}
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	yamlBody := "server:\n  port: 9090\n  tickRate: 30\nauth:\n  jwtSecret: test-secret\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Server.Port != 9090 {
		t.Errorf("expected overridden port 9090, got %d", s.Server.Port)
	}
	if s.Server.TickRate != 30 {
		t.Errorf("expected overridden tick rate 30, got %d", s.Server.TickRate)
	}
	if s.Auth.JWTSecret != "test-secret" {
		t.Errorf("expected overridden jwt secret, got %q", s.Auth.JWTSecret)
	}
	// Fields absent from the override file retain their defaults.
	if s.Bandwidth.MaxBytesPerSecond != Default().Bandwidth.MaxBytesPerSecond {
		t.Error("expected bandwidth config to retain default when not overridden")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [this is not a mapping"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
