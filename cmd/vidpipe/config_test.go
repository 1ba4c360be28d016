package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigDefaults tests that unset fields pick up defaults.
func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("input: in.vps\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Input != "in.vps" {
		t.Errorf("Input = %q, want %q", cfg.Input, "in.vps")
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("geometry = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.AsyncDepth != 4 {
		t.Errorf("AsyncDepth = %d, want 4", cfg.AsyncDepth)
	}
}

// TestLoadConfigRejectsUnknownFields tests strict decoding.
func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("input: in.vps\nbogus: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown field should fail")
	}
}

// TestValidate tests required fields.
func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()
	if err := cfg.validate(); err == nil {
		t.Error("missing input should fail")
	}
	cfg.Input = "in.vps"
	if err := cfg.validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}
