package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxUploadMB != 64 {
		t.Errorf("MaxUploadMB = %d, want 64", cfg.MaxUploadMB)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Errorf("SessionTTLMinutes = %d, want 60", cfg.SessionTTLMinutes)
	}
	if cfg.Preview.Width != 512 || cfg.Preview.Height != 512 {
		t.Errorf("Preview = %+v, want 512x512", cfg.Preview)
	}
}

func TestLoadParsesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "max_upload_mb: 16\npreview:\n  width: 300\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxUploadMB != 16 {
		t.Errorf("MaxUploadMB = %d, want 16", cfg.MaxUploadMB)
	}
	if cfg.Preview.Width != 300 {
		t.Errorf("Preview.Width = %d, want 300", cfg.Preview.Width)
	}
	if cfg.Preview.Height != 512 {
		t.Errorf("Preview.Height = %d, want default 512", cfg.Preview.Height)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\t:::"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid YAML")
	}
}
