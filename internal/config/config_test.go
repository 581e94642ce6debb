package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extension != ".dcm" || cfg.Scope != ScopeFolder || cfg.AgeReference != AgeFromStudy || cfg.SizePrecision != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dicominfo.yaml")
	content := "scope: Tree\nage_reference: today\nsize_precision: 0\nextension: DCM\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scope != ScopeTree {
		t.Errorf("Scope = %q, want %q", cfg.Scope, ScopeTree)
	}
	if cfg.AgeReference != AgeFromToday {
		t.Errorf("AgeReference = %q, want %q", cfg.AgeReference, AgeFromToday)
	}
	if cfg.SizePrecision != 0 {
		t.Errorf("SizePrecision = %d, want 0", cfg.SizePrecision)
	}
	if cfg.Extension != ".DCM" {
		t.Errorf("Extension = %q, want .DCM", cfg.Extension)
	}
	if cfg.ReportTitle == "" {
		t.Error("ReportTitle default lost after load")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"scope", func(c *Config) { c.Scope = "study" }},
		{"age reference", func(c *Config) { c.AgeReference = "birth" }},
		{"size precision", func(c *Config) { c.SizePrecision = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
