package main

import (
	"path/filepath"
	"testing"
)

func TestSameDatabase(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"sqlite://./a.db", "sqlite://a.db", true},
		{"sqlite://./a.db", "sqlite://./dir/../a.db", true},
		{"sqlite://./a.db", "sqlite://./b.db", false},
		{"sqlite://:memory:", "sqlite://:memory:", false},
		{"postgres://localhost/x", "postgres://localhost/x", true},
		{"postgres://localhost/x", "sqlite://./x.db", false},
	}
	for _, tt := range tests {
		if got := sameDatabase(tt.a, tt.b); got != tt.same {
			t.Errorf("sameDatabase(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	configPath, dsnFlag = defaultConfigPath, ""
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Database.DSN != "sqlite://./CollectedResults.db" {
		t.Fatalf("unexpected dsn %q", cfg.Database.DSN)
	}

	dsnFlag = "sqlite://./other.db"
	t.Cleanup(func() { dsnFlag = "" })
	cfg, err = loadConfig()
	if err != nil || cfg.Database.DSN != dsnFlag {
		t.Fatalf("expected --dsn override, got %v, %v", cfg, err)
	}

	configPath = filepath.Join(dir, "missing.yaml")
	t.Cleanup(func() { configPath = defaultConfigPath })
	if _, err := loadConfig(); err == nil {
		t.Fatalf("expected error for an explicit missing config")
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ebecollect.yaml")
	if err := runInit(path, "./runs", "fromPureHydro"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := runInit(path, "./runs", "fromPureHydro"); err == nil {
		t.Fatalf("expected error when the file exists")
	}

	configPath = path
	t.Cleanup(func() { configPath = defaultConfigPath })
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Collect.Root != "./runs" || cfg.Collect.Mode != "fromPureHydro" {
		t.Fatalf("unexpected config %+v", cfg.Collect)
	}
}
