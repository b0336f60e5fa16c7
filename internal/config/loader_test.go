package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes config content to .romple/config.yaml under dir.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_NotFound(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() should fail for missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want mention of not found", err.Error())
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
database:
  path: /tmp/test.db
scan:
  chunk_size_mb: 16
  workers: 2
match:
  threshold: 0.8
  max_candidates: 3
organize:
  broken_folder: _broken
  auto_create_folders: false
  duplicates: move_extra
filter:
  show_beta: false
  region_priority: [Japan, USA]
systems:
  "Nintendo - NES":
    rom_folders:
      - /roms/nes
ignored_crcs:
  - deadbeef
`)

	loader := NewLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want /tmp/test.db", cfg.Database.Path)
	}
	if cfg.Scan.ChunkSizeMB != 16 {
		t.Errorf("ChunkSizeMB = %d, want 16", cfg.Scan.ChunkSizeMB)
	}
	if cfg.Scan.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Scan.Workers)
	}
	if cfg.Match.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", cfg.Match.Threshold)
	}
	if cfg.Match.MaxCandidates != 3 {
		t.Errorf("MaxCandidates = %d, want 3", cfg.Match.MaxCandidates)
	}
	if cfg.Organize.BrokenFolder != "_broken" {
		t.Errorf("BrokenFolder = %q, want _broken", cfg.Organize.BrokenFolder)
	}
	if cfg.Organize.AutoCreateFolders {
		t.Error("AutoCreateFolders = true, want false")
	}
	if cfg.Organize.Duplicates != DuplicateMoveExtra {
		t.Errorf("Duplicates = %q, want move_extra", cfg.Organize.Duplicates)
	}
	if cfg.Filter.ShowBeta {
		t.Error("ShowBeta = true, want false")
	}
	if got := cfg.Filter.RegionPriority; len(got) != 2 || got[0] != "Japan" {
		t.Errorf("RegionPriority = %v, want [Japan USA]", got)
	}
	if got := cfg.ROMFolders("Nintendo - NES"); len(got) != 1 || got[0] != "/roms/nes" {
		t.Errorf("ROMFolders = %v, want [/roms/nes]", got)
	}
	if got := cfg.IgnoredCRCs; len(got) != 1 || got[0] != "deadbeef" {
		t.Errorf("IgnoredCRCs = %v, want [deadbeef]", got)
	}

	// Unset fields fall back to defaults
	if cfg.Organize.ExtraFolder != "_extra" {
		t.Errorf("ExtraFolder = %q, want default _extra", cfg.Organize.ExtraFolder)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
match:
  threshold: 3.0
`)

	loader := NewLoader()
	_, err := loader.LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() should fail validation")
	}
	if !strings.Contains(err.Error(), "match.threshold") {
		t.Errorf("error = %q, want mention of match.threshold", err.Error())
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
scan:
  workers: 2
`)

	t.Setenv("ROMPLE_SCAN_WORKERS", "6")
	t.Setenv("ROMPLE_DATABASE_PATH", "/env/romple.db")

	loader := NewLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scan.Workers != 6 {
		t.Errorf("Workers = %d, want env override 6", cfg.Scan.Workers)
	}
	if cfg.Database.Path != "/env/romple.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Scan.Workers != DefaultScanWorkers {
		t.Errorf("Workers = %d, want default %d", cfg.Scan.Workers, DefaultScanWorkers)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDefault(dir, false)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	// Written config must round-trip through the loader
	loader := NewLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() on written default error = %v", err)
	}
	if cfg.Scan.ChunkSizeMB != DefaultChunkSizeMB {
		t.Errorf("round-trip ChunkSizeMB = %d, want %d", cfg.Scan.ChunkSizeMB, DefaultChunkSizeMB)
	}

	// Second write without force must fail
	if _, err := WriteDefault(dir, false); err == nil {
		t.Error("WriteDefault() should refuse to overwrite without force")
	}

	// Force overwrites
	if _, err := WriteDefault(dir, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		if got := parseBool(tt.in); got != tt.want {
			t.Errorf("parseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
