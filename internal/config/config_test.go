package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Loader.KeepMaterials || cfg.Loader.GlobalMaterials {
		t.Error("expected material sharing to be off by default")
	}
	if cfg.Loader.BufferSize != 1024 {
		t.Errorf("expected buffer size 1024, got %d", cfg.Loader.BufferSize)
	}
	if cfg.Transform.MaxDimension != 0 || cfg.Transform.Center {
		t.Error("expected no transform by default")
	}
	if cfg.Export.Format != "glb" {
		t.Errorf("expected export format glb, got %s", cfg.Export.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
loader:
  keep_materials: true
  global_materials: true
  buffer_size: 4096
  shared_materials: shared.mtl

transform:
  max_dimension: 2.5
  center: true
  origin: [1, 2, 3]

logging:
  level: "debug"
  log_file: "objmesh.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Loader.KeepMaterials || !cfg.Loader.GlobalMaterials {
		t.Error("expected material options to be loaded")
	}
	if cfg.Loader.BufferSize != 4096 {
		t.Errorf("expected buffer size 4096, got %d", cfg.Loader.BufferSize)
	}
	if cfg.Loader.SharedMaterials != "shared.mtl" {
		t.Errorf("expected shared.mtl, got %s", cfg.Loader.SharedMaterials)
	}
	if cfg.Transform.MaxDimension != 2.5 || !cfg.Transform.Center {
		t.Errorf("transform = %+v", cfg.Transform)
	}
	if !slices.Equal(cfg.Transform.Origin, []float32{1, 2, 3}) {
		t.Errorf("expected origin [1 2 3], got %v", cfg.Transform.Origin)
	}
	// Untouched sections keep their defaults.
	if cfg.Export.Format != "glb" {
		t.Errorf("expected export format glb, got %s", cfg.Export.Format)
	}
	if cfg.Logging.LogFile != "objmesh.log" {
		t.Errorf("expected log file objmesh.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
transform:
  max_dimension: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objmesh.yaml")
	if err := os.WriteFile(configPath, []byte("transform:\n  max_dimension: 3\nlogging:\n  level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Bind(fs)
	if err := fs.Parse([]string{"--config", configPath, "--debug", "--origin", "1, 0,-1"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(&f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transform.MaxDimension != 3 {
		t.Errorf("expected max dimension from file, got %v", cfg.Transform.MaxDimension)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected --debug to override file level, got %s", cfg.Logging.Level)
	}
	if !cfg.Transform.Center || !slices.Equal(cfg.Transform.Origin, []float32{1, 0, -1}) {
		t.Errorf("expected --origin to enable centering at (1,0,-1), got %+v", cfg.Transform)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	if _, err := Load(&Flags{ConfigPath: "/nonexistent/objmesh.yaml"}); err == nil {
		t.Error("expected error for explicit missing config")
	}

	configPath := filepath.Join(t.TempDir(), "objmesh.yaml")
	if err := os.WriteFile(configPath, []byte("transform:\n  origin: [1, 2]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&Flags{ConfigPath: configPath}); err == nil {
		t.Error("expected error for two-component origin")
	}

	if _, err := Load(&Flags{ConfigPath: "", Origin: "1,2"}); err == nil {
		t.Error("expected error for malformed --origin")
	}
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    []float32
		wantErr bool
	}{
		{"0,0,0", []float32{0, 0, 0}, false},
		{"1.5, -2, 3e1", []float32{1.5, -2, 30}, false},
		{"1,2", nil, true},
		{"a,b,c", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseVec3(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVec3(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("ParseVec3(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Transform.MaxDimension = 7

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Transform.MaxDimension != 7 {
		t.Errorf("expected max dimension 7 after reload, got %v", loaded.Transform.MaxDimension)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}
