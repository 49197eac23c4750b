package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDir_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if cfg.Specs.Directory != "specs" || cfg.Specs.Pattern != "**/*.spec" {
		t.Errorf("specs defaults = %+v", cfg.Specs)
	}
	if cfg.Report.Format != "text" || cfg.Report.Color != nil {
		t.Errorf("report defaults = %+v", cfg.Report)
	}
	if cfg.Log.Debug {
		t.Error("debug should default to false")
	}
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), `specs:
  directory: behavioral
  pattern: "*.spec"
report:
  format: json
  color: false
log:
  debug: true
  file: specrun.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Specs.Directory != "behavioral" || cfg.Specs.Pattern != "*.spec" {
		t.Errorf("specs = %+v", cfg.Specs)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("format = %q", cfg.Report.Format)
	}
	if cfg.Report.Color == nil || *cfg.Report.Color {
		t.Errorf("color = %v, want explicit false", cfg.Report.Color)
	}
	if !cfg.Log.Debug || cfg.Log.File != "specrun.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "report:\n  format: json\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("format = %q", cfg.Report.Format)
	}
	if cfg.Specs.Directory != "specs" {
		t.Errorf("directory = %q, want default", cfg.Specs.Directory)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Specs.Pattern != "**/*.spec" {
		t.Errorf("pattern = %q, want default", cfg.Specs.Pattern)
	}
}

func TestLoad_Rejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown section", "surprise:\n  key: value\n"},
		{"bad format value", "report:\n  format: xml\n"},
		{"wrong type", "specs:\n  directory: 7\n"},
		{"broken yaml", "specs: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), tt.content)
			if _, err := Load(path); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
