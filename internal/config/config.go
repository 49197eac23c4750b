// Package config loads the optional .specrun.yaml runner configuration.
// A missing file is not an error; every field has a documented default.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	specerrors "specrun/internal/errors"
	"specrun/internal/schema"
)

// FileName is the configuration filename looked up in the working
// directory.
const FileName = ".specrun.yaml"

// SpecsConfig controls spec discovery.
type SpecsConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	Pattern   string `yaml:"pattern" json:"pattern"`
}

// ReportConfig controls result rendering.
type ReportConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  *bool  `yaml:"color,omitempty" json:"color,omitempty"` // nil means auto-detect
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Debug bool   `yaml:"debug" json:"debug"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Config is the full runner configuration.
type Config struct {
	Specs  SpecsConfig  `yaml:"specs" json:"specs"`
	Report ReportConfig `yaml:"report" json:"report"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Specs:  SpecsConfig{Directory: "specs", Pattern: "**/*.spec"},
		Report: ReportConfig{Format: "text"},
	}
}

// Load reads, validates, and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, specerrors.Configf("cannot read config file %s: %v", path, err)
	}

	// Schema validation runs on the JSON projection of the YAML document so
	// unknown keys and wrong value types are reported before decoding.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, specerrors.Configf("invalid YAML in %s: %v", path, err)
	}
	if raw != nil {
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, specerrors.Configf("cannot encode config %s: %v", path, err)
		}
		if err := schema.ValidateConfig(jsonData); err != nil {
			return nil, specerrors.Configf("%s: %v", path, err)
		}
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, specerrors.Configf("cannot decode config %s: %v", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadDir loads the configuration from dir, falling back to defaults when
// no file is present.
func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, specerrors.Configf("cannot stat config file %s: %v", path, err)
	}
	return Load(path)
}

// applyDefaults fills fields an explicit file left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Specs.Directory == "" {
		cfg.Specs.Directory = def.Specs.Directory
	}
	if cfg.Specs.Pattern == "" {
		cfg.Specs.Pattern = def.Specs.Pattern
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = def.Report.Format
	}
}
