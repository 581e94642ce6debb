package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aggregation scopes
const (
	ScopeFolder = "folder"
	ScopeTree   = "tree"
)

// Age reference policies
const (
	AgeFromStudy = "study"
	AgeFromToday = "today"
)

// Config holds scanner and front-end settings.
type Config struct {
	Extension     string `yaml:"extension"`
	Scope         string `yaml:"scope"`
	AgeReference  string `yaml:"age_reference"`
	SizePrecision int    `yaml:"size_precision"`
	LogLevel      string `yaml:"log_level"`
	SkipLogFile   string `yaml:"skip_log_file"`
	ReportTitle   string `yaml:"report_title"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extension:     ".dcm",
		Scope:         ScopeFolder,
		AgeReference:  AgeFromStudy,
		SizePrecision: 2,
		LogLevel:      "info",
		ReportTitle:   "DICOM Patient Report",
	}
}

// Load reads a YAML config file on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks the configuration values.
func (c *Config) Validate() error {
	c.Extension = strings.TrimSpace(c.Extension)
	if c.Extension == "" {
		c.Extension = ".dcm"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}

	c.Scope = strings.ToLower(strings.TrimSpace(c.Scope))
	switch c.Scope {
	case "":
		c.Scope = ScopeFolder
	case ScopeFolder, ScopeTree:
	default:
		return fmt.Errorf("invalid scope %q (want %q or %q)", c.Scope, ScopeFolder, ScopeTree)
	}

	c.AgeReference = strings.ToLower(strings.TrimSpace(c.AgeReference))
	switch c.AgeReference {
	case "":
		c.AgeReference = AgeFromStudy
	case AgeFromStudy, AgeFromToday:
	default:
		return fmt.Errorf("invalid age_reference %q (want %q or %q)", c.AgeReference, AgeFromStudy, AgeFromToday)
	}

	if c.SizePrecision != 0 && c.SizePrecision != 2 {
		return fmt.Errorf("invalid size_precision %d (want 0 or 2)", c.SizePrecision)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}
