package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/cfgviz/pkg/render"
	"github.com/l3aro/cfgviz/pkg/sample"
	"github.com/l3aro/cfgviz/pkg/walker"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for cfgviz
type Config struct {
	// Function is the function to analyze
	Function string `yaml:"function" env:"CFGVIZ_FUNCTION"`

	// Output is the output file; the format's extension is added when missing
	Output string `yaml:"output" env:"CFGVIZ_OUTPUT"`

	// Format is one of dot, json, msgpack
	Format string `yaml:"format" env:"CFGVIZ_FORMAT"`

	// Mode is compat (legacy layout) or join (explicit merge vertices)
	Mode string `yaml:"mode" env:"CFGVIZ_MODE"`

	// Graph layout
	RankDir    string `yaml:"rankdir" env:"CFGVIZ_RANKDIR"`
	LabelWidth int    `yaml:"label_width" env:"CFGVIZ_LABEL_WIDTH"`
	Title      bool   `yaml:"title" env:"CFGVIZ_TITLE"`

	// Expressions walks expression nodes as well as statements
	Expressions bool `yaml:"expressions" env:"CFGVIZ_EXPRESSIONS"`

	// Logging
	Verbose  bool `yaml:"verbose" env:"CFGVIZ_VERBOSE"`
	JSONLogs bool `yaml:"json_logs" env:"CFGVIZ_JSON_LOGS"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Function:    sample.FunctionName,
		Output:      sample.OutputName,
		Format:      string(render.FormatDOT),
		Mode:        string(walker.ModeCompat),
		RankDir:     "LR",
		LabelWidth:  walker.DefaultLabelWidth,
		Title:       false,
		Expressions: false,
		Verbose:     false,
		JSONLogs:    false,
	}
}

// GlobalConfigFilePath returns the global config file path (~/.cfgviz/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cfgviz/config.yaml"
	}
	return filepath.Join(home, ".cfgviz", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.cfgviz/config.yaml)
func ProjectConfigFilePath() string {
	return ".cfgviz/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.cfgviz/config.yaml)
// 3. Global config (~/.cfgviz/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{GlobalConfigFilePath(), ProjectConfigFilePath()} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CFGVIZ_FUNCTION"); v != "" {
		cfg.Function = v
	}
	if v := os.Getenv("CFGVIZ_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("CFGVIZ_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CFGVIZ_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("CFGVIZ_RANKDIR"); v != "" {
		cfg.RankDir = v
	}
	if v := os.Getenv("CFGVIZ_LABEL_WIDTH"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.LabelWidth = i
		}
	}
	if v := os.Getenv("CFGVIZ_TITLE"); v != "" {
		cfg.Title = parseBool(v)
	}
	if v := os.Getenv("CFGVIZ_EXPRESSIONS"); v != "" {
		cfg.Expressions = parseBool(v)
	}
	if v := os.Getenv("CFGVIZ_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("CFGVIZ_JSON_LOGS"); v != "" {
		cfg.JSONLogs = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Function) == "" {
		return fmt.Errorf("function is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output is required")
	}

	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	switch walker.Mode(c.Mode) {
	case walker.ModeCompat, walker.ModeJoin:
		// Valid
	default:
		return fmt.Errorf("invalid mode: %s (must be 'compat' or 'join')", c.Mode)
	}

	switch c.RankDir {
	case "LR", "RL", "TB", "BT":
		// Valid
	default:
		return fmt.Errorf("invalid rankdir: %s (must be LR, RL, TB or BT)", c.RankDir)
	}

	if c.LabelWidth < 10 {
		return fmt.Errorf("label_width must be at least 10")
	}

	return nil
}

// WalkerOptions returns the walker settings described by the config.
func (c *Config) WalkerOptions() walker.Options {
	return walker.Options{
		Mode:       walker.Mode(c.Mode),
		LabelWidth: c.LabelWidth,
	}
}

// RenderOptions returns the renderer settings described by the config.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		RankDir: c.RankDir,
		Title:   c.Title,
	}
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}

// parseBool accepts true/1/yes in any case
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
