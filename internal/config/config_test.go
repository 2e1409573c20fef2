package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Function", cfg.Function, "analyze_user_behavior"},
		{"Output", cfg.Output, "user_behavior_cfg_ast"},
		{"Format", cfg.Format, "dot"},
		{"Mode", cfg.Mode, "compat"},
		{"RankDir", cfg.RankDir, "LR"},
		{"LabelWidth", cfg.LabelWidth, 70},
		{"Title", cfg.Title, false},
		{"Expressions", cfg.Expressions, false},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "join mode msgpack",
			mutate: func(c *Config) { c.Mode = "join"; c.Format = "msgpack" },
		},
		{
			name:   "format is case insensitive",
			mutate: func(c *Config) { c.Format = "JSON" },
		},
		{
			name:        "empty function",
			mutate:      func(c *Config) { c.Function = "  " },
			wantErr:     true,
			errContains: "function is required",
		},
		{
			name:        "empty output",
			mutate:      func(c *Config) { c.Output = "" },
			wantErr:     true,
			errContains: "output is required",
		},
		{
			name:        "unknown format",
			mutate:      func(c *Config) { c.Format = "svg" },
			wantErr:     true,
			errContains: "invalid format",
		},
		{
			name:        "unknown mode",
			mutate:      func(c *Config) { c.Mode = "exact" },
			wantErr:     true,
			errContains: "invalid mode: exact",
		},
		{
			name:        "unknown rankdir",
			mutate:      func(c *Config) { c.RankDir = "XY" },
			wantErr:     true,
			errContains: "invalid rankdir",
		},
		{
			name:        "label width too small",
			mutate:      func(c *Config) { c.LabelWidth = 5 },
			wantErr:     true,
			errContains: "label_width must be at least 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		envVars     map[string]string
		checkCfg    func(*testing.T, *Config)
		wantErr     bool
		errContains string
	}{
		{
			name: "load valid config from file",
			configYAML: `
function: score
output: out/score_cfg
format: json
mode: join
rankdir: TB
label_width: 40
title: true
expressions: true
verbose: true
`,
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.Function != "score" {
					t.Errorf("Function = %v, want score", cfg.Function)
				}
				if cfg.Output != "out/score_cfg" {
					t.Errorf("Output = %v, want out/score_cfg", cfg.Output)
				}
				if cfg.Format != "json" {
					t.Errorf("Format = %v, want json", cfg.Format)
				}
				if cfg.Mode != "join" {
					t.Errorf("Mode = %v, want join", cfg.Mode)
				}
				if cfg.RankDir != "TB" {
					t.Errorf("RankDir = %v, want TB", cfg.RankDir)
				}
				if cfg.LabelWidth != 40 {
					t.Errorf("LabelWidth = %v, want 40", cfg.LabelWidth)
				}
				if !cfg.Title || !cfg.Expressions || !cfg.Verbose {
					t.Errorf("Title/Expressions/Verbose = %v/%v/%v, want all true", cfg.Title, cfg.Expressions, cfg.Verbose)
				}
			},
		},
		{
			name:       "partial config keeps defaults",
			configYAML: "mode: join\n",
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.Mode != "join" {
					t.Errorf("Mode = %v, want join", cfg.Mode)
				}
				if cfg.Function != "analyze_user_behavior" {
					t.Errorf("Function = %v, want default", cfg.Function)
				}
				if cfg.LabelWidth != 70 {
					t.Errorf("LabelWidth = %v, want 70", cfg.LabelWidth)
				}
			},
		},
		{
			name:       "env overrides file",
			configYAML: "format: json\n",
			envVars: map[string]string{
				"CFGVIZ_FORMAT": "msgpack",
			},
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.Format != "msgpack" {
					t.Errorf("Format = %v, want msgpack", cfg.Format)
				}
			},
		},
		{
			name:        "invalid mode",
			configYAML:  "mode: precise\n",
			wantErr:     true,
			errContains: "invalid mode",
		},
		{
			name:        "invalid yaml",
			configYAML:  "mode: [join\n",
			wantErr:     true,
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.configYAML), 0644); err != nil {
				t.Fatalf("writing config: %v", err)
			}

			cfg, err := LoadFromFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromFile() failed: %v", err)
			}
			tt.checkCfg(t, cfg)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("LoadFromFile(missing) error = %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(*testing.T, *Config)
	}{
		{
			name:    "override function",
			envVars: map[string]string{"CFGVIZ_FUNCTION": "other"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Function != "other" {
					t.Errorf("Function = %v, want other", cfg.Function)
				}
			},
		},
		{
			name:    "override mode and rankdir",
			envVars: map[string]string{"CFGVIZ_MODE": "join", "CFGVIZ_RANKDIR": "TB"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Mode != "join" || cfg.RankDir != "TB" {
					t.Errorf("Mode/RankDir = %v/%v, want join/TB", cfg.Mode, cfg.RankDir)
				}
			},
		},
		{
			name:    "invalid label width is ignored",
			envVars: map[string]string{"CFGVIZ_LABEL_WIDTH": "wide"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.LabelWidth != 70 {
					t.Errorf("LabelWidth = %v, want 70", cfg.LabelWidth)
				}
			},
		},
		{
			name:    "boolean flags",
			envVars: map[string]string{"CFGVIZ_EXPRESSIONS": "yes", "CFGVIZ_VERBOSE": "1", "CFGVIZ_TITLE": "false"},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Expressions || !cfg.Verbose || cfg.Title {
					t.Errorf("Expressions/Verbose/Title = %v/%v/%v", cfg.Expressions, cfg.Verbose, cfg.Title)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 0},
		{"70", 70},
		{"invalid", 0},
		{"", 0},
		{"abc123", 0},
		{"10.5", 10},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseInt(tt.input)
			if result != tt.expected {
				t.Errorf("parseInt(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConfigSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dirs", "config.yaml")

	cfg := DefaultConfig()
	cfg.Mode = "join"
	cfg.Format = "json"
	cfg.LabelWidth = 50

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if *loadedCfg != *cfg {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loadedCfg, cfg)
	}
}
