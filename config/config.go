// Package config loads sqlite2jsonl settings from an optional HCL file,
// environment variables (optionally from a .env file) and CLI flags.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"sqlite2jsonl/dbexport"
)

// createFile is swapped in tests.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// DefaultFile is looked up in the working directory when no config path is given.
const DefaultFile = "sqlite2jsonl.hcl"

// Config represents the application configuration.
type Config struct {
	Driver       string   `hcl:"driver,optional"`
	OutputSuffix string   `hcl:"output_suffix,optional"`
	Extensions   []string `hcl:"extensions,optional"`
	LogLevel     string   `hcl:"log_level,optional"`
	LogFormat    string   `hcl:"log_format,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:       dbexport.SQLite3.Name,
		OutputSuffix: dbexport.DefaultOutputSuffix,
		Extensions:   []string{".sqlite3", ".sqlite", ".db", ".duckdb"},
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// Load reads the configuration from the given HCL file on top of the defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	return cfg, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("driver", cty.StringVal(cfg.Driver))
	root.SetAttributeValue("output_suffix", cty.StringVal(cfg.OutputSuffix))
	exts := make([]cty.Value, len(cfg.Extensions))
	for i, e := range cfg.Extensions {
		exts[i] = cty.StringVal(e)
	}
	if len(exts) == 0 {
		root.SetAttributeValue("extensions", cty.ListValEmpty(cty.String))
	} else {
		root.SetAttributeValue("extensions", cty.ListVal(exts))
	}
	root.SetAttributeValue("log_level", cty.StringVal(cfg.LogLevel))
	root.SetAttributeValue("log_format", cty.StringVal(cfg.LogFormat))

	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if _, err := file.Write(f.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write config to file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}

	return nil
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	var problems []string
	if !contains(dbexport.Drivers, c.Driver) {
		problems = append(problems, fmt.Sprintf("driver %q (want one of %s)", c.Driver, strings.Join(dbexport.Drivers, ", ")))
	}
	if c.OutputSuffix == "" || strings.ContainsAny(c.OutputSuffix, `/\`) {
		problems = append(problems, fmt.Sprintf("output_suffix %q (must be non-empty and contain no path separators)", c.OutputSuffix))
	}
	if len(c.Extensions) == 0 {
		problems = append(problems, "extensions (at least one is required)")
	}
	for _, e := range c.Extensions {
		if !strings.HasPrefix(e, ".") {
			problems = append(problems, fmt.Sprintf("extension %q (must start with a dot)", e))
		}
	}
	if !contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("log_level %q", c.LogLevel))
	}
	if !contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		problems = append(problems, fmt.Sprintf("log_format %q", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
