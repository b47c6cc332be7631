package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Resolve. They override the config file.
const (
	EnvConfig     = "SQLITE2JSONL_CONFIG"
	EnvDriver     = "SQLITE2JSONL_DRIVER"
	EnvSuffix     = "SQLITE2JSONL_SUFFIX"
	EnvExtensions = "SQLITE2JSONL_EXTENSIONS"
	EnvLogLevel   = "SQLITE2JSONL_LOG_LEVEL"
	EnvLogFormat  = "SQLITE2JSONL_LOG_FORMAT"
)

// Flags carries the values given on the command line; empty means unset.
type Flags struct {
	ConfigPath string
	Driver     string
	Suffix     string
	LogLevel   string
}

// Resolve builds the effective configuration: defaults, then the HCL file,
// then the environment (a .env file is loaded if present), then flags.
func Resolve(flags Flags) (*Config, error) {
	_ = godotenv.Load()
	get := func(flagVal, envVar string) string {
		if flagVal != "" {
			return flagVal
		}
		return strings.TrimSpace(os.Getenv(envVar))
	}

	cfg := DefaultConfig()
	path := get(flags.ConfigPath, EnvConfig)
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if v := get(flags.Driver, EnvDriver); v != "" {
		cfg.Driver = v
	}
	if v := get(flags.Suffix, EnvSuffix); v != "" {
		cfg.OutputSuffix = v
	}
	if v := get("", EnvExtensions); v != "" {
		cfg.Extensions = splitList(v)
	}
	if v := get(flags.LogLevel, EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := get("", EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
