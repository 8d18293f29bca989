// Package config resolves ipedsviz settings from an optional YAML file and
// the environment. Flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
)

// Environment variables read by Load.
const (
	EnvSource       = "IPEDSVIZ_SOURCE"
	EnvExportDir    = "IPEDSVIZ_EXPORT_DIR"
	EnvAddr         = "IPEDSVIZ_ADDR"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName  = "OTEL_SERVICE_NAME"
)

// Config holds every ipedsviz setting.
type Config struct {
	Source       string            `yaml:"source"`
	FetchTimeout Duration          `yaml:"fetch_timeout"`
	Addr         string            `yaml:"addr"`
	ExportDir    string            `yaml:"export_dir"`
	Defaults     controls.Defaults `yaml:"defaults"`
	OTel         OTel              `yaml:"otel"`
}

// OTel configures trace export. An empty endpoint disables it.
type OTel struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Duration is a time.Duration written as "60s" or "1m30s" in YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("fetch_timeout: %w", err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:       dataset.DefaultSource,
		FetchTimeout: Duration(60 * time.Second),
		Addr:         ":8080",
		ExportDir:    "export",
		Defaults:     controls.DefaultColumns(),
		OTel: OTel{
			ServiceName: "ipedsviz",
			Insecure:    true,
		},
	}
}

// Load reads path (when non-empty) over the defaults, then applies the
// environment. A missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from b keep their current value.
func Parse(b []byte, cfg *Config) error {
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Source, EnvSource)
	set(&c.ExportDir, EnvExportDir)
	set(&c.Addr, EnvAddr)
	set(&c.OTel.Endpoint, EnvOTLPEndpoint)
	set(&c.OTel.ServiceName, EnvServiceName)
}

// Validate rejects settings no host can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Source == "" {
		errs = append(errs, errors.New("source is empty"))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, errors.New("fetch_timeout is negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Loader builds the dataset loader for the configured source.
func (c Config) Loader() *dataset.Loader {
	return dataset.NewLoader(c.Source, c.FetchTimeout.Std())
}

// Marshal renders cfg as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
