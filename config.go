package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML settings file. Command line flags take precedence.
type Config struct {
	// Output directory, defaults to the input directory
	Output string `yaml:"output"`

	// Glob patterns, relative to the input directory, of documents to skip
	Ignore []string `yaml:"ignore"`

	LogLevel string `yaml:"log_level"`

	// Documents generated concurrently, 0 for no limit
	Parallelism int `yaml:"parallelism"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:    logrus.InfoLevel.String(),
		Parallelism: 4,
	}
}

// loadConfig reads the settings file at path over the defaults. An empty path means no file.
func loadConfig(path string) (*Config, error) {
	out := defaultConfig()
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if out.Parallelism < 0 {
		return nil, errors.Errorf("parallelism must not be negative, got %d", out.Parallelism)
	}
	if _, err := logrus.ParseLevel(out.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return out, nil
}
