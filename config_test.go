package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "abi2go.yaml")
	writeFile(t, path, []byte(`
output: build/bindings
ignore:
  - "**/*.dbg.json"
  - mocks/*
log_level: warn
`))
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Output:      "build/bindings",
		Ignore:      []string{"**/*.dbg.json", "mocks/*"},
		LogLevel:    "warn",
		Parallelism: 4,
	}, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	for name, contents := range map[string]string{
		"malformed.yaml":   "ignore: [",
		"level.yaml":       "log_level: loud",
		"parallelism.yaml": "parallelism: -1",
	} {
		path := filepath.Join(dir, name)
		writeFile(t, path, []byte(contents))
		_, err := loadConfig(path)
		assert.Error(t, err, name)
	}
}
