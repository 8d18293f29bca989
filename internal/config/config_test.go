package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipedsviz/internal/dataset"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, dataset.DefaultSource, cfg.Source)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout.Std())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "Retention Rate", cfg.Defaults.X)
	assert.NoError(t, cfg.Validate())
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	cfg := Default()
	err := Parse([]byte(`
source: ./df6.csv
fetch_timeout: 5s
defaults:
  x: Enrollment
`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "./df6.csv", cfg.Source)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout.Std())
	assert.Equal(t, "Enrollment", cfg.Defaults.X)
	assert.Equal(t, "Institution", cfg.Defaults.Display, "unset keys keep their default")
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestParse_BadDuration(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("fetch_timeout: soon\n"), &cfg)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSource:       "https://example.com/data.csv",
		EnvAddr:         "127.0.0.1:9000",
		EnvOTLPEndpoint: "localhost:4318",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "https://example.com/data.csv", cfg.Source)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "localhost:4318", cfg.OTel.Endpoint)
	assert.Equal(t, "ipedsviz", cfg.OTel.ServiceName)
	assert.Equal(t, "export", cfg.ExportDir)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipedsviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: from-file.csv\naddr: :7000\n"), 0o644))
	t.Setenv(EnvSource, "from-env.csv")
	t.Setenv(EnvAddr, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Source)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Source = ""
	cfg.FetchTimeout = Duration(-time.Second)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source is empty")
	assert.Contains(t, err.Error(), "fetch_timeout is negative")
}

func TestMarshalRoundTripsDuration(t *testing.T) {
	b, err := Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(b), "fetch_timeout: 1m0s")

	cfg := Config{}
	require.NoError(t, Parse(b, &cfg))
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout.Std())
}
