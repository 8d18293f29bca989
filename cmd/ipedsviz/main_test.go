package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipedsviz/internal/dataset/datasettest"
)

func sampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "df6.csv")
	require.NoError(t, os.WriteFile(path, []byte(datasettest.SampleCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, "columns", "--source", sampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "DISTINCT")
	assert.Contains(t, out, "Retention Rate")
	assert.Contains(t, out, "Enrollment")
}

func TestExportCommand_Map(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export", "--source", sampleFile(t), "--out", dir,
		"--mode", "map", "--filter", "State", "--values", "CA,NY", "--size", "Enrollment")
	require.NoError(t, err)

	files := strings.Fields(out)
	assert.Contains(t, files, filepath.Join(dir, "map.geojson"))
	for _, f := range files {
		assert.FileExists(t, f)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	_, err := execute(t, "export", "--source", sampleFile(t), "--out", t.TempDir(), "--mode", "globe")
	assert.ErrorContains(t, err, "unknown view mode")

	_, err = execute(t, "export", "--source", sampleFile(t), "--out", t.TempDir(), "--x", "Nope")
	assert.ErrorContains(t, err, "Nope")
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--source", "local.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "source: local.csv")
	assert.Contains(t, out, "fetch_timeout: 1m0s")
}
