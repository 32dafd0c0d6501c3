package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineJSON = `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[0,8]]},"properties":{"name":"road"}}`

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.geojson")
	require.NoError(t, os.WriteFile(path, []byte(lineJSON), 0o600))
	return path
}

func TestRunWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")

	err := run(context.Background(), Options{
		Input:       writeInput(t),
		Output:      out,
		Format:      "json",
		Concurrency: 1,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"road"`)
	assert.Contains(t, string(data), `"Point"`)
}

func TestRunReportsOutputFailure(t *testing.T) {
	err := run(context.Background(), Options{
		Input:       writeInput(t),
		Output:      filepath.Join(t.TempDir(), "missing", "out.json"),
		Format:      "json",
		Concurrency: 1,
	})
	assert.Error(t, err)
}

func TestRunReportsSaveFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.xml")

	err := run(context.Background(), Options{
		Input:       writeInput(t),
		Output:      out,
		Format:      "xml",
		Concurrency: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write features")
}

func TestRunReportsLoadFailure(t *testing.T) {
	err := run(context.Background(), Options{
		Input:  filepath.Join(t.TempDir(), "absent.geojson"),
		Format: "json",
	})
	assert.Error(t, err)
}
