package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carve.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfig_FileFillsUnsetFlags(t *testing.T) {
	cmd := newCarveCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--seams", "7"}))

	path := writeConfig(t, `
seams = 50
mode = "both"
seam-color = "#00ff00"
face = true
angle = 0.5
`)
	require.NoError(t, applyConfig(cmd.Flags(), path))

	get := func(name string) string { return cmd.Flags().Lookup(name).Value.String() }
	assert.Equal(t, "7", get("seams"), "flags set on the command line win")
	assert.Equal(t, "both", get("mode"))
	assert.Equal(t, "#00ff00", get("seam-color"))
	assert.Equal(t, "true", get("face"))
	assert.Equal(t, "0.5", get("angle"))
}

func TestConfig_RejectsUnknownKeys(t *testing.T) {
	cmd := newCarveCmd()
	require.NoError(t, cmd.Flags().Parse(nil))

	err := applyConfig(cmd.Flags(), writeConfig(t, `width = 10`))
	assert.ErrorContains(t, err, "unknown key")

	err = applyConfig(cmd.Flags(), writeConfig(t, `seams = "many"`))
	assert.ErrorContains(t, err, "invalid value")

	err = applyConfig(cmd.Flags(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
