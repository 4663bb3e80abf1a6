// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir_EnvVar(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config/latchkey", got)
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/testuser")

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/testuser/.config/latchkey", got)
}

func TestConfigFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	assert.Empty(t, ConfigFile(), "missing file")

	require.NoError(t, os.MkdirAll(filepath.Join(base, "latchkey", ConfigFileName), 0o700))
	assert.Empty(t, ConfigFile(), "directory is not a file")
	require.NoError(t, os.Remove(filepath.Join(base, "latchkey", ConfigFileName)))

	path := filepath.Join(base, "latchkey", ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("env: development\n"), 0o600))
	assert.Equal(t, path, ConfigFile())
}
