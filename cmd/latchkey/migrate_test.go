// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latchkey/latchkey/internal/store"
	"github.com/latchkey/latchkey/pkg/errutil"
)

type fakeMigrator struct {
	calls   []string
	forced  int
	steps   int
	version uint
	dirty   bool
	status  store.Status
	err     error
	closed  bool
}

func (m *fakeMigrator) Up() error {
	m.calls = append(m.calls, "up")
	return m.err
}

func (m *fakeMigrator) Down() error {
	m.calls = append(m.calls, "down")
	return m.err
}

func (m *fakeMigrator) Steps(n int) error {
	m.calls = append(m.calls, "steps")
	m.steps = n
	return m.err
}

func (m *fakeMigrator) Version() (uint, bool, error) {
	m.calls = append(m.calls, "version")
	return m.version, m.dirty, m.err
}

func (m *fakeMigrator) Force(v int) error {
	m.calls = append(m.calls, "force")
	m.forced = v
	return m.err
}

func (m *fakeMigrator) Status() (store.Status, error) {
	m.calls = append(m.calls, "status")
	return m.status, m.err
}

func (m *fakeMigrator) Close() error {
	m.closed = true
	return nil
}

// runMigrate executes the root command against fake with the given
// migrate arguments.
func runMigrate(t *testing.T, fake *fakeMigrator, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LATCHKEY_STORE__DATABASE_URL", "")

	var gotURL string
	orig := migratorFactory
	migratorFactory = func(url string) (Migrator, error) {
		gotURL = url
		return fake, nil
	}
	t.Cleanup(func() { migratorFactory = orig })

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--config", "",
		"migrate",
	}, args...))

	err := cmd.Execute()
	if err == nil {
		assert.Equal(t, "postgres://latchkey@db/latchkey", gotURL)
	}
	return buf.String(), err
}

const testDatabaseFlag = "--database-url=postgres://latchkey@db/latchkey"

func TestMigrate_Up(t *testing.T) {
	fake := &fakeMigrator{}
	out, err := runMigrate(t, fake, "up", testDatabaseFlag)

	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, fake.calls)
	assert.True(t, fake.closed)
	assert.Contains(t, out, "Migrations applied")
}

func TestMigrate_DownRollsBackOneStep(t *testing.T) {
	fake := &fakeMigrator{}
	_, err := runMigrate(t, fake, "down", testDatabaseFlag)

	require.NoError(t, err)
	assert.Equal(t, []string{"steps"}, fake.calls)
	assert.Equal(t, -1, fake.steps)
}

func TestMigrate_Reset(t *testing.T) {
	fake := &fakeMigrator{}
	_, err := runMigrate(t, fake, "reset", testDatabaseFlag)

	require.NoError(t, err)
	assert.Equal(t, []string{"down"}, fake.calls)
}

func TestMigrate_Status(t *testing.T) {
	fake := &fakeMigrator{status: store.Status{Version: 1, Applied: []uint{1}, Pending: []uint{2}}}
	out, err := runMigrate(t, fake, "status", testDatabaseFlag)

	require.NoError(t, err)
	assert.Contains(t, out, "Version 1")
	assert.Contains(t, out, "[x] 000001_create_accounts")
	assert.Contains(t, out, "[ ] 000002_account_secret_indexes")
}

func TestMigrate_Version(t *testing.T) {
	fake := &fakeMigrator{version: 2, dirty: true}
	out, err := runMigrate(t, fake, "version", testDatabaseFlag)

	require.NoError(t, err)
	assert.Contains(t, out, "Version 2 (dirty)")
}

func TestMigrate_Force(t *testing.T) {
	fake := &fakeMigrator{}
	_, err := runMigrate(t, fake, "force", "1", testDatabaseFlag)

	require.NoError(t, err)
	assert.Equal(t, 1, fake.forced)
}

func TestMigrate_ForceRejectsNonNumeric(t *testing.T) {
	fake := &fakeMigrator{}
	_, err := runMigrate(t, fake, "force", "abc", testDatabaseFlag)

	errutil.AssertErrorCode(t, err, "INVALID_VERSION")
	assert.Empty(t, fake.calls)
	assert.True(t, fake.closed)
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	fake := &fakeMigrator{}
	_, err := runMigrate(t, fake, "up")

	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Empty(t, fake.calls)
}

func TestMigrate_SurfacesFailure(t *testing.T) {
	fake := &fakeMigrator{err: errors.New("dirty database version 2")}
	_, err := runMigrate(t, fake, "up", testDatabaseFlag)

	errutil.AssertErrorCode(t, err, "MIGRATION_FAILED")
	assert.True(t, fake.closed)
}

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErrCode string
	}{
		{name: "valid integer", input: "3", wantVersion: 3},
		{name: "zero is valid", input: "0", wantVersion: 0},
		{name: "negative parses", input: "-1", wantVersion: -1},
		{name: "trailing chars are ignored", input: "3abc", wantVersion: 3},
		{name: "leading whitespace is handled", input: "  42", wantVersion: 42},
		{name: "non-numeric", input: "abc", wantErrCode: "INVALID_VERSION"},
		{name: "empty", input: "", wantErrCode: "INVALID_VERSION"},
		{name: "whitespace only", input: "   ", wantErrCode: "INVALID_VERSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseForceVersion(tt.input)
			if tt.wantErrCode != "" {
				errutil.AssertErrorCode(t, err, tt.wantErrCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, v)
		})
	}
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "No migrations applied", formatVersion(0, false))
	assert.Equal(t, "Version 3", formatVersion(3, false))
	assert.Equal(t, "Version 3 (dirty)", formatVersion(3, true))
}
