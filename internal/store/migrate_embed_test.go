// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err, "should read embedded migrations directory")

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		assert.True(t, pattern.MatchString(name), "file %s should match NNNNNN_name.(up|down).sql", name)
		if stem, ok := strings.CutSuffix(name, ".up.sql"); ok {
			ups[stem] = true
		}
		if stem, ok := strings.CutSuffix(name, ".down.sql"); ok {
			downs[stem] = true
		}
	}

	assert.True(t, ups["000001_create_accounts"], "accounts table migration missing")
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}
