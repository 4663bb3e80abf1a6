// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latchkey/latchkey/pkg/errutil"
)

func TestConnect_InvalidDSN(t *testing.T) {
	_, err := Connect(context.Background(), "://not a dsn", PoolOptions{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestPinger_Ready(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		wantErr bool
	}{
		{name: "database reachable"},
		{name: "database down", pingErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			expect := mock.ExpectPing()
			if tt.pingErr != nil {
				expect.WillReturnError(tt.pingErr)
			}

			err = NewPinger(mock).Ready(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "DB_UNAVAILABLE")
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
