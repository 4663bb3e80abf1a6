// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/config"
	"github.com/latchkey/latchkey/internal/notify"
	"github.com/latchkey/latchkey/internal/observability"
	"github.com/latchkey/latchkey/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// StoreFactory opens the account store.
	// Default: openStore
	StoreFactory func(ctx context.Context, cfg *config.Config) (*AccountStore, error)

	// MigratorFactory creates the migrator used for automatic migration.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (AutoMigrator, error)

	// TransportFactory builds the notification transport.
	// Default: openTransport
	TransportFactory func(cfg *config.Config, logger *slog.Logger) (notify.Transport, io.Closer, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, checker observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)

	// LogOutput receives log lines.
	// Default: os.Stderr
	LogOutput io.Writer

	// OnReady is called with the bound API address once serving.
	OnReady func(addr string)
}

// AccountStore is an opened account repository with its health probe.
type AccountStore struct {
	Accounts auth.AccountRepository
	Ready    observability.ReadinessChecker
	Close    func()
}

// AutoMigrator is the migrator surface used at startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// Migrator is the migrator surface used by the migrate command.
type Migrator interface {
	AutoMigrator
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Status() (store.Status, error)
}

// ObservabilityServer is the observability server surface.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

var (
	_ Migrator            = (*store.Migrator)(nil)
	_ ObservabilityServer = (*observability.Server)(nil)
)
