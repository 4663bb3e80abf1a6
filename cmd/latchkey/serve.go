// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/latchkey/latchkey/internal/auth"
	authmemory "github.com/latchkey/latchkey/internal/auth/memory"
	authpostgres "github.com/latchkey/latchkey/internal/auth/postgres"
	"github.com/latchkey/latchkey/internal/config"
	"github.com/latchkey/latchkey/internal/logging"
	"github.com/latchkey/latchkey/internal/notify"
	"github.com/latchkey/latchkey/internal/observability"
	"github.com/latchkey/latchkey/internal/store"
	"github.com/latchkey/latchkey/internal/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the account API under /auth together with the metrics and
health endpoints. Shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServeWithDeps(ctx, cfg, cmd, nil)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("env", defaults.Env, "environment (development or production)")
	cmd.Flags().String("log-format", defaults.Log.Format, "log format (json or text)")
	cmd.Flags().String("log-level", defaults.Log.Level, "minimum log level")
	cmd.Flags().String("addr", defaults.HTTP.Addr, "API listen address")
	cmd.Flags().String("metrics-addr", defaults.HTTP.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("store", defaults.Store.Kind, "account store (postgres or memory)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().Bool("auto-migrate", defaults.Store.AutoMigrate, "apply pending migrations at startup")
	cmd.Flags().String("transport", defaults.Notify.Transport, "notification transport (log, smtp or amqp)")

	return cmd
}

// runServeWithDeps starts the API with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = openStore
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(url string) (AutoMigrator, error) {
			return store.NewMigrator(url)
		}
	}
	if deps.TransportFactory == nil {
		deps.TransportFactory = openTransport
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, checker observability.ReadinessChecker, logger *slog.Logger) ObservabilityServer {
			return observability.NewServer(addr, checker, logger)
		}
	}
	if deps.ListenerFactory == nil {
		deps.ListenerFactory = net.Listen
	}
	if deps.LogOutput == nil {
		deps.LogOutput = os.Stderr
	}

	if err := cfg.Validate(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err //nolint:wrapcheck // coded by logging
	}
	logger := logging.SetupLevel(serviceName, version, cfg.Log.Format, level, deps.LogOutput)
	slog.SetDefault(logger)

	logger.Info("starting latchkey",
		"env", cfg.Env,
		"addr", cfg.HTTP.Addr,
		"store", cfg.Store.Kind,
		"transport", cfg.Notify.Transport,
	)

	if cfg.Store.Kind == config.StorePostgres && cfg.Store.AutoMigrate {
		if err := runAutoMigration(deps.MigratorFactory, cfg.Store.DatabaseURL, logger); err != nil {
			return err
		}
	}

	accounts, err := deps.StoreFactory(ctx, cfg)
	if err != nil {
		return oops.Code("STORE_OPEN_FAILED").With("store", cfg.Store.Kind).Wrap(err)
	}
	defer accounts.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var metrics *observability.Metrics
	var obsServer ObservabilityServer
	if cfg.HTTP.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.HTTP.MetricsAddr, accounts.Ready, logger)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		metrics = obsServer.Metrics()
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	transport, closer, err := deps.TransportFactory(cfg, logger)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return oops.Code("TRANSPORT_OPEN_FAILED").With("transport", cfg.Notify.Transport).Wrap(err)
	}
	if closer != nil {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				logger.Warn("error closing notification transport", "error", closeErr)
			}
		}()
	}

	handler, err := buildHandler(cfg, accounts.Accounts, transport, metrics, logger)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return err
	}

	listener, err := deps.ListenerFactory("tcp", cfg.HTTP.Addr)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return oops.Code("LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}

	server := web.NewServer(cfg.HTTP.Addr, handler)
	errChan := make(chan error, 1)
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	addr := listener.Addr().String()
	cmd.Println("Latchkey API listening on " + addr)
	logger.Info("api ready", "addr", addr)
	if deps.OnReady != nil {
		deps.OnReady(addr)
	}

	var serveErr error
	select {
	case serveErr = <-errChan:
		logger.Error("api server error", "error", serveErr)
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if serveErr != nil {
		return oops.Code("SERVE_FAILED").Wrap(serveErr)
	}
	return nil
}

// buildHandler assembles the account service and its HTTP surface.
func buildHandler(
	cfg *config.Config,
	accounts auth.AccountRepository,
	transport notify.Transport,
	metrics *observability.Metrics,
	logger *slog.Logger,
) (http.Handler, error) {
	templates, err := notify.NewTemplates(cfg.TemplateConfig())
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by notify
	}
	gateway, err := notify.NewGateway(templates, transport, metrics, logger)
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by notify
	}
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by auth
	}
	sessions, err := auth.NewSessionIssuer(cfg.SessionConfig())
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by auth
	}
	guard, err := auth.NewGuard(sessions)
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by auth
	}
	svc, err := auth.NewService(auth.ServiceDeps{
		Accounts: accounts,
		Notifier: gateway,
		Hasher:   hasher,
		Sessions: sessions,
		Logger:   logger,
	}, cfg.ServiceConfig())
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by auth
	}

	h, err := web.NewHandler(web.Config{
		Service: svc,
		Guard:   guard,
		Cookies: web.CookieConfig{
			Secure: cfg.IsProduction(),
			Domain: cfg.HTTP.CookieDomain,
			TTL:    cfg.Auth.SessionTTL,
		},
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // coded by web
	}
	return h.Routes(), nil
}

// openStore opens the configured account store.
func openStore(ctx context.Context, cfg *config.Config) (*AccountStore, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return &AccountStore{
			Accounts: authmemory.NewAccountRepository(),
			Ready:    func(context.Context) error { return nil },
			Close:    func() {},
		}, nil
	case config.StorePostgres:
		pool, err := store.Connect(ctx, cfg.Store.DatabaseURL, cfg.PoolOptions())
		if err != nil {
			return nil, err //nolint:wrapcheck // coded by store
		}
		return &AccountStore{
			Accounts: authpostgres.NewAccountRepository(pool),
			Ready:    store.NewPinger(pool).Ready,
			Close:    pool.Close,
		}, nil
	default:
		return nil, oops.Code("CONFIG_INVALID").With("store", cfg.Store.Kind).Errorf("unknown store kind")
	}
}

// openTransport builds the configured notification transport. The closer
// is nil when the transport holds no resources.
func openTransport(cfg *config.Config, logger *slog.Logger) (notify.Transport, io.Closer, error) {
	switch cfg.Notify.Transport {
	case config.TransportLog:
		return notify.NewLogTransport(logger), nil, nil
	case config.TransportSMTP:
		smtp, err := notify.NewSMTPTransport(cfg.SMTPConfig())
		if err != nil {
			return nil, nil, err //nolint:wrapcheck // coded by notify
		}
		return notify.NewRetryTransport(smtp, cfg.RetryConfig(), logger), nil, nil
	case config.TransportAMQP:
		queue, err := notify.DialAMQPTransport(cfg.Notify.AMQP.URL, cfg.Notify.AMQP.Queue)
		if err != nil {
			return nil, nil, err //nolint:wrapcheck // coded by notify
		}
		return queue, queue, nil
	default:
		return nil, nil, oops.Code("CONFIG_INVALID").With("transport", cfg.Notify.Transport).Errorf("unknown transport")
	}
}

// runAutoMigration applies pending migrations before the store opens.
func runAutoMigration(factory func(string) (AutoMigrator, error), databaseURL string, logger *slog.Logger) error {
	migrator, err := factory(databaseURL)
	if err != nil {
		return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATE_FAILED").With("operation", "apply migrations").Wrap(err)
	}
	logger.Info("database migrations applied")
	return nil
}

func stopObservability(obs ObservabilityServer, cfg *config.Config, logger *slog.Logger) {
	if obs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := obs.Stop(ctx); err != nil {
		logger.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error. It exits
// when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
