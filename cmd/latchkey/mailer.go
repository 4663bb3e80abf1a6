// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/latchkey/latchkey/internal/config"
	"github.com/latchkey/latchkey/internal/logging"
	"github.com/latchkey/latchkey/internal/notify"
	"github.com/latchkey/latchkey/internal/observability"
)

// MailerDeps contains injectable dependencies for the mailer command.
type MailerDeps struct {
	// Source feeds the consumer.
	// Default: notify.AMQPSource from the configuration
	Source func(ctx context.Context, consumer *notify.Consumer) error

	// Transport delivers consumed notices.
	// Default: SMTP wrapped in retries
	Transport notify.Transport
}

// NewMailerCmd creates the mailer subcommand.
func NewMailerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailer",
		Short: "Deliver queued notices over SMTP",
		Long: `Consume rendered notices from the AMQP queue that serve publishes to
when notify.transport is amqp, and deliver them through the SMTP relay.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runMailerWithDeps(ctx, cfg, nil)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("log-format", defaults.Log.Format, "log format (json or text)")
	cmd.Flags().String("log-level", defaults.Log.Level, "minimum log level")
	cmd.Flags().String("metrics-addr", defaults.HTTP.MetricsAddr, "metrics/health HTTP address (empty = disabled)")

	return cmd
}

func runMailerWithDeps(ctx context.Context, cfg *config.Config, deps *MailerDeps) error {
	if deps == nil {
		deps = &MailerDeps{}
	}
	if err := cfg.ValidateMailer(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err //nolint:wrapcheck // coded by logging
	}
	logger := logging.SetupLevel(serviceName+"-mailer", version, cfg.Log.Format, level, os.Stderr)
	logger.Info("starting mailer", "queue", cfg.Notify.AMQP.Queue, "smtp_host", cfg.Notify.SMTP.Host)

	if deps.Transport == nil {
		smtp, err := notify.NewSMTPTransport(cfg.SMTPConfig())
		if err != nil {
			return err //nolint:wrapcheck // coded by notify
		}
		deps.Transport = notify.NewRetryTransport(smtp, cfg.RetryConfig(), logger)
	}
	if deps.Source == nil {
		source := &notify.AMQPSource{
			URL:      cfg.Notify.AMQP.URL,
			Queue:    cfg.Notify.AMQP.Queue,
			Prefetch: cfg.Notify.AMQP.Prefetch,
			Logger:   logger,
		}
		deps.Source = source.Run
	}

	var recorder notify.Recorder
	if cfg.HTTP.MetricsAddr != "" {
		obs := observability.NewServer(cfg.HTTP.MetricsAddr, nil, logger)
		if _, err := obs.Start(); err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		defer stopObservability(obs, cfg, logger)
		recorder = obs.Metrics()
	}

	consumer := notify.NewConsumer(deps.Transport, recorder, logger)
	if err := deps.Source(ctx, consumer); err != nil {
		return oops.Code("MAILER_FAILED").Wrap(err)
	}
	logger.Info("mailer stopped")
	return nil
}
