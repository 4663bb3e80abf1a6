// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds the retry loop.
type RetryConfig struct {
	Attempts uint64
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetryConfig returns three attempts starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Base: 200 * time.Millisecond, Max: 2 * time.Second}
}

// RetryTransport retries transient delivery failures with exponential
// backoff inside the caller's deadline. Permanent errors stop at once.
type RetryTransport struct {
	next   Transport
	cfg    RetryConfig
	logger *slog.Logger
}

// NewRetryTransport wraps next. Zero config fields take the defaults.
func NewRetryTransport(next Transport, cfg RetryConfig, logger *slog.Logger) *RetryTransport {
	def := DefaultRetryConfig()
	if cfg.Attempts == 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Base <= 0 {
		cfg.Base = def.Base
	}
	if cfg.Max <= 0 {
		cfg.Max = def.Max
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryTransport{next: next, cfg: cfg, logger: logger}
}

func (t *RetryTransport) backoff() retry.Backoff {
	b := retry.NewExponential(t.cfg.Base)
	b = retry.WithCappedDuration(t.cfg.Max, b)
	return retry.WithMaxRetries(t.cfg.Attempts-1, b)
}

// Deliver sends msg through the wrapped transport.
func (t *RetryTransport) Deliver(ctx context.Context, msg Message) error {
	attempt := 0
	//nolint:wrapcheck // the final delivery error is returned as-is
	return retry.Do(ctx, t.backoff(), func(ctx context.Context) error {
		attempt++
		err := t.next.Deliver(ctx, msg)
		if err == nil || IsPermanent(err) {
			return err
		}
		t.logger.DebugContext(ctx, "notice delivery attempt failed",
			"kind", string(msg.Kind),
			"attempt", attempt,
			"error", err)
		return retry.RetryableError(err)
	})
}
