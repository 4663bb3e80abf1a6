// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"log/slog"
)

// LogTransport records that a notice would have been sent. It logs the
// kind and recipient only; bodies carry secrets and are dropped.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport. A nil logger uses slog.Default().
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Deliver logs msg's envelope.
func (t *LogTransport) Deliver(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "notice",
		"kind", string(msg.Kind),
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
