// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
)

// Gateway renders notices and hands them to a transport. It implements
// auth.Notifier and reports every failure to the caller.
type Gateway struct {
	templates *Templates
	transport Transport
	recorder  Recorder
	logger    *slog.Logger
}

var _ auth.Notifier = (*Gateway)(nil)

// NewGateway creates a gateway. recorder and logger may be nil.
func NewGateway(templates *Templates, transport Transport, recorder Recorder, logger *slog.Logger) (*Gateway, error) {
	if templates == nil {
		return nil, oops.Code("GATEWAY_INVALID_CONFIG").Errorf("templates are required")
	}
	if transport == nil {
		return nil, oops.Code("GATEWAY_INVALID_CONFIG").Errorf("transport is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{templates: templates, transport: transport, recorder: recorder, logger: logger}, nil
}

// SendVerification delivers the verification code to email.
func (g *Gateway) SendVerification(ctx context.Context, email, code string) error {
	return g.dispatch(ctx, KindVerification, email, TemplateData{Code: code})
}

// SendWelcome greets a newly verified account.
func (g *Gateway) SendWelcome(ctx context.Context, email, name string) error {
	return g.dispatch(ctx, KindWelcome, email, TemplateData{Name: name})
}

// SendResetRequest delivers the reset link.
func (g *Gateway) SendResetRequest(ctx context.Context, email, resetURL string) error {
	return g.dispatch(ctx, KindResetRequest, email, TemplateData{ResetURL: resetURL})
}

// SendResetSuccess confirms a completed reset.
func (g *Gateway) SendResetSuccess(ctx context.Context, email string) error {
	return g.dispatch(ctx, KindResetSuccess, email, TemplateData{})
}

func (g *Gateway) dispatch(ctx context.Context, kind Kind, to string, data TemplateData) error {
	msg, err := g.templates.Render(kind, to, data)
	if err != nil {
		g.observe(kind, "failure")
		return err
	}

	if err := g.transport.Deliver(ctx, msg); err != nil {
		g.observe(kind, "failure")
		g.logger.WarnContext(ctx, "notice delivery failed", "kind", string(kind), "error", err)
		return oops.In("notify").With("kind", string(kind)).Wrap(err)
	}

	g.observe(kind, "success")
	g.logger.DebugContext(ctx, "notice delivered", "kind", string(kind))
	return nil
}

func (g *Gateway) observe(kind Kind, outcome string) {
	if g.recorder != nil {
		g.recorder.ObserveNotification(string(kind), outcome)
	}
}
