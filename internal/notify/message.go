// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package notify renders account notices and delivers them over SMTP,
// through a RabbitMQ queue, or to the log.
package notify

import (
	"context"
	"errors"
)

// Kind names a notice.
type Kind string

// Notice kinds. The values match the notice names the auth service logs.
const (
	KindVerification Kind = "verification"
	KindWelcome      Kind = "welcome"
	KindResetRequest Kind = "reset_request"
	KindResetSuccess Kind = "reset_success"
)

// Kinds lists every notice kind.
var Kinds = []Kind{KindVerification, KindWelcome, KindResetRequest, KindResetSuccess}

// Message is a rendered notice ready for a transport. It is also the JSON
// body of queued notices.
type Message struct {
	Kind     Kind   `json:"kind"`
	Category string `json:"category,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html,omitempty"`
}

// Validate checks that m can be delivered.
func (m Message) Validate() error {
	switch {
	case m.To == "":
		return Permanent(errors.New("message has no recipient"))
	case m.Subject == "":
		return Permanent(errors.New("message has no subject"))
	case m.Text == "" && m.HTML == "":
		return Permanent(errors.New("message has no body"))
	}
	return nil
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg Message) error

// Deliver calls f.
func (f TransportFunc) Deliver(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Recorder counts delivery outcomes. *observability.Metrics satisfies it.
type Recorder interface {
	ObserveNotification(kind, outcome string)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
