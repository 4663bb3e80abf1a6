// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = Message{Kind: KindWelcome, To: "ada@example.com", Subject: "Welcome", Text: "hi"}

func fastRetry() RetryConfig {
	return RetryConfig{Attempts: 3, Base: time.Millisecond, Max: 5 * time.Millisecond}
}

func TestRetryTransport_RecoversFromTransientFailures(t *testing.T) {
	next := &recordingTransport{errs: []error{errors.New("421 try later"), errors.New("421 try later")}}
	rt := NewRetryTransport(next, fastRetry(), quietLogger())

	require.NoError(t, rt.Deliver(context.Background(), testMessage))
	assert.Len(t, next.delivered(), 1)
}

func TestRetryTransport_GivesUpAfterAttempts(t *testing.T) {
	last := errors.New("third failure")
	next := &recordingTransport{errs: []error{errors.New("one"), errors.New("two"), last, errors.New("unused")}}
	rt := NewRetryTransport(next, fastRetry(), quietLogger())

	err := rt.Deliver(context.Background(), testMessage)
	require.Error(t, err)
	assert.ErrorIs(t, err, last)
	assert.Empty(t, next.delivered())
	assert.Len(t, next.errs, 1, "exactly three attempts")
}

func TestRetryTransport_PermanentStopsImmediately(t *testing.T) {
	next := &recordingTransport{errs: []error{Permanent(errors.New("550 no such user")), errors.New("unused")}}
	rt := NewRetryTransport(next, fastRetry(), quietLogger())

	err := rt.Deliver(context.Background(), testMessage)
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
	assert.Len(t, next.errs, 1)
}

func TestRetryTransport_HonoursDeadline(t *testing.T) {
	next := TransportFunc(func(context.Context, Message) error { return errors.New("down") })
	rt := NewRetryTransport(next, RetryConfig{Attempts: 100, Base: 50 * time.Millisecond, Max: time.Second}, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rt.Deliver(ctx, testMessage)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewRetryTransport_Defaults(t *testing.T) {
	rt := NewRetryTransport(&recordingTransport{}, RetryConfig{}, nil)
	assert.Equal(t, DefaultRetryConfig(), rt.cfg)
}
