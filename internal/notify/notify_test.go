// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTemplates(t *testing.T) *Templates {
	t.Helper()
	tpl, err := NewTemplates(TemplateConfig{
		From:            "Latchkey <no-reply@latchkey.test>",
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
	})
	require.NoError(t, err)
	return tpl
}

// recordingTransport captures delivered messages and fails while errs
// has entries left.
type recordingTransport struct {
	mu   sync.Mutex
	msgs []Message
	errs []error
}

func (r *recordingTransport) Deliver(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingTransport) delivered() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) ObserveNotification(kind, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[kind+"/"+outcome]++
}

func (c *countingRecorder) get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}
