// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// DefaultQueue is the durable queue carrying rendered notices.
const DefaultQueue = "latchkey.notices"

// publisher is the part of *amqp.Channel the transport uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPTransport publishes messages to a durable RabbitMQ queue for the
// mailer to deliver.
type AMQPTransport struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    publisher
	queue string
	now   func() time.Time
}

// DialAMQPTransport connects to url and declares queue.
func DialAMQPTransport(url, queue string) (*AMQPTransport, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &AMQPTransport{conn: conn, ch: ch, queue: queue, now: time.Now}, nil
}

// Deliver publishes msg as a persistent JSON message.
func (t *AMQPTransport) Deliver(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return Permanent(oops.With("kind", string(msg.Kind)).Wrap(err))
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    t.now().UTC(),
		Type:         string(msg.Kind),
		Body:         body,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ch.PublishWithContext(ctx, "", t.queue, false, false, pub); err != nil {
		return oops.With("queue", t.queue).Wrap(err)
	}
	return nil
}

// Close closes the channel and connection.
func (t *AMQPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return oops.With("operation", "close amqp connection").Wrap(err)
	}
	return nil
}

func dialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, oops.Code("AMQP_DIAL_FAILED").Wrap(err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, oops.Code("AMQP_CHANNEL_FAILED").Wrap(err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, oops.Code("AMQP_QUEUE_DECLARE_FAILED").With("queue", queue).Wrap(err)
	}
	return conn, ch, nil
}

// AMQPSource feeds a Consumer from a RabbitMQ queue and reconnects with
// backoff when the broker goes away.
type AMQPSource struct {
	URL      string
	Queue    string
	Prefetch int
	Logger   *slog.Logger
}

// Run consumes until ctx is cancelled.
func (s *AMQPSource) Run(ctx context.Context, consumer *Consumer) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	queue := s.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	prefetch := s.Prefetch
	if prefetch <= 0 {
		prefetch = 16
	}

	backoff := retry.WithCappedDuration(30*time.Second, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, ch, err := dialQueue(s.URL, queue)
		if err != nil {
			logger.WarnContext(ctx, "amqp connect failed", "queue", queue, "error", err)
			return retry.RetryableError(err)
		}
		defer func() { _ = conn.Close() }()

		if err := ch.Qos(prefetch, 0, false); err != nil {
			logger.WarnContext(ctx, "amqp qos failed", "error", err)
		}
		deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
		if err != nil {
			return retry.RetryableError(oops.Code("AMQP_CONSUME_FAILED").With("queue", queue).Wrap(err))
		}

		logger.InfoContext(ctx, "mailer consuming", "queue", queue)
		if err := consumer.Run(ctx, deliveries); err != nil {
			logger.WarnContext(ctx, "amqp deliveries ended, reconnecting", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err //nolint:wrapcheck // retry returns the last coded error
}
