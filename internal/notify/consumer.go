// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the
// delivery channel.
var ErrDeliveriesClosed = errors.New("deliveries channel closed")

// DefaultDeliveryTimeout bounds the delivery of one queued message.
const DefaultDeliveryTimeout = 30 * time.Second

// Consumer delivers queued messages through a transport. Successful
// deliveries are acked; failures are rejected without requeue.
type Consumer struct {
	transport Transport
	recorder  Recorder
	logger    *slog.Logger
	timeout   time.Duration
}

// NewConsumer creates a consumer delivering through transport.
func NewConsumer(transport Transport, recorder Recorder, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		transport: transport,
		recorder:  recorder,
		logger:    logger,
		timeout:   DefaultDeliveryTimeout,
	}
}

// Run handles deliveries until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle delivers one queued message and settles it.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.ErrorContext(ctx, "discarding malformed notice", "delivery_tag", d.DeliveryTag, "error", err)
		c.settle(ctx, d, false)
		return
	}

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.transport.Deliver(dctx, msg); err != nil {
		c.observe(msg.Kind, "failure")
		c.logger.ErrorContext(ctx, "notice delivery failed",
			"kind", string(msg.Kind),
			"delivery_tag", d.DeliveryTag,
			"permanent", IsPermanent(err),
			"error", err)
		c.settle(ctx, d, false)
		return
	}

	c.observe(msg.Kind, "success")
	c.settle(ctx, d, true)
}

func (c *Consumer) settle(ctx context.Context, d amqp.Delivery, ok bool) {
	var err error
	if ok {
		err = d.Ack(false)
	} else {
		err = d.Nack(false, false)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "settle delivery failed", "delivery_tag", d.DeliveryTag, "ack", ok, "error", err)
	}
}

func (c *Consumer) observe(kind Kind, outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveNotification(string(kind), outcome)
	}
}
