// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/events"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
)

// Publisher publishes relation events to the configured JetStream subject.
//
// The connection lifecycle is scoped to a single publish: every call dials
// a fresh Watermill NATS publisher, sends one message, and closes it. A
// mutation is a rare event compared to reads, and per-call scoping
// guarantees the API process holds no broker resources between mutations.
// A circuit breaker sheds the dial cost while the broker is down.
type Publisher struct {
	cfg     config.NATSConfig
	codec   *events.Codec
	breaker *gobreaker.CircuitBreaker[any]
	logger  watermill.LoggerAdapter
}

// NewPublisher creates a relation event publisher.
func NewPublisher(cfg config.NATSConfig, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = NewWatermillLogger()
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "relation-event-publisher",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Publisher circuit breaker state changed")
		},
	})

	return &Publisher{
		cfg:     cfg,
		codec:   events.NewCodec(),
		breaker: breaker,
		logger:  logger,
	}
}

// NewEventMessage builds the Watermill message for one relation event. The
// message UUID doubles as the Nats-Msg-Id so JetStream can deduplicate
// redelivered publishes. Only the relation event types can be published;
// consumers would drop anything else unprocessed.
func NewEventMessage(codec *events.Codec, eventType string, payload events.RelationPayload) (*message.Message, error) {
	if !events.IsKnownType(eventType) {
		return nil, fmt.Errorf("refusing to publish unknown event type %q", eventType)
	}

	data, err := codec.Encode(eventType, payload)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	msg.Metadata.Set("event_type", eventType)
	return msg, nil
}

// PublishRelationEvent publishes one event for a committed mutation.
// Callers invoke this strictly after their local store write succeeded;
// a returned error means the mutation stands but the event did not go
// out, which the reconciliation puller on the consuming side repairs.
func (p *Publisher) PublishRelationEvent(ctx context.Context, eventType string, payload events.RelationPayload) error {
	msg, err := NewEventMessage(p.codec, eventType, payload)
	if err != nil {
		metrics.RecordPublishFailure(eventType)
		return err
	}

	start := time.Now()
	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.publishOnce(ctx, msg)
	})
	if err != nil {
		metrics.RecordPublishFailure(eventType)
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	metrics.RecordPublish(eventType, time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("event_type", eventType).
		Str("kvk_number", payload.KvkNumber).
		Str("message_uuid", msg.UUID).
		Msg("Relation event published")
	return nil
}

// publishOnce dials the broker, sends the message, and closes the
// connection again.
func (p *Publisher) publishOnce(ctx context.Context, msg *message.Message) error {
	pub, err := p.newWatermillPublisher()
	if err != nil {
		return fmt.Errorf("connect publisher: %w", err)
	}
	defer func() {
		if closeErr := pub.Close(); closeErr != nil {
			p.logger.Error("Failed to close publisher", closeErr, nil)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return pub.Publish(p.cfg.Topic, msg)
}

func (p *Publisher) newWatermillPublisher() (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.Timeout(p.cfg.ConnectTimeout),
		natsgo.RetryOnFailedConnect(false),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         p.cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	return wmNats.NewPublisher(wmConfig, p.logger)
}
