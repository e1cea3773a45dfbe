// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yaelgoede/TheLogicalProject/internal/events"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
)

// Consumer turns raw messages into reaction calls: decode, dispatch,
// react. It always acknowledges. A malformed body, an unknown event type,
// or a failing reaction is logged with the event's identifying fields and
// then dropped, so one poisoned event never blocks the partition behind it.
// Store-level gaps this creates are repaired by the reconciliation puller.
type Consumer struct {
	codec      *events.Codec
	dispatcher *Dispatcher
}

// NewConsumer creates a consumer over the given dispatcher.
func NewConsumer(dispatcher *Dispatcher) *Consumer {
	return &Consumer{
		codec:      events.NewCodec(),
		dispatcher: dispatcher,
	}
}

// HandleMessage processes one message from the relations topic. It is
// registered as a Watermill consumer handler; returning nil acknowledges
// the message.
func (c *Consumer) HandleMessage(msg *message.Message) error {
	ctx := msg.Context()

	env, err := c.codec.Decode(msg.Payload)
	if err != nil {
		metrics.RecordConsumedEvent("unknown", "decode_failed")
		logging.Ctx(ctx).Error().
			Err(err).
			Str("message_uuid", msg.UUID).
			Msg("Dropping undecodable event")
		return nil
	}

	reaction := c.dispatcher.Dispatch(env.EventType)
	if reaction == nil {
		metrics.RecordConsumedEvent(env.EventType, "unknown_type")
		logging.Ctx(ctx).Debug().
			Str("event_type", env.EventType).
			Str("message_uuid", msg.UUID).
			Msg("Ignoring unknown event type")
		return nil
	}

	start := time.Now()
	if err := reaction.Handle(ctx, env.Data); err != nil {
		metrics.RecordConsumedEvent(env.EventType, "reaction_failed")
		logging.Ctx(ctx).Error().
			Err(err).
			Str("event_type", env.EventType).
			Str("kvk_number", env.Data.KvkNumber).
			Str("message_uuid", msg.UUID).
			Msg("Reaction failed, event dropped")
		return nil
	}

	metrics.ReactionDuration.WithLabelValues(env.EventType).Observe(time.Since(start).Seconds())
	metrics.RecordConsumedEvent(env.EventType, "processed")
	return nil
}
