// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import (
	"testing"

	natsgo "github.com/nats-io/nats.go"

	"github.com/yaelgoede/TheLogicalProject/internal/events"
)

func TestNewEventMessage(t *testing.T) {
	codec := events.NewCodec()
	payload := events.RelationPayload{ID: "abc", Name: "Coca", KvkNumber: "12312312"}

	msg, err := NewEventMessage(codec, events.TypeRelationCreated, payload)
	if err != nil {
		t.Fatalf("NewEventMessage failed: %v", err)
	}

	if msg.UUID == "" {
		t.Error("expected message UUID to be set")
	}
	if got := msg.Metadata.Get(natsgo.MsgIdHdr); got != msg.UUID {
		t.Errorf("Nats-Msg-Id = %q, want message UUID %q", got, msg.UUID)
	}
	if got := msg.Metadata.Get("event_type"); got != events.TypeRelationCreated {
		t.Errorf("event_type metadata = %q", got)
	}

	env, err := codec.Decode(msg.Payload)
	if err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if env.Data != payload {
		t.Errorf("round-tripped payload = %+v, want %+v", env.Data, payload)
	}
}

func TestNewEventMessage_UnknownType(t *testing.T) {
	codec := events.NewCodec()

	if _, err := NewEventMessage(codec, "relation:archived", events.RelationPayload{KvkNumber: "1"}); err == nil {
		t.Error("expected error for an event type no consumer understands")
	}
}

func TestNewEventMessage_UniquePerCall(t *testing.T) {
	codec := events.NewCodec()
	payload := events.RelationPayload{KvkNumber: "1"}

	a, err := NewEventMessage(codec, events.TypeRelationDeleted, payload)
	if err != nil {
		t.Fatalf("NewEventMessage failed: %v", err)
	}
	b, err := NewEventMessage(codec, events.TypeRelationDeleted, payload)
	if err != nil {
		t.Fatalf("NewEventMessage failed: %v", err)
	}

	if a.UUID == b.UUID {
		t.Error("expected distinct message UUIDs for distinct publishes")
	}
}
