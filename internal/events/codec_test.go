// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package events

import (
	"errors"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name      string
		eventType string
		payload   RelationPayload
	}{
		{
			name:      "created with full payload",
			eventType: TypeRelationCreated,
			payload:   RelationPayload{ID: "0b6f1a2e", Name: "Coca", KvkNumber: "12312312"},
		},
		{
			name:      "updated with full payload",
			eventType: TypeRelationUpdated,
			payload:   RelationPayload{ID: "77aa88bb", Name: "Cola", KvkNumber: "87654321"},
		},
		{
			name:      "deleted omits name",
			eventType: TypeRelationDeleted,
			payload:   RelationPayload{ID: "77aa88bb", KvkNumber: "87654321"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.Encode(tt.eventType, tt.payload)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			env, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if env.EventType != tt.eventType {
				t.Errorf("eventType = %q, want %q", env.EventType, tt.eventType)
			}
			if env.Data != tt.payload {
				t.Errorf("payload = %+v, want %+v", env.Data, tt.payload)
			}
		})
	}
}

func TestCodec_Decode_Errors(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{not json`},
		{"empty body", ``},
		{"missing eventType", `{"data":{"kvkNumber":"123"}}`},
		{"missing data", `{"eventType":"relation:created"}`},
		{"null data", `{"eventType":"relation:created","data":null}`},
		{"data wrong shape", `{"eventType":"relation:created","data":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("expected *DecodeError, got %T: %v", err, err)
			}
		})
	}
}

func TestCodec_Decode_UnknownTypePasses(t *testing.T) {
	codec := NewCodec()

	// Unknown event types decode fine; the dispatcher decides what to do.
	env, err := codec.Decode([]byte(`{"eventType":"relation:archived","data":{"kvkNumber":"123"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.EventType != "relation:archived" {
		t.Errorf("eventType = %q", env.EventType)
	}
	if IsKnownType(env.EventType) {
		t.Error("relation:archived should not be a known type")
	}
}

func TestIsKnownType(t *testing.T) {
	for _, known := range KnownTypes() {
		if !IsKnownType(known) {
			t.Errorf("IsKnownType(%q) = false", known)
		}
	}
	if IsKnownType("") || IsKnownType("relation:renamed") {
		t.Error("unexpected types reported as known")
	}
}
