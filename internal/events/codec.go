// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package events

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Codec encodes and decodes relation event envelopes. It is stateless and
// safe for concurrent use.
type Codec struct{}

// NewCodec creates a new envelope codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode serializes an envelope for the given event type and payload.
func (c *Codec) Encode(eventType string, payload RelationPayload) ([]byte, error) {
	env := Envelope{
		EventType: eventType,
		Data:      payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s envelope: %w", eventType, err)
	}
	return data, nil
}

// Decode parses an envelope from raw message bytes. A malformed body or an
// envelope missing the eventType or data fields yields a *DecodeError; the
// event type itself is not validated here, unknown types are the
// dispatcher's concern.
func (c *Codec) Decode(data []byte) (*Envelope, error) {
	var raw struct {
		EventType string          `json:"eventType"`
		Data      json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: "malformed JSON", Err: err}
	}
	if raw.EventType == "" {
		return nil, &DecodeError{Reason: "missing eventType field"}
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil, &DecodeError{Reason: "missing data field"}
	}

	var payload RelationPayload
	if err := json.Unmarshal(raw.Data, &payload); err != nil {
		return nil, &DecodeError{Reason: "malformed data payload", Err: err}
	}

	return &Envelope{
		EventType: raw.EventType,
		Data:      payload,
	}, nil
}
