// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package events

// Event type values carried in the envelope's eventType field.
const (
	TypeRelationCreated = "relation:created"
	TypeRelationUpdated = "relation:updated"
	TypeRelationDeleted = "relation:deleted"
)

// KnownTypes lists every event type this system publishes. Consumers treat
// anything outside this list as a no-op, never an error, so the topic can
// carry new event kinds before consumers learn about them.
func KnownTypes() []string {
	return []string{TypeRelationCreated, TypeRelationUpdated, TypeRelationDeleted}
}

// RelationPayload is the data section of a relation event. The ID is the
// publisher's record ID and is informational only: reactions match records
// by KvkNumber because IDs differ across owner partitions. Deleted events
// omit Name.
type RelationPayload struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	KvkNumber string `json:"kvkNumber"`
}

// Envelope is the wire representation of one relation event.
type Envelope struct {
	EventType string          `json:"eventType"`
	Data      RelationPayload `json:"data"`
}

// IsKnownType reports whether t is an event type this system understands.
func IsKnownType(t string) bool {
	switch t {
	case TypeRelationCreated, TypeRelationUpdated, TypeRelationDeleted:
		return true
	default:
		return false
	}
}
