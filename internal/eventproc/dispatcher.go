// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import "github.com/yaelgoede/TheLogicalProject/internal/events"

// Dispatcher maps an event type to its reaction. The registry is fixed at
// construction; there is no dynamic registration.
type Dispatcher struct {
	reactions map[string]Reaction
}

// NewDispatcher builds the dispatcher with the three relation reactions
// bound to the given store and owner partition.
func NewDispatcher(store RelationStore, owner string) *Dispatcher {
	return &Dispatcher{
		reactions: map[string]Reaction{
			events.TypeRelationCreated: NewCreatedReaction(store, owner),
			events.TypeRelationUpdated: NewUpdatedReaction(store, owner),
			events.TypeRelationDeleted: NewDeletedReaction(store, owner),
		},
	}
}

// Dispatch returns the reaction for the event type, or nil when the type
// is unknown. An unknown type is not an error: the caller logs it and
// acknowledges the message.
func (d *Dispatcher) Dispatch(eventType string) Reaction {
	return d.reactions[eventType]
}
