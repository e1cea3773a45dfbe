// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package events defines the wire format of relation events: the envelope,
// the event type constants, and the JSON codec.
//
// An envelope is immutable after creation and may be delivered zero, one,
// or many times, in any order. Consumers must treat every event as
// potentially duplicated or reordered.
package events
