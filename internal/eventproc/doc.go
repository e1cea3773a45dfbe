// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package eventproc implements the event pipeline between the
// authoritative system side and the consuming company sides.
//
// The publishing half sends one relation event per committed mutation to a
// NATS JetStream subject via Watermill, dialing and closing the connection
// per publish so a broker outage never pins resources in the API process.
//
// The consuming half is a Watermill router with a durable queue-group
// subscriber. Messages flow decode, dispatch, react: the dispatcher maps
// an event type to its reaction, and every reaction is idempotent and
// order-tolerant so at-least-once unordered delivery converges on the
// correct local state. Decode failures, unknown event types, and reaction
// errors are logged and acknowledged; a bad event never blocks the stream.
package eventproc
