// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package sync implements the reconciliation puller: the safety net under
// the event pipeline. On a fixed interval it fetches the authoritative
// relation set from the system API and ensures every record exists in the
// local owner partition, closing any gap left by lost or dropped events.
package sync
