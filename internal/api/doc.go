// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package api implements the authoritative relation HTTP API using the
// Chi router. Every mutation persists to the store first and then emits
// the matching relation event; a publish failure is logged and counted
// but never fails the request, the reconciliation pull covers the gap.
package api
