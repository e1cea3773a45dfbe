// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package metrics defines the Prometheus instrumentation shared by both
// binaries: store query timings, API request counters, event publish and
// consume outcomes, reconciliation runs, and seeder activity.
//
// All collectors are registered with the default registry via promauto
// and exposed through the /metrics endpoint.
package metrics
