// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package database provides the DuckDB-backed relation store used by both
// the authoritative system side and the consuming company side.
//
// All records live in a single relations table partitioned by owner, with
// a UNIQUE(owner, kvk_number) constraint enforcing the natural-key
// invariant that event reactions rely on.
package database
