// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package seed loads the baseline relation dataset into an empty owner
// partition. The record named "seed" acts as the sentinel: its presence
// means the partition has been seeded before and the run becomes a no-op,
// so the periodic timer can fire forever without duplicating data.
package seed
