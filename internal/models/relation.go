// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package models

import "time"

// Relation is a business relation record. The authoritative side and every
// consuming side hold their own copy, partitioned by Owner. KvkNumber is the
// natural key: it is unique within an owner partition and is what event
// reactions match on, since IDs are assigned independently per partition.
type Relation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	KvkNumber string    `json:"kvkNumber"`
	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// SystemOwner is the owner partition of the authoritative side.
const SystemOwner = "system"

// SeedSentinelName marks a fully seeded owner partition. The seeder checks
// for a relation with this name before inserting the baseline dataset.
const SeedSentinelName = "seed"

// IsSeedSentinel reports whether the relation is the seeder's marker record.
func (r *Relation) IsSeedSentinel() bool {
	return r.Name == SeedSentinelName
}
