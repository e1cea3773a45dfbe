// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package database

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested relation does not exist in the
	// owner partition.
	ErrNotFound = errors.New("relation not found")

	// ErrDuplicateKvk indicates an insert or update would violate the
	// UNIQUE(owner, kvk_number) constraint.
	ErrDuplicateKvk = errors.New("relation with this kvkNumber already exists")
)

// isUniqueViolation reports whether err is a DuckDB unique constraint
// violation. DuckDB surfaces these as constraint errors in the message
// text; there is no typed error to match on.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
