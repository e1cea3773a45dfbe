// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package api

// CreateRelationRequest is the body of POST /api/v1/relation.
type CreateRelationRequest struct {
	Name      string `json:"name" validate:"required,max=128"`
	KvkNumber string `json:"kvkNumber" validate:"required,kvknumber"`
}

// UpdateRelationRequest is the body of PUT /api/v1/relation/{id}.
// Both fields are optional; absent fields keep their current value.
type UpdateRelationRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	KvkNumber *string `json:"kvkNumber,omitempty" validate:"omitempty,kvknumber"`
}
