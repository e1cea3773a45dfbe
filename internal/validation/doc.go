// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton. It registers a kvknumber validator
// for eight digit chamber of commerce numbers and translates field errors
// into the API's VALIDATION_ERROR response format.
//
// Example usage:
//
//	type CreateRelationRequest struct {
//	    Name      string `json:"name" validate:"required,max=128"`
//	    KvkNumber string `json:"kvkNumber" validate:"required,kvknumber"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    // respond 400 with apiErr.Code and apiErr.Message
//	}
package validation
