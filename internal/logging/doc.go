// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package logging provides centralized zerolog-based logging for the
// relation synchronization services.
//
// Both binaries share a single global logger configured once at startup:
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("topic", topic).Msg("Publisher ready")
//	logging.Ctx(ctx).Error().Err(err).Msg("Reaction failed")
//
// Context-aware helpers propagate request IDs through HTTP handlers and
// event reactions so a single mutation can be traced from the API call
// through the broker to the consuming side.
package logging
