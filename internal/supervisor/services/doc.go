// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package services adapts the application's components to suture.Service.
// Each wrapper translates one lifecycle shape (blocking ListenAndServe,
// Start/Stop managers, the Watermill router's Run/Close) into the
// context-driven Serve(ctx) that suture supervises.
package services
