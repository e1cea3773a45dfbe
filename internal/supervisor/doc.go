// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package supervisor builds the suture/v4 supervision tree both binaries
// run under. The tree has three layers (data, messaging, api) so a crash
// in one layer restarts only its own services.
package supervisor
