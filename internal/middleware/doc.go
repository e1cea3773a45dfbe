// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package middleware provides HTTP middleware shared by the API routers:
// request ID propagation and Prometheus instrumentation.
package middleware
