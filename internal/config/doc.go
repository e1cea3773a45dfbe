// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

// Package config loads layered configuration for both binaries using
// Koanf v2: built-in defaults, then an optional YAML file, then
// environment variables.
package config
