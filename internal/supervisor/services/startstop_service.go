// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package services

import (
	"context"
	"fmt"
)

// StartStopper matches the Start/Stop lifecycle shared by the
// reconciliation manager and the seeder. Start spawns internal
// goroutines and returns; Stop blocks until they finish.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop() error
}

// StartStopService adapts a Start/Stop component to suture's Serve.
type StartStopService struct {
	component StartStopper
	name      string
}

// NewStartStopService wraps a Start/Stop component under the given
// service name.
func NewStartStopService(component StartStopper, name string) *StartStopService {
	return &StartStopService{component: component, name: name}
}

// Serve implements suture.Service: start, wait for cancellation, stop.
// A failing Start returns immediately so suture applies its backoff.
func (s *StartStopService) Serve(ctx context.Context) error {
	if err := s.component.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	if err := s.component.Stop(); err != nil {
		return fmt.Errorf("%s stop failed: %w", s.name, err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for suture's event log.
func (s *StartStopService) String() string {
	return s.name
}
