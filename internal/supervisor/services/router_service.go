// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package services

import (
	"context"
	"fmt"
)

// MessageRouter matches the Watermill router wrapper's lifecycle. Run
// blocks until the context is canceled or Close is called.
type MessageRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterService runs the event consumer router as a supervised service.
// Run already honors context cancellation, so Serve is a direct
// delegation with a Close to drain in-flight messages afterwards.
type RouterService struct {
	router MessageRouter
	name   string
}

// NewRouterService wraps the event router.
func NewRouterService(router MessageRouter) *RouterService {
	return &RouterService{router: router, name: "event-router"}
}

// Serve implements suture.Service.
func (s *RouterService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	closeErr := s.router.Close()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("event router close failed: %w", closeErr)
	}
	return nil
}

// String implements fmt.Stringer for suture's event log.
func (s *RouterService) String() string {
	return s.name
}
