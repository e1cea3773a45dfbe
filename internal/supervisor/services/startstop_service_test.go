// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockStartStopper struct {
	startCalls atomic.Int32
	stopCalls  atomic.Int32
	startErr   error
	stopErr    error
}

func (m *mockStartStopper) Start(_ context.Context) error {
	m.startCalls.Add(1)
	return m.startErr
}

func (m *mockStartStopper) Stop() error {
	m.stopCalls.Add(1)
	return m.stopErr
}

func TestStartStopService_Lifecycle(t *testing.T) {
	mock := &mockStartStopper{}
	svc := NewStartStopService(mock, "reconcile-manager")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if mock.startCalls.Load() != 1 || mock.stopCalls.Load() != 1 {
		t.Errorf("start=%d stop=%d, want 1/1", mock.startCalls.Load(), mock.stopCalls.Load())
	}
}

func TestStartStopService_StartFailure(t *testing.T) {
	mock := &mockStartStopper{startErr: errors.New("already running")}
	svc := NewStartStopService(mock, "seeder")

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, mock.startErr) {
		t.Errorf("Serve returned %v, want wrapped start error", err)
	}
	if mock.stopCalls.Load() != 0 {
		t.Error("Stop should not run when Start fails")
	}
}

func TestStartStopService_StopFailure(t *testing.T) {
	mock := &mockStartStopper{stopErr: errors.New("stuck goroutine")}
	svc := NewStartStopService(mock, "seeder")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	if err == nil || !errors.Is(err, mock.stopErr) {
		t.Errorf("Serve returned %v, want wrapped stop error", err)
	}
}

func TestStartStopService_String(t *testing.T) {
	svc := NewStartStopService(&mockStartStopper{}, "seeder")
	if svc.String() != "seeder" {
		t.Errorf("String() = %q", svc.String())
	}
}
