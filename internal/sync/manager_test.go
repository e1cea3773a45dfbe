// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

type fakeFetcher struct {
	relations []models.Relation
	err       error
	calls     int
}

func (f *fakeFetcher) FetchRelations(_ context.Context) ([]models.Relation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.relations, nil
}

type fakeStore struct {
	owner     string
	relations map[string]*models.Relation // keyed by kvkNumber
	mutations int
	failKvk   string
	nextID    int
}

func newFakeStore(owner string) *fakeStore {
	return &fakeStore{owner: owner, relations: make(map[string]*models.Relation)}
}

func (s *fakeStore) GetRelationByKvk(_ context.Context, owner, kvkNumber string) (*models.Relation, error) {
	if owner != s.owner {
		return nil, database.ErrNotFound
	}
	rel, ok := s.relations[kvkNumber]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *rel
	return &cp, nil
}

func (s *fakeStore) UpsertRelationByKvk(_ context.Context, rel *models.Relation) error {
	if rel.KvkNumber == s.failKvk {
		return errors.New("store rejected record")
	}
	s.mutations++
	stored := *rel
	if existing, ok := s.relations[rel.KvkNumber]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else if stored.ID == "" {
		s.nextID++
		stored.ID = fmt.Sprintf("id-%d", s.nextID)
		stored.CreatedAt = time.Now()
	}
	s.relations[rel.KvkNumber] = &stored
	return nil
}

func testSyncConfig() *config.SyncConfig {
	return &config.SyncConfig{Enabled: true, Interval: time.Minute}
}

func TestReconcile_InsertsMissingRecords(t *testing.T) {
	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "Coca", KvkNumber: "12312312"},
		{Name: "Cola", KvkNumber: "87654321"},
	}}
	store := newFakeStore("Coca")
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	if err := m.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(store.relations) != 2 {
		t.Errorf("expected 2 records after reconcile, got %d", len(store.relations))
	}
	if _, ok := store.relations["12312312"]; !ok {
		t.Error("expected kvk 12312312 to exist")
	}
}

func TestReconcile_PreservesLocalIdentity(t *testing.T) {
	store := newFakeStore("Coca")
	if err := store.UpsertRelationByKvk(context.Background(), &models.Relation{
		Owner: "Coca", Name: "Old Name", KvkNumber: "12312312",
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	original := store.relations["12312312"]
	store.mutations = 0

	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "New Name", KvkNumber: "12312312"},
	}}
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	if err := m.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	got := store.relations["12312312"]
	if got.ID != original.ID {
		t.Errorf("local ID changed: %q -> %q", original.ID, got.ID)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Error("local CreatedAt changed on reconcile")
	}
	if got.Name != "New Name" {
		t.Errorf("name = %q, want refreshed name", got.Name)
	}
}

func TestReconcile_BadRecordDoesNotAbortBatch(t *testing.T) {
	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "Good", KvkNumber: "11111111"},
		{Name: "Bad", KvkNumber: "22222222"},
		{Name: "AlsoGood", KvkNumber: "33333333"},
	}}
	store := newFakeStore("Coca")
	store.failKvk = "22222222"
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	if err := m.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile should not fail on a bad record: %v", err)
	}

	if len(store.relations) != 2 {
		t.Errorf("expected 2 applied records, got %d", len(store.relations))
	}
	if _, ok := store.relations["33333333"]; !ok {
		t.Error("record after the bad one was not applied")
	}
}

func TestReconcile_PartialRunOutcome(t *testing.T) {
	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "Good", KvkNumber: "11111111"},
		{Name: "Bad", KvkNumber: "22222222"},
	}}
	store := newFakeStore("Coca")
	store.failKvk = "22222222"
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	partialBefore := testutil.ToFloat64(metrics.ReconcileRunsTotal.WithLabelValues("partial"))
	successBefore := testutil.ToFloat64(metrics.ReconcileRunsTotal.WithLabelValues("success"))
	gaugeBefore := testutil.ToFloat64(metrics.ReconcileLastSuccess)

	if err := m.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.ReconcileRunsTotal.WithLabelValues("partial")); got != partialBefore+1 {
		t.Errorf("partial run count = %v, want %v", got, partialBefore+1)
	}
	if got := testutil.ToFloat64(metrics.ReconcileRunsTotal.WithLabelValues("success")); got != successBefore {
		t.Errorf("success run count moved on a partial pass: %v -> %v", successBefore, got)
	}
	if got := testutil.ToFloat64(metrics.ReconcileLastSuccess); got != gaugeBefore {
		t.Error("last success timestamp moved on a partial pass")
	}
}

func TestReconcile_SkipsRecordWithoutKvk(t *testing.T) {
	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "NoKey"},
		{Name: "Good", KvkNumber: "11111111"},
	}}
	store := newFakeStore("Coca")
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	if err := m.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(store.relations) != 1 {
		t.Errorf("expected only keyed record applied, got %d", len(store.relations))
	}
}

func TestReconcile_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("api unreachable")}
	store := newFakeStore("Coca")
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	if err := m.Reconcile(context.Background()); err == nil {
		t.Fatal("expected error when fetch fails")
	}
	if store.mutations != 0 {
		t.Errorf("expected no mutations on fetch failure, got %d", store.mutations)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	fetcher := &fakeFetcher{relations: []models.Relation{
		{Name: "Coca", KvkNumber: "12312312"},
	}}
	store := newFakeStore("Coca")
	m := NewManager(testSyncConfig(), fetcher, store, "Coca")

	for i := 0; i < 3; i++ {
		if err := m.Reconcile(context.Background()); err != nil {
			t.Fatalf("Reconcile run %d failed: %v", i+1, err)
		}
	}

	if len(store.relations) != 1 {
		t.Errorf("expected 1 record after repeated runs, got %d", len(store.relations))
	}
}

func TestManager_StartStop(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newFakeStore("Coca")
	cfg := &config.SyncConfig{Enabled: true, Interval: time.Hour}
	m := NewManager(cfg, fetcher, store, "Coca")

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.IsRunning() {
		t.Error("expected manager to be running")
	}
	if err := m.Start(context.Background()); err == nil {
		t.Error("expected error starting twice")
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if m.IsRunning() {
		t.Error("expected manager to be stopped")
	}
	if err := m.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op: %v", err)
	}

	// The immediate first run should have fired before Stop returned.
	if fetcher.calls == 0 {
		t.Error("expected at least one reconcile run on start")
	}
}
