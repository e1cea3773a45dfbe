// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/events"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// fakeStore is an in-memory RelationStore keyed by kvkNumber, mirroring
// the real store's upsert and not-found semantics.
type fakeStore struct {
	owner     string
	relations map[string]*models.Relation
	mutations int
	failWith  error
	nextID    int
}

func newFakeStore(owner string) *fakeStore {
	return &fakeStore{
		owner:     owner,
		relations: make(map[string]*models.Relation),
	}
}

func (s *fakeStore) GetRelationByKvk(_ context.Context, owner, kvkNumber string) (*models.Relation, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
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
	if s.failWith != nil {
		return s.failWith
	}
	s.mutations++
	if existing, ok := s.relations[rel.KvkNumber]; ok {
		existing.Name = rel.Name
		return nil
	}
	s.nextID++
	cp := *rel
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("id-%d", s.nextID)
	}
	s.relations[rel.KvkNumber] = &cp
	return nil
}

func (s *fakeStore) DeleteRelationByKvk(_ context.Context, owner, kvkNumber string) error {
	if s.failWith != nil {
		return s.failWith
	}
	if owner != s.owner {
		return database.ErrNotFound
	}
	if _, ok := s.relations[kvkNumber]; !ok {
		return database.ErrNotFound
	}
	s.mutations++
	delete(s.relations, kvkNumber)
	return nil
}

func TestCreatedReaction_DuplicateDelivery(t *testing.T) {
	store := newFakeStore("Coca")
	reaction := NewCreatedReaction(store, "Coca")
	ctx := context.Background()

	payload := events.RelationPayload{Name: "Cola", KvkNumber: "87654321"}
	if err := reaction.Handle(ctx, payload); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := reaction.Handle(ctx, payload); err != nil {
		t.Fatalf("duplicate delivery failed: %v", err)
	}

	if len(store.relations) != 1 {
		t.Errorf("expected exactly one record, got %d", len(store.relations))
	}
}

func TestUpdatedReaction_Idempotent(t *testing.T) {
	store := newFakeStore("Coca")
	reaction := NewUpdatedReaction(store, "Coca")
	ctx := context.Background()

	seed := &models.Relation{Owner: "Coca", Name: "Old", KvkNumber: "123"}
	if err := store.UpsertRelationByKvk(ctx, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	payload := events.RelationPayload{Name: "New", KvkNumber: "123"}
	if err := reaction.Handle(ctx, payload); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	first := *store.relations["123"]

	if err := reaction.Handle(ctx, payload); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	second := *store.relations["123"]

	if first != second {
		t.Errorf("store changed on duplicate update: %+v vs %+v", first, second)
	}
	if second.Name != "New" {
		t.Errorf("expected name overwritten, got %q", second.Name)
	}
}

func TestUpdatedReaction_InsertsWhenAbsent(t *testing.T) {
	store := newFakeStore("Coca")
	reaction := NewUpdatedReaction(store, "Coca")

	// Update arrives before the created event ever did
	payload := events.RelationPayload{Name: "Cola", KvkNumber: "456"}
	if err := reaction.Handle(context.Background(), payload); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rel, ok := store.relations["456"]
	if !ok {
		t.Fatal("expected record to be inserted from update payload")
	}
	if rel.Name != "Cola" {
		t.Errorf("expected payload name, got %q", rel.Name)
	}
}

func TestCreatedUpdatedConvergence(t *testing.T) {
	ctx := context.Background()
	created := events.RelationPayload{Name: "Original", KvkNumber: "789"}
	updated := events.RelationPayload{Name: "Renamed", KvkNumber: "789"}

	t.Run("created then updated", func(t *testing.T) {
		store := newFakeStore("Coca")
		dispatcher := NewDispatcher(store, "Coca")

		if err := dispatcher.Dispatch(events.TypeRelationCreated).Handle(ctx, created); err != nil {
			t.Fatalf("created failed: %v", err)
		}
		if err := dispatcher.Dispatch(events.TypeRelationUpdated).Handle(ctx, updated); err != nil {
			t.Fatalf("updated failed: %v", err)
		}

		if len(store.relations) != 1 || store.relations["789"].Name != "Renamed" {
			t.Errorf("expected single renamed record, got %+v", store.relations)
		}
	})

	t.Run("updated then created", func(t *testing.T) {
		store := newFakeStore("Coca")
		dispatcher := NewDispatcher(store, "Coca")

		if err := dispatcher.Dispatch(events.TypeRelationUpdated).Handle(ctx, updated); err != nil {
			t.Fatalf("updated failed: %v", err)
		}
		if err := dispatcher.Dispatch(events.TypeRelationCreated).Handle(ctx, created); err != nil {
			t.Fatalf("created failed: %v", err)
		}

		if len(store.relations) != 1 {
			t.Fatalf("expected single record, got %d", len(store.relations))
		}
	})
}

func TestDeletedReaction_NoMatchIsNoop(t *testing.T) {
	store := newFakeStore("Coca")
	reaction := NewDeletedReaction(store, "Coca")

	err := reaction.Handle(context.Background(), events.RelationPayload{KvkNumber: "999"})
	if err != nil {
		t.Errorf("expected benign no-op, got %v", err)
	}
	if store.mutations != 0 {
		t.Errorf("expected no mutations, got %d", store.mutations)
	}
}

func TestDeletedReaction_Deletes(t *testing.T) {
	store := newFakeStore("Coca")
	ctx := context.Background()
	if err := store.UpsertRelationByKvk(ctx, &models.Relation{Owner: "Coca", Name: "Cola", KvkNumber: "1"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	reaction := NewDeletedReaction(store, "Coca")
	if err := reaction.Handle(ctx, events.RelationPayload{KvkNumber: "1"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.relations) != 0 {
		t.Error("expected record removed")
	}
}

func TestReactions_MissingKvkNumber(t *testing.T) {
	store := newFakeStore("Coca")
	dispatcher := NewDispatcher(store, "Coca")
	ctx := context.Background()

	for _, eventType := range events.KnownTypes() {
		t.Run(eventType, func(t *testing.T) {
			err := dispatcher.Dispatch(eventType).Handle(ctx, events.RelationPayload{Name: "x"})
			if !errors.Is(err, ErrMissingKvkNumber) {
				t.Errorf("expected ErrMissingKvkNumber, got %v", err)
			}
		})
	}
}

func TestReactions_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore("Coca")
	store.failWith = errors.New("disk full")
	dispatcher := NewDispatcher(store, "Coca")

	err := dispatcher.Dispatch(events.TypeRelationCreated).Handle(context.Background(), events.RelationPayload{Name: "x", KvkNumber: "1"})
	if err == nil || !errors.Is(err, store.failWith) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}
