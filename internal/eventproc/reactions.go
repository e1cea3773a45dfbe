// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package eventproc

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/events"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// ErrMissingKvkNumber indicates a payload without the natural key that
// every reaction matches on. Such an event cannot be applied.
var ErrMissingKvkNumber = errors.New("event payload has no kvkNumber")

// RelationStore is the slice of the store the reactions need. Matching
// always goes through the kvkNumber because record IDs are not comparable
// across owner partitions.
type RelationStore interface {
	GetRelationByKvk(ctx context.Context, owner, kvkNumber string) (*models.Relation, error)
	UpsertRelationByKvk(ctx context.Context, rel *models.Relation) error
	DeleteRelationByKvk(ctx context.Context, owner, kvkNumber string) error
}

// Reaction applies one event payload to the local owner partition.
// Implementations must be idempotent and order-tolerant: the broker
// delivers at least once with no ordering guarantee.
type Reaction interface {
	Handle(ctx context.Context, payload events.RelationPayload) error
}

// CreatedReaction handles relation:created events with an upsert keyed on
// kvkNumber. A blind insert would fail on duplicate delivery and lose the
// race against an earlier relation:updated; the upsert converges both
// cases onto a single record.
type CreatedReaction struct {
	store RelationStore
	owner string
}

// NewCreatedReaction creates the relation:created reaction for the owner partition.
func NewCreatedReaction(store RelationStore, owner string) *CreatedReaction {
	return &CreatedReaction{store: store, owner: owner}
}

func (r *CreatedReaction) Handle(ctx context.Context, payload events.RelationPayload) error {
	if payload.KvkNumber == "" {
		return ErrMissingKvkNumber
	}

	rel := &models.Relation{
		Owner:     r.owner,
		Name:      payload.Name,
		KvkNumber: payload.KvkNumber,
	}
	if err := r.store.UpsertRelationByKvk(ctx, rel); err != nil {
		return fmt.Errorf("apply created event for kvk %s: %w", payload.KvkNumber, err)
	}

	logging.Ctx(ctx).Info().
		Str("kvk_number", payload.KvkNumber).
		Str("name", payload.Name).
		Msg("Relation created locally")
	return nil
}

// UpdatedReaction handles relation:updated events. When the record exists
// the name is overwritten; when it does not, the record is inserted from
// the payload, self-healing a created event that never arrived.
type UpdatedReaction struct {
	store RelationStore
	owner string
}

// NewUpdatedReaction creates the relation:updated reaction for the owner partition.
func NewUpdatedReaction(store RelationStore, owner string) *UpdatedReaction {
	return &UpdatedReaction{store: store, owner: owner}
}

func (r *UpdatedReaction) Handle(ctx context.Context, payload events.RelationPayload) error {
	if payload.KvkNumber == "" {
		return ErrMissingKvkNumber
	}

	existing, err := r.store.GetRelationByKvk(ctx, r.owner, payload.KvkNumber)
	switch {
	case errors.Is(err, database.ErrNotFound):
		logging.Ctx(ctx).Warn().
			Str("kvk_number", payload.KvkNumber).
			Msg("Update for unknown relation, inserting from payload")
	case err != nil:
		return fmt.Errorf("look up relation for kvk %s: %w", payload.KvkNumber, err)
	}

	rel := &models.Relation{
		Owner:     r.owner,
		Name:      payload.Name,
		KvkNumber: payload.KvkNumber,
	}
	if existing != nil {
		rel.ID = existing.ID
		rel.CreatedAt = existing.CreatedAt
	}

	if err := r.store.UpsertRelationByKvk(ctx, rel); err != nil {
		return fmt.Errorf("apply updated event for kvk %s: %w", payload.KvkNumber, err)
	}

	logging.Ctx(ctx).Info().
		Str("kvk_number", payload.KvkNumber).
		Str("name", payload.Name).
		Bool("inserted", existing == nil).
		Msg("Relation updated locally")
	return nil
}

// DeletedReaction handles relation:deleted events. Deleting a record that
// is already gone is a benign no-op: the delivery may be a duplicate, or
// the created event may never have arrived at all.
type DeletedReaction struct {
	store RelationStore
	owner string
}

// NewDeletedReaction creates the relation:deleted reaction for the owner partition.
func NewDeletedReaction(store RelationStore, owner string) *DeletedReaction {
	return &DeletedReaction{store: store, owner: owner}
}

func (r *DeletedReaction) Handle(ctx context.Context, payload events.RelationPayload) error {
	if payload.KvkNumber == "" {
		return ErrMissingKvkNumber
	}

	err := r.store.DeleteRelationByKvk(ctx, r.owner, payload.KvkNumber)
	if errors.Is(err, database.ErrNotFound) {
		logging.Ctx(ctx).Warn().
			Str("kvk_number", payload.KvkNumber).
			Msg("Delete for unknown relation, nothing to do")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply deleted event for kvk %s: %w", payload.KvkNumber, err)
	}

	logging.Ctx(ctx).Info().
		Str("kvk_number", payload.KvkNumber).
		Msg("Relation deleted locally")
	return nil
}
