// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// CreateRelation inserts a new relation into its owner partition. An empty
// ID gets a fresh UUID; timestamps are set if zero. A kvk_number collision
// within the partition returns ErrDuplicateKvk.
func (db *DB) CreateRelation(ctx context.Context, rel *models.Relation) error {
	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = now
	}
	if rel.UpdatedAt.IsZero() {
		rel.UpdatedAt = now
	}

	start := time.Now()
	query := `INSERT INTO relations (id, owner, name, kvk_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx, rel.ID, rel.Owner, rel.Name, rel.KvkNumber, rel.CreatedAt, rel.UpdatedAt)
	metrics.RecordDBQuery("insert", "relations", time.Since(start))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKvk
		}
		metrics.RecordDBError("insert", "relations", "exec")
		return fmt.Errorf("failed to insert relation: %w", err)
	}
	return nil
}

// GetRelationByID returns the relation with the given ID from the owner
// partition, or ErrNotFound.
func (db *DB) GetRelationByID(ctx context.Context, owner, id string) (*models.Relation, error) {
	query := `SELECT id, owner, name, kvk_number, created_at, updated_at
		FROM relations WHERE owner = ? AND id = ?`
	return db.queryRelation(ctx, query, owner, id)
}

// GetRelationByKvk returns the relation with the given kvkNumber from the
// owner partition, or ErrNotFound. This is the lookup every reaction uses:
// kvkNumber is the only identifier that is stable across partitions.
func (db *DB) GetRelationByKvk(ctx context.Context, owner, kvkNumber string) (*models.Relation, error) {
	query := `SELECT id, owner, name, kvk_number, created_at, updated_at
		FROM relations WHERE owner = ? AND kvk_number = ?`
	return db.queryRelation(ctx, query, owner, kvkNumber)
}

// GetRelationByName returns the first relation with the given name from the
// owner partition, or ErrNotFound. The seeder uses this to look for its
// sentinel record.
func (db *DB) GetRelationByName(ctx context.Context, owner, name string) (*models.Relation, error) {
	query := `SELECT id, owner, name, kvk_number, created_at, updated_at
		FROM relations WHERE owner = ? AND name = ? LIMIT 1`
	return db.queryRelation(ctx, query, owner, name)
}

func (db *DB) queryRelation(ctx context.Context, query string, args ...any) (*models.Relation, error) {
	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	row := stmt.QueryRowContext(ctx, args...)
	rel, err := scanRelation(row)
	metrics.RecordDBQuery("select", "relations", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.RecordDBError("select", "relations", "scan")
		return nil, fmt.Errorf("failed to query relation: %w", err)
	}
	return rel, nil
}

// UpdateRelation overwrites name and kvk_number of the relation identified
// by ID within the owner partition. Returns ErrNotFound when the ID does
// not exist and ErrDuplicateKvk when the new kvk_number collides with
// another relation in the partition.
func (db *DB) UpdateRelation(ctx context.Context, rel *models.Relation) error {
	rel.UpdatedAt = time.Now().UTC()

	query := `UPDATE relations SET name = ?, kvk_number = ?, updated_at = ?
		WHERE owner = ? AND id = ?`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := stmt.ExecContext(ctx, rel.Name, rel.KvkNumber, rel.UpdatedAt, rel.Owner, rel.ID)
	metrics.RecordDBQuery("update", "relations", time.Since(start))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKvk
		}
		metrics.RecordDBError("update", "relations", "exec")
		return fmt.Errorf("failed to update relation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertRelationByKvk inserts the relation, or overwrites name and
// updated_at when a relation with the same kvk_number already exists in
// the owner partition. This makes duplicate created events and
// created/updated races converge on a single record.
func (db *DB) UpsertRelationByKvk(ctx context.Context, rel *models.Relation) error {
	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = now
	}
	rel.UpdatedAt = now

	query := `INSERT INTO relations (id, owner, name, kvk_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, kvk_number) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = stmt.ExecContext(ctx, rel.ID, rel.Owner, rel.Name, rel.KvkNumber, rel.CreatedAt, rel.UpdatedAt)
	metrics.RecordDBQuery("upsert", "relations", time.Since(start))
	if err != nil {
		metrics.RecordDBError("upsert", "relations", "exec")
		return fmt.Errorf("failed to upsert relation: %w", err)
	}
	return nil
}

// DeleteRelation removes the relation with the given ID from the owner
// partition. Returns ErrNotFound when no row matched.
func (db *DB) DeleteRelation(ctx context.Context, owner, id string) error {
	return db.deleteOne(ctx, `DELETE FROM relations WHERE owner = ? AND id = ?`, owner, id)
}

// DeleteRelationByKvk removes the relation with the given kvkNumber from
// the owner partition. Returns ErrNotFound when no row matched.
func (db *DB) DeleteRelationByKvk(ctx context.Context, owner, kvkNumber string) error {
	return db.deleteOne(ctx, `DELETE FROM relations WHERE owner = ? AND kvk_number = ?`, owner, kvkNumber)
}

func (db *DB) deleteOne(ctx context.Context, query string, args ...any) error {
	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := stmt.ExecContext(ctx, args...)
	metrics.RecordDBQuery("delete", "relations", time.Since(start))
	if err != nil {
		metrics.RecordDBError("delete", "relations", "exec")
		return fmt.Errorf("failed to delete relation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRelationsByOwner returns all relations in the owner partition,
// ordered by creation time.
func (db *DB) ListRelationsByOwner(ctx context.Context, owner string) ([]models.Relation, error) {
	query := `SELECT id, owner, name, kvk_number, created_at, updated_at
		FROM relations WHERE owner = ? ORDER BY created_at, id`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := stmt.QueryContext(ctx, owner)
	metrics.RecordDBQuery("select", "relations", time.Since(start))
	if err != nil {
		metrics.RecordDBError("select", "relations", "query")
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	defer closeQuietly(rows)

	var relations []models.Relation
	for rows.Next() {
		var rel models.Relation
		if err := rows.Scan(&rel.ID, &rel.Owner, &rel.Name, &rel.KvkNumber, &rel.CreatedAt, &rel.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan relation row: %w", err)
		}
		relations = append(relations, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate relation rows: %w", err)
	}
	return relations, nil
}

// CountRelationsByOwner returns the number of relations in the owner partition.
func (db *DB) CountRelationsByOwner(ctx context.Context, owner string) (int, error) {
	stmt, err := db.getOrPrepare(ctx, `SELECT COUNT(*) FROM relations WHERE owner = ?`)
	if err != nil {
		return 0, err
	}

	var count int
	if err := stmt.QueryRowContext(ctx, owner).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count relations: %w", err)
	}
	return count, nil
}

// DeleteRelationsByOwner removes every relation in the owner partition and
// returns the number of rows deleted. The seeder uses this to clear
// partial state before re-seeding.
func (db *DB) DeleteRelationsByOwner(ctx context.Context, owner string) (int, error) {
	stmt, err := db.getOrPrepare(ctx, `DELETE FROM relations WHERE owner = ?`)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	res, err := stmt.ExecContext(ctx, owner)
	metrics.RecordDBQuery("delete", "relations", time.Since(start))
	if err != nil {
		metrics.RecordDBError("delete", "relations", "exec")
		return 0, fmt.Errorf("failed to delete owner relations: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(affected), nil
}

// BulkInsertRelations inserts the given relations into the owner partition
// inside a single transaction, skipping rows whose kvk_number already
// exists. Returns the number of rows actually inserted.
func (db *DB) BulkInsertRelations(ctx context.Context, owner string, relations []models.Relation) (int, error) {
	if len(relations) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO relations (id, owner, name, kvk_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, kvk_number) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bulk insert: %w", err)
	}
	defer closeQuietly(stmt)

	now := time.Now().UTC()
	inserted := 0
	for i := range relations {
		rel := &relations[i]
		id := rel.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := rel.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		res, err := stmt.ExecContext(ctx, id, owner, rel.Name, rel.KvkNumber, createdAt, now)
		if err != nil {
			return 0, fmt.Errorf("failed to bulk insert relation %s: %w", rel.KvkNumber, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return inserted, nil
}

// scanRelation scans a single relation row.
func scanRelation(row *sql.Row) (*models.Relation, error) {
	var rel models.Relation
	if err := row.Scan(&rel.ID, &rel.Owner, &rel.Name, &rel.KvkNumber, &rel.CreatedAt, &rel.UpdatedAt); err != nil {
		return nil, err
	}
	return &rel, nil
}
