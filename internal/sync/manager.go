// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// RelationFetcher returns the authoritative relation set.
type RelationFetcher interface {
	FetchRelations(ctx context.Context) ([]models.Relation, error)
}

// RelationStore is the slice of the store the reconciler needs.
type RelationStore interface {
	GetRelationByKvk(ctx context.Context, owner, kvkNumber string) (*models.Relation, error)
	UpsertRelationByKvk(ctx context.Context, rel *models.Relation) error
}

// Manager runs the reconciliation loop. Each tick it pulls the full
// authoritative relation set and ensures every record exists locally,
// which repairs any divergence the event stream left behind. Records
// deleted upstream are left to the relation:deleted event; the pull
// only adds, never removes.
type Manager struct {
	cfg     *config.SyncConfig
	fetcher RelationFetcher
	store   RelationStore
	owner   string

	mu       stdsync.Mutex
	running  bool
	stopChan chan struct{}
	wg       stdsync.WaitGroup
}

// NewManager creates a reconciliation manager for the owner partition.
func NewManager(cfg *config.SyncConfig, fetcher RelationFetcher, store RelationStore, owner string) *Manager {
	return &Manager{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		owner:   owner,
	}
}

// Start begins the periodic reconciliation loop. The first run happens
// immediately, not after the first interval.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("sync manager is already running")
	}

	m.running = true
	m.stopChan = make(chan struct{})

	m.wg.Add(1)
	go m.loop(ctx)

	logging.Info().
		Str("owner", m.owner).
		Dur("interval", m.cfg.Interval).
		Msg("Reconciliation manager started")
	return nil
}

// Stop halts the loop and waits for an in-flight run to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	m.wg.Wait()
	logging.Info().Str("owner", m.owner).Msg("Reconciliation manager stopped")
	return nil
}

// IsRunning reports whether the loop is active.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.runOnce(ctx)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *Manager) runOnce(ctx context.Context) {
	if err := m.Reconcile(ctx); err != nil {
		logging.Error().Err(err).Str("owner", m.owner).Msg("Reconciliation run failed")
	}
}

// Reconcile performs one pull-and-apply pass. A record that fails to
// apply is logged and skipped; one bad record never aborts the batch.
func (m *Manager) Reconcile(ctx context.Context) error {
	start := time.Now()

	relations, err := m.fetcher.FetchRelations(ctx)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("fetch_failed").Inc()
		return fmt.Errorf("fetch authoritative relations: %w", err)
	}

	var applied, failed int
	for i := range relations {
		if err := m.ensureExists(ctx, &relations[i]); err != nil {
			failed++
			metrics.ReconcileRecordFailures.Inc()
			logging.Warn().Err(err).
				Str("owner", m.owner).
				Str("kvk_number", relations[i].KvkNumber).
				Msg("Failed to reconcile record, skipping")
			continue
		}
		applied++
		metrics.ReconcileRecordsTotal.Inc()
	}

	outcome := "success"
	if failed > 0 {
		outcome = "partial"
	} else {
		metrics.ReconcileLastSuccess.SetToCurrentTime()
	}
	metrics.ReconcileRunsTotal.WithLabelValues(outcome).Inc()

	logging.Info().
		Str("owner", m.owner).
		Int("fetched", len(relations)).
		Int("applied", applied).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Reconciliation run complete")
	return nil
}

// ensureExists upserts one authoritative record into the owner partition.
// An existing record keeps its local ID and creation time; the pull only
// refreshes the name.
func (m *Manager) ensureExists(ctx context.Context, authoritative *models.Relation) error {
	if authoritative.KvkNumber == "" {
		return errors.New("authoritative record has no kvkNumber")
	}

	rel := &models.Relation{
		Owner:     m.owner,
		Name:      authoritative.Name,
		KvkNumber: authoritative.KvkNumber,
	}

	existing, err := m.store.GetRelationByKvk(ctx, m.owner, authoritative.KvkNumber)
	switch {
	case errors.Is(err, database.ErrNotFound):
		// New record, fall through to insert.
	case err != nil:
		return fmt.Errorf("look up kvk %s: %w", authoritative.KvkNumber, err)
	default:
		rel.ID = existing.ID
		rel.CreatedAt = existing.CreatedAt
	}

	if err := m.store.UpsertRelationByKvk(ctx, rel); err != nil {
		return fmt.Errorf("upsert kvk %s: %w", authoritative.KvkNumber, err)
	}
	return nil
}
