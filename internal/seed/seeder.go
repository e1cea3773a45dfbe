// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	stdsync "sync"
	"time"

	"github.com/yaelgoede/TheLogicalProject/internal/config"
	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// RelationStore is the slice of the store the seeder needs.
type RelationStore interface {
	GetRelationByName(ctx context.Context, owner, name string) (*models.Relation, error)
	DeleteRelationsByOwner(ctx context.Context, owner string) (int, error)
	BulkInsertRelations(ctx context.Context, owner string, relations []models.Relation) (int, error)
}

// Seeder periodically ensures the owner partition holds the baseline
// dataset. Runs are idempotent: once the sentinel record exists every
// later run is a cheap lookup and a skip.
type Seeder struct {
	cfg      *config.SeedConfig
	store    RelationStore
	owner    string
	baseline []models.Relation

	mu       stdsync.Mutex
	running  bool
	stopChan chan struct{}
	wg       stdsync.WaitGroup
}

// NewSeeder creates a seeder for the owner partition. When cfg.File is
// set the baseline is read from it at construction time; otherwise the
// built-in fixture is used.
func NewSeeder(cfg *config.SeedConfig, store RelationStore, owner string) (*Seeder, error) {
	baseline := defaultBaseline()
	if cfg.File != "" {
		loaded, err := loadBaselineFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("load seed file %s: %w", cfg.File, err)
		}
		baseline = loaded
	}

	return &Seeder{
		cfg:      cfg,
		store:    store,
		owner:    owner,
		baseline: baseline,
	}, nil
}

// defaultBaseline is the built-in dataset, sentinel first.
func defaultBaseline() []models.Relation {
	return []models.Relation{
		{Name: models.SeedSentinelName, KvkNumber: "12345678"},
		{Name: "Coca", KvkNumber: "12312312"},
		{Name: "Cola", KvkNumber: "87654321"},
	}
}

// loadBaselineFile parses a two-column CSV (name,kvkNumber). A header
// row with those column names is skipped. The sentinel record is
// prepended when the file does not carry one itself.
func loadBaselineFile(path string) ([]models.Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var baseline []models.Relation
	hasSentinel := false
	for i, row := range rows {
		name := strings.TrimSpace(row[0])
		kvk := strings.TrimSpace(row[1])
		if i == 0 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" || kvk == "" {
			return nil, fmt.Errorf("row %d: name and kvkNumber are required", i+1)
		}
		rel := models.Relation{Name: name, KvkNumber: kvk}
		if rel.IsSeedSentinel() {
			hasSentinel = true
		}
		baseline = append(baseline, rel)
	}

	if len(baseline) == 0 {
		return nil, errors.New("seed file holds no records")
	}
	if !hasSentinel {
		baseline = append([]models.Relation{{Name: models.SeedSentinelName, KvkNumber: "12345678"}}, baseline...)
	}
	return baseline, nil
}

// Start begins the periodic seeding loop with an immediate first run.
func (s *Seeder) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("seeder is already running")
	}

	s.running = true
	s.stopChan = make(chan struct{})

	s.wg.Add(1)
	go s.loop(ctx)

	logging.Info().
		Str("owner", s.owner).
		Dur("interval", s.cfg.Interval).
		Int("baseline_records", len(s.baseline)).
		Msg("Seeder started")
	return nil
}

// Stop halts the loop and waits for an in-flight run to finish.
func (s *Seeder) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	logging.Info().Str("owner", s.owner).Msg("Seeder stopped")
	return nil
}

// IsRunning reports whether the loop is active.
func (s *Seeder) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Seeder) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Seeder) runOnce(ctx context.Context) {
	if _, err := s.Run(ctx); err != nil {
		metrics.SeedRunsTotal.WithLabelValues("failed").Inc()
		logging.Error().Err(err).Str("owner", s.owner).Msg("Seed run failed")
	}
}

// Run performs one seed pass and returns the number of inserted records.
// When the sentinel is present the partition is considered seeded and
// nothing is written. Otherwise the partition is cleared and the full
// baseline is inserted, so a partially seeded partition heals itself.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	_, err := s.store.GetRelationByName(ctx, s.owner, models.SeedSentinelName)
	switch {
	case err == nil:
		metrics.SeedRunsTotal.WithLabelValues("skipped").Inc()
		logging.Debug().Str("owner", s.owner).Msg("Seed sentinel present, skipping")
		return 0, nil
	case !errors.Is(err, database.ErrNotFound):
		return 0, fmt.Errorf("look up seed sentinel: %w", err)
	}

	deleted, err := s.store.DeleteRelationsByOwner(ctx, s.owner)
	if err != nil {
		return 0, fmt.Errorf("clear partition before seeding: %w", err)
	}

	inserted, err := s.store.BulkInsertRelations(ctx, s.owner, s.baseline)
	if err != nil {
		return 0, fmt.Errorf("insert baseline: %w", err)
	}

	metrics.SeedRunsTotal.WithLabelValues("seeded").Inc()
	metrics.SeedRecordsInserted.Add(float64(inserted))

	logging.Info().
		Str("owner", s.owner).
		Int("deleted", deleted).
		Int("inserted", inserted).
		Msg("Baseline dataset seeded")
	return inserted, nil
}
