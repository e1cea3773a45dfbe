// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/yaelgoede/TheLogicalProject/internal/database"
	"github.com/yaelgoede/TheLogicalProject/internal/events"
	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/metrics"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
	"github.com/yaelgoede/TheLogicalProject/internal/validation"
)

// maxRequestBody caps mutation request bodies.
const maxRequestBody = 1 << 20 // 1MB

// RelationStore is the slice of the store the handlers need.
type RelationStore interface {
	CreateRelation(ctx context.Context, rel *models.Relation) error
	GetRelationByID(ctx context.Context, owner, id string) (*models.Relation, error)
	GetRelationByKvk(ctx context.Context, owner, kvkNumber string) (*models.Relation, error)
	UpdateRelation(ctx context.Context, rel *models.Relation) error
	DeleteRelation(ctx context.Context, owner, id string) error
	ListRelationsByOwner(ctx context.Context, owner string) ([]models.Relation, error)
}

// EventPublisher emits one relation event per committed mutation.
type EventPublisher interface {
	PublishRelationEvent(ctx context.Context, eventType string, payload events.RelationPayload) error
}

// Pinger reports store liveness for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the relation CRUD endpoints for the authoritative
// owner partition. Mutations commit locally first, then publish; a
// failed publish never rolls back or fails the request.
type Handler struct {
	store     RelationStore
	publisher EventPublisher
	pinger    Pinger
	owner     string
}

// NewHandler creates the API handler for the system owner partition.
func NewHandler(store RelationStore, publisher EventPublisher, pinger Pinger) *Handler {
	return &Handler{
		store:     store,
		publisher: publisher,
		pinger:    pinger,
		owner:     models.SystemOwner,
	}
}

// CreateRelation handles POST /api/v1/relation.
func (h *Handler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CreateRelationRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	rel := &models.Relation{
		Owner:     h.owner,
		Name:      req.Name,
		KvkNumber: req.KvkNumber,
	}

	err := h.store.CreateRelation(r.Context(), rel)
	switch {
	case errors.Is(err, database.ErrDuplicateKvk):
		rw.Conflict("A relation with this kvkNumber already exists")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	metrics.RelationMutationsTotal.WithLabelValues("create").Inc()
	h.publish(r.Context(), events.TypeRelationCreated, events.RelationPayload{
		ID:        rel.ID,
		Name:      rel.Name,
		KvkNumber: rel.KvkNumber,
	})

	rw.Created(rel)
}

// ListRelations handles GET /api/v1/relations.
func (h *Handler) ListRelations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	relations, err := h.store.ListRelationsByOwner(r.Context(), h.owner)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if relations == nil {
		relations = []models.Relation{}
	}

	rw.SuccessWithMeta(relations, &APIMeta{Count: len(relations)})
}

// GetRelation handles GET /api/v1/relation/{id}.
func (h *Handler) GetRelation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	rel, err := h.store.GetRelationByID(r.Context(), h.owner, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	rw.Success(rel)
}

// GetRelationByKvk handles GET /api/v1/relation?kvkNumber=.
func (h *Handler) GetRelationByKvk(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	kvk := r.URL.Query().Get("kvkNumber")
	if kvk == "" {
		rw.BadRequest("kvkNumber query parameter is required")
		return
	}

	rel, err := h.store.GetRelationByKvk(r.Context(), h.owner, kvk)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	rw.Success(rel)
}

// UpdateRelation handles PUT /api/v1/relation/{id}.
func (h *Handler) UpdateRelation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UpdateRelationRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	if req.Name == nil && req.KvkNumber == nil {
		rw.BadRequest("At least one of name or kvkNumber must be provided")
		return
	}

	id := chi.URLParam(r, "id")
	rel, err := h.store.GetRelationByID(r.Context(), h.owner, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	if req.Name != nil {
		rel.Name = *req.Name
	}
	if req.KvkNumber != nil {
		rel.KvkNumber = *req.KvkNumber
	}

	err = h.store.UpdateRelation(r.Context(), rel)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case errors.Is(err, database.ErrDuplicateKvk):
		rw.Conflict("A relation with this kvkNumber already exists")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	metrics.RelationMutationsTotal.WithLabelValues("update").Inc()
	h.publish(r.Context(), events.TypeRelationUpdated, events.RelationPayload{
		ID:        rel.ID,
		Name:      rel.Name,
		KvkNumber: rel.KvkNumber,
	})

	rw.Success(rel)
}

// DeleteRelation handles DELETE /api/v1/relation/{id}.
func (h *Handler) DeleteRelation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	rel, err := h.store.GetRelationByID(r.Context(), h.owner, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	err = h.store.DeleteRelation(r.Context(), h.owner, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Relation not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}

	metrics.RelationMutationsTotal.WithLabelValues("delete").Inc()
	h.publish(r.Context(), events.TypeRelationDeleted, events.RelationPayload{
		ID:        rel.ID,
		KvkNumber: rel.KvkNumber,
	})

	rw.NoContent()
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.pinger.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("Readiness check failed")
		rw.ServiceUnavailable("Store is not reachable")
		return
	}

	rw.Success(map[string]string{"status": "ready"})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	dbStatus := "up"
	if err := h.pinger.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "down"
	}

	rw.Success(map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

// decodeBody reads and decodes a JSON request body into dst. On failure
// it writes a 400 response and returns false.
func (h *Handler) decodeBody(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		rw.BadRequest("Failed to read request body")
		return false
	}
	if len(body) == 0 {
		rw.BadRequest("Request body is required")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		rw.BadRequest("Request body is not valid JSON")
		return false
	}
	return true
}

// publish emits one event after a committed mutation. Failure is logged
// and counted; the mutation stands and the reconciliation pull will
// deliver the record eventually.
func (h *Handler) publish(ctx context.Context, eventType string, payload events.RelationPayload) {
	if err := h.publisher.PublishRelationEvent(ctx, eventType, payload); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("event_type", eventType).
			Str("kvk_number", payload.KvkNumber).
			Msg("Failed to publish relation event, mutation kept")
	}
}
