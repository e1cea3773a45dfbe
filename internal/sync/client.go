// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yaelgoede/TheLogicalProject/internal/logging"
	"github.com/yaelgoede/TheLogicalProject/internal/models"
)

// maxResponseBytes caps the relations list response size.
const maxResponseBytes = 32 << 20 // 32MB

// APIClient fetches the authoritative relation set from the system API.
// Calls are circuit-breaker protected so a down API costs one fast
// failure per tick instead of a hanging request.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]models.Relation]
}

// listResponse is the system API's response envelope for the relations list.
type listResponse struct {
	Success bool              `json:"success"`
	Data    []models.Relation `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAPIClient creates a client for the system relations API.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]models.Relation](gobreaker.Settings{
		Name:        "reconcile-api-client",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Reconcile API circuit breaker state changed")
		},
	})

	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// FetchRelations returns the full authoritative relation set.
func (c *APIClient) FetchRelations(ctx context.Context) ([]models.Relation, error) {
	return c.breaker.Execute(func() ([]models.Relation, error) {
		return c.fetchOnce(ctx)
	})
}

func (c *APIClient) fetchOnce(ctx context.Context) ([]models.Relation, error) {
	url := c.baseURL + "/api/v1/relations"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build relations request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch relations from %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relations API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read relations response: %w", err)
	}

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode relations response: %w", err)
	}
	if !parsed.Success {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("relations API reported failure: %s", msg)
	}

	return parsed.Data, nil
}
