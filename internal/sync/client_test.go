// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAPIClient_FetchRelations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/relations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":"a1","name":"Coca","kvkNumber":"12312312"},
			{"id":"a2","name":"Cola","kvkNumber":"87654321"}
		]}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 5*time.Second)
	relations, err := client.FetchRelations(context.Background())
	if err != nil {
		t.Fatalf("FetchRelations failed: %v", err)
	}

	if len(relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(relations))
	}
	if relations[0].KvkNumber != "12312312" || relations[1].Name != "Cola" {
		t.Errorf("unexpected relations: %+v", relations)
	}
}

func TestAPIClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 5*time.Second)
	if _, err := client.FetchRelations(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestAPIClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"database unavailable"}}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 5*time.Second)
	if _, err := client.FetchRelations(context.Background()); err == nil {
		t.Fatal("expected error for failure envelope")
	}
}

func TestAPIClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 5*time.Second)
	if _, err := client.FetchRelations(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
