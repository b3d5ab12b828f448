package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGETRetriesTransientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(WithRetryBudget(5 * time.Second))
	resp, err := client.GET(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if !body.OK {
		t.Error("expected ok=true")
	}
}

func TestGETDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithRetryBudget(5 * time.Second))
	_, err := client.GET(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected a single attempt for a client error, got %d", got)
	}
}

func TestPOSTSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json content type, got %s", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.POST(context.Background(), srv.URL, map[string]string{"k": "v"}, map[string]string{
		"Authorization": "Bearer token",
	})
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
}

func TestBaseURLAndDefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/quotes" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Client") != "forecaster" {
			t.Errorf("missing default header")
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithHeader("X-Client", "forecaster"))
	if _, err := client.GET(context.Background(), "/v1/quotes", nil); err != nil {
		t.Fatalf("GET failed: %v", err)
	}
}
