package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cadenza/cadenza/internal/catalog/mock"
	"github.com/cadenza/cadenza/internal/config"
)

type fakeRecorder struct {
	queries []string
	results []int
	exact   []int
}

func (r *fakeRecorder) Record(ctx context.Context, query string, resultCount, exactCount int) {
	r.queries = append(r.queries, query)
	r.results = append(r.results, resultCount)
	r.exact = append(r.exact, exactCount)
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Broadcast(msgType string, payload interface{}) error {
	n.messages = append(n.messages, msgType)
	return nil
}

func setupTestHandlers(t *testing.T) (*Handlers, *fakeRecorder, *fakeNotifier) {
	logger := zerolog.Nop()
	searchCfg := config.SearchConfig{PoolSize: 50, DefaultLimit: 10, MaxLimit: 50}
	service := NewServiceWithProvider(mock.NewProvider(), searchCfg, &logger)

	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	handlers := NewHandlers(service, recorder, notifier, searchCfg.DefaultLimit)

	return handlers, recorder, notifier
}

func TestHandlers_QuickFind(t *testing.T) {
	handlers, recorder, notifier := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/quick?q=blinding+lights", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handlers.QuickFind(c); err != nil {
		t.Fatalf("QuickFind() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp quickFindResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.Query != "blinding lights" {
		t.Errorf("Query = %q, want %q", resp.Query, "blinding lights")
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected at least one result")
	}
	if resp.Results[0].Track.Name != "Blinding Lights" {
		t.Errorf("top result = %q, want %q", resp.Results[0].Track.Name, "Blinding Lights")
	}

	// Search is recorded and broadcast
	if len(recorder.queries) != 1 || recorder.queries[0] != "blinding lights" {
		t.Errorf("recorded queries = %v, want one entry", recorder.queries)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "search:performed" {
		t.Errorf("broadcast messages = %v, want search:performed", notifier.messages)
	}
}

func TestHandlers_QuickFind_MissingQuery(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/quick", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlers.QuickFind(c)
	if err == nil {
		t.Fatal("expected error for missing query")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", httpErr.Code, http.StatusBadRequest)
	}
}

func TestHandlers_QuickFind_InvalidLimit(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/quick?q=test&limit=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlers.QuickFind(c)
	if err == nil {
		t.Fatal("expected error for invalid limit")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", httpErr.Code, http.StatusBadRequest)
	}
}

func TestHandlers_GetTrack(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/tracks/mock-0001", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("mock-0001")

	if err := handlers.GetTrack(c); err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandlers_GetTrack_NotFound(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/tracks/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := handlers.GetTrack(c)
	if err == nil {
		t.Fatal("expected error for unknown track")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", httpErr.Code, http.StatusNotFound)
	}
}

func TestHandlers_GetStatus(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handlers.GetStatus(c); err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if status.Provider != "spotify-mock" {
		t.Errorf("Provider = %q, want %q", status.Provider, "spotify-mock")
	}
	if !status.Configured {
		t.Error("expected mock provider to report configured")
	}
}

func TestHandlers_ClearCache(t *testing.T) {
	handlers, _, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/search/cache", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handlers.ClearCache(c); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}
