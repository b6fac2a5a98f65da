package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/stream"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
)

func newAlertsEcho(t *testing.T) (*echo.Echo, *usecase.SnapshotStore) {
	t.Helper()
	hub := stream.NewHub(4, nil, testLogger(t))
	store := usecase.NewSnapshotStore(hub, nil)
	e := echo.New()
	NewAlertsHandler(testLogger(t), store, hub).RegisterRoutes(e)
	return e, store
}

func TestLatestBeforeFirstCycle(t *testing.T) {
	e, _ := newAlertsEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before the first cycle, got %d", rec.Code)
	}
}

func TestLatestReturnsCurrentSnapshot(t *testing.T) {
	e, store := newAlertsEcho(t)
	store.Publish(&models.Snapshot{
		ScanStartedAt:   time.Now().UTC(),
		ScanCompletedAt: time.Now().UTC(),
		Results: map[string]*models.ScanResult{
			"AAPL": {Symbol: "AAPL", Status: models.ScanOk, Events: []models.Event{}},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data models.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Sequence != 1 {
		t.Fatalf("expected sequence 1, got %d", body.Data.Sequence)
	}
	if _, ok := body.Data.Results["AAPL"]; !ok {
		t.Fatalf("missing AAPL result in %v", body.Data.Results)
	}
}

func TestStreamRejectsPlainHTTP(t *testing.T) {
	e, _ := newAlertsEcho(t)

	// No upgrade headers: the websocket handshake must fail cleanly.
	req := httptest.NewRequest(http.MethodGet, "/api/alerts/stream", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Fatalf("expected handshake failure, got 200")
	}
}
