package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/repository"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type memTickers struct {
	symbols map[string]struct{}
}

func newMemTickers(symbols ...string) *memTickers {
	m := &memTickers{symbols: map[string]struct{}{}}
	for _, s := range symbols {
		m.symbols[s] = struct{}{}
	}
	return m
}

func (m *memTickers) List(context.Context) ([]string, error) {
	out := make([]string, 0, len(m.symbols))
	for s := range m.symbols {
		out = append(out, s)
	}
	return out, nil
}

func (m *memTickers) Add(_ context.Context, symbols ...string) error {
	for _, s := range symbols {
		m.symbols[s] = struct{}{}
	}
	return nil
}

func (m *memTickers) Remove(_ context.Context, symbol string) error {
	if _, ok := m.symbols[symbol]; !ok {
		return repository.ErrTickerNotFound
	}
	delete(m.symbols, symbol)
	return nil
}

func newTickersEcho(t *testing.T, store *memTickers) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewTickersHandler(testLogger(t), store).RegisterRoutes(e)
	return e
}

func TestTickersList(t *testing.T) {
	e := newTickersEcho(t, newMemTickers("AAPL"))

	req := httptest.NewRequest(http.MethodGet, "/api/tickers", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Tickers []string `json:"tickers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Tickers) != 1 || body.Data.Tickers[0] != "AAPL" {
		t.Fatalf("unexpected tickers: %v", body.Data.Tickers)
	}
}

func TestTickersAdd(t *testing.T) {
	store := newMemTickers()
	e := newTickersEcho(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/tickers",
		strings.NewReader(`{"symbols":["AAPL","MSFT"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.symbols) != 2 {
		t.Fatalf("expected 2 symbols stored, got %d", len(store.symbols))
	}
}

func TestTickersAddValidation(t *testing.T) {
	e := newTickersEcho(t, newMemTickers())

	req := httptest.NewRequest(http.MethodPost, "/api/tickers",
		strings.NewReader(`{"symbols":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTickersRemove(t *testing.T) {
	store := newMemTickers("AAPL")
	e := newTickersEcho(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/tickers/AAPL", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(store.symbols) != 0 {
		t.Fatalf("symbol should be removed")
	}
}

func TestTickersRemoveUnknown(t *testing.T) {
	e := newTickersEcho(t, newMemTickers())

	req := httptest.NewRequest(http.MethodDelete, "/api/tickers/GONE", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
