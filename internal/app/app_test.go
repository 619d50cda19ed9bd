package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restoapi/internal/app"
	"restoapi/internal/backend"
	"restoapi/internal/database/memory"
	"restoapi/pkg/config"
	"restoapi/pkg/lib/logger/slogdiscard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP:    config.HTTPConfig{Env: config.EnvLocal, Port: 0},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Backend: config.BackendConfig{Timeout: time.Second},
		Booking: config.BookingConfig{
			Variant:          "direct",
			Duration:         2 * time.Hour,
			Deposit:          "50000",
			DepositWaiverMin: "0",
		},
		Catalog: config.CatalogConfig{PageSize: 8},
		Vouchers: []config.VoucherRule{
			{Code: "UNSPROMO", Kind: "percentage", Value: "0.1"},
		},
	}
}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"tok","user":{"id":"u1","name":"Ann","role":"user"}}}`))
	})
	mux.HandleFunc("GET /menu", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Nasi goreng","price":"18000","category":"makanan","available":1}]`))
	})
	mux.HandleFunc("GET /vouchers/check/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Voucher sudah kedaluwarsa"}`))
	})
	mux.HandleFunc("GET /orders/mine", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, `{"message":"missing token"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	return newTestAppWith(t, testConfig())
}

func newTestAppWith(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	api := backend.New(log, fakeBackend(t).URL, time.Second)
	handler, err := app.New(log, cfg, memory.New(), api).Handler()
	require.NoError(t, err)
	return handler
}

func do(h http.Handler, method, target, clientId, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if clientId != "" {
		req.Header.Set(app.HeaderClientId, clientId)
	}
	ww := httptest.NewRecorder()
	h.ServeHTTP(ww, req)
	return ww
}

func TestApp_ClientIdRequired(t *testing.T) {
	h := newTestApp(t)

	ww := do(h, http.MethodGet, "/menu", "", "")
	assert.Equal(t, http.StatusBadRequest, ww.Code)

	_, err := uuid.Parse(ww.Header().Get(app.HeaderRequestId))
	assert.NoError(t, err)
}

func TestApp_MenuAndCart(t *testing.T) {
	h := newTestApp(t)

	ww := do(h, http.MethodGet, "/menu?category=food", "c1", "")
	require.Equal(t, http.StatusOK, ww.Code)
	assert.Contains(t, ww.Body.String(), "Nasi goreng")

	ww = do(h, http.MethodPost, "/cart/items", "c1", `{"menu_id":"1","quantity":2}`)
	require.Equal(t, http.StatusCreated, ww.Code)

	ww = do(h, http.MethodPost, "/cart/voucher", "c1", `{"code":"unspromo"}`)
	require.Equal(t, http.StatusOK, ww.Code)

	var summary struct {
		Subtotal json.Number `json:"subtotal"`
		Discount json.Number `json:"discount"`
		Total    json.Number `json:"total"`
	}
	require.NoError(t, json.NewDecoder(ww.Body).Decode(&summary))
	assert.Equal(t, json.Number("36000"), summary.Subtotal)
	assert.Equal(t, json.Number("3600"), summary.Discount)
	assert.Equal(t, json.Number("32400"), summary.Total)

	// another client sees its own empty cart
	ww = do(h, http.MethodGet, "/cart", "c2", "")
	require.Equal(t, http.StatusOK, ww.Code)
	assert.Contains(t, ww.Body.String(), `"subtotal":0`)
}

func TestApp_VoucherRefusalKeepsBackendMessage(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.CheckVouchers = true
	h := newTestAppWith(t, cfg)

	ww := do(h, http.MethodPost, "/cart/voucher", "c1", `{"code":"lama"}`)
	assert.Equal(t, http.StatusConflict, ww.Code)
	assert.JSONEq(t, `{"error":"Voucher sudah kedaluwarsa"}`, ww.Body.String())

	// local rules still answer without the backend
	ww = do(h, http.MethodPost, "/cart/voucher", "c1", `{"code":"unspromo"}`)
	assert.Equal(t, http.StatusOK, ww.Code)
}

func TestApp_UnauthorizedTearsDownSession(t *testing.T) {
	h := newTestApp(t)

	ww := do(h, http.MethodPost, "/session/login", "c1", `{"email":"ann@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, ww.Code)

	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/session", "c1", "").Code)

	ww = do(h, http.MethodGet, "/orders", "c1", "")
	assert.Equal(t, http.StatusUnauthorized, ww.Code)
	assert.Contains(t, ww.Body.String(), `"redirect":"/login"`)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/session", "c1", "").Code)
}

func TestApp_BadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Booking.Variant = "walk-in"

	log := slogdiscard.NewDiscardLogger()
	_, err := app.New(log, cfg, memory.New(), backend.New(log, "http://127.0.0.1:1", time.Second)).Handler()
	assert.Error(t, err)
}
