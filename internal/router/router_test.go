package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adetta/internal/config"
	"adetta/internal/infra"
	"adetta/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func newEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := infra.NewDatabase("file:router_"+name+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret"
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "Adetta"
	}
	cfg.Env = "test"
	cfg.CacheTTLSeconds = 30
	return router.New(cfg, db, nil)
}

func do(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func create(t *testing.T, r http.Handler, path string, body any) uint {
	t.Helper()
	w := do(t, r, http.MethodPost, path, body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uint `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	r := newEngine(t, &config.Config{})

	w := do(t, r, http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, "disabled", body["smtp"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDeliveryLifecycle(t *testing.T) {
	r := newEngine(t, &config.Config{})

	productID := create(t, r, "/v1/products", map[string]any{
		"name": "Olive oil 1L", "sku": "OIL-1L", "price": "10.00", "stock": 100,
	})
	customerID := create(t, r, "/v1/customers", map[string]any{"name": "Corner Deli", "terms": 30})

	w := do(t, r, http.MethodPost, "/v1/deliveries", map[string]any{
		"customer_id": customerID, "product_id": productID, "quantity": 20, "date": "2024-01-01",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var delivery struct {
		ID      uint `json:"id"`
		Invoice struct {
			ID     uint   `json:"id"`
			Total  string `json:"total"`
			DueAt  string `json:"due_at"`
			Status string `json:"status"`
		} `json:"invoice"`
	}
	decode(t, w, &delivery)
	assert.Equal(t, "200", delivery.Invoice.Total)
	assert.Equal(t, "2024-01-31", delivery.Invoice.DueAt)
	assert.Equal(t, "open", delivery.Invoice.Status)

	invoicePath := fmt.Sprintf("/v1/invoices/%d", delivery.Invoice.ID)

	// overpayment is a conflict carrying the open balance
	w = do(t, r, http.MethodPost, invoicePath+"/payments", map[string]any{"amount": "250.00"}, "")
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	var conflict struct {
		Code    string         `json:"code"`
		Context map[string]any `json:"context"`
	}
	decode(t, w, &conflict)
	assert.Equal(t, "overpayment", conflict.Code)
	assert.Equal(t, "200", conflict.Context["open_balance"])

	w = do(t, r, http.MethodPost, invoicePath+"/payments", map[string]any{"amount": "200.00", "method": "bank"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var paid struct {
		InvoiceStatus string `json:"invoice_status"`
	}
	decode(t, w, &paid)
	assert.Equal(t, "paid", paid.InvoiceStatus)

	w = do(t, r, http.MethodGet, invoicePath+"/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Consistent bool   `json:"consistent"`
		Stored     string `json:"stored"`
	}
	decode(t, w, &status)
	assert.True(t, status.Consistent)
	assert.Equal(t, "paid", status.Stored)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/v1/products/%d", productID), nil, "")
	var product struct {
		Stock int `json:"stock"`
	}
	decode(t, w, &product)
	assert.Equal(t, 80, product.Stock)

	w = do(t, r, http.MethodGet, invoicePath+"/pdf", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/v1/deliveries/%d", delivery.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var deleted struct {
		PaymentsDeleted int `json:"payments_deleted"`
		RestoredStock   int `json:"restored_stock"`
	}
	decode(t, w, &deleted)
	assert.Equal(t, 1, deleted.PaymentsDeleted)
	assert.Equal(t, 20, deleted.RestoredStock)

	w = do(t, r, http.MethodGet, invoicePath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/v1/products/%d", productID), nil, "")
	decode(t, w, &product)
	assert.Equal(t, 100, product.Stock)
}

func TestBookDelivery_ErrorMapping(t *testing.T) {
	r := newEngine(t, &config.Config{})
	productID := create(t, r, "/v1/products", map[string]any{"name": "Honey", "sku": "HON", "price": "6.20", "stock": 2})
	freeID := create(t, r, "/v1/products", map[string]any{"name": "Sample", "sku": "SMP", "stock": 10})
	customerID := create(t, r, "/v1/customers", map[string]any{"name": "Corner Deli"})

	w := do(t, r, http.MethodPost, "/v1/deliveries", map[string]any{
		"customer_id": customerID, "product_id": productID, "quantity": 3,
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	var stock struct {
		Code    string         `json:"code"`
		Context map[string]any `json:"context"`
	}
	decode(t, w, &stock)
	assert.Equal(t, "insufficient_stock", stock.Code)
	assert.EqualValues(t, 2, stock.Context["available"])
	assert.EqualValues(t, 3, stock.Context["requested"])

	w = do(t, r, http.MethodPost, "/v1/deliveries", map[string]any{
		"customer_id": customerID, "product_id": freeID, "quantity": 1,
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "missing_price")

	w = do(t, r, http.MethodPost, "/v1/deliveries", map[string]any{
		"customer_id": customerID, "product_id": productID, "quantity": 0,
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodPost, "/v1/deliveries", map[string]any{
		"customer_id": 999, "product_id": productID, "quantity": 1,
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/v1/deliveries/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPINGate(t *testing.T) {
	r := newEngine(t, &config.Config{PIN: "4821"})

	w := do(t, r, http.MethodGet, "/v1/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/v1/auth/session", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Authenticated bool `json:"authenticated"`
		GateEnabled   bool `json:"gate_enabled"`
	}
	decode(t, w, &session)
	assert.False(t, session.Authenticated)
	assert.True(t, session.GateEnabled)

	w = do(t, r, http.MethodPost, "/v1/auth/login", map[string]string{"pin": "0000"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/v1/auth/login", map[string]string{"pin": "4821"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &login)

	w = do(t, r, http.MethodGet, "/v1/products", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/v1/auth/session", nil, login.AccessToken)
	decode(t, w, &session)
	assert.True(t, session.Authenticated)

	w = do(t, r, http.MethodGet, "/v1/products", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportsAndExpenses(t *testing.T) {
	r := newEngine(t, &config.Config{})
	customerID := create(t, r, "/v1/customers", map[string]any{"name": "Big Market"})

	create(t, r, "/v1/expenses", map[string]any{"category": "site-fee", "amount": "45.00", "customer_id": customerID})
	create(t, r, "/v1/expenses", map[string]any{"category": "wage", "amount": "100.00"})

	w := do(t, r, http.MethodPost, "/v1/expenses", map[string]any{"category": "lunch", "amount": "5"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, "/v1/expenses/summary?period=all", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Total      string `json:"total"`
		Categories []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	decode(t, w, &summary)
	assert.Equal(t, "145", summary.Total)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "wage", summary.Categories[0].Category)

	w = do(t, r, http.MethodGet, "/v1/reports/revenue?period=7", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	for _, path := range []string{"/v1/reports/revenue", "/v1/reports/revenue/customers?period=all", "/v1/reports/low-stock"} {
		w = do(t, r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
