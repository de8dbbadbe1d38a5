package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"backoffice/internal/cache"
	"backoffice/internal/services"
	"backoffice/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	registry := cache.NewRegistry()
	srv := NewServer(
		":0",
		services.NewOrderService(repo, nil, registry),
		services.NewDrawService(repo, registry),
		services.NewExpenseService(repo, registry),
		services.NewDashboardService(repo, nil),
		registry,
	)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", rec.Code)
	}
}

func TestCreateAndListOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/orders?tags=orders,pendingOrders",
		`{"customerName":"Ada","total":"106.35","paymentMethod":"stripe"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created successResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != "success" {
		t.Errorf("status = %q, want success", created.Status)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var orders []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0]["customerName"] != "Ada" || orders[0]["salesTaxRate"] != "6.35" {
		t.Errorf("unexpected order payload: %v", orders[0])
	}
}

func TestCreateOrderValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/orders", `{"total":"abc"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Invalid input" {
		t.Errorf("message = %q, want Invalid input", resp.Message)
	}
	if _, ok := resp.Errors["customerName"]; !ok {
		t.Errorf("expected customerName error, got %v", resp.Errors)
	}
}

func TestUpdateOrderNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPatch, "/api/orders/999", `{"status":"complete"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteOrderInvoiceConflict(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/orders",
		`{"customerName":"Ada","total":"50.00","stripeInvoiceId":"in_42"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/orders/1", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}
}

func TestOrderCompletionLeavesPendingList(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/orders", `{"customerName":"Ada","total":"50.00"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/orders/pending", "")
	var pending []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &pending)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending order, got %d", len(pending))
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/orders/1?tags=pendingOrders", `{"status":"complete"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/orders/pending", "")
	pending = nil
	json.Unmarshal(rec.Body.Bytes(), &pending)
	if len(pending) != 0 {
		t.Fatalf("completed order should leave the pending list, got %d", len(pending))
	}
}

func TestFinancialsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/orders",
		`{"customerName":"Ada","total":"106.35","paymentMethod":"stripe","paymentStatus":"paid","paymentDate":"2024-03-10T00:00:00Z"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/financials?date=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var summary map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary["grossRevenue"] != 10635 {
		t.Errorf("grossRevenue = %d, want 10635", summary["grossRevenue"])
	}
	if summary["stripeSales"] != 10635-summary["salesTax"] {
		t.Errorf("stripeSales = %d inconsistent with salesTax %d", summary["stripeSales"], summary["salesTax"])
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/financials?date=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestImportExpensesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	csvBody := "Date,Amount,Description\n2024-01-05,12.50,paper\n2024-01-20,3.99,stamps\n"
	req := httptest.NewRequest(http.MethodPost, "/api/expenses/import", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/expenses", "")
	var expenses []map[string]any
	json.Unmarshal(rec.Body.Bytes(), &expenses)
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
}

func TestDrawEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/draws",
		`{"amount":"500.00","date":"2024-01-15T00:00:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draw status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/draws/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete draw status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/draws/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/orders", `{"customerName":"Ada","total":"50.00"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", rec.Code, rec.Body.String())
	}

	var metrics map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics["pendingOrders"].(float64) != 1 {
		t.Errorf("pendingOrders = %v, want 1", metrics["pendingOrders"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/orders", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
