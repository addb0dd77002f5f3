package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func newTestRouter(f *serviceFixture) chi.Router {
	handler := NewHandler(f.service, f.orders, nil, nil)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("cannot encode payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data envelope, got %s", rec.Body.String())
	}
	return data
}

func TestHandlerCreateOrder(t *testing.T) {
	f := newServiceFixture()
	beer := f.addProduct("Beer", f.beerCategory, 95, 50)
	router := newTestRouter(f)

	payload := map[string]interface{}{
		"cashier_id": "cashier-1",
		"items": []map[string]interface{}{
			{"product_id": beer.ID.String(), "quantity": 2},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/orders", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if data["status"] != "confirmed" {
		t.Errorf("expected confirmed order, got %v", data["status"])
	}
	if data["total"] != float64(190) {
		t.Errorf("expected total 190, got %v", data["total"])
	}
}

func TestHandlerCreateOrderErrors(t *testing.T) {
	f := newServiceFixture()
	beer := f.addProduct("Beer", f.beerCategory, 95, 1)
	router := newTestRouter(f)

	tests := []struct {
		name     string
		payload  interface{}
		raw      string
		expected int
	}{
		{
			name:     "invalid json",
			raw:      "{not json",
			expected: http.StatusBadRequest,
		},
		{
			name:     "missing items",
			payload:  map[string]interface{}{"cashier_id": "cashier-1"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown product",
			payload: map[string]interface{}{
				"cashier_id": "cashier-1",
				"items": []map[string]interface{}{
					{"product_id": uuid.NewString(), "quantity": 1},
				},
			},
			expected: http.StatusNotFound,
		},
		{
			name: "strict shortfall",
			payload: map[string]interface{}{
				"cashier_id": "cashier-1",
				"items": []map[string]interface{}{
					{"product_id": beer.ID.String(), "quantity": 5},
				},
			},
			expected: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.raw != "" {
				req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.raw))
				rec = httptest.NewRecorder()
				router.ServeHTTP(rec, req)
			} else {
				rec = doJSON(t, router, http.MethodPost, "/orders", tt.payload)
			}
			if rec.Code != tt.expected {
				t.Errorf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlerListOrders(t *testing.T) {
	f := newServiceFixture()
	router := newTestRouter(f)

	sessionID := uuid.New()

	inSession := NewOrder()
	inSession.SessionID = &sessionID
	inSession.MarkAsConfirmed()
	f.orders.Orders[inSession.ID] = inSession

	walkUp := NewOrder()
	walkUp.MarkAsCompleted()
	f.orders.Orders[walkUp.ID] = walkUp

	tests := []struct {
		name     string
		path     string
		expected int
		count    int
	}{
		{"all orders", "/orders", http.StatusOK, 2},
		{"by session", "/orders?session_id=" + sessionID.String(), http.StatusOK, 1},
		{"by status", "/orders?status=completed", http.StatusOK, 1},
		{"invalid session id", "/orders?session_id=nope", http.StatusBadRequest, 0},
		{"invalid status", "/orders?status=simmering", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tt.path, nil)
			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
			if tt.expected != http.StatusOK {
				return
			}
			data := decodeData(t, rec)
			orders, _ := data["orders"].([]interface{})
			if len(orders) != tt.count {
				t.Errorf("expected %d orders, got %d", tt.count, len(orders))
			}
		})
	}
}

func TestHandlerGetOrder(t *testing.T) {
	f := newServiceFixture()
	router := newTestRouter(f)

	o := NewOrder()
	o.MarkAsConfirmed()
	f.orders.Orders[o.ID] = o

	rec := doJSON(t, router, http.MethodGet, "/orders/"+o.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["id"] != o.ID.String() {
		t.Errorf("expected order %s, got %v", o.ID, data["id"])
	}

	rec = doJSON(t, router, http.MethodGet, "/orders/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/orders/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestHandlerListOrderItems(t *testing.T) {
	f := newServiceFixture()
	router := newTestRouter(f)

	o := NewOrder()
	f.orders.Orders[o.ID] = o

	for i := 0; i < 2; i++ {
		item := NewOrderItem()
		item.OrderID = o.ID
		item.Name = fmt.Sprintf("Item %d", i)
		f.items.Items[item.ID] = item
	}

	rec := doJSON(t, router, http.MethodGet, "/orders/"+o.ID.String()+"/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	items, _ := data["items"].([]interface{})
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestHandlerCompleteOrder(t *testing.T) {
	f := newServiceFixture()
	beer := f.addProduct("Beer", f.beerCategory, 95, 10)
	router := newTestRouter(f)

	o, err := f.service.Confirm(context.Background(), OrderCreateRequest{
		CashierID: "cashier-1",
		Items:     []OrderItemCreateRequest{productLine(beer.ID, 2)},
	})
	if err != nil {
		t.Fatalf("cannot seed order: %v", err)
	}

	rec := doJSON(t, router, http.MethodPatch, "/orders/"+o.ID.String()+"/complete",
		map[string]interface{}{"performed_by": "cashier-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["status"] != "completed" {
		t.Errorf("expected completed, got %v", data["status"])
	}
	if beer.CurrentStock != 8 {
		t.Errorf("expected stock deducted to 8, got %d", beer.CurrentStock)
	}

	rec = doJSON(t, router, http.MethodPatch, "/orders/"+uuid.NewString()+"/complete", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", rec.Code)
	}
}

func TestHandlerVoidOrder(t *testing.T) {
	f := newServiceFixture()
	beer := f.addProduct("Beer", f.beerCategory, 95, 10)
	router := newTestRouter(f)

	o, err := f.service.Confirm(context.Background(), OrderCreateRequest{
		CashierID: "cashier-1",
		Items:     []OrderItemCreateRequest{productLine(beer.ID, 2)},
	})
	if err != nil {
		t.Fatalf("cannot seed order: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, "/orders/"+o.ID.String()+"/void",
		map[string]interface{}{"reason": "wrong table", "performed_by": "manager-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["status"] != "voided" {
		t.Errorf("expected voided, got %v", data["status"])
	}

	rec = doJSON(t, router, http.MethodPost, "/orders/"+o.ID.String()+"/void",
		map[string]interface{}{"performed_by": "manager-1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing reason, got %d", rec.Code)
	}

	// Completing a voided order is rejected.
	rec = doJSON(t, router, http.MethodPatch, "/orders/"+o.ID.String()+"/complete", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 completing a voided order, got %d", rec.Code)
	}
}
