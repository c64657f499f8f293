package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"pos-console/cart"
	"pos-console/gateway"
	"pos-console/middleware"
	"pos-console/models"
	"pos-console/utils"
)

// memorySessionStore keeps snapshots in a map so tests can inspect the
// stored state after each handler call.
type memorySessionStore struct {
	snapshots map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{snapshots: map[string]string{}}
}

func (s *memorySessionStore) Load(ctx context.Context, email string) (string, error) {
	snap, ok := s.snapshots[email]
	if !ok {
		return "", errors.New("no session")
	}
	return snap, nil
}

func (s *memorySessionStore) Save(ctx context.Context, email, snapshot string) error {
	s.snapshots[email] = snapshot
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, email string) error {
	delete(s.snapshots, email)
	return nil
}

// saleUpstream serves a login endpoint plus /sales, either accepting or
// refusing every checkout, and counts the attempts.
type saleUpstream struct {
	mux       *http.ServeMux
	saleCalls int
	refuse    bool
}

func newSaleUpstream() *saleUpstream {
	up := &saleUpstream{mux: http.NewServeMux()}
	up.mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "service-token"})
	})
	up.mux.HandleFunc("/sales", func(w http.ResponseWriter, r *http.Request) {
		up.saleCalls++
		if up.refuse {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "ledger offline"})
			return
		}
		json.NewEncoder(w).Encode(gateway.CheckoutResult{ID: "s-1", ReceiptInfo: "R-0001"})
	})
	up.mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Product{ID: "p1", Name: "Soap", Price: decimal.NewFromInt(100)})
	})
	return up
}

func newCartControllerFor(srv *httptest.Server, store SessionStore) *CartController {
	gw := gateway.New(srv.URL, "svc@example.com", "secret")
	gw.SetHTTPClient(srv.Client())
	return &CartController{Sessions: store, Gateway: gw}
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	claims := &utils.Claims{Email: "cashier@example.com", Role: models.RoleCashier}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func storedCart(t *testing.T) string {
	t.Helper()
	c := cart.New()
	soap := models.Product{ID: "p1", Name: "Soap", Price: decimal.NewFromInt(100)}
	if _, err := c.AddLine(soap, "", "", 2); err != nil {
		t.Fatalf("add line: %v", err)
	}
	raw, err := json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return string(raw)
}

func TestCheckoutFailureLeavesStoredCartIntact(t *testing.T) {
	up := newSaleUpstream()
	up.refuse = true
	srv := httptest.NewServer(up.mux)
	defer srv.Close()

	store := newMemorySessionStore()
	stored := storedCart(t)
	store.snapshots["cashier@example.com"] = stored

	cc := newCartControllerFor(srv, store)
	rr := httptest.NewRecorder()
	cc.Checkout(rr, authedRequest(http.MethodPost, "/cart/checkout", strings.NewReader(`{"status":"completed"}`)))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if up.saleCalls != 1 {
		t.Fatalf("sale calls = %d, want 1", up.saleCalls)
	}
	if got := store.snapshots["cashier@example.com"]; got != stored {
		t.Fatalf("stored snapshot changed after failed checkout:\n got %s\nwant %s", got, stored)
	}
}

func TestCheckoutSuccessClearsStoredCart(t *testing.T) {
	up := newSaleUpstream()
	srv := httptest.NewServer(up.mux)
	defer srv.Close()

	store := newMemorySessionStore()
	store.snapshots["cashier@example.com"] = storedCart(t)

	cc := newCartControllerFor(srv, store)
	rr := httptest.NewRecorder()
	cc.Checkout(rr, authedRequest(http.MethodPost, "/cart/checkout", strings.NewReader(`{"status":"completed"}`)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID          string `json:"id"`
		ReceiptInfo string `json:"receiptInfo"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "s-1" || resp.ReceiptInfo != "R-0001" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if _, ok := store.snapshots["cashier@example.com"]; ok {
		t.Fatal("stored snapshot survived a successful checkout")
	}
}

func TestCheckoutEmptyCartRefusedWithoutUpstreamCall(t *testing.T) {
	up := newSaleUpstream()
	srv := httptest.NewServer(up.mux)
	defer srv.Close()

	cc := newCartControllerFor(srv, newMemorySessionStore())
	rr := httptest.NewRecorder()
	cc.Checkout(rr, authedRequest(http.MethodPost, "/cart/checkout", strings.NewReader(`{"status":"completed"}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if up.saleCalls != 0 {
		t.Fatalf("empty cart reached the upstream: %d sale calls", up.saleCalls)
	}
}

func TestCartPersistsAcrossSessions(t *testing.T) {
	up := newSaleUpstream()
	srv := httptest.NewServer(up.mux)
	defer srv.Close()

	store := newMemorySessionStore()
	cc := newCartControllerFor(srv, store)

	rr := httptest.NewRecorder()
	cc.AddItem(rr, authedRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productId":"p1","quantity":2}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("add item: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	// a fresh controller sharing the store stands in for a new session
	other := newCartControllerFor(srv, store)
	rr = httptest.NewRecorder()
	other.GetCart(rr, authedRequest(http.MethodGet, "/cart", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get cart: status = %d", rr.Code)
	}
	var view struct {
		Lines []models.CartLine `json:"lines"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ProductID != "p1" || view.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", view.Lines)
	}
}
