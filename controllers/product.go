package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"pos-console/gateway"
	"pos-console/models"
)

// CatalogController serves the product catalog. The full list is fetched
// from the upstream API and cached in memory for a short window so table
// renders and cart lookups do not hammer the upstream; writes invalidate
// the cache.
type CatalogController struct {
	Gateway *gateway.Client
	TTL     time.Duration

	mu        sync.RWMutex
	products  []models.Product
	fetchedAt time.Time
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(gw *gateway.Client) *CatalogController {
	return &CatalogController{Gateway: gw, TTL: 30 * time.Second}
}

func (pc *CatalogController) cachedProducts(ctx context.Context) ([]models.Product, error) {
	pc.mu.RLock()
	if pc.products != nil && time.Since(pc.fetchedAt) < pc.TTL {
		products := pc.products
		pc.mu.RUnlock()
		return products, nil
	}
	pc.mu.RUnlock()

	products, err := pc.Gateway.Products(ctx)
	if err != nil {
		return nil, err
	}
	pc.mu.Lock()
	pc.products = products
	pc.fetchedAt = time.Now()
	pc.mu.Unlock()
	return products, nil
}

func (pc *CatalogController) invalidate() {
	pc.mu.Lock()
	pc.products = nil
	pc.fetchedAt = time.Time{}
	pc.mu.Unlock()
}

// GetProducts lists the catalog. A search term bypasses the cache and is
// forwarded to the upstream search endpoint.
func (pc *CatalogController) GetProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	var (
		products []models.Product
		err      error
	)
	if term != "" {
		products, err = pc.Gateway.SearchProducts(r.Context(), term)
	} else {
		products, err = pc.cachedProducts(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// GetProductByID returns a single product.
func (pc *CatalogController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Gateway.ProductByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// CreateProduct adds a product (Admin only).
func (pc *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	created, err := pc.Gateway.CreateProduct(r.Context(), product)
	if err != nil {
		writeError(w, err)
		return
	}
	pc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateProduct replaces a product (Admin only).
func (pc *CatalogController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	product.ID = mux.Vars(r)["id"]

	updated, err := pc.Gateway.UpdateProduct(r.Context(), product)
	if err != nil {
		writeError(w, err)
		return
	}
	pc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteProduct removes a product (Admin only).
func (pc *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := pc.Gateway.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	pc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Product deleted"})
}
