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

// CategoryController serves product categories, structurally the same
// container as the catalog: fetch, cache briefly, invalidate on writes.
type CategoryController struct {
	Gateway *gateway.Client
	TTL     time.Duration

	mu         sync.RWMutex
	categories []models.Category
	fetchedAt  time.Time
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(gw *gateway.Client) *CategoryController {
	return &CategoryController{Gateway: gw, TTL: 30 * time.Second}
}

func (cc *CategoryController) cachedCategories(ctx context.Context) ([]models.Category, error) {
	cc.mu.RLock()
	if cc.categories != nil && time.Since(cc.fetchedAt) < cc.TTL {
		categories := cc.categories
		cc.mu.RUnlock()
		return categories, nil
	}
	cc.mu.RUnlock()

	categories, err := cc.Gateway.Categories(ctx)
	if err != nil {
		return nil, err
	}
	cc.mu.Lock()
	cc.categories = categories
	cc.fetchedAt = time.Now()
	cc.mu.Unlock()
	return categories, nil
}

func (cc *CategoryController) invalidate() {
	cc.mu.Lock()
	cc.categories = nil
	cc.fetchedAt = time.Time{}
	cc.mu.Unlock()
}

// GetCategories lists all categories.
func (cc *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := cc.cachedCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// CreateCategory adds a category (Admin only).
func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	created, err := cc.Gateway.CreateCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	cc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateCategory replaces a category (Admin only).
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	category.ID = mux.Vars(r)["id"]

	updated, err := cc.Gateway.UpdateCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	cc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteCategory removes a category (Admin only).
func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := cc.Gateway.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	cc.invalidate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Category deleted"})
}
