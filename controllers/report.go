package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pos-console/gateway"
)

// ReportController serves dashboards and reports from the upstream API
// with a short per-query cache, the same container shape as the catalog.
type ReportController struct {
	Gateway *gateway.Client
	TTL     time.Duration

	mu    sync.RWMutex
	cache map[string]reportEntry
}

type reportEntry struct {
	data      interface{}
	fetchedAt time.Time
}

// NewReportController creates a new ReportController
func NewReportController(gw *gateway.Client) *ReportController {
	return &ReportController{
		Gateway: gw,
		TTL:     time.Minute,
		cache:   make(map[string]reportEntry),
	}
}

// fetch serves a cached value under key or loads it with load.
func (rc *ReportController) fetch(key string, load func() (interface{}, error)) (interface{}, error) {
	rc.mu.RLock()
	entry, ok := rc.cache[key]
	rc.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < rc.TTL {
		return entry.data, nil
	}

	data, err := load()
	if err != nil {
		return nil, err
	}
	rc.mu.Lock()
	rc.cache[key] = reportEntry{data: data, fetchedAt: time.Now()}
	rc.mu.Unlock()
	return data, nil
}

func (rc *ReportController) respond(w http.ResponseWriter, key string, load func() (interface{}, error)) {
	data, err := rc.fetch(key, load)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// GetDashboard returns the dashboard summary for a period.
func (rc *ReportController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "today"
	}
	rc.respond(w, "dashboard?"+period, func() (interface{}, error) {
		return rc.Gateway.Dashboard(r.Context(), period)
	})
}

// GetSalesReport returns the filtered sales breakdown.
func (rc *ReportController) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, "sales?"+r.URL.RawQuery, func() (interface{}, error) {
		return rc.Gateway.SalesReport(r.Context(), parseSaleFilters(r))
	})
}

// GetProductPerformance returns per-product sales figures.
func (rc *ReportController) GetProductPerformance(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, "products?"+r.URL.RawQuery, func() (interface{}, error) {
		return rc.Gateway.ProductPerformance(r.Context(), parseSaleFilters(r))
	})
}

// GetRevenueStats returns the headline revenue figures.
func (rc *ReportController) GetRevenueStats(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, "revenue-stats", func() (interface{}, error) {
		return rc.Gateway.RevenueStats(r.Context())
	})
}

// GetTopProducts returns the best sellers.
func (rc *ReportController) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rc.respond(w, "top-products?"+strconv.Itoa(limit), func() (interface{}, error) {
		return rc.Gateway.TopProducts(r.Context(), limit)
	})
}

// GetStockAlerts returns the products needing a restock.
func (rc *ReportController) GetStockAlerts(w http.ResponseWriter, r *http.Request) {
	rc.respond(w, "stock-alerts", func() (interface{}, error) {
		return rc.Gateway.StockAlerts(r.Context())
	})
}
