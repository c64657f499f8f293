package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"pos-console/models"
)

// Dashboard fetches the dashboard summary for a period ("today",
// "week", "month").
func (c *Client) Dashboard(ctx context.Context, period string) (*models.DashboardStats, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	var stats models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/reports/dashboard", query, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SalesReport fetches the filtered sales breakdown.
func (c *Client) SalesReport(ctx context.Context, f SaleFilters) (*models.SalesReport, error) {
	var report models.SalesReport
	if err := c.do(ctx, http.MethodGet, "/reports/sales", f.query(), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ProductPerformance fetches per-product sales figures.
func (c *Client) ProductPerformance(ctx context.Context, f SaleFilters) ([]models.ProductPerformanceRow, error) {
	var rows []models.ProductPerformanceRow
	if err := c.do(ctx, http.MethodGet, "/reports/products", f.query(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueStats fetches the headline revenue figures.
func (c *Client) RevenueStats(ctx context.Context) (*models.RevenueStats, error) {
	var stats models.RevenueStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/revenue-stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TopProducts fetches the best-selling products, at most limit entries.
func (c *Client) TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var products []models.TopProduct
	if err := c.do(ctx, http.MethodGet, "/dashboard/top-products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// StockAlerts fetches the products at or below their restock threshold.
func (c *Client) StockAlerts(ctx context.Context) ([]models.StockAlert, error) {
	var alerts []models.StockAlert
	if err := c.do(ctx, http.MethodGet, "/dashboard/stock-alerts", nil, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
