package models

import (
	"github.com/shopspring/decimal"
)

// DashboardStats summarizes sales activity for one period.
type DashboardStats struct {
	Period        string          `json:"period"`
	SalesCount    int             `json:"salesCount"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageBasket decimal.Decimal `json:"averageBasket"`
	PendingCount  int             `json:"pendingCount"`
	ProformaCount int             `json:"proformaCount"`
}

// SalesReportRow aggregates the sales of one day.
type SalesReportRow struct {
	Date           string          `json:"date"`
	SalesCount     int             `json:"salesCount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// SalesReport is the filtered sales breakdown served by the upstream API.
type SalesReport struct {
	Rows  []SalesReportRow `json:"rows"`
	Total decimal.Decimal  `json:"total"`
}

// ProductPerformanceRow ranks one product by units sold and revenue.
type ProductPerformanceRow struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// RevenueStats are the headline revenue figures of the dashboard.
type RevenueStats struct {
	Today     decimal.Decimal `json:"today"`
	ThisWeek  decimal.Decimal `json:"thisWeek"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
}

// TopProduct is one entry of the best-sellers widget.
type TopProduct struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	QuantitySold int    `json:"quantitySold"`
}

// StockAlert flags a product at or below its restock threshold.
type StockAlert struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}
