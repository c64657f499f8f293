package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"pos-console/models"
)

// SaleFilters narrow the sale listing endpoints. Zero values are omitted
// from the query string.
type SaleFilters struct {
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Status     string
	SearchTerm string
	Page       int
	Limit      int
}

func (f SaleFilters) query() url.Values {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.SearchTerm != "" {
		q.Set("searchTerm", f.SearchTerm)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// SaleList is a page of sale records plus the unpaged total.
type SaleList struct {
	Sales []models.SaleRecord `json:"sales"`
	Total int                 `json:"total"`
}

// CheckoutResult is the upstream acknowledgment of a persisted sale.
type CheckoutResult struct {
	ID          string `json:"id"`
	ReceiptInfo string `json:"receiptInfo,omitempty"`
}

// CreateSale persists a completed sale.
func (c *Client) CreateSale(ctx context.Context, rec models.SaleRecord) (*CheckoutResult, error) {
	var result CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/sales", nil, rec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePendingSale parks a sale to be completed later.
func (c *Client) CreatePendingSale(ctx context.Context, rec models.SaleRecord) (*CheckoutResult, error) {
	var result CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/sales/pending", nil, rec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProforma persists a proforma invoice with its expiry date.
func (c *Client) CreateProforma(ctx context.Context, rec models.SaleRecord, expiryDate string) (*CheckoutResult, error) {
	rec.ExpiryDate = expiryDate
	var result CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/sales/proforma", nil, rec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConvertToSale turns a pending sale or proforma invoice into a
// completed sale and returns the updated record.
func (c *Client) ConvertToSale(ctx context.Context, id string) (*models.SaleRecord, error) {
	var rec models.SaleRecord
	if err := c.do(ctx, http.MethodPost, "/sales/"+id+"/convert", nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSales fetches completed sales matching the filters.
func (c *Client) ListSales(ctx context.Context, f SaleFilters) (*SaleList, error) {
	var list SaleList
	if err := c.do(ctx, http.MethodGet, "/sales", f.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SaleByID fetches one sale record.
func (c *Client) SaleByID(ctx context.Context, id string) (*models.SaleRecord, error) {
	var rec models.SaleRecord
	if err := c.do(ctx, http.MethodGet, "/sales/"+id, nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PendingSales fetches parked sales matching the filters.
func (c *Client) PendingSales(ctx context.Context, f SaleFilters) (*SaleList, error) {
	var list SaleList
	if err := c.do(ctx, http.MethodGet, "/sales/pending", f.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Proformas fetches proforma invoices matching the filters.
func (c *Client) Proformas(ctx context.Context, f SaleFilters) (*SaleList, error) {
	var list SaleList
	if err := c.do(ctx, http.MethodGet, "/sales/proforma", f.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeletePendingSale discards a parked sale.
func (c *Client) DeletePendingSale(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sales/pending/"+id, nil, nil, nil)
}

// DeleteProforma discards a proforma invoice.
func (c *Client) DeleteProforma(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sales/proforma/"+id, nil, nil, nil)
}
