package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle tag of a finalized sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SalePending   SaleStatus = "PENDING"
	SaleProforma  SaleStatus = "PROFORMA"
)

// SaleItem is one line of a finalized sale.
type SaleItem struct {
	ProductID      string          `json:"productId"`
	VariantID      string          `json:"variantId,omitempty"`
	BatchID        string          `json:"batchId,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
}

// SaleRecord is the immutable snapshot produced by checking out a cart.
// ID is empty until the upstream API has persisted the sale. The only
// mutation a record ever sees is the PENDING/PROFORMA -> COMPLETED
// status transition performed by the upstream convert operation.
type SaleRecord struct {
	ID             string          `json:"id,omitempty"`
	CustomerID     string          `json:"customerId,omitempty"`
	Items          []SaleItem      `json:"items"`
	Promotions     []string        `json:"promotions"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Status         SaleStatus      `json:"status"`
	ExpiryDate     string          `json:"expiryDate,omitempty"` // proforma only, YYYY-MM-DD
	CreatedAt      time.Time       `json:"createdAt"`
}
