package models

import (
	"github.com/shopspring/decimal"
)

// PromotionType discriminates how a promotion's amount applies.
type PromotionType string

const (
	PromotionGlobal PromotionType = "GLOBAL" // subtracted from the cart total
	PromotionLine   PromotionType = "LINE"   // subtracted against one cart line
)

// Promotion is an applied discount rule. The amount is priced by the
// upstream promotion engine and consumed here as an opaque value; no
// eligibility checks happen on this side.
type Promotion struct {
	ID     string          `bson:"id" json:"id"`
	Type   PromotionType   `bson:"type" json:"type"`
	LineID string          `bson:"line_id,omitempty" json:"lineId,omitempty"`
	Amount decimal.Decimal `bson:"amount" json:"amount"`
}

// CartLine is one product entry in the in-progress cart. The ID is a
// locally generated surrogate, valid only until the sale is persisted.
type CartLine struct {
	ID             string          `bson:"id" json:"id"`
	ProductID      string          `bson:"product_id" json:"productId"`
	VariantID      string          `bson:"variant_id,omitempty" json:"variantId,omitempty"`
	BatchID        string          `bson:"batch_id,omitempty" json:"batchId,omitempty"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `bson:"unit_price" json:"unitPrice"`
	DiscountAmount decimal.Decimal `bson:"discount_amount" json:"discountAmount"`
	Subtotal       decimal.Decimal `bson:"subtotal" json:"subtotal"`
	Total          decimal.Decimal `bson:"total" json:"total"`
}

// CartTotals are the derived cart amounts, recomputed after every mutation.
type CartTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// CartSnapshot is the durable JSON shape of an in-progress cart.
type CartSnapshot struct {
	Lines      []CartLine      `json:"lines"`
	CustomerID string          `json:"customerId,omitempty"`
	Promotions []Promotion     `json:"promotions"`
	TaxRate    decimal.Decimal `json:"taxRate"`
}
