package models

import (
	"github.com/shopspring/decimal"
)

// ProductVariant is a sellable variation of a product with its own price.
type ProductVariant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Product represents a catalog entry served by the upstream POS API.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	SKU         string           `json:"sku,omitempty"`
	Description string           `json:"description,omitempty"`
	CategoryID  string           `json:"categoryId,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	IsActive    bool             `json:"isActive"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// Category groups catalog products.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
