package gateway

import (
	"context"
	"net/http"
	"net/url"

	"pos-console/models"
)

// Products fetches the full product catalog.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts fetches the products matching a search term.
func (c *Client) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	query := url.Values{"search": {term}}
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID fetches a single product.
func (c *Client) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a product to the upstream catalog.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces an existing product.
func (c *Client) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+p.ID, nil, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product from the upstream catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil)
}

// Categories fetches all product categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, cat, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory replaces an existing category.
func (c *Client) UpdateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var updated models.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+cat.ID, nil, cat, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil, nil)
}
