package gateway

import (
	"context"
	"net/http"

	"pos-console/models"
)

// PricePromotion asks the upstream promotion engine to price a promotion
// against the current cart items. The returned promotion carries the
// amount to subtract; eligibility and computation live entirely upstream.
func (c *Client) PricePromotion(ctx context.Context, promotionID string, items []models.SaleItem) (*models.Promotion, error) {
	body := map[string]interface{}{"items": items}
	var payload struct {
		Promotion models.Promotion `json:"promotion"`
	}
	if err := c.do(ctx, http.MethodPost, "/promotions/"+promotionID+"/calculate", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload.Promotion, nil
}
