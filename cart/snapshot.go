package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos-console/models"
)

// Snapshot returns the durable JSON shape of the cart.
func (c *Cart) Snapshot() models.CartSnapshot {
	return models.CartSnapshot{
		Lines:      c.Lines(),
		CustomerID: c.customerID,
		Promotions: c.Promotions(),
		TaxRate:    c.taxRate,
	}
}

// Restore rebuilds a cart from a stored snapshot. Entries that violate
// the cart line invariants are dropped rather than failing the load, so
// a damaged snapshot degrades to a smaller cart instead of losing the
// session. Derived line amounts are recomputed from quantity and unit
// price; the stored values are not trusted.
func Restore(snap models.CartSnapshot) *Cart {
	c := &Cart{customerID: snap.CustomerID}

	for _, line := range snap.Lines {
		if line.ProductID == "" || line.Quantity < 1 || line.UnitPrice.IsNegative() {
			continue
		}
		line.Subtotal = lineSubtotal(line.UnitPrice, line.Quantity)
		if line.DiscountAmount.IsNegative() || line.DiscountAmount.GreaterThan(line.Subtotal) {
			continue
		}
		line.Total = lineTotal(line.Subtotal, line.DiscountAmount)
		if line.ID == "" {
			line.ID = uuid.NewString()
		} else if c.hasLine(line.ID) {
			// a second entry under the same id would make removals and
			// quantity updates by id ambiguous; keep the first
			continue
		}
		c.lines = append(c.lines, line)
	}

	for _, p := range snap.Promotions {
		if p.ID == "" || p.Amount.IsNegative() || c.hasPromotion(p.ID) {
			continue
		}
		switch p.Type {
		case models.PromotionGlobal:
		case models.PromotionLine:
			if !c.hasLine(p.LineID) {
				continue
			}
		default:
			continue
		}
		c.promotions = append(c.promotions, p)
	}

	if !snap.TaxRate.IsNegative() && !snap.TaxRate.GreaterThan(maxTaxRate) {
		c.taxRate = snap.TaxRate
	} else {
		c.taxRate = decimal.Zero
	}

	c.recalculate()
	return c
}

func (c *Cart) hasPromotion(id string) bool {
	for _, p := range c.promotions {
		if p.ID == id {
			return true
		}
	}
	return false
}
