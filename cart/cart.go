// Package cart holds the in-progress sale for one console session and
// recomputes its totals on every mutation. It performs no I/O; loading
// and persisting a cart is the caller's concern.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos-console/models"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxTaxRate = decimal.NewFromInt(100)
)

// Cart is the single in-progress sale being assembled by a cashier.
// Every mutating method validates first and applies second, so a failed
// call leaves the cart untouched. Cart is not safe for concurrent use;
// each session owns exactly one.
type Cart struct {
	lines      []models.CartLine
	customerID string
	promotions []models.Promotion
	taxRate    decimal.Decimal
	totals     models.CartTotals
}

// New returns an empty cart with a zero tax rate.
func New() *Cart {
	c := &Cart{}
	c.recalculate()
	return c
}

// AddLine adds a product to the cart. When a line for the same
// product/variant/batch combination already exists its quantity is
// incremented instead of creating a duplicate. The returned line is the
// one created or updated.
func (c *Cart) AddLine(product models.Product, variantID, batchID string, quantity int) (models.CartLine, error) {
	if quantity < 1 {
		return models.CartLine{}, errField("quantity", "must be at least 1, got %d", quantity)
	}

	unitPrice := product.Price
	if variantID != "" {
		found := false
		for _, v := range product.Variants {
			if v.ID == variantID {
				unitPrice = v.Price
				found = true
				break
			}
		}
		if !found {
			return models.CartLine{}, errField("variantId", "product %s has no variant %s", product.ID, variantID)
		}
	}
	if unitPrice.IsNegative() {
		return models.CartLine{}, errField("unitPrice", "must not be negative")
	}

	for i, line := range c.lines {
		if line.ProductID == product.ID && line.VariantID == variantID && line.BatchID == batchID {
			c.setQuantity(i, line.Quantity+quantity)
			c.recalculate()
			return c.lines[i], nil
		}
	}

	line := models.CartLine{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		VariantID:      variantID,
		BatchID:        batchID,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountAmount: decimal.Zero,
	}
	line.Subtotal = lineSubtotal(unitPrice, quantity)
	line.Total = lineTotal(line.Subtotal, line.DiscountAmount)
	c.lines = append(c.lines, line)
	c.recalculate()
	return line, nil
}

// RemoveLine removes the line with the given id. Removing an absent line
// is a no-op, not an error.
func (c *Cart) RemoveLine(lineID string) {
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recalculate()
			return
		}
	}
}

// UpdateLineQuantity sets a line's quantity. A quantity of zero or less
// removes the line entirely; a non-positive quantity is never stored.
func (c *Cart) UpdateLineQuantity(lineID string, quantity int) error {
	if quantity <= 0 {
		c.RemoveLine(lineID)
		return nil
	}
	for i, line := range c.lines {
		if line.ID == lineID {
			c.setQuantity(i, quantity)
			c.recalculate()
			return nil
		}
	}
	return errField("lineId", "no line %s in cart", lineID)
}

// UpdateLineDiscount sets a line-level discount, an absolute amount in
// the range [0, line subtotal].
func (c *Cart) UpdateLineDiscount(lineID string, amount decimal.Decimal) error {
	for i, line := range c.lines {
		if line.ID != lineID {
			continue
		}
		if amount.IsNegative() {
			return errField("discountAmount", "must not be negative")
		}
		if amount.GreaterThan(line.Subtotal) {
			return errField("discountAmount", "%s exceeds line subtotal %s", amount, line.Subtotal)
		}
		c.lines[i].DiscountAmount = amount
		c.lines[i].Total = lineTotal(line.Subtotal, amount)
		c.recalculate()
		return nil
	}
	return errField("lineId", "no line %s in cart", lineID)
}

// ApplyPromotion appends a promotion priced by the upstream engine.
// Eligibility is not checked here; only the shape is validated.
func (c *Cart) ApplyPromotion(p models.Promotion) error {
	if p.ID == "" {
		return errField("id", "promotion id is required")
	}
	if p.Amount.IsNegative() {
		return errField("amount", "must not be negative")
	}
	for _, applied := range c.promotions {
		if applied.ID == p.ID {
			return errField("id", "promotion %s already applied", p.ID)
		}
	}
	switch p.Type {
	case models.PromotionGlobal:
	case models.PromotionLine:
		if !c.hasLine(p.LineID) {
			return errField("lineId", "promotion targets unknown line %s", p.LineID)
		}
	default:
		return errField("type", "unknown promotion type %q", p.Type)
	}
	c.promotions = append(c.promotions, p)
	c.recalculate()
	return nil
}

// RemovePromotion removes an applied promotion by id; absent ids are a no-op.
func (c *Cart) RemovePromotion(id string) {
	for i, p := range c.promotions {
		if p.ID == id {
			c.promotions = append(c.promotions[:i], c.promotions[i+1:]...)
			c.recalculate()
			return
		}
	}
}

// SetTaxRate sets the cart tax rate as a percentage in [0, 100].
func (c *Cart) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return errField("taxRate", "%s is outside [0, 100]", rate)
	}
	c.taxRate = rate
	c.recalculate()
	return nil
}

// SetCustomer attaches a customer reference; an empty id detaches it.
func (c *Cart) SetCustomer(customerID string) {
	c.customerID = customerID
}

// Clear resets the cart to its initial empty state.
func (c *Cart) Clear() {
	c.lines = nil
	c.customerID = ""
	c.promotions = nil
	c.taxRate = decimal.Zero
	c.recalculate()
}

// Recalculate recomputes and returns the derived totals. It is
// deterministic and idempotent: without an intervening mutation,
// repeated calls yield identical totals.
func (c *Cart) Recalculate() models.CartTotals {
	c.recalculate()
	return c.totals
}

// ToSaleRecord produces an immutable snapshot of the cart with the given
// status. The cart itself is not cleared; the caller decides that after
// the record has been persisted remotely.
func (c *Cart) ToSaleRecord(status models.SaleStatus) (models.SaleRecord, error) {
	switch status {
	case models.SaleCompleted, models.SalePending, models.SaleProforma:
	default:
		return models.SaleRecord{}, errField("status", "unknown sale status %q", status)
	}
	if len(c.lines) == 0 {
		return models.SaleRecord{}, errField("lines", "cart is empty")
	}

	items := make([]models.SaleItem, len(c.lines))
	for i, line := range c.lines {
		items[i] = models.SaleItem{
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			BatchID:        line.BatchID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
			Subtotal:       line.Subtotal,
			Total:          line.Total,
		}
	}
	promotions := make([]string, len(c.promotions))
	for i, p := range c.promotions {
		promotions[i] = p.ID
	}
	return models.SaleRecord{
		CustomerID:     c.customerID,
		Items:          items,
		Promotions:     promotions,
		Subtotal:       c.totals.Subtotal,
		DiscountAmount: c.totals.DiscountAmount,
		Tax:            c.totals.Tax,
		Total:          c.totals.Total,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Promotions returns a copy of the applied promotions.
func (c *Cart) Promotions() []models.Promotion {
	out := make([]models.Promotion, len(c.promotions))
	copy(out, c.promotions)
	return out
}

// Totals returns the current derived totals.
func (c *Cart) Totals() models.CartTotals { return c.totals }

// CustomerID returns the attached customer reference, if any.
func (c *Cart) CustomerID() string { return c.customerID }

// TaxRate returns the cart tax rate percentage.
func (c *Cart) TaxRate() decimal.Decimal { return c.taxRate }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// setQuantity updates line i in place. A shrinking subtotal clamps the
// line discount so the line total never goes negative.
func (c *Cart) setQuantity(i, quantity int) {
	line := &c.lines[i]
	line.Quantity = quantity
	line.Subtotal = lineSubtotal(line.UnitPrice, quantity)
	if line.DiscountAmount.GreaterThan(line.Subtotal) {
		line.DiscountAmount = line.Subtotal
	}
	line.Total = lineTotal(line.Subtotal, line.DiscountAmount)
}

func (c *Cart) hasLine(lineID string) bool {
	for _, line := range c.lines {
		if line.ID == lineID {
			return true
		}
	}
	return false
}

// recalculate derives the cart totals from the lines, promotions and tax
// rate. Tax applies to the gross subtotal before any discount; rounding
// to two decimals happens only here and at line totals, never at
// intermediate steps.
func (c *Cart) recalculate() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Subtotal)
		discount = discount.Add(line.DiscountAmount)
	}
	for _, p := range c.promotions {
		discount = discount.Add(p.Amount)
	}
	tax := subtotal.Mul(c.taxRate).Div(hundred).Round(2)
	c.totals = models.CartTotals{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discount.Round(2),
		Tax:            tax,
		Total:          subtotal.Sub(discount).Add(tax).Round(2),
	}
}

func lineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func lineTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Round(2)
}
