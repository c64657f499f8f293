package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"pos-console/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, price string) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: dec(price), Stock: 100, IsActive: true}
}

func mustAdd(t *testing.T, c *Cart, p models.Product, qty int) models.CartLine {
	t.Helper()
	line, err := c.AddLine(p, "", "", qty)
	if err != nil {
		t.Fatalf("add %s x%d: %v", p.ID, qty, err)
	}
	return line
}

func wantAmount(t *testing.T, got, want decimal.Decimal, what string) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %s, want %s", what, got, want)
	}
}

func TestSubtotalTracksLines(t *testing.T) {
	c := New()
	mustAdd(t, c, product("a", "100"), 2)
	wantAmount(t, c.Totals().Subtotal, dec("200"), "subtotal after A")

	b := mustAdd(t, c, product("b", "50"), 1)
	wantAmount(t, c.Totals().Subtotal, dec("250"), "subtotal after B")

	c.RemoveLine(b.ID)
	wantAmount(t, c.Totals().Subtotal, dec("200"), "subtotal after removing B")

	sum := decimal.Zero
	for _, line := range c.Lines() {
		sum = sum.Add(line.Subtotal)
	}
	wantAmount(t, c.Totals().Subtotal, sum, "subtotal vs line sum")
}

func TestAddLineMergesSameProduct(t *testing.T) {
	c := New()
	first := mustAdd(t, c, product("a", "100"), 2)
	second := mustAdd(t, c, product("a", "100"), 3)

	if first.ID != second.ID {
		t.Fatalf("expected the same line, got %s and %s", first.ID, second.ID)
	}
	if len(c.Lines()) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines()))
	}
	if got := c.Lines()[0].Quantity; got != 5 {
		t.Fatalf("quantity = %d, want 5", got)
	}
	wantAmount(t, c.Totals().Subtotal, dec("500"), "merged subtotal")
}

func TestAddLineKeepsVariantsAndBatchesApart(t *testing.T) {
	p := product("a", "100")
	p.Variants = []models.ProductVariant{{ID: "v1", Name: "Large", Price: dec("120")}}

	c := New()
	if _, err := c.AddLine(p, "", "", 1); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if _, err := c.AddLine(p, "v1", "", 1); err != nil {
		t.Fatalf("add variant: %v", err)
	}
	if _, err := c.AddLine(p, "v1", "batch-7", 1); err != nil {
		t.Fatalf("add batch: %v", err)
	}
	if len(c.Lines()) != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", len(c.Lines()))
	}
	wantAmount(t, c.Totals().Subtotal, dec("340"), "subtotal across variants")
}

func TestAddLineRejectsBadQuantity(t *testing.T) {
	c := New()
	mustAdd(t, c, product("a", "100"), 1)
	before := c.Totals()

	_, err := c.AddLine(product("b", "50"), "", "", 0)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Field != "quantity" {
		t.Fatalf("field = %q, want quantity", validation.Field)
	}
	if len(c.Lines()) != 1 {
		t.Fatalf("rejected add changed the cart: %d lines", len(c.Lines()))
	}
	wantAmount(t, c.Totals().Total, before.Total, "total after rejected add")
}

func TestAddLineUnknownVariant(t *testing.T) {
	c := New()
	_, err := c.AddLine(product("a", "100"), "missing", "", 1)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "variantId" {
		t.Fatalf("expected variantId ValidationError, got %v", err)
	}
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	c := New()
	mustAdd(t, c, product("a", "100"), 2)
	b := mustAdd(t, c, product("b", "50"), 1)

	if err := c.UpdateLineQuantity(b.ID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(c.Lines()) != 1 {
		t.Fatalf("expected B removed, got %d lines", len(c.Lines()))
	}
	wantAmount(t, c.Totals().Subtotal, dec("200"), "subtotal after drop")
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	c := New()
	mustAdd(t, c, product("a", "100"), 2)
	c.RemoveLine("nope")
	if len(c.Lines()) != 1 {
		t.Fatalf("no-op removal changed the cart")
	}
}

func TestUpdateLineDiscountBounds(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "100"), 2)

	if err := c.UpdateLineDiscount(a.ID, dec("250")); err == nil {
		t.Fatal("expected discount above subtotal to be rejected")
	}
	if err := c.UpdateLineDiscount(a.ID, dec("-1")); err == nil {
		t.Fatal("expected negative discount to be rejected")
	}
	line := c.Lines()[0]
	wantAmount(t, line.DiscountAmount, decimal.Zero, "discount after rejections")
	wantAmount(t, line.Total, dec("200"), "line total after rejections")

	if err := c.UpdateLineDiscount(a.ID, dec("20")); err != nil {
		t.Fatalf("valid discount: %v", err)
	}
	wantAmount(t, c.Lines()[0].Total, dec("180"), "line total with discount")
}

func TestDiscountAndTaxScenario(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "100"), 2)
	mustAdd(t, c, product("b", "50"), 1)
	wantAmount(t, c.Totals().Subtotal, dec("250"), "subtotal")

	if err := c.UpdateLineDiscount(a.ID, dec("20")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	totals := c.Totals()
	wantAmount(t, totals.Subtotal, dec("250"), "subtotal unchanged by discount")
	wantAmount(t, totals.DiscountAmount, dec("20"), "discount")
	wantAmount(t, totals.Total, dec("230"), "total at 0% tax")

	// Tax applies to the gross subtotal, before the discount.
	if err := c.SetTaxRate(dec("10")); err != nil {
		t.Fatalf("tax rate: %v", err)
	}
	totals = c.Totals()
	wantAmount(t, totals.Tax, dec("25"), "tax")
	wantAmount(t, totals.Total, dec("255"), "total with tax")
}

func TestRecalculateIsIdempotent(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "33.33"), 3)
	if err := c.UpdateLineDiscount(a.ID, dec("9.99")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if err := c.SetTaxRate(dec("7.5")); err != nil {
		t.Fatalf("tax rate: %v", err)
	}

	first := c.Recalculate()
	for i := 0; i < 5; i++ {
		again := c.Recalculate()
		if again.Subtotal.String() != first.Subtotal.String() ||
			again.DiscountAmount.String() != first.DiscountAmount.String() ||
			again.Tax.String() != first.Tax.String() ||
			again.Total.String() != first.Total.String() {
			t.Fatalf("recalculate drifted on pass %d: %+v vs %+v", i+1, again, first)
		}
	}
}

func TestPromotions(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "100"), 2)

	if err := c.ApplyPromotion(models.Promotion{ID: "p1", Type: models.PromotionGlobal, Amount: dec("15")}); err != nil {
		t.Fatalf("global promotion: %v", err)
	}
	wantAmount(t, c.Totals().DiscountAmount, dec("15"), "discount with global promo")
	wantAmount(t, c.Totals().Total, dec("185"), "total with global promo")

	if err := c.ApplyPromotion(models.Promotion{ID: "p1", Type: models.PromotionGlobal, Amount: dec("15")}); err == nil {
		t.Fatal("expected duplicate promotion to be rejected")
	}
	if err := c.ApplyPromotion(models.Promotion{ID: "p2", Type: models.PromotionLine, LineID: "ghost", Amount: dec("5")}); err == nil {
		t.Fatal("expected line promotion on unknown line to be rejected")
	}
	if err := c.ApplyPromotion(models.Promotion{ID: "p3", Type: "MYSTERY", Amount: dec("5")}); err == nil {
		t.Fatal("expected unknown promotion type to be rejected")
	}

	if err := c.ApplyPromotion(models.Promotion{ID: "p4", Type: models.PromotionLine, LineID: a.ID, Amount: dec("10")}); err != nil {
		t.Fatalf("line promotion: %v", err)
	}
	wantAmount(t, c.Totals().DiscountAmount, dec("25"), "discount with both promos")

	c.RemovePromotion("p1")
	wantAmount(t, c.Totals().DiscountAmount, dec("10"), "discount after removal")
	c.RemovePromotion("p1") // absent now, must be a no-op
	wantAmount(t, c.Totals().DiscountAmount, dec("10"), "discount after no-op removal")
}

func TestSetTaxRateBounds(t *testing.T) {
	c := New()
	if err := c.SetTaxRate(dec("-0.5")); err == nil {
		t.Fatal("expected negative rate to be rejected")
	}
	if err := c.SetTaxRate(dec("100.01")); err == nil {
		t.Fatal("expected rate above 100 to be rejected")
	}
	if err := c.SetTaxRate(dec("100")); err != nil {
		t.Fatalf("rate 100 should be accepted: %v", err)
	}
}

func TestClear(t *testing.T) {
	c := New()
	mustAdd(t, c, product("a", "100"), 2)
	c.SetCustomer("cust-1")
	if err := c.ApplyPromotion(models.Promotion{ID: "p1", Type: models.PromotionGlobal, Amount: dec("5")}); err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if err := c.SetTaxRate(dec("18")); err != nil {
		t.Fatalf("tax rate: %v", err)
	}

	c.Clear()
	if !c.IsEmpty() || c.CustomerID() != "" || len(c.Promotions()) != 0 {
		t.Fatal("clear left state behind")
	}
	wantAmount(t, c.TaxRate(), decimal.Zero, "tax rate after clear")
	totals := c.Totals()
	wantAmount(t, totals.Subtotal, decimal.Zero, "subtotal after clear")
	wantAmount(t, totals.Total, decimal.Zero, "total after clear")
}

func TestToSaleRecordRoundTrip(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "100"), 2)
	mustAdd(t, c, product("b", "50"), 3)
	if err := c.UpdateLineDiscount(a.ID, dec("20")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if err := c.SetTaxRate(dec("10")); err != nil {
		t.Fatalf("tax rate: %v", err)
	}
	c.SetCustomer("cust-9")

	rec, err := c.ToSaleRecord(models.SalePending)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if rec.Status != models.SalePending || rec.CustomerID != "cust-9" {
		t.Fatalf("record header mismatch: %+v", rec)
	}

	itemTotal := decimal.Zero
	for _, item := range rec.Items {
		itemTotal = itemTotal.Add(item.Total)
	}
	// item totals are net of line discounts; adding tax back gives the grand total
	wantAmount(t, itemTotal.Add(rec.Tax), c.Totals().Total, "items + tax vs cart total")
	wantAmount(t, rec.Total, c.Totals().Total, "record total vs cart total")

	// the record is a snapshot: later cart mutations must not leak into it
	mustAdd(t, c, product("c", "10"), 1)
	if len(rec.Items) != 2 {
		t.Fatalf("snapshot grew with the cart: %d items", len(rec.Items))
	}
	wantAmount(t, rec.Subtotal, dec("350"), "snapshot subtotal")
}

func TestToSaleRecordRejectsEmptyCartAndBadStatus(t *testing.T) {
	c := New()
	if _, err := c.ToSaleRecord(models.SaleCompleted); err == nil {
		t.Fatal("expected empty cart to be rejected")
	}
	mustAdd(t, c, product("a", "100"), 1)
	if _, err := c.ToSaleRecord("SHIPPED"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestQuantityShrinkClampsDiscount(t *testing.T) {
	c := New()
	a := mustAdd(t, c, product("a", "100"), 3)
	if err := c.UpdateLineDiscount(a.ID, dec("250")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if err := c.UpdateLineQuantity(a.ID, 1); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	line := c.Lines()[0]
	wantAmount(t, line.DiscountAmount, dec("100"), "clamped discount")
	wantAmount(t, line.Total, decimal.Zero, "line total stays non-negative")
}
