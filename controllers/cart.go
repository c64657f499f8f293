package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"pos-console/cart"
	"pos-console/gateway"
	"pos-console/middleware"
	"pos-console/models"
	"pos-console/utils"
)

// CartController owns the per-user cart sessions. Mutations go through
// the cart engine and the result is persisted back to the session store,
// so a page reload or a new console session picks up the in-progress
// cart. Failed operations never touch the stored state.
type CartController struct {
	Sessions     SessionStore
	Gateway      *gateway.Client
	EmailService *utils.EmailService
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client, gw *gateway.Client, emailService *utils.EmailService) *CartController {
	return &CartController{
		Sessions:     NewMongoSessionStore(client),
		Gateway:      gw,
		EmailService: emailService,
	}
}

// loadCart restores the user's cart from its stored snapshot. A missing
// or unreadable snapshot yields a fresh empty cart rather than an error.
func (cc *CartController) loadCart(ctx context.Context, email string) *cart.Cart {
	raw, err := cc.Sessions.Load(ctx, email)
	if err != nil {
		return cart.New()
	}
	var snap models.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("Dropping unreadable cart snapshot for %s: %v", email, err)
		return cart.New()
	}
	return cart.Restore(snap)
}

func (cc *CartController) saveCart(ctx context.Context, email string, c *cart.Cart) error {
	raw, err := json.Marshal(c.Snapshot())
	if err != nil {
		return err
	}
	return cc.Sessions.Save(ctx, email, string(raw))
}

func (cc *CartController) deleteCart(ctx context.Context, email string) error {
	return cc.Sessions.Delete(ctx, email)
}

// respondCart writes the full cart view the console renders from.
func respondCart(w http.ResponseWriter, c *cart.Cart) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lines":      c.Lines(),
		"customerId": c.CustomerID(),
		"promotions": c.Promotions(),
		"taxRate":    c.TaxRate(),
		"totals":     c.Totals(),
	})
}

func userClaims(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	return claims, ok
}

// GetCart returns the user's current cart, restoring it if needed.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	respondCart(w, cc.loadCart(ctx, claims.Email))
}

// AddItem adds a product to the cart, fetching it from the upstream
// catalog first so the line carries the current price.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		BatchID   string `json:"batchId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := cc.Gateway.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	if _, err := c.AddLine(*product, req.VariantID, req.BatchID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// UpdateItemQuantity sets a line's quantity; zero removes the line.
func (cc *CartController) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	if err := c.UpdateLineQuantity(mux.Vars(r)["lineId"], req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// UpdateItemDiscount sets a line-level discount amount.
func (cc *CartController) UpdateItemDiscount(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		DiscountAmount decimal.Decimal `json:"discountAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	if err := c.UpdateLineDiscount(mux.Vars(r)["lineId"], req.DiscountAmount); err != nil {
		writeError(w, err)
		return
	}
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// RemoveItem removes a cart line; removing an absent line succeeds.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	c.RemoveLine(mux.Vars(r)["lineId"])
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// SetCustomer attaches or detaches the cart's customer reference.
func (cc *CartController) SetCustomer(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		CustomerID string `json:"customerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	c.SetCustomer(req.CustomerID)
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// SetTaxRate sets the cart tax rate percentage.
func (cc *CartController) SetTaxRate(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		TaxRate decimal.Decimal `json:"taxRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	if err := c.SetTaxRate(req.TaxRate); err != nil {
		writeError(w, err)
		return
	}
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// ApplyPromotion asks the upstream promotion engine to price the
// promotion against the current cart, then applies the returned amount.
func (cc *CartController) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)

	items := make([]models.SaleItem, 0, len(c.Lines()))
	for _, line := range c.Lines() {
		items = append(items, models.SaleItem{
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			BatchID:        line.BatchID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
			Subtotal:       line.Subtotal,
			Total:          line.Total,
		})
	}

	promotion, err := cc.Gateway.PricePromotion(r.Context(), mux.Vars(r)["promotionId"], items)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.ApplyPromotion(*promotion); err != nil {
		writeError(w, err)
		return
	}
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// RemovePromotion removes an applied promotion from the cart.
func (cc *CartController) RemovePromotion(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)
	c.RemovePromotion(mux.Vars(r)["promotionId"])
	if err := cc.saveCart(ctx, claims.Email, c); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, c)
}

// ClearCart discards the user's in-progress cart.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.deleteCart(ctx, claims.Email); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}
	respondCart(w, cart.New())
}

// Checkout snapshots the cart as a SaleRecord, persists it through the
// upstream API under the requested status, and only then clears the
// stored cart. A failed remote call leaves the cart exactly as it was.
func (cc *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := userClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Status        string `json:"status"`
		ExpiryDate    string `json:"expiryDate"`
		CustomerEmail string `json:"customerEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	c := cc.loadCart(ctx, claims.Email)

	status := models.SaleStatus(strings.ToUpper(req.Status))
	rec, err := c.ToSaleRecord(status)
	if err != nil {
		writeError(w, err)
		return
	}

	var result *gateway.CheckoutResult
	switch status {
	case models.SaleCompleted:
		result, err = cc.Gateway.CreateSale(r.Context(), rec)
	case models.SalePending:
		result, err = cc.Gateway.CreatePendingSale(r.Context(), rec)
	case models.SaleProforma:
		if _, parseErr := time.Parse("2006-01-02", req.ExpiryDate); parseErr != nil {
			writeError(w, &cart.ValidationError{Field: "expiryDate", Message: "proforma requires an expiry date (YYYY-MM-DD)"})
			return
		}
		rec.ExpiryDate = req.ExpiryDate
		result, err = cc.Gateway.CreateProforma(r.Context(), rec, req.ExpiryDate)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	// The sale is persisted upstream; dropping the session is the clear().
	if err := cc.deleteCart(ctx, claims.Email); err != nil {
		log.Printf("Checkout succeeded but clearing cart for %s failed: %v", claims.Email, err)
	}

	if status == models.SaleProforma && req.CustomerEmail != "" {
		go func(email string, rec models.SaleRecord) {
			if err := cc.EmailService.SendProformaEmail(email, rec); err != nil {
				log.Printf("Failed to send proforma email to %s: %v", email, err)
			}
		}(req.CustomerEmail, rec)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":          result.ID,
		"receiptInfo": result.ReceiptInfo,
		"status":      status,
		"total":       rec.Total,
	})
}
