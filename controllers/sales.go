package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pos-console/gateway"
)

// SalesController serves the sale history, pending sales and proforma
// invoices. It is a passthrough over the upstream API: records live
// there, the console only lists, converts and deletes them.
type SalesController struct {
	Gateway *gateway.Client
}

// NewSalesController creates a new SalesController
func NewSalesController(gw *gateway.Client) *SalesController {
	return &SalesController{Gateway: gw}
}

func parseSaleFilters(r *http.Request) gateway.SaleFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return gateway.SaleFilters{
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Status:     q.Get("status"),
		SearchTerm: q.Get("searchTerm"),
		Page:       page,
		Limit:      limit,
	}
}

// GetSales lists completed sales matching the query filters.
func (sc *SalesController) GetSales(w http.ResponseWriter, r *http.Request) {
	list, err := sc.Gateway.ListSales(r.Context(), parseSaleFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetSaleByID returns one sale record.
func (sc *SalesController) GetSaleByID(w http.ResponseWriter, r *http.Request) {
	rec, err := sc.Gateway.SaleByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// GetPendingSales lists parked sales.
func (sc *SalesController) GetPendingSales(w http.ResponseWriter, r *http.Request) {
	list, err := sc.Gateway.PendingSales(r.Context(), parseSaleFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetProformas lists proforma invoices.
func (sc *SalesController) GetProformas(w http.ResponseWriter, r *http.Request) {
	list, err := sc.Gateway.Proformas(r.Context(), parseSaleFilters(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// ConvertSale turns a pending sale or proforma into a completed sale.
func (sc *SalesController) ConvertSale(w http.ResponseWriter, r *http.Request) {
	rec, err := sc.Gateway.ConvertToSale(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// DeletePendingSale discards a parked sale.
func (sc *SalesController) DeletePendingSale(w http.ResponseWriter, r *http.Request) {
	if err := sc.Gateway.DeletePendingSale(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Pending sale deleted"})
}

// DeleteProforma discards a proforma invoice.
func (sc *SalesController) DeleteProforma(w http.ResponseWriter, r *http.Request) {
	if err := sc.Gateway.DeleteProforma(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Proforma invoice deleted"})
}
