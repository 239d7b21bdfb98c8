package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

type BarHandler struct {
	bar     *services.BarService
	payouts *services.PayoutService
}

func NewBarHandler(bar *services.BarService, payouts *services.PayoutService) *BarHandler {
	return &BarHandler{bar: bar, payouts: payouts}
}

func (h *BarHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("all") == ""

	items, err := h.bar.ListItems(r.Context(), onlyAvailable)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// ListInventory returns every item regardless of availability, for the
// restock view.
func (h *BarHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.bar.ListItems(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *BarHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.bar.SetStock(r.Context(), itemID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item_id": itemID, "quantity": req.Quantity})
}

func (h *BarHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req services.RecordSaleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sale, err := h.bar.RecordSale(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sale)
}

func (h *BarHandler) OperatorSales(w http.ResponseWriter, r *http.Request) {
	operatorID, err := strconv.ParseInt(chi.URLParam(r, "operatorID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid operator id"})
		return
	}

	sales, err := h.bar.OperatorSales(r.Context(), operatorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

func (h *BarHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.payouts.Balances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

func (h *BarHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	operatorID, err := strconv.ParseInt(chi.URLParam(r, "operatorID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid operator id"})
		return
	}

	outstanding, err := h.payouts.Outstanding(r.Context(), operatorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bartender_id": operatorID, "outstanding": outstanding})
}

func (h *BarHandler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperatorID int64   `json:"bartender_id"`
		Amount     float64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	payout, err := h.payouts.CreatePayout(r.Context(), req.OperatorID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payout)
}
