package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

type TicketHandler struct {
	admission *services.AdmissionService
	pricing   *services.PricingService
}

func NewTicketHandler(admission *services.AdmissionService, pricing *services.PricingService) *TicketHandler {
	return &TicketHandler{admission: admission, pricing: pricing}
}

func (h *TicketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	attendeeID, err := strconv.ParseInt(chi.URLParam(r, "attendeeID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attendee id"})
		return
	}

	resp, err := h.pricing.Price(r.Context(), attendeeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *TicketHandler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AttendeeID int64 `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.admission.IssueTicket(r.Context(), req.AttendeeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ticket)
}

func (h *TicketHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req services.AdmitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.admission.Admit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	if resp.Status == domain.AdmissionInvalid {
		writeJSON(w, http.StatusNotFound, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *TicketHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token     string `json:"qr_code"`
		ScannerID int64  `json:"scanner_id"`
		Paid      bool   `json:"paid"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if !req.Paid {
		writeJSON(w, http.StatusOK, services.ConfirmPaymentResponse{Token: req.Token})
		return
	}

	resp, err := h.admission.ConfirmPayment(r.Context(), req.Token, req.ScannerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
