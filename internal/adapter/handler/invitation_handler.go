package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

type InvitationHandler struct {
	invitations *services.InvitationService
}

func NewInvitationHandler(invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviterID     int64  `json:"inviter_id"`
		InviteeHandle string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	edge, err := h.invitations.CreateInvitation(r.Context(), req.InviterID, req.InviteeHandle)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, edge)
}

func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteeHandle string `json:"username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	edge, err := h.invitations.AcceptInvitation(r.Context(), req.InviteeHandle)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edge)
}

func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	inviterID, err := strconv.ParseInt(chi.URLParam(r, "inviterID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid inviter id"})
		return
	}

	edges, err := h.invitations.ListInvitations(r.Context(), inviterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edges)
}
