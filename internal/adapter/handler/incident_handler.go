package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

type IncidentHandler struct {
	incidents *services.IncidentService
}

func NewIncidentHandler(incidents *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

func incidentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "incidentID"), 10, 64)
	return id, err == nil
}

func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	status := domain.IncidentStatus(r.URL.Query().Get("status"))
	if status == "all" {
		status = ""
	} else if status == "" {
		status = domain.IncidentOpen
	}

	incidents, err := h.incidents.ListIncidents(r.Context(), status, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incidents)
}

func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	incident, err := h.incidents.GetIncident(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incident)
}

func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateIncidentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	incident, err := h.incidents.CreateIncident(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, incident)
}

func (h *IncidentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	var req struct {
		UserIDs []int64 `json:"user_ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	incident, err := h.incidents.Assign(r.Context(), id, req.UserIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incident)
}

func (h *IncidentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	incident, err := h.incidents.Unassign(r.Context(), id, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incident)
}

func (h *IncidentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	incident, err := h.incidents.UpdateStatus(r.Context(), id, domain.IncidentStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incident)
}

func (h *IncidentHandler) UpdatePeopleAvailable(w http.ResponseWriter, r *http.Request) {
	id, ok := incidentID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid incident id"})
		return
	}

	var req struct {
		PeopleAvailable int `json:"people_available"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	incident, err := h.incidents.UpdatePeopleAvailable(r.Context(), id, req.PeopleAvailable)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incident)
}
