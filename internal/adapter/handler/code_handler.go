package handler

import (
	"net/http"
	"time"

	"github.com/bbarni2020/Event-Pyramide/internal/core/ports"
)

// CodeHandler exposes the one-time code store to the identity layer, which
// delivers the codes out of band and checks them back during login.
type CodeHandler struct {
	store ports.CodeStore
	ttl   time.Duration
}

func NewCodeHandler(store ports.CodeStore, ttl time.Duration) *CodeHandler {
	return &CodeHandler{store: store, ttl: ttl}
}

func (h *CodeHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and code are required"})
		return
	}

	if err := h.store.Put(r.Context(), req.Username, req.Code, h.ttl); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"stored": true})
}

func (h *CodeHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := h.store.CheckAndRemove(r.Context(), req.Username, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": ok})
}
