package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mahek9015/community-learning-hub/internal/api/httpx"
	"github.com/mahek9015/community-learning-hub/internal/middleware"
	"github.com/mahek9015/community-learning-hub/internal/models"
	"github.com/mahek9015/community-learning-hub/internal/services"
)

type ContentHandler struct {
	contents *services.ContentService
	gate     *services.GateService
}

func NewContentHandler(cs *services.ContentService, gs *services.GateService) *ContentHandler {
	return &ContentHandler{contents: cs, gate: gs}
}

func (h *ContentHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	p, err := h.contents.Feed(r.Context(), models.ContentFilter{}, page, size)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	f := models.ContentFilter{
		Query:    r.URL.Query().Get("query"),
		Category: r.URL.Query().Get("category"),
		Source:   models.ContentSource(r.URL.Query().Get("source")),
	}
	p, err := h.contents.Feed(r.Context(), f, page, size)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.contents.Save(r.Context(), uid, chi.URLParam(r, "contentID")); err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "content saved successfully"})
}

func (h *ContentHandler) Saved(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	items, err := h.contents.Saved(r.Context(), uid)
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *ContentHandler) Report(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "reason is required", nil)
		return
	}
	if err := h.contents.Report(r.Context(), uid, chi.URLParam(r, "contentID"), req.Reason); err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "content reported successfully"})
}

// Eligibility answers whether the caller could unlock the item right now,
// without charging.
func (h *ContentHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	d, err := h.gate.CanUnlock(r.Context(), uid, chi.URLParam(r, "contentID"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *ContentHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	t, err := h.gate.Unlock(r.Context(), uid, chi.URLParam(r, "contentID"))
	if err != nil {
		httpx.WriteDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "premium content unlocked successfully",
		"transaction": t,
	})
}
